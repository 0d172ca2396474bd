package attach

import (
	"context"
	"fmt"

	"github.com/rayahealth/intake/internal/form"
)

// Into encodes the file at path and stores it in a File or Files field.
// A full Files field is rejected before the file is read.
func Into(ctx context.Context, s *form.Store, field, path string, rule Rule, enforce bool) error {
	f, ok := s.Schema().Lookup(field)
	if !ok {
		return fmt.Errorf("%w: %s", form.ErrUnknownField, field)
	}
	switch f.Kind {
	case form.File:
	case form.Files:
		if f.MaxFiles > 0 && len(s.Files(field)) >= f.MaxFiles {
			return fmt.Errorf("%w: %s holds at most %d", form.ErrTooManyFiles, field, f.MaxFiles)
		}
	default:
		return fmt.Errorf("%w: %s is %s", form.ErrKindMismatch, field, f.Kind)
	}

	a, err := EncodeFile(ctx, path, rule, enforce)
	if err != nil {
		return err
	}
	if f.Kind == form.File {
		return s.AttachFile(field, a)
	}
	return s.AppendFile(field, a)
}

// IntoAll encodes paths concurrently and appends them to a Files field.
// Nothing is stored unless every file encodes and the batch fits the cap.
func IntoAll(ctx context.Context, s *form.Store, field string, paths []string, rule Rule, enforce bool) error {
	f, ok := s.Schema().Lookup(field)
	if !ok {
		return fmt.Errorf("%w: %s", form.ErrUnknownField, field)
	}
	if f.Kind != form.Files {
		return fmt.Errorf("%w: %s is %s", form.ErrKindMismatch, field, f.Kind)
	}
	if f.MaxFiles > 0 && len(s.Files(field))+len(paths) > f.MaxFiles {
		return fmt.Errorf("%w: %s holds at most %d", form.ErrTooManyFiles, field, f.MaxFiles)
	}

	encoded, err := EncodeAll(ctx, paths, rule, enforce)
	if err != nil {
		return err
	}
	for _, a := range encoded {
		if err := s.AppendFile(field, a); err != nil {
			return err
		}
	}
	return nil
}
