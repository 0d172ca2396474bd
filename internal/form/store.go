package form

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrUnknownField    = errors.New("unknown field")
	ErrKindMismatch    = errors.New("value does not match field kind")
	ErrTooManyFiles    = errors.New("too many files")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Store maps field names to answers plus the current validation errors.
// Every field declared in the schema always has a value.
type Store struct {
	schema Schema
	values map[string]any
	errors map[string]string
}

// NewStore creates a store with every field at its default.
func NewStore(schema Schema) *Store {
	s := &Store{
		schema: schema,
		values: make(map[string]any, len(schema)),
		errors: make(map[string]string),
	}
	for _, f := range schema {
		s.values[f.Name] = zero(f.Kind)
	}
	return s
}

func zero(k Kind) any {
	switch k {
	case Text:
		return ""
	case Choice:
		return (*string)(nil)
	case Flag:
		return (*bool)(nil)
	case Set:
		return []string{}
	case File:
		return (*Attachment)(nil)
	case Files:
		return []Attachment{}
	}
	return nil
}

// Schema returns the field declarations backing the store.
func (s *Store) Schema() Schema { return s.schema }

func (s *Store) field(name string, want Kind) (Field, error) {
	f, ok := s.schema.Lookup(name)
	if !ok {
		return Field{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if f.Kind != want {
		return Field{}, fmt.Errorf("%w: %s is %s, not %s", ErrKindMismatch, name, f.Kind, want)
	}
	return f, nil
}

// Get returns a copy of the raw value of a field.
func (s *Store) Get(name string) (any, error) {
	f, ok := s.schema.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return clone(f.Kind, s.values[name]), nil
}

// Set replaces the value of a field and clears its error. Accepted value
// types per kind: Text string; Choice string or *string; Flag bool or *bool;
// Set []string; File Attachment or *Attachment; Files []Attachment.
func (s *Store) Set(name string, value any) error {
	f, ok := s.schema.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	v, err := coerce(f, value)
	if err != nil {
		return fmt.Errorf("%w: %s", err, name)
	}
	s.values[name] = v
	delete(s.errors, name)
	return nil
}

func coerce(f Field, value any) (any, error) {
	switch f.Kind {
	case Text:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case Choice:
		switch v := value.(type) {
		case string:
			return &v, nil
		case *string:
			if v == nil {
				return v, nil
			}
			c := *v
			return &c, nil
		case nil:
			return (*string)(nil), nil
		}
	case Flag:
		switch v := value.(type) {
		case bool:
			return &v, nil
		case *bool:
			if v == nil {
				return v, nil
			}
			c := *v
			return &c, nil
		case nil:
			return (*bool)(nil), nil
		}
	case Set:
		if v, ok := value.([]string); ok {
			out := make([]string, 0, len(v))
			for _, item := range v {
				if !slices.Contains(out, item) {
					out = append(out, item)
				}
			}
			return out, nil
		}
	case File:
		switch v := value.(type) {
		case Attachment:
			return &v, nil
		case *Attachment:
			if v == nil {
				return v, nil
			}
			c := *v
			return &c, nil
		case nil:
			return (*Attachment)(nil), nil
		}
	case Files:
		if v, ok := value.([]Attachment); ok {
			if f.MaxFiles > 0 && len(v) > f.MaxFiles {
				return nil, ErrTooManyFiles
			}
			return slices.Clone(v), nil
		}
	}
	return nil, ErrKindMismatch
}

func clone(k Kind, v any) any {
	switch k {
	case Choice:
		if p := v.(*string); p != nil {
			c := *p
			return &c
		}
	case Flag:
		if p := v.(*bool); p != nil {
			c := *p
			return &c
		}
	case Set:
		return slices.Clone(v.([]string))
	case File:
		if p := v.(*Attachment); p != nil {
			c := *p
			return &c
		}
	case Files:
		return slices.Clone(v.([]Attachment))
	}
	return v
}

// Text returns a text field. Unknown or mistyped fields read as "".
func (s *Store) Text(name string) string {
	if _, err := s.field(name, Text); err != nil {
		return ""
	}
	return s.values[name].(string)
}

// Choice returns the selected option and whether one is selected.
func (s *Store) Choice(name string) (string, bool) {
	if _, err := s.field(name, Choice); err != nil {
		return "", false
	}
	p := s.values[name].(*string)
	if p == nil {
		return "", false
	}
	return *p, true
}

// Flag returns a nullable yes/no answer and whether it is set.
func (s *Store) Flag(name string) (bool, bool) {
	if _, err := s.field(name, Flag); err != nil {
		return false, false
	}
	p := s.values[name].(*bool)
	if p == nil {
		return false, false
	}
	return *p, true
}

// Selected returns a copy of a multi-select field.
func (s *Store) Selected(name string) []string {
	if _, err := s.field(name, Set); err != nil {
		return nil
	}
	return slices.Clone(s.values[name].([]string))
}

// File returns a copy of a single attachment, or nil.
func (s *Store) File(name string) *Attachment {
	if _, err := s.field(name, File); err != nil {
		return nil
	}
	p := s.values[name].(*Attachment)
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Files returns a copy of a multi-file field.
func (s *Store) Files(name string) []Attachment {
	if _, err := s.field(name, Files); err != nil {
		return nil
	}
	return slices.Clone(s.values[name].([]Attachment))
}

// SetText is Set for text fields.
func (s *Store) SetText(name, value string) error {
	if _, err := s.field(name, Text); err != nil {
		return err
	}
	return s.Set(name, value)
}

// SetChoice is Set for choice fields.
func (s *Store) SetChoice(name, value string) error {
	if _, err := s.field(name, Choice); err != nil {
		return err
	}
	return s.Set(name, value)
}

// SetFlag is Set for flag fields.
func (s *Store) SetFlag(name string, value bool) error {
	if _, err := s.field(name, Flag); err != nil {
		return err
	}
	return s.Set(name, value)
}

// Toggle adds item to a set field, or removes it when already present.
func (s *Store) Toggle(name, item string) error {
	if _, err := s.field(name, Set); err != nil {
		return err
	}
	cur := s.values[name].([]string)
	if i := slices.Index(cur, item); i >= 0 {
		return s.Set(name, slices.Delete(slices.Clone(cur), i, i+1))
	}
	return s.Set(name, append(slices.Clone(cur), item))
}

// AttachFile stores a single attachment.
func (s *Store) AttachFile(name string, a Attachment) error {
	if _, err := s.field(name, File); err != nil {
		return err
	}
	return s.Set(name, a)
}

// AppendFile adds an attachment to a multi-file field.
func (s *Store) AppendFile(name string, a Attachment) error {
	f, err := s.field(name, Files)
	if err != nil {
		return err
	}
	cur := s.values[name].([]Attachment)
	if f.MaxFiles > 0 && len(cur) >= f.MaxFiles {
		return fmt.Errorf("%w: %s holds at most %d", ErrTooManyFiles, name, f.MaxFiles)
	}
	return s.Set(name, append(slices.Clone(cur), a))
}

// RemoveFile drops the attachment at index from a multi-file field.
func (s *Store) RemoveFile(name string, index int) error {
	if _, err := s.field(name, Files); err != nil {
		return err
	}
	cur := s.values[name].([]Attachment)
	if index < 0 || index >= len(cur) {
		return fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, name, index)
	}
	return s.Set(name, slices.Delete(slices.Clone(cur), index, index+1))
}

// ClearEncoded drops the base64 bytes of a single attachment but keeps its
// name, once the remote side holds the file. It reports whether bytes were
// dropped.
func (s *Store) ClearEncoded(name string) bool {
	if _, err := s.field(name, File); err != nil {
		return false
	}
	p := s.values[name].(*Attachment)
	if p == nil || p.Encoded == "" {
		return false
	}
	c := *p
	c.Encoded = ""
	s.values[name] = &c
	return true
}

// Errors returns a copy of the current validation errors.
func (s *Store) Errors() map[string]string {
	out := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// Error returns the current error for a field, or "".
func (s *Store) Error(name string) string { return s.errors[name] }

// ReplaceErrors swaps in a fresh error set. Empty messages are dropped.
func (s *Store) ReplaceErrors(errs map[string]string) {
	s.errors = make(map[string]string, len(errs))
	for k, v := range errs {
		if v != "" {
			s.errors[k] = v
		}
	}
}

// SetError records a single error without touching the others.
func (s *Store) SetError(name, message string) {
	if message == "" {
		delete(s.errors, name)
		return
	}
	s.errors[name] = message
}
