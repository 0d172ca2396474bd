package form

import "fmt"

// Snapshot returns the answers as plain values: string, bool, []string,
// Attachment, []Attachment or nil for unset choices, flags and files.
func (s *Store) Snapshot() map[string]any {
	out := make(map[string]any, len(s.schema))
	for _, f := range s.schema {
		switch f.Kind {
		case Text:
			out[f.Name] = s.Text(f.Name)
		case Choice:
			if v, ok := s.Choice(f.Name); ok {
				out[f.Name] = v
			} else {
				out[f.Name] = nil
			}
		case Flag:
			if v, ok := s.Flag(f.Name); ok {
				out[f.Name] = v
			} else {
				out[f.Name] = nil
			}
		case Set:
			out[f.Name] = s.Selected(f.Name)
		case File:
			if a := s.File(f.Name); a != nil {
				out[f.Name] = *a
			} else {
				out[f.Name] = nil
			}
		case Files:
			out[f.Name] = s.Files(f.Name)
		}
	}
	return out
}

// Restore loads answers produced by Snapshot, or the generic shapes a YAML
// decoder yields for them. Fields missing from values keep their current
// value; unknown keys are rejected.
func (s *Store) Restore(values map[string]any) error {
	for name, raw := range values {
		f, ok := s.schema.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		v, err := normalize(f.Kind, raw)
		if err != nil {
			return fmt.Errorf("restoring %s: %w", name, err)
		}
		if err := s.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

func normalize(k Kind, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch k {
	case Text:
		switch v := raw.(type) {
		case int, int64, uint64, float64:
			return fmt.Sprint(v), nil
		}
	case Set:
		items, ok := raw.([]any)
		if !ok {
			return raw, nil
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			str, ok := it.(string)
			if !ok {
				return nil, ErrKindMismatch
			}
			out = append(out, str)
		}
		return out, nil
	case File:
		if m, ok := raw.(map[string]any); ok {
			return attachmentFromMap(m)
		}
	case Files:
		items, ok := raw.([]any)
		if !ok {
			return raw, nil
		}
		out := make([]Attachment, 0, len(items))
		for _, it := range items {
			m, ok := it.(map[string]any)
			if !ok {
				return nil, ErrKindMismatch
			}
			a, err := attachmentFromMap(m)
			if err != nil {
				return nil, err
			}
			out = append(out, a)
		}
		return out, nil
	}
	return raw, nil
}

func attachmentFromMap(m map[string]any) (Attachment, error) {
	var a Attachment
	for key, dst := range map[string]*string{
		"name":         &a.Name,
		"encoded":      &a.Encoded,
		"content_type": &a.ContentType,
	} {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return Attachment{}, ErrKindMismatch
		}
		*dst = str
	}
	return a, nil
}
