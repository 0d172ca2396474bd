package wizard

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rayahealth/intake/cmd/intake/wizard/screens"
	"github.com/rayahealth/intake/internal/flow"
	"github.com/rayahealth/intake/internal/form"
	"github.com/rayahealth/intake/internal/validate"
)

// keepSuffix marks the companion list of already attached files.
const keepSuffix = ":keep"

type upload struct {
	field string
	path  string
}

// fields builds the bound screen fields for a step from the store.
func (in *Intake) fields(step flow.StepID, s *form.Store) []*screens.Field {
	var out []*screens.Field
	for _, key := range in.Layout[step] {
		spec := in.Fields[key]
		f := &screens.Field{
			Key:         key,
			Kind:        spec.Kind,
			Title:       spec.Title,
			Description: spec.Description,
			Placeholder: spec.Placeholder,
			Suggestions: spec.Suggestions,
			Limit:       spec.Limit,
			Error:       s.Error(key),
		}
		if spec.TitleFor != nil {
			f.Title = spec.TitleFor(s)
		}
		if spec.Options != nil {
			f.Options = spec.Options(s)
		}
		if keep := load(s, f); keep != nil {
			out = append(out, keep)
		}
		out = append(out, f)
	}
	return out
}

// load copies the stored answer into f. For multi-file fields it returns
// the list of attached files the user can unselect.
func load(s *form.Store, f *screens.Field) *screens.Field {
	field, ok := s.Schema().Lookup(f.Key)
	if !ok {
		return nil
	}

	switch field.Kind {
	case form.Text:
		f.Text = s.Text(f.Key)
	case form.Choice:
		f.Text, _ = s.Choice(f.Key)
	case form.Flag:
		v, set := s.Flag(f.Key)
		if f.Kind == screens.FieldConfirm {
			f.Checked = v
		} else if set {
			f.Text = strconv.FormatBool(v)
		}
	case form.Set:
		f.Selected = s.Selected(f.Key)
	case form.File:
		if a := s.File(f.Key); a != nil {
			f.Description = joinLines(f.Description, fmt.Sprintf("Attached: %s (enter a path to replace it)", a.Name))
		}
	case form.Files:
		files := s.Files(f.Key)
		if field.MaxFiles > 0 {
			f.Description = joinLines(f.Description, fmt.Sprintf("%d of %d attached", len(files), field.MaxFiles))
		}
		if len(files) == 0 {
			return nil
		}
		keep := &screens.Field{
			Key:         f.Key + keepSuffix,
			Kind:        screens.FieldMultiSelect,
			Title:       "Attached files",
			Description: "Unselect a file to remove it",
		}
		for i, a := range files {
			idx := strconv.Itoa(i)
			keep.Options = append(keep.Options, screens.Option{Label: a.Name, Value: idx})
			keep.Selected = append(keep.Selected, idx)
		}
		return keep
	}
	return nil
}

// sync writes the visible, changed answers back to the store.
func (in *Intake) sync(s *form.Store, fields []*screens.Field, hidden func(string) bool) error {
	for _, f := range fields {
		if strings.HasSuffix(f.Key, keepSuffix) || hidden(f.Key) {
			continue
		}
		changed, err := in.store(s, f)
		if err != nil {
			return fmt.Errorf("saving %s: %w", f.Key, err)
		}
		if changed && in.Couple != nil {
			if err := in.Couple(f.Key, s); err != nil {
				return fmt.Errorf("updating after %s: %w", f.Key, err)
			}
		}
	}
	return nil
}

func (in *Intake) store(s *form.Store, f *screens.Field) (bool, error) {
	field, ok := s.Schema().Lookup(f.Key)
	if !ok {
		return false, nil
	}

	switch field.Kind {
	case form.Text:
		v := f.Text
		if norm := in.Fields[f.Key].Normalize; norm != nil {
			v = norm(v)
		}
		if s.Text(f.Key) == v {
			return false, nil
		}
		return true, s.SetText(f.Key, v)

	case form.Choice:
		if cur, _ := s.Choice(f.Key); cur == f.Text {
			return false, nil
		}
		if f.Text == "" {
			return true, s.Set(f.Key, nil)
		}
		return true, s.SetChoice(f.Key, f.Text)

	case form.Flag:
		cur, set := s.Flag(f.Key)
		if f.Kind == screens.FieldConfirm {
			if set && cur == f.Checked {
				return false, nil
			}
			return true, s.SetFlag(f.Key, f.Checked)
		}
		if f.Text == "" {
			if !set {
				return false, nil
			}
			return true, s.Set(f.Key, nil)
		}
		v, err := strconv.ParseBool(f.Text)
		if err != nil {
			return false, err
		}
		if set && cur == v {
			return false, nil
		}
		return true, s.SetFlag(f.Key, v)

	case form.Set:
		if slices.Equal(s.Selected(f.Key), f.Selected) {
			return false, nil
		}
		return true, s.Set(f.Key, slices.Clone(f.Selected))
	}
	return false, nil
}

// removeUnkept drops attachments unselected in the companion lists.
func removeUnkept(s *form.Store, fields []*screens.Field, hidden func(string) bool) error {
	for _, f := range fields {
		base, ok := strings.CutSuffix(f.Key, keepSuffix)
		if !ok || hidden(f.Key) {
			continue
		}
		var drop []int
		for _, o := range f.Options {
			if !slices.Contains(f.Selected, o.Value) {
				i, err := strconv.Atoi(o.Value)
				if err != nil {
					return err
				}
				drop = append(drop, i)
			}
		}
		slices.Sort(drop)
		slices.Reverse(drop)
		for _, i := range drop {
			if err := s.RemoveFile(base, i); err != nil {
				return err
			}
		}
	}
	return nil
}

// uploads lists the file paths typed into visible path fields.
func uploads(fields []*screens.Field, hidden func(string) bool) []upload {
	var out []upload
	for _, f := range fields {
		if hidden(f.Key) {
			continue
		}
		switch f.Kind {
		case screens.FieldPath:
			if p := cleanPath(f.Text); p != "" {
				out = append(out, upload{f.Key, p})
			}
		case screens.FieldPaths:
			for _, line := range strings.Split(f.Text, "\n") {
				if p := cleanPath(line); p != "" {
					out = append(out, upload{f.Key, p})
				}
			}
		}
	}
	return out
}

// cleanPath trims the quotes terminals add to dropped files.
func cleanPath(p string) string {
	return strings.Trim(strings.TrimSpace(p), `"'`)
}

// dateInput replays bare digits like 01151990 through the date keystroke
// formatter so they pick up their slashes. Picker style YYYY-MM-DD values
// are converted as a whole; anything already slashed is left to validation.
func dateInput(v string) string {
	v = strings.TrimSpace(v)
	if d := validate.FromPicker(v); d != "" {
		if _, ok := validate.ParseDate(d); ok {
			return d
		}
	}
	if strings.Contains(v, "/") {
		return v
	}
	var text string
	for _, r := range v {
		text = validate.FormatDateInput(text, text+string(r))
	}
	return text
}

func joinLines(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n" + b
}
