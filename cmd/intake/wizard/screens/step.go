// Package screens holds the bubbletea models the wizard switches between.
package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rayahealth/intake/cmd/intake/wizard/components"
)

// FieldKind selects the huh widget used for a field.
type FieldKind int

const (
	FieldInput FieldKind = iota
	FieldText
	FieldSelect
	FieldMultiSelect
	FieldConfirm
	// FieldPath asks for one file path.
	FieldPath
	// FieldPaths asks for file paths, one per line.
	FieldPaths
)

type Option struct {
	Label string
	Value string
}

// Field is one input on a step screen. Text, Selected and Checked are bound
// to the widget and change as the user edits.
type Field struct {
	Key         string
	Kind        FieldKind
	Title       string
	Description string
	Placeholder string
	Error       string
	Options     []Option
	Suggestions []string
	Limit       int

	Text     string
	Selected []string
	Checked  bool
}

// StepConfig is everything a step screen renders.
type StepConfig struct {
	Heading  string
	Title    string
	Subtitle string
	Step     int
	Total    int
	// Banner is shown in red above the form.
	Banner string
	// Status is shown in green under the form.
	Status string
	// Body renders extra content under the form. It is called on every View.
	Body   func() string
	Fields []*Field
	// Hidden reports whether a field is currently hidden.
	Hidden func(key string) bool
	// Changed is called after every update so answers can be synced.
	Changed func()
	Keys    string
}

// StepScreen renders one wizard step as a huh form.
type StepScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	cfg       StepConfig
	width     int
	height    int
	done      bool
	cancelled bool
}

// NewStepScreen builds the form for cfg. Each field sits in its own group
// so it can be hidden while the answers that reveal it are unset.
func NewStepScreen(cfg StepConfig) *StepScreen {
	s := &StepScreen{
		helpPanel: components.NewHelpPanel(),
		cfg:       cfg,
	}

	var groups []*huh.Group
	for _, f := range cfg.Fields {
		key := f.Key
		g := huh.NewGroup(buildField(f))
		if cfg.Hidden != nil {
			g = g.WithHideFunc(func() bool { return cfg.Hidden(key) })
		}
		groups = append(groups, g)
	}
	if len(groups) == 0 {
		groups = append(groups, huh.NewGroup(
			huh.NewNote().
				Next(true).
				NextLabel("Continue"),
		))
	}

	s.form = huh.NewForm(groups...).WithShowHelp(false).WithShowErrors(true)
	if len(cfg.Fields) > 0 {
		s.helpPanel.SetField(cfg.Fields[0].Key)
	}
	return s
}

func buildField(f *Field) huh.Field {
	desc := f.Description
	if f.Error != "" {
		if desc != "" {
			desc += "\n"
		}
		desc += "⚠ " + f.Error
	}

	switch f.Kind {
	case FieldText, FieldPaths:
		return huh.NewText().
			Key(f.Key).
			Title(f.Title).
			Description(desc).
			Placeholder(f.Placeholder).
			Lines(4).
			Value(&f.Text)

	case FieldSelect:
		return huh.NewSelect[string]().
			Key(f.Key).
			Title(f.Title).
			Description(desc).
			Options(options(f.Options)...).
			Value(&f.Text)

	case FieldMultiSelect:
		m := huh.NewMultiSelect[string]().
			Key(f.Key).
			Title(f.Title).
			Description(desc).
			Options(options(f.Options)...).
			Value(&f.Selected)
		if f.Limit > 0 {
			m = m.Limit(f.Limit)
		}
		return m

	case FieldConfirm:
		return huh.NewConfirm().
			Key(f.Key).
			Title(f.Title).
			Description(desc).
			Affirmative("Yes").
			Negative("No").
			Value(&f.Checked)
	}

	in := huh.NewInput().
		Key(f.Key).
		Title(f.Title).
		Description(desc).
		Placeholder(f.Placeholder).
		Value(&f.Text)
	if len(f.Suggestions) > 0 {
		in = in.Suggestions(f.Suggestions)
	}
	return in
}

func options(in []Option) []huh.Option[string] {
	out := make([]huh.Option[string], len(in))
	for i, o := range in {
		out[i] = huh.NewOption(o.Label, o.Value)
	}
	return out
}

// Init implements tea.Model
func (s *StepScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *StepScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			s.cancelled = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.helpPanel.SetSize(msg.Width/2, msg.Height/2)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	if s.cfg.Changed != nil {
		s.cfg.Changed()
	}

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *StepScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	var sb strings.Builder
	if s.cfg.Heading != "" {
		sb.WriteString(components.SubtitleStyle.Render(s.cfg.Heading))
		sb.WriteString("\n")
	}
	sb.WriteString(components.ProgressBar(s.cfg.Step, s.cfg.Total, 30))
	sb.WriteString("\n\n")
	sb.WriteString(components.TitleStyle.Render(s.cfg.Title))
	sb.WriteString("\n")
	if s.cfg.Subtitle != "" {
		sb.WriteString(components.SubtitleStyle.Render(s.cfg.Subtitle))
		sb.WriteString("\n")
	}
	if s.cfg.Banner != "" {
		sb.WriteString(components.ErrorStyle.Render(s.cfg.Banner))
		sb.WriteString("\n\n")
	}

	parts := []string{s.form.View()}
	if s.cfg.Body != nil {
		if body := s.cfg.Body(); body != "" {
			parts = append(parts, "", body)
		}
	}
	if help := s.helpPanel.View(); help != "" {
		parts = append(parts, "", help)
	}
	if s.cfg.Status != "" {
		parts = append(parts, "", components.StatusStyle.Render(s.cfg.Status))
	}
	if s.cfg.Keys != "" {
		parts = append(parts, "", components.HintStyle.Render(s.cfg.Keys))
	}
	sb.WriteString(lipgloss.JoinVertical(lipgloss.Left, parts...))

	return sb.String()
}

// Done returns true once the form was completed
func (s *StepScreen) Done() bool {
	return s.done
}

// Cancelled returns true if the user quit
func (s *StepScreen) Cancelled() bool {
	return s.cancelled
}

// Field returns the bound field for key, or nil.
func (s *StepScreen) Field(key string) *Field {
	for _, f := range s.cfg.Fields {
		if f.Key == key {
			return f
		}
	}
	return nil
}

// Fields returns every bound field.
func (s *StepScreen) Fields() []*Field {
	return s.cfg.Fields
}
