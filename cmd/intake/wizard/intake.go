// Package wizard provides the interactive TUI for both intake forms.
package wizard

import (
	"context"
	"time"

	"github.com/rayahealth/intake/cmd/intake/wizard/screens"
	"github.com/rayahealth/intake/internal/flow"
	"github.com/rayahealth/intake/internal/form"
)

// Session is what the wizard drives. Both certification.Session and
// onboarding.Session satisfy it.
type Session interface {
	Controller() *flow.Controller
	Next(ctx context.Context) (bool, error)
	Back() error
	Attach(ctx context.Context, field, path string) error
}

// FieldSpec describes how one answer is asked.
type FieldSpec struct {
	Kind        screens.FieldKind
	Title       string
	Description string
	Placeholder string
	Suggestions []string
	Limit       int
	// TitleFor overrides Title with a label derived from other answers.
	TitleFor func(*form.Store) string
	// Options lists the choices of select fields.
	Options func(*form.Store) []screens.Option
	// Normalize is applied to text before it reaches the store.
	Normalize func(string) string
}

// Task is work started when a step is entered.
type Task struct {
	Busy string
	// When reports whether the task still needs to run.
	When func(*form.Store) bool
	Run  func(context.Context) error
}

// Intake binds a session to its screens.
type Intake struct {
	// Name identifies drafts saved from this intake.
	Name    string
	Heading string
	Session Session
	// Layout lists, per step, every field the step can show in order.
	// Which of them are visible is decided by the step itself.
	Layout      map[flow.StepID][]string
	Fields      map[string]FieldSpec
	Subtitles   map[flow.StepID]string
	Bodies      map[flow.StepID]func(*form.Store) string
	AutoAdvance map[flow.StepID]time.Duration
	OnEnter     map[flow.StepID]Task
	// Couple runs after answers are synced, for answers that reset others.
	Couple func(key string, s *form.Store) error
	// Complete describes the finished intake.
	Complete func() screens.CompletionMsg
}

func fixedOptions(opts ...screens.Option) func(*form.Store) []screens.Option {
	return func(*form.Store) []screens.Option { return opts }
}

func plainOptions(values []string) []screens.Option {
	out := make([]screens.Option, len(values))
	for i, v := range values {
		out[i] = screens.Option{Label: v, Value: v}
	}
	return out
}

// unset heads single-choice lists so an untouched select stays unanswered.
var unset = screens.Option{Label: "Select an option", Value: ""}
