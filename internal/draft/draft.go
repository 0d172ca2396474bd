// Package draft stores an unfinished intake as YAML so it can be resumed
// in the wizard or submitted later.
package draft

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rayahealth/intake/internal/flow"
	"github.com/rayahealth/intake/internal/form"
)

var ErrWrongForm = errors.New("draft belongs to another form")

// Draft is one saved session.
type Draft struct {
	Form      string         `yaml:"form"`
	Step      int            `yaml:"step"`
	AccountID string         `yaml:"account_id,omitempty"`
	SavedAt   time.Time      `yaml:"saved_at"`
	Answers   map[string]any `yaml:"answers"`
}

// New captures the store and current step of a session.
func New(formName string, step flow.StepID, accountID string, s *form.Store) *Draft {
	return &Draft{
		Form:      formName,
		Step:      int(step),
		AccountID: accountID,
		SavedAt:   time.Now().UTC().Truncate(time.Second),
		Answers:   s.Snapshot(),
	}
}

// Apply loads the answers into s. The draft must have been saved from
// formName.
func (d *Draft) Apply(formName string, s *form.Store) error {
	if d.Form != formName {
		return fmt.Errorf("%w: %q, want %q", ErrWrongForm, d.Form, formName)
	}
	if err := s.Restore(d.Answers); err != nil {
		return fmt.Errorf("applying draft: %w", err)
	}
	return nil
}

// Resume applies the draft to the controller's store and moves it to the
// saved step. A finished draft resumes on the last step.
func (d *Draft) Resume(formName string, c *flow.Controller) error {
	if err := d.Apply(formName, c.Store()); err != nil {
		return err
	}
	step := flow.StepID(d.Step)
	if step == flow.Done {
		step = flow.StepID(c.Graph().Len() - 1)
	}
	return c.Restore(step)
}

// Save writes d to path.
func Save(path string, d *Draft) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling draft: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}
	return nil
}

// Load reads a draft written by Save or by hand.
func Load(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading draft: %w", err)
	}
	var d Draft
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing draft: %w", err)
	}
	if d.Form == "" {
		return nil, fmt.Errorf("parsing draft: form is required")
	}
	return &d, nil
}
