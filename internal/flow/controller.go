package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/rayahealth/intake/internal/form"
)

var (
	ErrAtStart     = errors.New("already at the first step")
	ErrTerminal    = errors.New("wizard already submitted")
	ErrNoEdge      = errors.New("no transition matches the current answers")
	ErrUnknownJump = errors.New("no such jump on this step")
)

// Controller walks one session through a graph. It owns the answer store
// for the session.
type Controller struct {
	graph   *Graph
	store   *form.Store
	current StepID
}

// NewController starts a session at the first step.
func NewController(g *Graph, s *form.Store) *Controller {
	return &Controller{graph: g, store: s}
}

// Graph returns the layout being walked.
func (c *Controller) Graph() *Graph { return c.graph }

// Store returns the session's answers.
func (c *Controller) Store() *form.Store { return c.store }

// Current returns the active step id, or Done.
func (c *Controller) Current() StepID { return c.current }

// Step returns the active step, or nil once done.
func (c *Controller) Step() *Step { return c.graph.Step(c.current) }

// Finished reports whether the terminal state has been reached.
func (c *Controller) Finished() bool { return c.current == Done }

// Validate runs the active step's validator, replaces the store's errors
// with the result and reports whether the step is valid.
func (c *Controller) Validate() bool {
	st := c.Step()
	if st == nil {
		return false
	}
	var errs map[string]string
	if st.Validate != nil {
		errs = st.Validate(c.store)
	}
	c.store.ReplaceErrors(errs)
	return len(c.store.Errors()) == 0
}

// Advance validates the active step and moves forward. It returns false
// with a nil error when validation fails, and false with the hook's error
// when BeforeAdvance fails; in both cases the step does not change.
func (c *Controller) Advance(ctx context.Context) (bool, error) {
	if c.Finished() {
		return false, ErrTerminal
	}
	st := c.Step()
	if !c.Validate() {
		return false, nil
	}
	to, ok := st.next(c.store)
	if !ok {
		return false, fmt.Errorf("%s: %w", st.ID, ErrNoEdge)
	}
	if st.BeforeAdvance != nil {
		if err := st.BeforeAdvance(ctx, c.store); err != nil {
			return false, err
		}
	}
	c.current = to
	return true, nil
}

// Retreat moves back without validating.
func (c *Controller) Retreat() error {
	if c.Finished() {
		return ErrTerminal
	}
	if c.current == 0 {
		return ErrAtStart
	}
	c.current = c.Step().back(c.store)
	return nil
}

// Jump follows a named extra edge of the active step without validating.
func (c *Controller) Jump(name string) error {
	if c.Finished() {
		return ErrTerminal
	}
	st := c.Step()
	for _, e := range st.Jumps {
		if e.Name == name && e.holds(c.store) {
			c.current = e.To
			return nil
		}
	}
	return fmt.Errorf("%s: %w: %q", st.ID, ErrUnknownJump, name)
}

// HasJump reports whether the active step offers the named jump.
func (c *Controller) HasJump(name string) bool {
	st := c.Step()
	if st == nil {
		return false
	}
	for _, e := range st.Jumps {
		if e.Name == name && e.holds(c.store) {
			return true
		}
	}
	return false
}

// Restore places the session on a given step, used when resuming a draft.
func (c *Controller) Restore(id StepID) error {
	if !c.graph.has(id) {
		return fmt.Errorf("restore to %s: unknown step", id)
	}
	c.current = id
	return nil
}

// IncompleteError reports the step that stopped a non-interactive run.
type IncompleteError struct {
	Step   StepID
	Title  string
	Errors map[string]string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s (%s) is incomplete: %d field error(s)", e.Title, e.Step, len(e.Errors))
}

// Drive advances from the active step until the session is finished, the
// way a user pressing continue on every screen would. prepare, when set,
// runs before each advance and may fill in answers that come from outside
// the store. A step that fails validation stops the run with an
// *IncompleteError.
func (c *Controller) Drive(ctx context.Context, prepare func(context.Context, *Step) error) error {
	for steps := 0; !c.Finished(); steps++ {
		if steps > 4*c.graph.Len() {
			return fmt.Errorf("graph %s: no progress after %d steps", c.graph.name, steps)
		}
		st := c.Step()
		if prepare != nil {
			if err := prepare(ctx, st); err != nil {
				return err
			}
		}
		ok, err := c.Advance(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return &IncompleteError{Step: st.ID, Title: st.Title, Errors: c.store.Errors()}
		}
	}
	return nil
}
