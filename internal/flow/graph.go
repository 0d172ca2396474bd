// Package flow sequences wizard steps as a directed graph with named,
// conditional edges, and drives one session through it.
package flow

import (
	"context"
	"fmt"

	"github.com/rayahealth/intake/internal/form"
)

// StepID identifies a step. Steps are numbered from zero.
type StepID int

// Done is the terminal pseudo-step reached after a successful submission.
const Done StepID = -1

func (id StepID) String() string {
	if id == Done {
		return "done"
	}
	return fmt.Sprintf("step%d", int(id))
}

// Condition gates an edge on the current answers. A nil condition always
// holds.
type Condition func(s *form.Store) bool

// Edge is a named transition.
type Edge struct {
	Name string
	To   StepID
	When Condition
}

func (e Edge) holds(s *form.Store) bool { return e.When == nil || e.When(s) }

// Step is one screen of a wizard.
type Step struct {
	ID    StepID
	Title string

	// Fields lists the fields shown on the step for the current answers.
	Fields func(s *form.Store) []string

	// Validate returns field errors for the step. Nil means always valid.
	Validate func(s *form.Store) map[string]string

	// BeforeAdvance runs after validation passes and before the move. An
	// error keeps the session on the step.
	BeforeAdvance func(ctx context.Context, s *form.Store) error

	// Next edges are tried in order on Advance. Without any, the step falls
	// through to ID+1.
	Next []Edge
	// Back edges are tried in order on Retreat. Without any, ID-1.
	Back []Edge
	// Jumps are extra named edges followed without validation.
	Jumps []Edge
}

// VisibleFields returns the fields shown for the current answers.
func (st *Step) VisibleFields(s *form.Store) []string {
	if st.Fields == nil {
		return nil
	}
	return st.Fields(s)
}

func (st *Step) next(s *form.Store) (StepID, bool) {
	if len(st.Next) == 0 {
		return st.ID + 1, true
	}
	for _, e := range st.Next {
		if e.holds(s) {
			return e.To, true
		}
	}
	return 0, false
}

func (st *Step) back(s *form.Store) StepID {
	for _, e := range st.Back {
		if e.holds(s) {
			return e.To
		}
	}
	return st.ID - 1
}

// Graph is the full step layout of one wizard.
type Graph struct {
	name  string
	steps []*Step
}

// NewGraph builds a graph. Steps must be numbered 0..n-1 in order and every
// edge must target a known step or Done.
func NewGraph(name string, steps ...*Step) (*Graph, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("graph %s: no steps", name)
	}
	for i, st := range steps {
		if st.ID != StepID(i) {
			return nil, fmt.Errorf("graph %s: step %d has id %d", name, i, st.ID)
		}
	}
	g := &Graph{name: name, steps: steps}
	for _, st := range steps {
		for _, group := range [][]Edge{st.Next, st.Back, st.Jumps} {
			for _, e := range group {
				if e.To != Done && !g.has(e.To) {
					return nil, fmt.Errorf("graph %s: %s edge %q targets unknown %s", name, st.ID, e.Name, e.To)
				}
			}
		}
		if len(st.Next) == 0 && int(st.ID) == len(steps)-1 {
			return nil, fmt.Errorf("graph %s: last step %s needs an explicit edge to done", name, st.ID)
		}
	}
	return g, nil
}

// MustGraph is NewGraph that panics on a malformed layout.
func MustGraph(name string, steps ...*Step) *Graph {
	g, err := NewGraph(name, steps...)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Graph) has(id StepID) bool { return id >= 0 && int(id) < len(g.steps) }

// Name returns the wizard name.
func (g *Graph) Name() string { return g.name }

// Len returns the number of steps.
func (g *Graph) Len() int { return len(g.steps) }

// Step returns the step with the given id, or nil.
func (g *Graph) Step(id StepID) *Step {
	if !g.has(id) {
		return nil
	}
	return g.steps[id]
}

// Paths enumerates every forward route from the first step to Done,
// following Next edges and named jumps regardless of their conditions.
// Each path lists the visited steps in order, ending with Done.
func (g *Graph) Paths() [][]StepID {
	var out [][]StepID
	var walk func(id StepID, path []StepID, seen map[StepID]bool)
	walk = func(id StepID, path []StepID, seen map[StepID]bool) {
		path = append(path, id)
		if id == Done {
			out = append(out, append([]StepID(nil), path...))
			return
		}
		if seen[id] {
			return
		}
		seen[id] = true
		defer delete(seen, id)

		st := g.steps[id]
		var targets []StepID
		if len(st.Next) == 0 {
			targets = append(targets, st.ID+1)
		}
		for _, e := range st.Next {
			targets = append(targets, e.To)
		}
		for _, e := range st.Jumps {
			targets = append(targets, e.To)
		}
		for _, to := range targets {
			walk(to, path, seen)
		}
	}
	walk(0, nil, map[StepID]bool{})
	return out
}
