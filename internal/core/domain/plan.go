// Package domain contains the core domain models of a clean build cycle.
package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Step is a single planned phase. The clean phase carries no invocation.
type Step struct {
	Phase      Phase
	Invocation *Invocation
}

// Plan is the ordered list of steps for one working root.
type Plan struct {
	Root     string
	BuildDir string
	steps    []Step
}

// NewPlan creates an empty plan for the given root and absolute output directory.
func NewPlan(root, buildDir string) *Plan {
	return &Plan{
		Root:     root,
		BuildDir: buildDir,
	}
}

// AddStep appends a step to the plan.
// Phases must be unique and appended in their canonical order.
func (p *Plan) AddStep(s Step) error {
	for _, existing := range p.steps {
		if existing.Phase == s.Phase {
			return zerr.With(ErrDuplicatePhase, "phase", s.Phase.String())
		}
	}
	if n := len(p.steps); n > 0 && p.steps[n-1].Phase > s.Phase {
		return zerr.With(
			zerr.With(ErrPhaseOutOfOrder, "phase", s.Phase.String()),
			"after", p.steps[n-1].Phase.String(),
		)
	}
	if s.Phase != PhaseClean && (s.Invocation == nil || len(s.Invocation.Args) == 0) {
		return zerr.With(ErrEmptyCommand, "phase", s.Phase.String())
	}
	p.steps = append(p.steps, s)
	return nil
}

// Len returns the number of planned steps.
func (p *Plan) Len() int {
	return len(p.steps)
}

// Walk returns an iterator over the steps in execution order.
// Each yielded step carries a fresh copy of its invocation.
func (p *Plan) Walk() iter.Seq[Step] {
	return func(yield func(Step) bool) {
		for _, s := range p.steps {
			out := Step{Phase: s.Phase}
			if s.Invocation != nil {
				out.Invocation = s.Invocation.Clone()
			}
			if !yield(out) {
				return
			}
		}
	}
}

// PhaseNames returns the names of the planned phases in order.
func (p *Plan) PhaseNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		names = append(names, s.Phase.String())
	}
	return names
}

// CommandLines returns the command line of every step that runs a command.
func (p *Plan) CommandLines() []string {
	lines := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		if s.Invocation != nil {
			lines = append(lines, s.Invocation.CommandLine())
		}
	}
	return lines
}
