package domain

import "time"

// PhaseStatus is the outcome of a single phase in a run.
type PhaseStatus string

const (
	// StatusSucceeded marks a phase that completed.
	StatusSucceeded PhaseStatus = "succeeded"
	// StatusFailed marks the phase that aborted the run.
	StatusFailed PhaseStatus = "failed"
	// StatusSkipped marks a phase that never ran because an earlier one failed.
	StatusSkipped PhaseStatus = "skipped"
)

// PhaseReport summarizes one phase of a run.
type PhaseReport struct {
	Phase    string        `json:"phase"`
	Status   PhaseStatus   `json:"status"`
	Command  string        `json:"command,omitzero"`
	Dir      string        `json:"dir,omitzero"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration_ns,omitzero"`
}

// Report summarizes a complete run.
type Report struct {
	Root        string        `json:"root"`
	BuildDir    string        `json:"build_dir"`
	Fingerprint string        `json:"fingerprint,omitzero"`
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitzero"`
	StartTime   time.Time     `json:"start_time,omitzero"`
	EndTime     time.Time     `json:"end_time,omitzero"`
	Phases      []PhaseReport `json:"phases"`
}

// NewReport creates a report with every planned phase marked as skipped.
func NewReport(plan *Plan) *Report {
	r := &Report{
		Root:     plan.Root,
		BuildDir: plan.BuildDir,
		Phases:   make([]PhaseReport, 0, plan.Len()),
	}
	for s := range plan.Walk() {
		pr := PhaseReport{Phase: s.Phase.String(), Status: StatusSkipped}
		if s.Invocation != nil {
			pr.Command = s.Invocation.CommandLine()
			pr.Dir = s.Invocation.Dir
		}
		r.Phases = append(r.Phases, pr)
	}
	return r
}

// Record stores the outcome of a phase. inv may be nil for phases without a command.
func (r *Report) Record(phase Phase, inv *Invocation, err error) {
	for i := range r.Phases {
		if r.Phases[i].Phase != phase.String() {
			continue
		}
		pr := &r.Phases[i]
		pr.Status = StatusSucceeded
		if err != nil {
			pr.Status = StatusFailed
		}
		if inv != nil {
			pr.ExitCode = inv.ExitCode
			pr.Duration = inv.Duration()
		}
		return
	}
}
