// Package pipeline runs a build plan phase by phase.
package pipeline

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/cleanbuild/internal/core/domain"
	"go.trai.ch/cleanbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Pipeline executes the steps of a plan in order and stops at the first failure.
// Only one invocation is outstanding at any time.
type Pipeline struct {
	executor  ports.Executor
	workspace ports.Workspace
	tracer    ports.Tracer
	renderer  ports.Renderer
	now       func() time.Time
}

// New creates a new Pipeline.
func New(
	executor ports.Executor,
	workspace ports.Workspace,
	tracer ports.Tracer,
	renderer ports.Renderer,
) *Pipeline {
	return &Pipeline{
		executor:  executor,
		workspace: workspace,
		tracer:    tracer,
		renderer:  renderer,
		now:       time.Now,
	}
}

// Run executes plan and returns the report of the run.
// The report is returned even when the run fails.
// A failing command or an unusable build directory yields an error wrapping
// domain.ErrBuildExecutionFailed, its diagnostics have already been rendered at that point.
func (p *Pipeline) Run(ctx context.Context, plan *domain.Plan) (*domain.Report, error) {
	report := domain.NewReport(plan)
	report.StartTime = p.now()

	p.renderer.OnPlanEmit(plan.PhaseNames(), plan.BuildDir)

	err := p.runSteps(ctx, plan, report)
	report.EndTime = p.now()
	if err != nil {
		report.Error = err.Error()
		return report, err
	}

	report.Success = true
	return report, nil
}

func (p *Pipeline) runSteps(ctx context.Context, plan *domain.Plan, report *domain.Report) error {
	for step := range plan.Walk() {
		if err := ctx.Err(); err != nil {
			return zerr.With(zerr.Wrap(err, "build interrupted"), "phase", step.Phase.String())
		}

		var err error
		if step.Phase == domain.PhaseClean {
			err = p.clean(ctx, plan.BuildDir, report)
		} else {
			err = p.invoke(ctx, step, report)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) clean(ctx context.Context, buildDir string, report *domain.Report) (err error) {
	ctx, span := p.tracer.Start(ctx, domain.PhaseClean.String(),
		ports.WithAttribute("build_dir", buildDir))
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	err = p.workspace.Prepare(ctx, buildDir)
	report.Record(domain.PhaseClean, nil, err)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return zerr.With(err, "phase", domain.PhaseClean.String())
	}
	p.renderer.OnWorkspaceFailure(buildDir, err)
	return errors.Join(domain.ErrBuildExecutionFailed, zerr.With(err, "phase", domain.PhaseClean.String()))
}

func (p *Pipeline) invoke(ctx context.Context, step domain.Step, report *domain.Report) error {
	inv := step.Invocation
	ctx, span := p.tracer.Start(ctx, step.Phase.String(),
		ports.WithAttribute("command", inv.CommandLine()))
	defer span.End()

	p.renderer.OnInvocationStart(inv)
	err := p.executor.Run(ctx, inv)
	p.renderer.OnInvocationComplete(inv)

	span.SetAttribute("exit_code", inv.ExitCode)
	report.Record(step.Phase, inv, err)
	if err != nil {
		span.RecordError(err)
		return errors.Join(domain.ErrBuildExecutionFailed, zerr.With(err, "phase", step.Phase.String()))
	}
	return nil
}
