// Package app implements the application layer for cleanbuild.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/cleanbuild/internal/adapters/linear"
	"go.trai.ch/cleanbuild/internal/adapters/telemetry"
	"go.trai.ch/cleanbuild/internal/core/domain"
	"go.trai.ch/cleanbuild/internal/core/ports"
	"go.trai.ch/cleanbuild/internal/engine/pipeline"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	logger       ports.Logger
	workspace    ports.Workspace
	reports      ports.ReportStore
	tracer       ports.Tracer

	stdout io.Writer
	stderr io.Writer
	getwd  func() (string, error)
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	log ports.Logger,
	workspace ports.Workspace,
	reports ports.ReportStore,
	tracer ports.Tracer,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		logger:       log,
		workspace:    workspace,
		reports:      reports,
		tracer:       tracer,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		getwd:        os.Getwd,
	}
}

// WithOutput sets the writers used for command output and phase progress.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithWorkingDir fixes the directory root discovery starts from.
// This is primarily used for testing.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// RunOptions configuration for the Run, Plan and Clean methods.
type RunOptions struct {
	// Root overrides working root discovery.
	Root string
	// ConfigPath overrides the default config file location.
	ConfigPath string
	// ReportPath enables the JSON run report.
	ReportPath string
	// DryRun prints the plan instead of executing it.
	DryRun bool
}

// Run cleans the output directory, then configures, builds and tests the project.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	// 1. Load the plan
	plan, err := a.loadPlan(opts)
	if err != nil {
		return err
	}

	if opts.DryRun {
		return a.printPlan(plan)
	}

	// 2. Initialize Renderer and Telemetry
	renderer := linear.NewRenderer(a.stdout, a.stderr)
	tp := setupOTel(telemetry.NewBridge(renderer))
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()

	pipe := pipeline.New(a.executor, a.workspace, a.tracer, renderer)

	// 3. Run Renderer and Pipeline concurrently
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	var report *domain.Report
	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()

		var runErr error
		report, runErr = pipe.Run(gctx, plan)
		return runErr
	})

	runErr := g.Wait()

	// 4. Persist the report
	if opts.ReportPath != "" && report != nil {
		if err := a.reports.Put(opts.ReportPath, report); err != nil {
			if runErr == nil {
				return err
			}
			a.logger.Error(err)
		} else {
			a.logger.Info(fmt.Sprintf("report written to %s", opts.ReportPath))
		}
	}

	return runErr
}

// Plan prints the commands Run would execute without touching the filesystem.
func (a *App) Plan(_ context.Context, opts RunOptions) error {
	plan, err := a.loadPlan(opts)
	if err != nil {
		return err
	}
	return a.printPlan(plan)
}

// Clean removes the output directory of the working root.
func (a *App) Clean(ctx context.Context, opts RunOptions) error {
	plan, err := a.loadPlan(opts)
	if err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("removing %s...", plan.BuildDir))
	if err := a.workspace.Remove(ctx, plan.BuildDir); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("removed %s", plan.BuildDir))
	return nil
}

func (a *App) loadPlan(opts RunOptions) (*domain.Plan, error) {
	root, err := a.resolveRoot(opts.Root)
	if err != nil {
		return nil, err
	}

	plan, err := a.configLoader.Load(root, opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return plan, nil
}

// resolveRoot returns the absolute working root.
// An explicit root must be an existing directory, otherwise it is discovered from the working directory.
func (a *App) resolveRoot(explicit string) (string, error) {
	if explicit == "" {
		cwd, err := a.getwd()
		if err != nil {
			return "", zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
		}
		return a.configLoader.DiscoverRoot(cwd)
	}

	root, err := filepath.Abs(explicit)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrRootNotDirectory.Error()), "root", root)
	}
	if !info.IsDir() {
		return "", zerr.With(domain.ErrRootNotDirectory, "root", root)
	}
	return root, nil
}

func (a *App) printPlan(plan *domain.Plan) error {
	for s := range plan.Walk() {
		line := fmt.Sprintf("%-9s ", s.Phase)
		switch {
		case s.Invocation == nil:
			line += "remove and recreate " + plan.BuildDir
		case s.Invocation.Dir != "":
			line += s.Invocation.CommandLine() + " (in " + s.Invocation.Dir + ")"
		default:
			line += s.Invocation.CommandLine()
		}
		if _, err := fmt.Fprintln(a.stdout, line); err != nil {
			return zerr.Wrap(err, "failed to print plan")
		}
	}
	return nil
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	tp := telemetry.NewProvider(bridge)
	otel.SetTracerProvider(tp)
	return tp
}
