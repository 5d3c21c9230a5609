// Package linear provides a synchronous, line-oriented renderer for build phases.
package linear

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/cleanbuild/internal/core/domain"
	"go.trai.ch/cleanbuild/internal/ui/output"
	"go.trai.ch/cleanbuild/internal/ui/style"
)

// Renderer implements ports.Renderer.
// Command echoes, captured output and failure diagnostics go to stdout.
// Phase progress goes to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	phases  map[string]*phaseState // spanID -> phase state
	stopped bool
}

type phaseState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new Renderer. Nil writers default to the process streams.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		output: output.New(stderr),
		phases: make(map[string]*phaseState),
	}
}

// Start is a no-op for the linear renderer.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop reports phases that never completed and rejects further events.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return nil
	}
	r.stopped = true

	for spanID, phase := range r.phases {
		_, _ = fmt.Fprintf(r.stderr, "%s %s Interrupted\n",
			r.prefix(phase.name), r.symbol(style.Warning, style.Yellow))
		delete(r.phases, spanID)
	}
	return nil
}

// Wait is a no-op for the linear renderer.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the planned phases.
func (r *Renderer) OnPlanEmit(phases []string, buildDir string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	_, _ = fmt.Fprintf(r.stderr, "Planning %d phase(s) in %s: %s\n",
		len(phases), buildDir, strings.Join(phases, ", "))
}

// OnPhaseStart prints a phase start message.
func (r *Renderer) OnPhaseStart(spanID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	r.phases[spanID] = &phaseState{name: name, startTime: startTime}
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", r.prefix(name))
}

// OnInvocationStart echoes the command line.
func (r *Renderer) OnInvocationStart(inv *domain.Invocation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "Running command: %s\n", inv.CommandLine())
}

// OnInvocationComplete prints the captured stdout on success,
// or the full diagnostic block on failure.
func (r *Renderer) OnInvocationComplete(inv *domain.Invocation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	if inv.Succeeded() {
		_, _ = fmt.Fprintln(r.stdout, inv.Stdout)
		return
	}

	_, _ = fmt.Fprintf(r.stdout, "Error running command: %s (exit status %d)\n",
		inv.CommandLine(), inv.ExitCode)
	_, _ = fmt.Fprintf(r.stdout, "Stdout: %s\n", inv.Stdout)
	_, _ = fmt.Fprintf(r.stdout, "Stderr: %s\n", inv.Stderr)
}

// OnWorkspaceFailure prints the filesystem diagnostic for the build directory.
func (r *Renderer) OnWorkspaceFailure(buildDir string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "Error preparing build directory: %s\n", buildDir)
	_, _ = fmt.Fprintf(r.stdout, "Cause: %v\n", err)
}

// OnPhaseComplete prints the phase outcome.
func (r *Renderer) OnPhaseComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	phase, ok := r.phases[spanID]
	if !ok || r.stopped {
		return
	}
	delete(r.phases, spanID)

	duration := endTime.Sub(phase.startTime)
	if err != nil {
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n",
			r.prefix(phase.name), r.symbol(style.Cross, style.Red), duration, err)
		return
	}
	_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n",
		r.prefix(phase.name), r.symbol(style.Check, style.Green), duration)
}

func (r *Renderer) prefix(name string) string {
	return r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
}

func (r *Renderer) symbol(icon string, color lipgloss.Color) string {
	return r.output.String(icon).Foreground(r.output.Color(string(color))).String()
}
