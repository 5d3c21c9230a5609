package domain

import (
	"strings"
	"time"
)

// Invocation is a single external command execution and its captured result.
// It is built right before execution and populated once the process exits.
type Invocation struct {
	// Args is the argument list. The first element is the executable name.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Environment holds overrides applied on top of the inherited environment.
	Environment map[string]string

	Stdout   string
	Stderr   string
	ExitCode int

	StartTime time.Time
	EndTime   time.Time
}

// NewInvocation creates an invocation for the given arguments.
func NewInvocation(args ...string) *Invocation {
	return &Invocation{Args: args}
}

// InDir returns the invocation with its working directory set to dir.
func (i *Invocation) InDir(dir string) *Invocation {
	i.Dir = dir
	return i
}

// CommandLine returns the arguments joined by single spaces.
func (i *Invocation) CommandLine() string {
	return strings.Join(i.Args, " ")
}

// Succeeded reports whether the command exited with status 0.
func (i *Invocation) Succeeded() bool {
	return i.ExitCode == 0
}

// Duration returns the wall-clock time the command ran for.
func (i *Invocation) Duration() time.Duration {
	if i.EndTime.IsZero() {
		return 0
	}
	return i.EndTime.Sub(i.StartTime)
}

// Clone returns a copy that shares no mutable state with i.
// Plans hand out clones so that executing a step never mutates the plan.
func (i *Invocation) Clone() *Invocation {
	c := &Invocation{
		Args: append([]string(nil), i.Args...),
		Dir:  i.Dir,
	}
	if i.Environment != nil {
		c.Environment = make(map[string]string, len(i.Environment))
		for k, v := range i.Environment {
			c.Environment[k] = v
		}
	}
	return c
}
