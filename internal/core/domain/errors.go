package domain

import "go.trai.ch/zerr"

var (
	// ErrBuildExecutionFailed is returned when the pipeline aborts on a failing phase.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrInvocationFailed is returned when an external command exits with a non-zero status.
	ErrInvocationFailed = zerr.New("command exited with a non-zero status")

	// ErrInvocationStartFailed is returned when an external command cannot be started.
	ErrInvocationStartFailed = zerr.New("failed to start command")

	// ErrEmptyCommand is returned when an invocation has no arguments.
	ErrEmptyCommand = zerr.New("command is empty")

	// ErrDuplicatePhase is returned when a plan contains the same phase twice.
	ErrDuplicatePhase = zerr.New("phase already planned")

	// ErrPhaseOutOfOrder is returned when a plan lists phases out of their canonical order.
	ErrPhaseOutOfOrder = zerr.New("phase planned out of order")

	// ErrWorkspaceCleanFailed is returned when the output directory cannot be removed.
	ErrWorkspaceCleanFailed = zerr.New("failed to remove build output directory")

	// ErrWorkspaceCreateFailed is returned when the output directory cannot be created.
	ErrWorkspaceCreateFailed = zerr.New("failed to create build output directory")

	// ErrFailedToGetRoot is returned when the working root cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to determine working root")

	// ErrRootNotDirectory is returned when the working root is not an existing directory.
	ErrRootNotDirectory = zerr.New("working root is not a directory")

	// ErrInvalidBuildDir is returned when the build directory escapes the working root.
	ErrInvalidBuildDir = zerr.New("build directory must be a relative path inside the working root")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnsupportedConfigVersion is returned when the config declares an unknown schema version.
	ErrUnsupportedConfigVersion = zerr.New("unsupported config version")

	// ErrReportMarshalFailed is returned when the run report cannot be marshaled.
	ErrReportMarshalFailed = zerr.New("failed to marshal run report")

	// ErrReportWriteFailed is returned when the run report cannot be written.
	ErrReportWriteFailed = zerr.New("failed to write run report")
)
