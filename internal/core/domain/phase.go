package domain

// Phase identifies one of the sequential steps of a clean build cycle.
type Phase uint8

const (
	// PhaseClean removes and recreates the output directory.
	PhaseClean Phase = iota
	// PhaseConfigure generates the build system into the output directory.
	PhaseConfigure
	// PhaseBuild compiles and links the configured project.
	PhaseBuild
	// PhaseTest runs the test suite from the output directory.
	PhaseTest
)

var phaseNames = [...]string{
	PhaseClean:     "clean",
	PhaseConfigure: "configure",
	PhaseBuild:     "build",
	PhaseTest:      "test",
}

// String returns the lower-case phase name.
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Phases returns every phase in execution order.
func Phases() []Phase {
	return []Phase{PhaseClean, PhaseConfigure, PhaseBuild, PhaseTest}
}
