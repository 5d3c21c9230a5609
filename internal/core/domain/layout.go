package domain

import "path/filepath"

const (
	// DefaultBuildDirName is the name of the disposable build output directory under the working root.
	DefaultBuildDirName = "build"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "cleanbuild.yaml"

	// ProjectFileName is the CMake project description used to locate the working root.
	ProjectFileName = "CMakeLists.txt"

	// DefaultConfigureTool is the build-configuration tool.
	DefaultConfigureTool = "cmake"

	// DefaultTestTool is the test-runner tool.
	DefaultTestTool = "ctest"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// BuildDirPath returns the absolute output directory for the given root.
func BuildDirPath(root, buildDir string) string {
	if buildDir == "" {
		buildDir = DefaultBuildDirName
	}
	return filepath.Join(root, buildDir)
}
