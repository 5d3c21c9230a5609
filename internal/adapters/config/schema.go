package config

// Configfile represents the structure of the cleanbuild.yaml configuration file.
type Configfile struct {
	Version       string            `yaml:"version"`
	BuildDir      string            `yaml:"buildDir"`
	Tools         ToolsDTO          `yaml:"tools"`
	Generator     string            `yaml:"generator"`
	BuildType     string            `yaml:"buildType"`
	Defines       map[string]string `yaml:"defines"`
	Environment   map[string]string `yaml:"environment"`
	ConfigureArgs []string          `yaml:"configureArgs"`
	BuildArgs     []string          `yaml:"buildArgs"`
	TestArgs      []string          `yaml:"testArgs"`
}

// ToolsDTO names the executables used for each phase.
type ToolsDTO struct {
	CMake string `yaml:"cmake"`
	CTest string `yaml:"ctest"`
}

// SupportedVersion is the only configuration schema version understood by the loader.
const SupportedVersion = "1"
