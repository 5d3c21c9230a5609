// Package config provides the configuration loader for cleanbuild.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/cleanbuild/internal/core/domain"
	"go.trai.ch/cleanbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using an optional YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration for root and builds the plan.
// Without a config file the plan is the plain cmake/ctest cycle.
func (l *Loader) Load(root, configPath string) (*domain.Plan, error) {
	cfg, err := l.readConfigfile(root, configPath)
	if err != nil {
		return nil, err
	}
	if err := l.validate(root, cfg); err != nil {
		return nil, err
	}
	return buildPlan(root, cfg)
}

// DiscoverRoot walks up from cwd to find the working root.
// The nearest directory with a cleanbuild.yaml wins. Otherwise the outermost
// directory of the contiguous CMakeLists.txt chain above cwd is used, so a
// subproject resolves to its top-level project. Without either, cwd is the root.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	start, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	var projectCandidate string
	inChain := false
	for current := start; ; {
		if fileExists(filepath.Join(current, domain.ConfigFileName)) {
			return current, nil
		}
		hasProject := fileExists(filepath.Join(current, domain.ProjectFileName))
		switch {
		case hasProject && (projectCandidate == "" || inChain):
			projectCandidate = current
			inChain = true
		case !hasProject:
			inChain = false
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	if projectCandidate != "" {
		return projectCandidate, nil
	}
	return start, nil
}

func (l *Loader) readConfigfile(root, configPath string) (*Configfile, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(root, domain.ConfigFileName)
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // path is provided by user
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Configfile{Version: SupportedVersion}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	var cfg Configfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			l.Logger.Warn(fmt.Sprintf("%s is empty, using defaults", configPath))
			return &Configfile{Version: SupportedVersion}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}

	if cfg.Version == "" {
		l.Logger.Warn(fmt.Sprintf("no version set in %s, assuming %q", configPath, SupportedVersion))
		cfg.Version = SupportedVersion
	}

	return &cfg, nil
}

func (l *Loader) validate(root string, cfg *Configfile) error {
	if cfg.Version != SupportedVersion {
		return zerr.With(domain.ErrUnsupportedConfigVersion, "version", cfg.Version)
	}
	return validateBuildDir(root, cfg.BuildDir)
}

// vcsDirs may not appear anywhere in the build directory path.
var vcsDirs = []string{".git", ".hg", ".svn"}

func validateBuildDir(root, buildDir string) error {
	if buildDir == "" {
		return nil
	}
	clean := filepath.Clean(buildDir)
	if filepath.IsAbs(clean) || clean == "." || clean == ".." ||
		strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return zerr.With(domain.ErrInvalidBuildDir, "build_dir", buildDir)
	}
	for _, part := range strings.Split(clean, string(filepath.Separator)) {
		if slices.Contains(vcsDirs, part) {
			return zerr.With(zerr.Wrap(domain.ErrInvalidBuildDir, "version control directory"), "build_dir", buildDir)
		}
	}
	// An existing directory holding a project file is source, not output.
	if fileExists(filepath.Join(root, clean, domain.ProjectFileName)) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidBuildDir, "directory contains "+domain.ProjectFileName), "build_dir", buildDir)
	}
	return nil
}

func buildPlan(root string, cfg *Configfile) (*domain.Plan, error) {
	outDir := domain.BuildDirPath(root, cfg.BuildDir)
	cmake := valueOr(cfg.Tools.CMake, domain.DefaultConfigureTool)
	ctest := valueOr(cfg.Tools.CTest, domain.DefaultTestTool)

	configure := []string{cmake, "-S", root, "-B", outDir}
	if cfg.Generator != "" {
		configure = append(configure, "-G", cfg.Generator)
	}
	if cfg.BuildType != "" {
		configure = append(configure, "-DCMAKE_BUILD_TYPE="+cfg.BuildType)
	}
	for _, key := range slices.Sorted(maps.Keys(cfg.Defines)) {
		configure = append(configure, "-D"+key+"="+cfg.Defines[key])
	}
	configure = append(configure, cfg.ConfigureArgs...)

	build := []string{cmake, "--build", outDir}
	if cfg.BuildType != "" {
		build = append(build, "--config", cfg.BuildType)
	}
	build = append(build, cfg.BuildArgs...)

	test := []string{ctest, "--output-on-failure"}
	if cfg.BuildType != "" {
		test = append(test, "-C", cfg.BuildType)
	}
	test = append(test, cfg.TestArgs...)

	steps := []domain.Step{
		{Phase: domain.PhaseClean},
		{Phase: domain.PhaseConfigure, Invocation: withEnv(domain.NewInvocation(configure...), cfg.Environment)},
		{Phase: domain.PhaseBuild, Invocation: withEnv(domain.NewInvocation(build...), cfg.Environment)},
		{Phase: domain.PhaseTest, Invocation: withEnv(domain.NewInvocation(test...).InDir(outDir), cfg.Environment)},
	}

	plan := domain.NewPlan(root, outDir)
	for _, s := range steps {
		if err := plan.AddStep(s); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func withEnv(inv *domain.Invocation, env map[string]string) *domain.Invocation {
	if len(env) > 0 {
		inv.Environment = env
	}
	return inv
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
