package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cleanbuild/internal/adapters/config"
	"go.trai.ch/cleanbuild/internal/core/domain"
	"go.trai.ch/cleanbuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	root := t.TempDir()
	plan, err := loader.Load(root, "")
	require.NoError(t, err)

	out := filepath.Join(root, "build")
	assert.Equal(t, root, plan.Root)
	assert.Equal(t, out, plan.BuildDir)
	assert.Equal(t, []string{"clean", "configure", "build", "test"}, plan.PhaseNames())
	assert.Equal(t, []string{
		"cmake -S " + root + " -B " + out,
		"cmake --build " + out,
		"ctest --output-on-failure",
	}, plan.CommandLines())

	var testDir string
	for s := range plan.Walk() {
		if s.Phase == domain.PhaseTest {
			testDir = s.Invocation.Dir
		}
		if s.Invocation != nil {
			assert.Empty(t, s.Invocation.Environment)
		}
	}
	assert.Equal(t, out, testDir)
}

func TestLoad_IsRepeatable(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	root := t.TempDir()
	writeFile(t, filepath.Join(root, domain.ConfigFileName), `
version: "1"
defines:
  ZED: "1"
  ALPHA: "ON"
  MID: "x"
`)

	first, err := loader.Load(root, "")
	require.NoError(t, err)
	second, err := loader.Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, first.CommandLines(), second.CommandLines())
	assert.Contains(t, first.CommandLines()[0], "-DALPHA=ON -DMID=x -DZED=1")
}

func TestLoad_FullConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	root := t.TempDir()
	writeFile(t, filepath.Join(root, domain.ConfigFileName), `
version: "1"
buildDir: out/release
tools:
  cmake: /opt/cmake/bin/cmake
  ctest: /opt/cmake/bin/ctest
generator: Ninja
buildType: Release
defines:
  BUILD_TESTING: "ON"
environment:
  CC: clang
configureArgs: ["--fresh"]
buildArgs: ["--parallel", "4"]
testArgs: ["-j", "2"]
`)

	plan, err := loader.Load(root, "")
	require.NoError(t, err)

	out := filepath.Join(root, "out", "release")
	assert.Equal(t, out, plan.BuildDir)
	assert.Equal(t, []string{
		"/opt/cmake/bin/cmake -S " + root + " -B " + out +
			" -G Ninja -DCMAKE_BUILD_TYPE=Release -DBUILD_TESTING=ON --fresh",
		"/opt/cmake/bin/cmake --build " + out + " --config Release --parallel 4",
		"/opt/cmake/bin/ctest --output-on-failure -C Release -j 2",
	}, plan.CommandLines())

	for s := range plan.Walk() {
		if s.Invocation != nil {
			assert.Equal(t, map[string]string{"CC": "clang"}, s.Invocation.Environment)
		}
	}
}

func TestLoad_ExplicitConfigPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	root := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "ci.yaml")
	writeFile(t, cfgPath, "version: \"1\"\nbuildDir: ci-build\n")

	plan, err := loader.Load(root, cfgPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "ci-build"), plan.BuildDir)
}

func TestLoad_MissingExplicitConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	_, err := loader.Load(t.TempDir(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigReadFailed.Error())
}

func TestLoad_MissingVersionWarns(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)
	loader := config.NewLoader(log)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, domain.ConfigFileName), "buildDir: b\n")

	plan, err := loader.Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "b"), plan.BuildDir)
}

func TestLoad_EmptyFileWarns(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)
	loader := config.NewLoader(log)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, domain.ConfigFileName), "")

	plan, err := loader.Load(root, "")
	require.NoError(t, err)
	assert.Len(t, plan.CommandLines(), 3)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		setup   func(t *testing.T, root string)
		wantErr error
	}{
		{
			name:    "unknown field",
			content: "version: \"1\"\nbuildDirectory: out\n",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "malformed yaml",
			content: "version: [\n",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "unsupported version",
			content: "version: \"2\"\n",
			wantErr: domain.ErrUnsupportedConfigVersion,
		},
		{
			name:    "absolute build dir",
			content: "version: \"1\"\nbuildDir: /tmp/out\n",
			wantErr: domain.ErrInvalidBuildDir,
		},
		{
			name:    "build dir is root",
			content: "version: \"1\"\nbuildDir: ./\n",
			wantErr: domain.ErrInvalidBuildDir,
		},
		{
			name:    "build dir escapes root",
			content: "version: \"1\"\nbuildDir: ../sibling\n",
			wantErr: domain.ErrInvalidBuildDir,
		},
		{
			name:    "build dir is repository metadata",
			content: "version: \"1\"\nbuildDir: .git\n",
			wantErr: domain.ErrInvalidBuildDir,
		},
		{
			name:    "build dir inside repository metadata",
			content: "version: \"1\"\nbuildDir: .hg/out\n",
			wantErr: domain.ErrInvalidBuildDir,
		},
		{
			name:    "build dir is a source directory",
			content: "version: \"1\"\nbuildDir: src\n",
			setup: func(t *testing.T, root string) {
				t.Helper()
				writeFile(t, filepath.Join(root, "src", domain.ProjectFileName), "")
			},
			wantErr: domain.ErrInvalidBuildDir,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			loader := config.NewLoader(mocks.NewMockLogger(ctrl))

			root := t.TempDir()
			writeFile(t, filepath.Join(root, domain.ConfigFileName), tt.content)
			if tt.setup != nil {
				tt.setup(t, root)
			}

			_, err := loader.Load(root, "")
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestDiscoverRoot(t *testing.T) {
	t.Run("config file wins over nearer project file", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, domain.ConfigFileName), "version: \"1\"\n")
		writeFile(t, filepath.Join(root, "lib", domain.ProjectFileName), "")
		cwd := filepath.Join(root, "lib", "src")
		require.NoError(t, os.MkdirAll(cwd, domain.DirPerm))

		got, err := config.NewLoader(nil).DiscoverRoot(cwd)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("nearest project file", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, domain.ProjectFileName), "")
		cwd := filepath.Join(root, "src", "deep")
		require.NoError(t, os.MkdirAll(cwd, domain.DirPerm))

		got, err := config.NewLoader(nil).DiscoverRoot(cwd)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("nested project resolves to outermost", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, domain.ProjectFileName), "")
		writeFile(t, filepath.Join(root, "tests", domain.ProjectFileName), "")
		cwd := filepath.Join(root, "tests")

		got, err := config.NewLoader(nil).DiscoverRoot(cwd)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("gap in project chain stops the climb", func(t *testing.T) {
		outer := t.TempDir()
		writeFile(t, filepath.Join(outer, domain.ProjectFileName), "")
		lib := filepath.Join(outer, "vendor", "lib")
		writeFile(t, filepath.Join(lib, domain.ProjectFileName), "")
		cwd := filepath.Join(lib, "src")
		require.NoError(t, os.MkdirAll(cwd, domain.DirPerm))

		got, err := config.NewLoader(nil).DiscoverRoot(cwd)
		require.NoError(t, err)
		assert.Equal(t, lib, got)
	})

	t.Run("falls back to cwd", func(t *testing.T) {
		cwd := t.TempDir()

		got, err := config.NewLoader(nil).DiscoverRoot(cwd)
		require.NoError(t, err)
		assert.Equal(t, cwd, got)
	})
}
