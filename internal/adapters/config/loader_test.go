package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/manifold/internal/adapters/config"
	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/manifold/internal/core/ports/mocks"
	"go.trai.ch/manifold/internal/core/project"
	"go.uber.org/mock/gomock"
)

const header = `
[project]
name = "demo"
channels = ["conda-forge"]
platforms = ["linux-64", "osx-arm64"]
`

func parse(t *testing.T, content string) *project.Project {
	t.Helper()
	m, err := config.NewLoader(nil, "").Parse("manifold.toml", []byte(content))
	require.NoError(t, err)
	return project.New("/work", m)
}

func parseErr(t *testing.T, content string) error {
	t.Helper()
	_, err := config.NewLoader(nil, "").Parse("manifold.toml", []byte(content))
	require.Error(t, err)
	return err
}

func environment(t *testing.T, p *project.Project, name string) *project.Environment {
	t.Helper()
	env, err := p.LookupEnvironment(name)
	require.NoError(t, err)
	return env
}

func channelNames(channels []domain.Channel) []string {
	out := make([]string, len(channels))
	for i, c := range channels {
		out[i] = c.Name()
	}
	return out
}

func specs(t *testing.T, deps *domain.Dependencies, name string) []string {
	t.Helper()
	var out []string
	for _, s := range deps.Get(name) {
		out = append(out, s.String())
	}
	return out
}

func platform(p string) *domain.Platform {
	pl := domain.Platform(p)
	return &pl
}

func TestParse_ChannelOrdering(t *testing.T) {
	p := parse(t, `
[project]
name = "demo"
channels = ["foo", "bar"]
platforms = ["linux-64"]
`)

	assert.Equal(t, []string{"foo", "bar"}, channelNames(p.DefaultEnvironment().Channels()))
	assert.Equal(t, "https://conda.anaconda.org/foo/", p.DefaultEnvironment().Channels()[0].URL())
}

func TestParse_ChannelPriority(t *testing.T) {
	p := parse(t, header+`
[feature.cuda]
channels = [{ channel = "nvidia", priority = 1 }, "pytorch"]

[feature.other]
channels = [{ channel = "bar", priority = -10 }, "barry"]

[environments]
gpu = ["cuda", "other"]
`)

	got := channelNames(environment(t, p, "gpu").Channels())
	assert.Equal(t, []string{"nvidia", "pytorch", "barry", "conda-forge", "bar"}, got)
}

func TestParse_ChannelAlias(t *testing.T) {
	m, err := config.NewLoader(nil, "https://mirror.example.com/conda").Parse("manifold.toml", []byte(header))
	require.NoError(t, err)

	channels := project.New("/work", m).DefaultEnvironment().Channels()
	require.Len(t, channels, 1)
	assert.Equal(t, "https://mirror.example.com/conda/conda-forge/", channels[0].URL())
}

func TestParse_PlatformIntersection(t *testing.T) {
	p := parse(t, `
[project]
name = "demo"
channels = ["conda-forge"]
platforms = ["linux-64", "osx-64"]

[feature.mac]
platforms = ["osx-64", "osx-arm64"]

[environments]
mac = ["mac"]
`)

	def := p.DefaultEnvironment()
	assert.Equal(t, domain.NewPlatformSet("linux-64", "osx-64"), def.Platforms())

	err := def.ValidatePlatformSupport("win-64")
	var unsupported *project.UnsupportedPlatformError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, []domain.Platform{"linux-64", "osx-64"}, unsupported.Supported)

	assert.Equal(t, domain.NewPlatformSet("osx-64"), environment(t, p, "mac").Platforms())
}

func TestParse_TaskSpecificity(t *testing.T) {
	p := parse(t, header+`
[tasks]
foo = "echo default"

[target.linux-64.tasks]
foo = "echo linux"
`)

	env := p.DefaultEnvironment()

	task, err := env.Task("foo", nil)
	require.NoError(t, err)
	assert.Equal(t, "echo default", task.Command)

	task, err = env.Task("foo", platform("linux-64"))
	require.NoError(t, err)
	assert.Equal(t, "echo linux", task.Command)

	task, err = env.Task("foo", platform("osx-arm64"))
	require.NoError(t, err)
	assert.Equal(t, "echo default", task.Command)

	_, err = env.Task("foo", platform("win-64"))
	require.ErrorIs(t, err, domain.ErrUnknownTask)
}

func TestParse_DependencyUnion(t *testing.T) {
	p := parse(t, header+`
[dependencies]
foo = "*"

[feature.foo.dependencies]
foo = ">=1.0"

[feature.bar.dependencies]
foo = "<2.0"
bar = ">=1.0"

[environments]
both = ["foo", "bar"]
`)

	env := environment(t, p, "both")
	deps, err := env.Dependencies(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{">=1.0", "<2.0", "*"}, specs(t, deps, "foo"))
	assert.Equal(t, []string{">=1.0"}, specs(t, deps, "bar"))

	again, err := env.Dependencies(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, deps, again)
}

func TestParse_ActivationOrder(t *testing.T) {
	p := parse(t, header+`
[activation]
scripts = ["default.bat"]

[target.linux-64.activation]
scripts = ["linux.bat"]

[feature.foo.activation]
scripts = ["foo.bat"]

[environments]
foo = ["foo"]
`)

	env := environment(t, p, "foo")
	assert.Equal(t, []string{"foo.bat", "default.bat"}, env.ActivationScripts(nil))
	assert.Equal(t, []string{"foo.bat", "linux.bat"}, env.ActivationScripts(platform("linux-64")))
}

func TestParse_FeatureTargets(t *testing.T) {
	p := parse(t, header+`
[tasks]
build = "make"

[target.linux-64.tasks]
build = "make linux"

[feature.cuda.dependencies]
python = "<3.13"
numpy = "*"

[feature.cuda.target.linux-64.dependencies]
numpy = ">=2"
cudatoolkit = ">=12"

[feature.cuda.activation]
scripts = ["cuda.sh"]

[feature.cuda.target.linux-64.activation]
scripts = ["cuda-linux.sh"]

[feature.cuda.target.osx-arm64.activation]

[feature.cuda.tasks]
build = "make cuda"

[feature.cuda.target.linux-64.tasks]
build = "make cuda-linux"
test = "pytest"

[environments]
gpu = ["cuda"]
`)

	gpu := environment(t, p, "gpu")
	run := domain.SpecTypeRun

	deps, err := gpu.Dependencies(&run, platform("linux-64"))
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "numpy", "cudatoolkit"}, deps.Names())
	assert.Equal(t, []string{">=2"}, specs(t, deps, "numpy"))

	deps, err = gpu.Dependencies(&run, platform("osx-arm64"))
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "numpy"}, deps.Names())
	assert.Equal(t, []string{"*"}, specs(t, deps, "numpy"))

	assert.Equal(t, []string{"cuda.sh"}, gpu.ActivationScripts(nil))
	assert.Equal(t, []string{"cuda-linux.sh"}, gpu.ActivationScripts(platform("linux-64")))
	assert.Equal(t, []string{"cuda.sh"}, gpu.ActivationScripts(platform("osx-arm64")))

	task, err := gpu.Task("build", platform("linux-64"))
	require.NoError(t, err)
	assert.Equal(t, "make cuda-linux", task.Command)

	task, err = gpu.Task("build", platform("osx-arm64"))
	require.NoError(t, err)
	assert.Equal(t, "make cuda", task.Command)

	_, err = gpu.Task("test", platform("osx-arm64"))
	require.ErrorIs(t, err, domain.ErrUnknownTask)

	task, err = p.DefaultEnvironment().Task("build", platform("linux-64"))
	require.NoError(t, err)
	assert.Equal(t, "make linux", task.Command)
}

func TestParse_TargetFeatureTables(t *testing.T) {
	p := parse(t, header+`
[feature.cuda]
channels = ["nvidia"]

[feature.cuda.dependencies]
python = "*"

[target.linux-64.feature.cuda.dependencies]
cudatoolkit = ">=12"

[target.linux-64.feature.cuda.tasks]
check = "nvidia-smi"

[target.osx-arm64.feature.metal.dependencies]
mlx = "*"

[environments]
gpu = ["cuda"]
mac = ["metal"]
`)

	gpu := environment(t, p, "gpu")

	deps, err := gpu.Dependencies(nil, platform("linux-64"))
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "cudatoolkit"}, deps.Names())
	assert.Equal(t, []string{">=12"}, specs(t, deps, "cudatoolkit"))

	deps, err = gpu.Dependencies(nil, platform("osx-arm64"))
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, deps.Names())

	task, err := gpu.Task("check", platform("linux-64"))
	require.NoError(t, err)
	assert.Equal(t, "nvidia-smi", task.Command)
	_, err = gpu.Task("check", platform("osx-arm64"))
	require.ErrorIs(t, err, domain.ErrUnknownTask)

	var names []string
	for _, f := range p.Features() {
		names = append(names, f.Name.String())
	}
	assert.Equal(t, []string{"cuda", "metal"}, names)

	deps, err = environment(t, p, "mac").Dependencies(nil, platform("osx-arm64"))
	require.NoError(t, err)
	assert.Equal(t, []string{"mlx"}, deps.Names())
}

func TestParse_DeclarationOrder(t *testing.T) {
	p := parse(t, header+`
[dependencies]
zlib = "*"
python = ">=3.10"
abseil = { version = ">=20230101", build = "h*", channel = "conda-forge" }

[feature.zeta]
platforms = ["linux-64"]

[feature.alpha.pypi-dependencies]
Flask_Login = { version = ">=0.6", extras = ["async"] }
requests = "*"

[environments]
zz = { features = ["zeta"], solve-group = "main" }
aa = { features = ["alpha"], solve-group = "main" }
`)

	deps, err := p.DefaultEnvironment().Dependencies(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"zlib", "python", "abseil"}, deps.Names())
	assert.Equal(t, []string{"conda-forge::>=20230101 h*"}, specs(t, deps, "abseil"))

	var features []string
	for _, f := range p.Features() {
		features = append(features, f.Name.String())
	}
	assert.Equal(t, []string{"zeta", "alpha"}, features)

	var envs []string
	for _, e := range p.Environments() {
		envs = append(envs, e.Name())
	}
	assert.Equal(t, []string{"default", "zz", "aa"}, envs)
	assert.Equal(t, "main", environment(t, p, "aa").SolveGroup())

	pypi, err := environment(t, p, "aa").PyPiDependencies(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"flask-login", "requests"}, pypi.Names())
	assert.True(t, environment(t, p, "aa").HasPyPiDependencies())
	assert.False(t, p.DefaultEnvironment().HasPyPiDependencies())
}

func TestParse_DependencyKinds(t *testing.T) {
	p := parse(t, header+`
[dependencies]
python = ">=3.10"

[host-dependencies]
python = ">=3.11"
setuptools = "*"

[build-dependencies]
cmake = "*"

[target.linux.build-dependencies]
gcc = "*"
`)

	env := p.DefaultEnvironment()

	host := domain.SpecTypeHost
	deps, err := env.Dependencies(&host, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "setuptools"}, deps.Names())

	combined, err := env.Dependencies(nil, platform("linux-64"))
	require.NoError(t, err)
	assert.Equal(t, []string{">=3.11"}, specs(t, combined, "python"))
	assert.ElementsMatch(t, []string{"python", "setuptools", "cmake", "gcc"}, combined.Names())

	onMac, err := env.Dependencies(nil, platform("osx-arm64"))
	require.NoError(t, err)
	assert.False(t, onMac.Contains("gcc"))
}

func TestParse_Tasks(t *testing.T) {
	p := parse(t, header+`
[tasks]
build = { cmd = ["cargo", "build", "--features", "a b"], cwd = "crates", env = { RUST_LOG = "debug" }, description = "Build it" }
test = { cmd = "cargo test", depends-on = "build" }
all = { depends_on = ["build", "test"] }
`)

	tasks, err := p.DefaultEnvironment().Tasks(nil)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	build := tasks["build"]
	assert.Equal(t, "cargo build --features 'a b'", build.Command)
	assert.Equal(t, "crates", build.WorkingDir)
	assert.Equal(t, map[string]string{"RUST_LOG": "debug"}, build.Environment)
	assert.Equal(t, "Build it", build.Description)

	assert.Equal(t, domain.NewInternedStrings([]string{"build"}), tasks["test"].Dependencies)
	assert.True(t, tasks["all"].IsAlias())
	assert.Len(t, tasks["all"].Dependencies, 2)
}

func TestParse_SystemRequirements(t *testing.T) {
	p := parse(t, header+`
[system-requirements]
linux = "4.18"
libc = "2.17"

[feature.cuda.system-requirements]
cuda = "12"
linux = "5.10"
libc = { family = "glibc", version = "2.28" }

[environments]
cuda = ["cuda"]
`)

	reqs := environment(t, p, "cuda").SystemRequirements()
	assert.Equal(t, "5.10", reqs.Linux)
	assert.Equal(t, "12", reqs.Cuda)
	require.NotNil(t, reqs.LibC)
	assert.Equal(t, domain.LibC{Family: "glibc", Version: "2.28"}, *reqs.LibC)
}

func TestParse_Metadata(t *testing.T) {
	p := parse(t, `
[project]
name = "demo"
version = "0.1.0"
description = "A demo"
authors = ["Jane <jane@example.com>"]
license = "MIT"
homepage = "https://example.com"
repository = "https://example.com/demo.git"
documentation = "https://example.com/docs"
channels = ["https://repo.example.com/channel"]
platforms = ["linux-64"]
`)

	meta := p.Manifest().Project
	assert.Equal(t, "demo", p.Name())
	assert.Equal(t, "0.1.0", meta.Version)
	assert.Equal(t, "MIT", meta.License)
	assert.Equal(t, []string{"Jane <jane@example.com>"}, meta.Authors)
	assert.Equal(t, "https://repo.example.com/channel/", meta.Channels[0].Channel.URL())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{
			name:    "missing project name",
			content: "[project]\nplatforms = [\"linux-64\"]\n",
			want:    domain.ErrMissingProjectName,
		},
		{
			name:    "unknown field",
			content: header + "\n[tool]\nfoo = 1\n",
			want:    domain.ErrConfigParseFailed,
		},
		{
			name:    "invalid toml",
			content: "[project\n",
			want:    domain.ErrConfigParseFailed,
		},
		{
			name:    "invalid platform",
			content: "[project]\nname = \"demo\"\nplatforms = [\"amiga-68k\"]\n",
			want:    domain.ErrInvalidPlatform,
		},
		{
			name:    "invalid target selector",
			content: header + "\n[target.beos.dependencies]\nfoo = \"*\"\n",
			want:    domain.ErrInvalidTargetSelector,
		},
		{
			name:    "duplicate target section",
			content: header + "\n[target.linux-64.dependencies]\nfoo = \"*\"\n\n[target.\" linux-64\".dependencies]\nbar = \"*\"\n",
			want:    domain.ErrDuplicateTargetSection,
		},
		{
			name:    "target declared under both feature forms",
			content: header + "\n[feature.cuda.target.linux-64.dependencies]\nfoo = \"*\"\n\n[target.linux-64.feature.cuda.dependencies]\nbar = \"*\"\n",
			want:    domain.ErrDuplicateTargetSection,
		},
		{
			name:    "target feature named default",
			content: header + "\n[target.linux-64.feature.default.dependencies]\nfoo = \"*\"\n",
			want:    domain.ErrReservedFeatureName,
		},
		{
			name:    "feature table inside a feature target",
			content: header + "\n[feature.a.target.linux-64.feature.b.dependencies]\nfoo = \"*\"\n",
			want:    domain.ErrConfigParseFailed,
		},
		{
			name:    "reserved feature name",
			content: header + "\n[feature.default]\nplatforms = [\"linux-64\"]\n",
			want:    domain.ErrReservedFeatureName,
		},
		{
			name:    "environment lists default feature",
			content: header + "\n[environments]\nprod = [\"default\"]\n",
			want:    domain.ErrReservedFeatureName,
		},
		{
			name:    "unknown feature",
			content: header + "\n[environments]\nprod = [\"missing\"]\n",
			want:    domain.ErrUnknownFeature,
		},
		{
			name:    "duplicate feature reference",
			content: header + "\n[feature.a]\n\n[environments]\nprod = [\"a\", \"a\"]\n",
			want:    domain.ErrDuplicateFeatureReference,
		},
		{
			name:    "invalid environment name",
			content: header + "\n[feature.a]\n\n[environments]\nProd_1 = [\"a\"]\n",
			want:    domain.ErrInvalidEnvironmentName,
		},
		{
			name:    "invalid environment form",
			content: header + "\n[environments]\nprod = 1\n",
			want:    domain.ErrInvalidEnvironment,
		},
		{
			name:    "invalid match spec",
			content: header + "\n[dependencies]\nfoo = \">=1 py_0 extra\"\n",
			want:    domain.ErrInvalidMatchSpec,
		},
		{
			name:    "invalid task",
			content: header + "\n[tasks]\nfoo = { description = \"nothing to do\" }\n",
			want:    domain.ErrInvalidTask,
		},
		{
			name:    "invalid task name",
			content: header + "\n[tasks]\n\"two words\" = \"echo\"\n",
			want:    domain.ErrInvalidTaskName,
		},
		{
			name:    "invalid channel priority",
			content: header + "\n[feature.a]\nchannels = [{ channel = \"x\", priority = \"high\" }]\n",
			want:    domain.ErrInvalidChannel,
		},
		{
			name:    "invalid system requirement version",
			content: header + "\n[system-requirements]\ncuda = \"twelve\"\n",
			want:    domain.ErrInvalidVersion,
		},
		{
			name: "conflicting system requirements",
			content: header + `
[system-requirements]
libc = { family = "glibc", version = "2.17" }

[feature.musl.system-requirements]
libc = { family = "musl", version = "1.2" }

[environments]
musl = ["musl"]
`,
			want: domain.ErrSystemRequirementsConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErr(t, tt.content)
			assert.ErrorContains(t, err, tt.want.Error())
		})
	}
}

func TestParse_Warnings(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	log.EXPECT().Warn("feature 'unused' is not used by any environment")
	log.EXPECT().Warn("environment 'win' does not support any platform")
	log.EXPECT().Warn("solve-group 'lonely' is only used by environment 'win'")

	_, err := config.NewLoader(log, "").Parse("manifold.toml", []byte(header+`
[feature.unused]

[feature.windows]
platforms = ["win-64"]

[environments]
win = { features = ["windows"], solve-group = "lonely" }
`))
	require.NoError(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, domain.ManifestFileName)
	require.NoError(t, os.WriteFile(manifest, []byte(header), 0o600))

	loader := config.NewLoader(nil, "")

	t.Run("file", func(t *testing.T) {
		p, err := loader.Load(manifest)
		require.NoError(t, err)
		assert.Equal(t, dir, p.Root())
		assert.Equal(t, "demo", p.Name())
		assert.Equal(t, filepath.Join(dir, ".manifold", "envs", "default"), p.DefaultEnvironment().Dir())
	})

	t.Run("directory", func(t *testing.T) {
		p, err := loader.Load(dir)
		require.NoError(t, err)
		assert.Equal(t, manifest, p.Manifest().Path)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := loader.Load(t.TempDir())
		assert.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
	})
}

func TestDiscoverManifest(t *testing.T) {
	root := t.TempDir()
	manifest := filepath.Join(root, domain.ManifestFileName)
	require.NoError(t, os.WriteFile(manifest, []byte(header), 0o600))

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	loader := config.NewLoader(nil, "")

	got, err := loader.DiscoverManifest(nested)
	require.NoError(t, err)
	assert.Equal(t, manifest, got)

	got, err = loader.DiscoverManifest(root)
	require.NoError(t, err)
	assert.Equal(t, manifest, got)
}

func TestDiscoverManifest_NotFound(t *testing.T) {
	_, err := config.NewLoader(nil, "").DiscoverManifest(t.TempDir())
	assert.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
}
