package app_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/manifold/internal/adapters/config"
	"go.trai.ch/manifold/internal/adapters/store"
	"go.trai.ch/manifold/internal/adapters/telemetry"
	"go.trai.ch/manifold/internal/app"
	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/manifold/internal/core/ports"
	"go.trai.ch/manifold/internal/core/ports/mocks"
	"go.trai.ch/manifold/internal/core/project"
	"go.uber.org/mock/gomock"
)

const manifest = `
[project]
name = "demo"
channels = ["conda-forge"]
platforms = ["linux-64", "osx-arm64"]

[dependencies]
python = ">=3.10"

[tasks]
build = { cmd = "make", cwd = "src" }
test = { cmd = "make test", depends-on = ["build"] }
all = { depends-on = ["test", "build"] }

[target.osx-arm64.tasks]
build = "xcodebuild"

[feature.cuda]
channels = [{ channel = "nvidia", priority = 1 }]
platforms = ["linux-64"]

[feature.cuda.system-requirements]
cuda = "12"

[feature.cuda.dependencies]
pytorch = ">=2.0"

[environments]
cuda = { features = ["cuda"], solve-group = "gpu" }
`

type fixture struct {
	root         string
	manifestPath string
	loader       *mocks.MockConfigLoader
	executor     *mocks.MockExecutor
	renderer     *mocks.MockRenderer
	watcher      *mocks.MockWatcher
	logger       *mocks.MockLogger
	spans        *tracetest.SpanRecorder
	app          *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	f := &fixture{
		root:     t.TempDir(),
		loader:   mocks.NewMockConfigLoader(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		renderer: mocks.NewMockRenderer(ctrl),
		watcher:  mocks.NewMockWatcher(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		spans:    spans,
	}
	f.manifestPath = filepath.Join(f.root, domain.ManifestFileName)

	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	f.app = app.New(
		f.loader,
		f.executor,
		store.NewStore(),
		f.renderer,
		f.watcher,
		telemetry.NewOTelTracer(tp, "test"),
		f.logger,
	).WithOutput(io.Discard, io.Discard)
	return f
}

// load parses content fresh on every call, as the real loader does.
func (f *fixture) load(t *testing.T, content string) func(string) (*project.Project, error) {
	t.Helper()
	return func(string) (*project.Project, error) {
		m, err := config.NewLoader(nil, "").Parse(f.manifestPath, []byte(content))
		require.NoError(t, err)
		return project.New(f.root, m), nil
	}
}

func (f *fixture) expectLoad(t *testing.T, content string) {
	t.Helper()
	f.loader.EXPECT().Load(f.manifestPath).DoAndReturn(f.load(t, content))
}

func (f *fixture) spanNames() []string {
	var names []string
	for _, s := range f.spans.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func TestApp_Info(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(t, manifest)

	f.renderer.EXPECT().RenderInfo(gomock.Any(), domain.FormatJSON, gomock.Any()).
		DoAndReturn(func(_ io.Writer, _ domain.OutputFormat, reports []domain.EnvironmentReport) error {
			require.Len(t, reports, 2)

			def := reports[0]
			assert.Equal(t, "default", def.Name)
			assert.Equal(t, []string{"default"}, def.Features)
			assert.Equal(t, []string{"https://conda.anaconda.org/conda-forge/"}, def.Channels)
			assert.Equal(t, []string{"linux-64", "osx-arm64"}, def.Platforms)
			assert.Nil(t, def.SystemRequirements)
			assert.Equal(t, []string{"all", "build", "test"}, def.Tasks)

			cuda := reports[1]
			assert.Equal(t, "cuda", cuda.Name)
			assert.Equal(t, "gpu", cuda.SolveGroup)
			assert.Equal(t, []string{"cuda", "default"}, cuda.Features)
			assert.Equal(t, []string{
				"https://conda.anaconda.org/nvidia/",
				"https://conda.anaconda.org/conda-forge/",
			}, cuda.Channels)
			assert.Equal(t, []string{"linux-64"}, cuda.Platforms)
			require.NotNil(t, cuda.SystemRequirements)
			assert.Equal(t, "12", cuda.SystemRequirements.Cuda)
			assert.Equal(t, []domain.RequirementIntent{
				{Name: "pytorch", Specs: []string{">=2.0"}},
				{Name: "python", Specs: []string{">=3.10"}},
			}, cuda.Dependencies)
			return nil
		})

	err := f.app.Info(t.Context(), app.InfoOptions{ManifestPath: f.manifestPath, Format: domain.FormatJSON})
	require.NoError(t, err)

	names := f.spanNames()
	assert.Contains(t, names, "load_manifest")
	assert.Equal(t, 2, countOf(names, "compose_environment"))
}

func TestApp_Info_Platform(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(t, manifest)

	f.renderer.EXPECT().RenderInfo(gomock.Any(), domain.FormatPretty, gomock.Any()).
		DoAndReturn(func(_ io.Writer, _ domain.OutputFormat, reports []domain.EnvironmentReport) error {
			require.Len(t, reports, 1)
			assert.Equal(t, "osx-arm64", reports[0].Platform)
			assert.Equal(t, []string{"all", "build", "test"}, reports[0].Tasks)
			return nil
		})

	err := f.app.Info(t.Context(), app.InfoOptions{
		ManifestPath: f.manifestPath,
		Environments: []string{"default", "default"},
		Platform:     "osx-arm64",
		Format:       domain.FormatPretty,
	})
	require.NoError(t, err)
}

func TestApp_Info_UnsupportedPlatform(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(t, manifest)

	err := f.app.Info(t.Context(), app.InfoOptions{
		ManifestPath: f.manifestPath,
		Environments: []string{"cuda"},
		Platform:     "osx-arm64",
	})

	var unsupported *project.UnsupportedPlatformError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "cuda", unsupported.Environment)
	assert.Equal(t, []domain.Platform{"linux-64"}, unsupported.Supported)
}

func TestApp_Info_UnknownEnvironment(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(t, manifest)

	err := f.app.Info(t.Context(), app.InfoOptions{ManifestPath: f.manifestPath, Environments: []string{"prod"}})
	assert.ErrorContains(t, err, domain.ErrUnknownEnvironment.Error())
}

func TestApp_Info_LoadError(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(f.manifestPath).Return(nil, domain.ErrConfigParseFailed)

	err := f.app.Info(t.Context(), app.InfoOptions{ManifestPath: f.manifestPath})
	assert.ErrorContains(t, err, "failed to load manifest")
}

func TestApp_Info_Watch(t *testing.T) {
	f := newFixture(t)

	changed := `
[project]
name = "demo"
channels = ["conda-forge"]
platforms = ["linux-64"]
`
	gomock.InOrder(
		f.loader.EXPECT().Load(f.manifestPath).DoAndReturn(f.load(t, manifest)),
		f.loader.EXPECT().Load(f.manifestPath).DoAndReturn(f.load(t, changed)),
	)

	var rendered [][]string
	f.renderer.EXPECT().RenderInfo(gomock.Any(), domain.FormatPretty, gomock.Any()).
		DoAndReturn(func(_ io.Writer, _ domain.OutputFormat, reports []domain.EnvironmentReport) error {
			rendered = append(rendered, reports[0].Platforms)
			return nil
		}).Times(2)

	f.watcher.EXPECT().Start(gomock.Any(), f.manifestPath).Return(nil)
	f.watcher.EXPECT().Events().Return(slices.Values([]ports.WatchEvent{
		{Path: f.manifestPath, Operation: ports.OpWrite},
	}))
	f.watcher.EXPECT().Stop().Return(nil)

	err := f.app.Info(t.Context(), app.InfoOptions{
		ManifestPath: f.manifestPath,
		Environments: []string{"default"},
		Format:       domain.FormatPretty,
		Watch:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"linux-64", "osx-arm64"}, {"linux-64"}}, rendered)
}

func TestApp_Info_WatchKeepsGoingOnError(t *testing.T) {
	f := newFixture(t)

	gomock.InOrder(
		f.loader.EXPECT().Load(f.manifestPath).DoAndReturn(f.load(t, manifest)),
		f.loader.EXPECT().Load(f.manifestPath).Return(nil, domain.ErrConfigParseFailed),
	)
	f.renderer.EXPECT().RenderInfo(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.watcher.EXPECT().Start(gomock.Any(), f.manifestPath).Return(nil)
	f.watcher.EXPECT().Events().Return(slices.Values([]ports.WatchEvent{
		{Path: f.manifestPath, Operation: ports.OpWrite},
	}))
	f.watcher.EXPECT().Stop().Return(nil)
	f.logger.EXPECT().Error(gomock.Any())

	err := f.app.Info(t.Context(), app.InfoOptions{ManifestPath: f.manifestPath, Watch: true})
	require.NoError(t, err)
}

func TestApp_TaskList(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(t, manifest)

	f.renderer.EXPECT().RenderTasks(gomock.Any(), domain.FormatPretty, []domain.TaskReport{
		{Name: "all", DependsOn: []string{"test", "build"}},
		{Name: "build", Command: "xcodebuild"},
		{Name: "test", Command: "make test", DependsOn: []string{"build"}},
	}).Return(nil)

	err := f.app.TaskList(t.Context(), app.TaskListOptions{
		ManifestPath: f.manifestPath,
		Platform:     "osx-arm64",
		Format:       domain.FormatPretty,
	})
	require.NoError(t, err)
}

func TestApp_TaskList_InvalidPlatform(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(t, manifest)

	err := f.app.TaskList(t.Context(), app.TaskListOptions{ManifestPath: f.manifestPath, Platform: "amiga"})
	assert.ErrorContains(t, err, domain.ErrInvalidPlatform.Error())
}

func TestApp_Run(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(t, manifest)

	var ran []string
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, task *domain.Task, env []string, _, _ io.Writer) error {
			ran = append(ran, task.Name.String())
			assert.True(t, filepath.IsAbs(task.WorkingDir))
			assert.Contains(t, env, "MANIFOLD_ENVIRONMENT_NAME=default")
			assert.Contains(t, env, "MANIFOLD_PROJECT_ROOT="+f.root)
			if task.Name.String() == "build" {
				assert.Equal(t, filepath.Join(f.root, "src"), task.WorkingDir)
			} else {
				assert.Equal(t, f.root, task.WorkingDir)
			}
			return nil
		}).Times(2)

	err := f.app.Run(t.Context(), "all", app.RunOptions{ManifestPath: f.manifestPath, Platform: "linux-64"})
	require.NoError(t, err)

	assert.Equal(t, []string{"build", "test"}, ran)
	assert.FileExists(t, filepath.Join(f.root, ".manifold", "envs", "default", domain.IntentFileName))
	assert.Equal(t, 3, countOf(f.spanNames(), "run_task"))
	assert.Contains(t, f.spanNames(), "reconcile_intent")
}

func TestApp_Run_TaskFailure(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(t, manifest)

	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ErrTaskExecutionFailed)

	err := f.app.Run(t.Context(), "test", app.RunOptions{ManifestPath: f.manifestPath, Platform: "linux-64"})
	assert.ErrorContains(t, err, domain.ErrTaskExecutionFailed.Error())
}

func TestApp_Run_UnknownTask(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(t, manifest+`
[feature.cuda.tasks]
train = { cmd = "python train.py", depends-on = ["prepare"] }
`)

	err := f.app.Run(t.Context(), "train", app.RunOptions{
		ManifestPath: f.manifestPath,
		Environment:  "cuda",
		Platform:     "linux-64",
	})
	require.ErrorIs(t, err, domain.ErrUnknownTask)
	assert.ErrorContains(t, err, "task 'prepare' does not exist in environment 'cuda'")
}

func TestApp_Run_UnsupportedPlatform(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(t, manifest)

	err := f.app.Run(t.Context(), "build", app.RunOptions{
		ManifestPath: f.manifestPath,
		Environment:  "cuda",
		Platform:     "osx-arm64",
	})
	require.ErrorIs(t, err, domain.ErrUnknownTask)

	var unknown *project.UnknownTaskError
	require.ErrorAs(t, err, &unknown)
	assert.True(t, errors.Is(unknown.Cause, domain.ErrUnsupportedPlatform))
}

func TestApp_Run_Cycle(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(t, `
[project]
name = "demo"
platforms = ["linux-64"]

[tasks]
a = { cmd = "echo a", depends-on = ["b"] }
b = { cmd = "echo b", depends-on = ["a"] }
`)

	err := f.app.Run(t.Context(), "a", app.RunOptions{ManifestPath: f.manifestPath, Platform: "linux-64"})
	assert.ErrorContains(t, err, domain.ErrCycleDetected.Error())
}

func TestApp_Install(t *testing.T) {
	changed := manifest + `
[feature.cuda.pypi-dependencies]
flask = "*"
`

	t.Run("frozen without snapshot", func(t *testing.T) {
		f := newFixture(t)
		f.expectLoad(t, manifest)

		err := f.app.Install(t.Context(), app.InstallOptions{
			ManifestPath:  f.manifestPath,
			LockFileUsage: domain.LockFileFrozen,
		})
		assert.ErrorContains(t, err, domain.ErrIntentNotFound.Error())
	})

	t.Run("locked without snapshot", func(t *testing.T) {
		f := newFixture(t)
		f.expectLoad(t, manifest)

		err := f.app.Install(t.Context(), app.InstallOptions{
			ManifestPath:  f.manifestPath,
			LockFileUsage: domain.LockFileLocked,
		})
		assert.ErrorContains(t, err, domain.ErrIntentOutOfDate.Error())
	})

	t.Run("update then locked then frozen", func(t *testing.T) {
		f := newFixture(t)
		gomock.InOrder(
			f.loader.EXPECT().Load(f.manifestPath).DoAndReturn(f.load(t, manifest)),
			f.loader.EXPECT().Load(f.manifestPath).DoAndReturn(f.load(t, manifest)),
			f.loader.EXPECT().Load(f.manifestPath).DoAndReturn(f.load(t, changed)),
			f.loader.EXPECT().Load(f.manifestPath).DoAndReturn(f.load(t, changed)),
			f.loader.EXPECT().Load(f.manifestPath).DoAndReturn(f.load(t, changed)),
			f.loader.EXPECT().Load(f.manifestPath).DoAndReturn(f.load(t, changed)),
		)

		install := func(usage domain.LockFileUsage) error {
			return f.app.Install(t.Context(), app.InstallOptions{
				ManifestPath:  f.manifestPath,
				Environment:   "cuda",
				LockFileUsage: usage,
			})
		}

		intentPath := filepath.Join(f.root, ".manifold", "envs", "cuda", domain.IntentFileName)

		require.NoError(t, install(domain.LockFileUpdate))
		written, err := os.ReadFile(intentPath)
		require.NoError(t, err)

		require.NoError(t, install(domain.LockFileLocked))

		err = install(domain.LockFileLocked)
		assert.ErrorContains(t, err, domain.ErrIntentOutOfDate.Error())

		require.NoError(t, install(domain.LockFileFrozen))
		unchanged, err := os.ReadFile(intentPath)
		require.NoError(t, err)
		assert.Equal(t, written, unchanged)

		require.NoError(t, install(domain.LockFileUpdate))
		require.NoError(t, install(domain.LockFileLocked))
	})
}

func TestBuildSnapshot(t *testing.T) {
	m, err := config.NewLoader(nil, "").Parse("manifold.toml", []byte(manifest+`
[target.osx-arm64.dependencies]
python = ">=3.12"
`))
	require.NoError(t, err)
	env := project.New("/work", m).DefaultEnvironment()

	snapshot, err := app.BuildSnapshot(env)
	require.NoError(t, err)

	assert.Equal(t, "default", snapshot.Environment)
	assert.Equal(t, []string{"linux-64", "osx-arm64"}, snapshot.Platforms)
	assert.Empty(t, snapshot.Fingerprint)
	assert.Equal(t, []domain.PlatformIntent{
		{Platform: "linux-64", Dependencies: []domain.RequirementIntent{{Name: "python", Specs: []string{">=3.10"}}}},
		{Platform: "osx-arm64", Dependencies: []domain.RequirementIntent{{Name: "python", Specs: []string{">=3.12"}}}},
	}, snapshot.Targets)
}

func countOf(names []string, name string) int {
	n := 0
	for _, s := range names {
		if s == name {
			n++
		}
	}
	return n
}
