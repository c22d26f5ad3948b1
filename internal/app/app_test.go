package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/lbuild/internal/config"
	"github.com/vk/lbuild/internal/engine"
	"github.com/vk/lbuild/internal/target"
)

const chainScript = `
lbuild.task("gen").run(lambda t: lbuild.exec("touch gen.out"))
lbuild.task("compile").dependsOn("gen").run(lambda t: print("compiling", lbuild.vars.get("mode", "debug")))
lbuild.task("all").dependsOn("compile")
`

func TestRun_BuildsTargetWithDependencies(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := WriteProject(t, map[string]string{"build.star": chainScript})
	cfg, err := NewConfig(Config{Dir: dir, Target: "compile"})
	require.NoError(t, err)
	testApp, out, logs := SetupAppTest(t, cfg)

	// --- Act ---
	err = testApp.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "gen.out"))
	assert.Contains(t, out.String(), "compiling debug\n")
	assert.Contains(t, out.String(), "✔ build succeeded: compile")
	assert.Contains(t, logs.String(), "run_id="+testApp.RunID())
}

func TestRun_TargetWithoutActionFails(t *testing.T) {
	t.Parallel()

	dir := WriteProject(t, map[string]string{"build.star": chainScript})
	cfg, err := NewConfig(Config{Dir: dir, Target: "all"})
	require.NoError(t, err)
	testApp, out, logs := SetupAppTest(t, cfg)

	err = testApp.Run(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "all", statusErr.Target)
	assert.Equal(t, engine.StatusFailed, statusErr.Status)
	assert.Contains(t, out.String(), "compiling")
	assert.Contains(t, logs.String(), "No action is registered for build target.")
}

func TestRun_ProjectFileSettings(t *testing.T) {
	testCases := []struct {
		name string
		file string
		src  string
	}{
		{
			name: "hcl",
			file: "lbuild.hcl",
			src: `
script         = "ci/pipeline.star"
default_target = "compile"
vars = {
  mode = env.LBUILD_APP_TEST_MODE
}
`,
		},
		{
			name: "toml",
			file: "lbuild.toml",
			src: `
script = "ci/pipeline.star"
default_target = "compile"

[vars]
mode = "release"
`,
		},
	}

	t.Setenv("LBUILD_APP_TEST_MODE", "release")
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := WriteProject(t, map[string]string{
				tc.file:             tc.src,
				"ci/pipeline.star": chainScript,
			})
			cfg, err := NewConfig(Config{Dir: dir})
			require.NoError(t, err)
			testApp, out, _ := SetupAppTest(t, cfg)

			require.NoError(t, testApp.Run(context.Background()))
			assert.Contains(t, out.String(), "compiling release\n")
		})
	}
}

func TestRun_FlagsOverrideProjectFile(t *testing.T) {
	t.Parallel()

	dir := WriteProject(t, map[string]string{
		"lbuild.toml": `script = "missing.star"` + "\n",
		"other.star":  `lbuild.task("x").run(lambda t: print("from other"))`,
	})
	cfg, err := NewConfig(Config{Dir: dir, ScriptPath: "other.star", Target: "x"})
	require.NoError(t, err)
	testApp, out, _ := SetupAppTest(t, cfg)

	require.NoError(t, testApp.Run(context.Background()))
	assert.Contains(t, out.String(), "from other\n")
}

func TestRun_List(t *testing.T) {
	t.Parallel()

	dir := WriteProject(t, map[string]string{"build.star": chainScript})
	cfg, err := NewConfig(Config{Dir: dir, List: true})
	require.NoError(t, err)
	testApp, out, _ := SetupAppTest(t, cfg)

	require.NoError(t, testApp.Run(context.Background()))
	want := "  all      depends on compile; no action\n" +
		"  compile  depends on gen\n" +
		"  gen\n"
	assert.Equal(t, want, out.String())
	assert.NoFileExists(t, filepath.Join(dir, "gen.out"))
}

func TestRun_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		files  map[string]string
		target string
		check  func(t *testing.T, err error)
	}{
		{
			name:  "no script",
			files: map[string]string{"README.md": "hi"},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, config.ErrNoScript) },
		},
		{
			name:  "no target",
			files: map[string]string{"build.star": chainScript},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNoTarget) },
		},
		{
			name:   "unknown target",
			files:  map[string]string{"build.star": chainScript},
			target: "nope",
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, target.ErrUnknownTarget) },
		},
		{
			name: "cycle",
			files: map[string]string{"build.star": `
lbuild.task("a").dependsOn("b")
lbuild.task("b").dependsOn("a")
`},
			target: "a",
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, target.ErrCircularDependency) },
		},
		{
			name:   "script failure",
			files:  map[string]string{"build.star": `fail("bad script")`},
			target: "a",
			check:  func(t *testing.T, err error) { assert.ErrorContains(t, err, "bad script") },
		},
		{
			name: "action failure",
			files: map[string]string{"build.star": `
def boom(t):
    fail("bad action")

lbuild.task("a").run(boom)
`},
			target: "a",
			check: func(t *testing.T, err error) {
				var actionErr *engine.ActionError
				assert.ErrorAs(t, err, &actionErr)
			},
		},
		{
			name:   "exit status",
			files:  map[string]string{"build.star": `lbuild.task("a").run(lambda t: lbuild.exec("sh -c 'exit 9'"))`},
			target: "a",
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, engine.Status(9), statusErr.Status)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := WriteProject(t, tc.files)
			cfg, err := NewConfig(Config{Dir: dir, Target: tc.target})
			require.NoError(t, err)
			testApp, _, _ := SetupAppTest(t, cfg)

			err = testApp.Run(context.Background())
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestRun_LockHeld(t *testing.T) {
	t.Parallel()

	dir := WriteProject(t, map[string]string{"build.star": chainScript})
	held := flock.New(filepath.Join(dir, LockFile))
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer func() { _ = held.Unlock() }()

	cfg, err := NewConfig(Config{Dir: dir, Target: "compile"})
	require.NoError(t, err)
	testApp, _, _ := SetupAppTest(t, cfg)

	err = testApp.Run(context.Background())
	assert.ErrorIs(t, err, ErrLocked)
}

func TestRun_LockFileIsHidden(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := WriteProject(t, map[string]string{
		"build.star": `
def ls(t):
    for f in sorted([f.path for f in lbuild.getFiles(".")]):
        print(f)

lbuild.task("ls").run(ls)
`,
	})
	cfg, err := NewConfig(Config{Dir: dir, Target: "ls"})
	require.NoError(t, err)
	testApp, out, _ := SetupAppTest(t, cfg)

	// --- Act ---
	err = testApp.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, out.String(), "build.star\n")
	assert.NotContains(t, out.String(), LockFile)
	assert.NoFileExists(t, filepath.Join(dir, LockFile))
}

func TestRun_FailureSummaryOmitsError(t *testing.T) {
	t.Parallel()

	dir := WriteProject(t, map[string]string{"build.star": `
def boom(t):
    fail("bad action")

lbuild.task("a").run(boom)
`})
	cfg, err := NewConfig(Config{Dir: dir, Target: "a"})
	require.NoError(t, err)
	testApp, out, _ := SetupAppTest(t, cfg)

	err = testApp.Run(context.Background())
	require.ErrorContains(t, err, "bad action")
	assert.Contains(t, out.String(), "✘ build failed: a")
	assert.NotContains(t, out.String(), "bad action")
}

func TestRun_LogFile(t *testing.T) {
	t.Parallel()

	dir := WriteProject(t, map[string]string{"build.star": chainScript})
	cfg, err := NewConfig(Config{Dir: dir, Target: "gen", LogFile: "build.log", LogLevel: "error"})
	require.NoError(t, err)
	testApp, _, logs := SetupAppTest(t, cfg)

	require.NoError(t, testApp.Run(context.Background()))
	require.NoError(t, testApp.Close())

	data, err := os.ReadFile(filepath.Join(dir, "build.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Finished target")
	assert.Contains(t, string(data), `"run_id":"`+testApp.RunID()+`"`)
	assert.NotContains(t, logs.String(), "Finished target")
}

func TestNewApp_InvalidProjectFile(t *testing.T) {
	t.Parallel()

	dir := WriteProject(t, map[string]string{"lbuild.hcl": `log_level = "loud"`})
	cfg, err := NewConfig(Config{Dir: dir})
	require.NoError(t, err)

	_, err = NewApp(&SafeBuffer{}, &SafeBuffer{}, cfg, DefaultLoaders())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{})
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Dir)

	_, err = NewConfig(Config{LogLevel: "verbose"})
	assert.Error(t, err)
	_, err = NewConfig(Config{LogFormat: "yaml"})
	assert.Error(t, err)
}
