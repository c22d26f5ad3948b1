package hclconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lbuild.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
script         = "ci/build.star"
default_target = "all"
log_level      = "debug"
log_format     = "json"
log_file       = "build.log"
log_journal    = true

vars = {
  mode = env.BUILD_MODE
  arch = "arm64"
}
`)
	l := &Loader{Environ: func() []string { return []string{"BUILD_MODE=release", "EMPTY="} }}

	p, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "ci/build.star", p.Script)
	assert.Equal(t, "all", p.DefaultTarget)
	assert.Equal(t, "debug", p.LogLevel)
	assert.Equal(t, "json", p.LogFormat)
	assert.Equal(t, "build.log", p.LogFile)
	assert.True(t, p.LogJournal)
	assert.Equal(t, map[string]string{"mode": "release", "arch": "arm64"}, p.Vars)
}

func TestLoadEmptyFile(t *testing.T) {
	p, err := NewLoader().Load(context.Background(), writeFile(t, ""))
	require.NoError(t, err)
	assert.Empty(t, p.Script)
	assert.Empty(t, p.Vars)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{name: "syntax", src: `script = `, want: "failed to parse HCL file"},
		{name: "unknown attribute", src: `workers = 4`, want: "failed to decode HCL file"},
		{name: "missing env var", src: `vars = { a = env.NOPE_NOT_SET }`, want: "failed to decode HCL file"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := &Loader{Environ: func() []string { return nil }}
			_, err := l.Load(context.Background(), writeFile(t, tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
