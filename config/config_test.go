package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/geneweb/gw"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// isolated returns a loader that ignores the user's home directory and
// any .env file in the working directory.
func isolated(t *testing.T) *Loader {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	l := NewLoader()
	l.EnvFile = ""
	return l
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := isolated(t).Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Source)
	assert.Equal(t, Default(), cfg)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, gw.DefaultOptions(), opts)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
strict: true
streaming: always
streaming_threshold_mb: 2
workers: 4
log:
  verbosity: 2
  file: /tmp/gwparse.log
`)
	cfg, err := isolated(t).Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Source)
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.Validate)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, LogConfig{Verbosity: 2, File: "/tmp/gwparse.log"}, cfg.Log)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, gw.StreamAlways, opts.Streaming)
	assert.Equal(t, int64(2<<20), opts.StreamingThresholdBytes)
	assert.True(t, opts.Strict)
}

func TestLoadHomeConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".geneweb"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".geneweb", "config.yaml"), []byte("workers: 7\n"), 0o644))

	l := NewLoader()
	l.EnvFile = ""
	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, filepath.Join(home, ".geneweb", "config.yaml"), cfg.Source)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "streaming: never\nlog:\n  verbosity: 1\n")
	t.Setenv("GENEWEB_STREAMING", "always")
	t.Setenv("GENEWEB_LOG_VERBOSITY", "3")

	cfg, err := isolated(t).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "always", cfg.Streaming)
	assert.Equal(t, 3, cfg.Log.Verbosity)
}

func TestLoadEnvFile(t *testing.T) {
	const key = "GENEWEB_WORKERS"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })

	l := isolated(t)
	l.EnvFile = writeFile(t, ".env", key+"=5\n")
	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Workers)
}

func TestLoadFlagOverridesEverything(t *testing.T) {
	t.Setenv("GENEWEB_STRICT", "false")
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("strict", false, "")
	require.NoError(t, flags.Parse([]string{"--strict"}))

	l := isolated(t)
	require.NoError(t, l.BindFlag("strict", flags.Lookup("strict")))
	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Strict)

	assert.Error(t, l.BindFlag("workers", flags.Lookup("workers")))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad streaming mode", "streaming: sometimes\n"},
		{"negative threshold", "streaming_threshold_mb: -1\n"},
		{"negative workers", "workers: -2\n"},
		{"malformed yaml", "strict: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "config.yaml", tt.content)
			_, err := isolated(t).Load(path)
			assert.Error(t, err)
		})
	}

	_, err := isolated(t).Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := isolated(t).Load(path)
	require.NoError(t, err)
	cfg.Source = ""
	assert.Equal(t, Default(), cfg)

	err = Init(path, false)
	assert.ErrorContains(t, err, "already exists")
	assert.NoError(t, Init(path, true))
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().WriteYAML(&buf))

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "auto", back["streaming"])
	assert.Equal(t, 10, back["streaming_threshold_mb"])
	assert.NotContains(t, back, "Source")
}
