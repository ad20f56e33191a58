package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, CurrentSchemaVersion, cfg.SchemaVersion)
	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, DefaultMaxConcurrency, cfg.API.MaxConcurrency)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
	require.NoError(t, cfg.Validate())
	assert.ErrorIs(t, cfg.RequireToken(), ErrMissingToken)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(envMap(map[string]string{
		EnvAPIURL:    "https://api.example.edu",
		EnvAPIToken:  "secret",
		EnvLogLevel:  "debug",
		EnvLogFormat: "console",
		EnvExportDir: "/data",
	}))

	assert.Equal(t, "https://api.example.edu", cfg.API.URL)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "/data", cfg.Output.ExportDir)
	require.NoError(t, cfg.RequireToken())
}

func TestApplyEnv_EmptyValuesIgnored(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(envMap(map[string]string{EnvAPIURL: ""}))
	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty schema allowed", mutate: func(c *Config) { c.SchemaVersion = "" }},
		{name: "minor bump allowed", mutate: func(c *Config) { c.SchemaVersion = "1.4.2" }},
		{name: "major bump rejected", mutate: func(c *Config) { c.SchemaVersion = "2.0.0" }, wantErr: "unsupported"},
		{name: "garbage version", mutate: func(c *Config) { c.SchemaVersion = "one" }, wantErr: "unsupported"},
		{name: "empty url", mutate: func(c *Config) { c.API.URL = " " }, wantErr: "api url"},
		{name: "zero concurrency", mutate: func(c *Config) { c.API.MaxConcurrency = 0 }, wantErr: "max_concurrency"},
		{name: "negative timeout", mutate: func(c *Config) { c.API.Timeout = -time.Second }, wantErr: "timeout"},
		{name: "bad format", mutate: func(c *Config) { c.Output.DefaultFormat = "xml" }, wantErr: "default_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	for _, key := range Keys() {
		_, err := cfg.Get(key)
		require.NoError(t, err, key)
	}

	require.NoError(t, cfg.Set("api.timeout", "5s"))
	require.NoError(t, cfg.Set("api.max_concurrency", "3"))
	require.NoError(t, cfg.Set("logging.audit.enabled", "true"))
	require.NoError(t, cfg.Set("output.export_dir", "/srv/out"))

	v, err := cfg.Get("api.timeout")
	require.NoError(t, err)
	assert.Equal(t, "5s", v)
	assert.Equal(t, 3, cfg.API.MaxConcurrency)
	assert.True(t, cfg.Logging.Audit.Enabled)
	assert.Equal(t, "/srv/out", cfg.Output.ExportDir)

	require.Error(t, cfg.Set("api.timeout", "soon"))
	require.Error(t, cfg.Set("api.max_concurrency", "many"))
	require.Error(t, cfg.Set("schema_version", "3.0.0"))
	assert.ErrorIs(t, cfg.Set("nope", "x"), ErrUnknownKey)
	_, err = cfg.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.API.Token = "tok"
	cfg.API.Timeout = 12 * time.Second
	require.NoError(t, cfg.Save(path))

	loaded := &Config{}
	require.NoError(t, loaded.LoadFile(path))
	assert.Equal(t, "tok", loaded.API.Token)
	assert.Equal(t, 12*time.Second, loaded.API.Timeout)
	assert.Equal(t, cfg.Output, loaded.Output)
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://from-env")

	t.Run("missing file yields defaults and keeps the path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultAPIURL, cfg.API.URL, "environment is not applied")
		assert.Equal(t, path, cfg.Path())
	})

	t.Run("partial file keeps defaults for the rest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api:\n  url: http://strapi:1337\n"), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://strapi:1337", cfg.API.URL)
		assert.Equal(t, DefaultMaxConcurrency, cfg.API.MaxConcurrency)
		assert.Equal(t, DefaultOutputFormat, cfg.Output.DefaultFormat)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0o600))

		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestNew_ReadsHomeAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	t.Setenv(EnvAPIToken, "from-env")

	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
api:
  url: https://file.example.edu
  token: from-file
`), 0o600))

	cfg := New()
	assert.Equal(t, "https://file.example.edu", cfg.API.URL)
	assert.Equal(t, "from-env", cfg.API.Token)
	// Fields the file left out keep their defaults.
	assert.Equal(t, DefaultMaxConcurrency, cfg.API.MaxConcurrency)
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.Path())
}

func TestNewWithProjectDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	t.Setenv(EnvAPIToken, "")

	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
api:
  url: https://global.example.edu
  token: global
output:
  default_format: json
`), 0o600))

	work := t.TempDir()
	projectDir := filepath.Join(work, ".placedesk")
	require.NoError(t, os.MkdirAll(projectDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte(`
output:
  export_dir: ./exports
`), 0o600))

	ctx := context.Background()
	resolved := ResolveProjectDir(ctx, work)
	assert.Equal(t, projectDir, resolved)

	cfg := NewWithProjectDir(ctx, resolved)
	assert.Equal(t, "https://global.example.edu", cfg.API.URL)
	assert.Equal(t, "./exports", cfg.Output.ExportDir)
	// The output section was replaced, so the format falls back to the default.
	assert.Equal(t, DefaultOutputFormat, cfg.Output.DefaultFormat)

	assert.Empty(t, ResolveProjectDir(ctx, t.TempDir()))
	assert.Equal(t, New().API, NewWithProjectDir(ctx, "").API)
}

func TestGlobalConfig(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	cfg := GetGlobalConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "table", GetDefaultOutputFormat())
	assert.Same(t, cfg, GetGlobalConfig())

	replacement := Default()
	replacement.Output.ExportDir = "/replaced"
	SetGlobalConfig(replacement)
	assert.Equal(t, "/replaced", GetExportDir())

	ResetGlobalConfigForTest()
	assert.NotSame(t, replacement, GetGlobalConfig())
}

func TestLoggingConversion(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	lc := LoggingConfig{Level: "debug", Format: "json"}
	assert.Equal(t, "stderr", lc.ToLoggingConfig().Output)

	lc.File = "/tmp/p.log"
	assert.Equal(t, "file", lc.ToLoggingConfig().Output)
	assert.Equal(t, "/tmp/p.log", lc.ToLoggingConfig().File)

	lc.Audit.Enabled = true
	audit := lc.ToAuditConfig()
	assert.True(t, audit.Enabled)
	assert.Equal(t, home+"/audit.log", audit.File)
}

func TestEnsureDirs(t *testing.T) {
	home := filepath.Join(t.TempDir(), "pd")
	t.Setenv(EnvHome, home)
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	require.NoError(t, EnsureConfigDir())
	assert.DirExists(t, home)

	GetGlobalConfig().Logging.File = filepath.Join(home, "logs", "placedesk.log")
	require.NoError(t, EnsureLogDir())
	assert.DirExists(t, filepath.Join(home, "logs"))
}
