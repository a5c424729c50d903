package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout.Duration)
	assert.Equal(t, SourceHTTP, cfg.Grunnbelop.Source)
	assert.Equal(t, 5*time.Second, cfg.Grunnbelop.Timeout.Duration)
	assert.Equal(t, "dagpenger.db", cfg.Database.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dagpenger.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
addr = ":9090"

[grunnbelop]
source = "static"
amount = 118620
timeout = "2s"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, SourceStatic, cfg.Grunnbelop.Source)
	assert.Equal(t, 118620.0, cfg.Grunnbelop.Amount)
	assert.Equal(t, 2*time.Second, cfg.Grunnbelop.Timeout.Duration)
	// untouched keys keep their defaults
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout.Duration)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DAGPENGER_ADDR":     ":7070",
		"DAGPENGER_G_SOURCE": "SQLITE",
		"DAGPENGER_DB":       "/tmp/g.db",
		"DAGPENGER_G_AMOUNT": "130160",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.applyEnv(lookup))

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, SourceSQLite, cfg.Grunnbelop.Source)
	assert.Equal(t, "/tmp/g.db", cfg.Database.Path)
	assert.Equal(t, 130160.0, cfg.Grunnbelop.Amount)
}

func TestApplyEnv_BadAmount(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.applyEnv(func(k string) (string, bool) {
		if k == "DAGPENGER_G_AMOUNT" {
			return "lots", true
		}
		return "", false
	})
	assert.Error(t, err)
}

func TestLoad_NaNAmountFromEnvIsRejected(t *testing.T) {
	t.Setenv("DAGPENGER_G_SOURCE", "static")
	t.Setenv("DAGPENGER_G_AMOUNT", "NaN")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown source", func(c *Config) { c.Grunnbelop.Source = "ftp" }, true},
		{"http without url", func(c *Config) { c.Grunnbelop.URL = "" }, true},
		{"sqlite without path", func(c *Config) {
			c.Grunnbelop.Source = SourceSQLite
			c.Database.Path = ""
		}, true},
		{"static without amount", func(c *Config) {
			c.Grunnbelop.Source = SourceStatic
			c.Grunnbelop.Amount = 0
		}, true},
		{"static NaN amount", func(c *Config) {
			c.Grunnbelop.Source = SourceStatic
			c.Grunnbelop.Amount = math.NaN()
		}, true},
		{"static infinite amount", func(c *Config) {
			c.Grunnbelop.Source = SourceStatic
			c.Grunnbelop.Amount = math.Inf(1)
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
