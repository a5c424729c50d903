// Package config loads the benefit engine configuration.
//
// Precedence, lowest first: DefaultConfig, the TOML file, environment
// variables, then command-line flags (applied by the cli package).
//
// Example dagpenger.toml:
//
//	[server]
//	addr = ":8080"
//	allowed_origins = ["http://localhost:5173"]
//
//	[grunnbelop]
//	source = "sqlite"   # http | sqlite | static
//	timeout = "5s"
//
//	[database]
//	path = "dagpenger.db"
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Source kinds for the grunnbeløp.
const (
	SourceHTTP   = "http"
	SourceSQLite = "sqlite"
	SourceStatic = "static"
)

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Grunnbelop GrunnbelopConfig `toml:"grunnbelop"`
	Database   DatabaseConfig   `toml:"database"`
	Log        LogConfig        `toml:"log"`
}

type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	IdleTimeout     Duration `toml:"idle_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	AllowedOrigins  []string `toml:"allowed_origins"`
}

type GrunnbelopConfig struct {
	Source  string   `toml:"source"`
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`

	// Amount is used by the static source.
	Amount float64 `toml:"amount"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Duration decodes TOML strings like "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{15 * time.Second},
			IdleTimeout:     Duration{60 * time.Second},
			ShutdownTimeout: Duration{30 * time.Second},
			AllowedOrigins:  []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Grunnbelop: GrunnbelopConfig{
			Source:  SourceHTTP,
			URL:     "https://g.nav.no/api/v1/grunnbel%C3%B8p",
			Timeout: Duration{5 * time.Second},
			Amount:  124028,
		},
		Database: DatabaseConfig{
			Path: "dagpenger.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path on top of the defaults, then applies the environment.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("DAGPENGER_ADDR"); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup("DAGPENGER_DB"); ok && v != "" {
		c.Database.Path = v
	}
	if v, ok := lookup("DAGPENGER_G_SOURCE"); ok && v != "" {
		c.Grunnbelop.Source = strings.ToLower(v)
	}
	if v, ok := lookup("DAGPENGER_G_URL"); ok && v != "" {
		c.Grunnbelop.URL = v
	}
	if v, ok := lookup("DAGPENGER_G_AMOUNT"); ok && v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("DAGPENGER_G_AMOUNT: %w", err)
		}
		c.Grunnbelop.Amount = amount
	}
	if v, ok := lookup("DAGPENGER_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Grunnbelop.Source {
	case SourceHTTP:
		if c.Grunnbelop.URL == "" {
			return fmt.Errorf("grunnbelop.url is required for the http source")
		}
	case SourceSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite source")
		}
	case SourceStatic:
		if !(c.Grunnbelop.Amount > 0) || math.IsInf(c.Grunnbelop.Amount, 0) {
			return fmt.Errorf("grunnbelop.amount must be a positive finite number for the static source")
		}
	default:
		return fmt.Errorf("unknown grunnbelop.source %q (want http, sqlite or static)", c.Grunnbelop.Source)
	}
	return nil
}
