package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"modelcfg/internal/common/fsutil"
)

// Defaults applied by WithDefaults.
const (
	DefaultAddr         = ":8080"
	DefaultLogLevel     = "info"
	DefaultFamily       = "dolly-v2"
	DefaultMaxBodyBytes = int64(1 << 20)
	DefaultProbeTimeout = 10 * time.Second

	EnvAddr     = "MODELCFG_ADDR"
	EnvLogLevel = "MODELCFG_LOG_LEVEL"
)

// CORS configures the optional cross-origin middleware.
type CORS struct {
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Origins []string `json:"origins" yaml:"origins" toml:"origins"`
	Methods []string `json:"methods" yaml:"methods" toml:"methods"`
	Headers []string `json:"headers" yaml:"headers" toml:"headers"`
}

// Backends pins backend availability instead of trusting the probe.
type Backends struct {
	// Force maps a backend name ("bitsandbytes", "auto-gptq", "optimum",
	// "autoawq", "cuda") to its availability.
	Force map[string]bool `json:"force" yaml:"force" toml:"force"`
}

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr          string `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel      string `json:"log_level" yaml:"log_level" toml:"log_level"`
	ModelsDir     string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	DefaultFamily string `json:"default_family" yaml:"default_family" toml:"default_family"`
	MaxBodyBytes  int64  `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	Python        string `json:"python" yaml:"python" toml:"python"`
	// ProbeTimeout is a Go duration string such as "5s".
	ProbeTimeout string `json:"probe_timeout" yaml:"probe_timeout" toml:"probe_timeout"`

	CORS     CORS     `json:"cors" yaml:"cors" toml:"cors"`
	Backends Backends `json:"backends" yaml:"backends" toml:"backends"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := fsutil.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if _, err := cfg.ProbeTimeoutDuration(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overlays the MODELCFG_* environment variables that are set.
func (c Config) ApplyEnv() Config {
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		c.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	return c
}

// WithDefaults fills every unspecified field.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.DefaultFamily == "" {
		c.DefaultFamily = DefaultFamily
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.ProbeTimeout == "" {
		c.ProbeTimeout = DefaultProbeTimeout.String()
	}
	if c.CORS.Enabled {
		if len(c.CORS.Origins) == 0 {
			c.CORS.Origins = []string{"*"}
		}
		if len(c.CORS.Methods) == 0 {
			c.CORS.Methods = []string{"GET", "POST", "OPTIONS"}
		}
		if len(c.CORS.Headers) == 0 {
			c.CORS.Headers = []string{"Accept", "Content-Type", "X-Log-Level", "X-Request-Id"}
		}
	}
	return c
}

// ProbeTimeoutDuration parses ProbeTimeout; empty means the default.
func (c Config) ProbeTimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(c.ProbeTimeout) == "" {
		return DefaultProbeTimeout, nil
	}
	d, err := time.ParseDuration(c.ProbeTimeout)
	if err != nil {
		return 0, fmt.Errorf("probe_timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("probe_timeout must be positive, got %s", c.ProbeTimeout)
	}
	return d, nil
}
