package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Dialect       string        `toml:"dialect"`
	Audit         Audit         `toml:"audit"`
	Exclude       Exclude       `toml:"exclude"`
	Output        Output        `toml:"output"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
	History       History       `toml:"history"`
}

type Audit struct {
	// Kinds selects the audited declaration kinds: "const", "method".
	Kinds []string `toml:"kinds"`
	// IncludeProtected widens the method visibility threshold to the
	// dialect's protected tier. Constant fields are always public-only.
	IncludeProtected bool `toml:"include_protected"`
	// SkipAccessors excludes dialect-flagged property accessors from the
	// method audit.
	SkipAccessors bool `toml:"skip_accessors"`
	// Compact emits the 7-column const-only table.
	Compact bool `toml:"compact"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Output struct {
	// Dir overrides the report location; empty writes beside the executable.
	Dir string `toml:"dir"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// Rate limits watch-mode re-audits, in runs per second.
	Rate  float64 `toml:"rate"`
	Burst int     `toml:"burst"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

type History struct {
	DB string `toml:"db"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Dialect == "" {
		cfg.Dialect = "go"
	}
	if len(cfg.Audit.Kinds) == 0 {
		cfg.Audit.Kinds = []string{"const", "method"}
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "node_modules", "vendor", "target"}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.Rate == 0 {
		cfg.Watch.Rate = 1
	}
	if cfg.Watch.Burst == 0 {
		cfg.Watch.Burst = 2
	}
}

func validate(cfg *Config) error {
	for _, kind := range cfg.Audit.Kinds {
		if kind != "const" && kind != "method" {
			return fmt.Errorf("unknown audit kind %q", kind)
		}
	}
	if cfg.Audit.Compact {
		for _, kind := range cfg.Audit.Kinds {
			if kind != "const" {
				return fmt.Errorf("compact mode audits constant fields only, got kind %q", kind)
			}
		}
	}
	return nil
}
