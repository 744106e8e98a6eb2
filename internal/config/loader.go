package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CLUTCH_CONFIG is set
//  3. env (prefix CLUTCH_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("CLUTCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: CLUTCH_ADDR, CLUTCH_INDEX_PATH, ...
	// Map env keys like CLUTCH_INDEX_PATH -> index_path (flat keys).
	envProvider := env.Provider("CLUTCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "clutch_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.IndexPath == "" {
		return nil, fmt.Errorf("%w: index_path must not be empty", ErrInvalidConfig)
	}
	return &cfg, nil
}
