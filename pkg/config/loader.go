package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into the provided struct.
// The struct should use `env` tags to define mappings.
//
// Example:
//
//	type Config struct {
//	    OutputPath string `env:"SEED_OUTPUT_PATH" envDefault:"supabase/seed.sql"`
//	    LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any) error {
	return LoadWithOverrides(cfg, nil)
}

// LoadWithOverrides is like Load but values in overrides take precedence
// over the process environment. Command-line flags are passed this way so
// they share the env tag names and defaults.
func LoadWithOverrides(cfg any, overrides map[string]string) error {
	opts := env.Options{Environment: mergeEnviron(os.Environ(), overrides)}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func mergeEnviron(environ []string, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(environ)+len(overrides))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			merged[k] = v
		}
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
