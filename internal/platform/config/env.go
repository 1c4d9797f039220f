package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// LookupFunc resolves a single environment variable.
type LookupFunc func(key string) (string, bool)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseEnvWithLookup loads configuration through lookup instead of the
// process environment. A nil lookup falls back to ParseEnv.
func ParseEnvWithLookup(target any, lookup LookupFunc) error {
	if lookup == nil {
		return ParseEnv(target)
	}
	params, err := env.GetFieldParams(target)
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	environment := make(map[string]string, len(params))
	for _, param := range params {
		if value, ok := lookup(param.Key); ok {
			environment[param.Key] = value
		}
	}
	if err := env.ParseWithOptions(target, env.Options{Environment: environment}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
