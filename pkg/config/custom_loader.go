package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from the given .env files.
// With no arguments it loads the default .env file from the current
// directory. When multiple paths are given, files are applied in order
// and later files override values set by earlier ones.
//
// Unlike the implicit .env loading performed by Load, LoadEnv returns
// an error if any of the named files cannot be read.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		return godotenv.Load()
	}
	return godotenv.Overload(paths...)
}

// MustLoadEnv works like LoadEnv but panics if loading fails.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("Failed to load environment files: %v", err))
	}
}

// ResetCache clears all cached configuration values so that subsequent
// Load calls re-parse the environment. Intended for tests that mutate
// environment variables between loads.
func ResetCache() {
	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()
	globalCache.values = make(map[string]any)
	globalCache.onces = make(map[string]*sync.Once)
}

// ForceReloadConfig re-parses environment variables into v, bypassing
// the cache, and stores the fresh value so later Load calls for the
// same type observe it.
func ForceReloadConfig[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	typeName := getTypeName[T]()

	globalCache.mu.Lock()
	globalCache.values[typeName] = *v
	once := new(sync.Once)
	once.Do(func() {})
	globalCache.onces[typeName] = once
	globalCache.mu.Unlock()

	return nil
}
