package config

import (
	"errors"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// cache holds one parsed value per config type for the process lifetime.
	cache sync.Map // map[reflect.Type]any

	// parseMu serializes first-time parsing so each type is parsed once.
	parseMu sync.Mutex

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into v based on `env` struct tags.
//
// The default .env file is read once per process if present; real environment
// variables take precedence over it. Each config type is parsed only once:
// later calls for the same type return the cached copy.
//
//	type GitHubConfig struct {
//		Organization string `env:"GITHUB_ORGANIZATION,required"`
//		AdminTeam    string `env:"GITHUB_ADMIN_TEAM"`
//	}
//
//	var cfg GitHubConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle missing required values
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	defaultEnvLoaded.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})

	key := reflect.TypeOf(v).Elem()
	if cached, ok := cache.Load(key); ok {
		*v = cached.(T)
		return nil
	}

	parseMu.Lock()
	defer parseMu.Unlock()

	if cached, ok := cache.Load(key); ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	cache.Store(key, parsed)
	*v = parsed
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Use it for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(err)
	}
}

// LoadEnvFiles reads the given .env files into the process environment
// without overriding variables that are already set. Call it before the
// first Load for values to be picked up.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}
