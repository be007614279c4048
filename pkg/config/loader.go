package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache stores one parsed instance per config type so repeated Load calls
// across packages see the same values.
type cache struct {
	mu     sync.RWMutex
	values map[string]any
	onces  map[string]*sync.Once
}

var (
	globalCache = &cache{
		values: make(map[string]any),
		onces:  make(map[string]*sync.Once),
	}

	dotenvOnce sync.Once
)

// Load populates cfg from environment variables using `env` struct tags.
// A .env file is loaded once per process if present; its absence is not an
// error. Each config type is parsed exactly once, subsequent calls return
// the cached copy.
//
// Example:
//
//	type RelayConfig struct {
//		RecipientEmail string `env:"RELAY_RECIPIENT,required"`
//		RateLimitMax   int    `env:"RELAY_RATE_LIMIT_MAX" envDefault:"5"`
//	}
//
//	var cfg RelayConfig
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
	if cfg == nil {
		return ErrNilPointer
	}

	typeName := typeNameOf[T]()

	globalCache.mu.RLock()
	if cached, ok := globalCache.values[typeName]; ok {
		*cfg = cached.(T)
		globalCache.mu.RUnlock()
		return nil
	}
	globalCache.mu.RUnlock()

	globalCache.mu.Lock()
	once, ok := globalCache.onces[typeName]
	if !ok {
		once = new(sync.Once)
		globalCache.onces[typeName] = once
	}
	globalCache.mu.Unlock()

	var parseErr error
	once.Do(func() {
		if err := env.Parse(cfg); err != nil {
			parseErr = errors.Join(ErrParsingConfig, err)
			return
		}

		globalCache.mu.Lock()
		globalCache.values[typeName] = *cfg
		globalCache.mu.Unlock()
	})
	if parseErr != nil {
		return parseErr
	}

	globalCache.mu.RLock()
	defer globalCache.mu.RUnlock()
	if cached, ok := globalCache.values[typeName]; ok {
		*cfg = cached.(T)
		return nil
	}

	// Reachable only when a concurrent Load of the same type failed inside
	// its sync.Once before this call observed the cache.
	return ErrConfigNotLoaded
}

// MustLoad is Load that panics on failure. Use for configuration the
// process cannot start without.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func typeNameOf[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return t.String()
}
