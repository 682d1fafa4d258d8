package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type entry struct {
	once  sync.Once
	value any
	err   error
}

var (
	cache         sync.Map // reflect.Type -> *entry
	defaultEnvSet sync.Once
)

// Load parses the process environment into v. The default .env file is read on
// the first call. Each config type is parsed once; later calls copy the cached
// value, including a cached error.
//
//	type HTTP struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg HTTP
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	defaultEnvSet.Do(func() {
		// A missing .env is fine.
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()
	e, _ := cache.LoadOrStore(key, &entry{})
	ent := e.(*entry)
	ent.once.Do(func() {
		var parsed T
		if err := Parse(&parsed); err != nil {
			ent.err = err
			return
		}
		ent.value = parsed
	})
	if ent.err != nil {
		return ent.err
	}
	*v = ent.value.(T)
	return nil
}

// MustLoad is Load that panics. Meant for main.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Option adjusts how Parse reads the environment.
type Option func(*env.Options)

// WithEnvironment parses from m instead of the process environment.
func WithEnvironment(m map[string]string) Option {
	return func(o *env.Options) { o.Environment = m }
}

// WithPrefix prepends prefix to every variable name.
func WithPrefix(prefix string) Option {
	return func(o *env.Options) { o.Prefix = prefix }
}

// Parse fills v from the environment without caching.
func Parse[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}
	var o env.Options
	for _, opt := range opts {
		opt(&o)
	}
	if err := env.ParseWithOptions(v, o); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// LoadEnvFiles reads the given .env files into the process environment.
// Variables that are already set keep their values.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrEnvFile, err)
	}
	return nil
}

// Reset drops every cached config. Tests use it between cases.
func Reset() {
	cache.Range(func(k, _ any) bool {
		cache.Delete(k)
		return true
	})
}
