// Package config loads typed configuration from environment variables.
//
// Structs declare their variables with caarlos0/env tags. Load reads the
// default .env file once (godotenv), parses the struct and caches the result
// per type, so packages can ask for their own config without threading it
// through constructors. Parse skips the cache and accepts an explicit
// environment map, which is what tests use.
//
//	type Config struct {
//		DraftBackend string        `env:"DRAFT_BACKEND" envDefault:"memory"`
//		DraftTTL     time.Duration `env:"DRAFT_TTL" envDefault:"24h"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
package config
