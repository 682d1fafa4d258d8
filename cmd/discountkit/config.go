package main

import (
	"errors"
	"time"

	"github.com/dmitrymomot/discountkit/internal/draft"
	"github.com/dmitrymomot/discountkit/pkg/ratelimiter"
)

const (
	backendMemory   = "memory"
	backendRedis    = "redis"
	backendPostgres = "postgres"
	backendMongo    = "mongo"
)

var errUnknownBackend = errors.New("unknown draft backend")

// appConfig is the service level configuration. Listener and store connection
// settings live in httpserver.Config and the Config of each store package.
type appConfig struct {
	Env              string        `env:"APP_ENV" envDefault:"development"`
	LogLevel         string        `env:"LOG_LEVEL"`
	FormsFile        string        `env:"FORMS_FILE"`
	DraftBackend     string        `env:"DRAFT_BACKEND" envDefault:"memory"`
	DraftTTL         time.Duration `env:"DRAFT_TTL" envDefault:"24h"`
	DraftCapacity    int           `env:"DRAFT_CAPACITY" envDefault:"10000"`
	PurgeInterval    time.Duration `env:"DRAFT_PURGE_INTERVAL" envDefault:"10m"`
	StrictOrdering   bool          `env:"STRICT_ORDERING" envDefault:"false"`
	TrustedIPHeaders []string      `env:"TRUSTED_IP_HEADERS" envDefault:"CF-Connecting-IP,DO-Connecting-IP,X-Forwarded-For,X-Real-IP" envSeparator:","`
	RateLimitEnabled bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimit        ratelimiter.Config
}

func (c appConfig) serviceOptions() []draft.Option {
	if c.StrictOrdering {
		return []draft.Option{draft.WithStrictOrdering()}
	}
	return nil
}
