package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/discountkit/internal/api"
	"github.com/dmitrymomot/discountkit/internal/draft"
	"github.com/dmitrymomot/discountkit/pkg/clientip"
	"github.com/dmitrymomot/discountkit/pkg/config"
	"github.com/dmitrymomot/discountkit/pkg/file"
	"github.com/dmitrymomot/discountkit/pkg/forms"
	"github.com/dmitrymomot/discountkit/pkg/httpserver"
	"github.com/dmitrymomot/discountkit/pkg/logger"
	"github.com/dmitrymomot/discountkit/pkg/mongo"
	"github.com/dmitrymomot/discountkit/pkg/pg"
	"github.com/dmitrymomot/discountkit/pkg/ratelimiter"
	"github.com/dmitrymomot/discountkit/pkg/redis"
	"github.com/dmitrymomot/discountkit/pkg/requestid"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	registry, err := loadForms(ctx, cfg.FormsFile)
	if err != nil {
		return fmt.Errorf("load forms: %w", err)
	}
	log.Info("forms loaded", slog.Int("count", len(registry.Names())))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	be, err := newBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer be.close(log)

	limiter, err := newRateLimiter(cfg, be.redis)
	if err != nil {
		return err
	}
	if limiter != nil && limiter.close != nil {
		be.closers = append(be.closers, namedCloser{"ratelimit store", limiter.close})
	}

	drafts := draft.NewService(be.store, append(cfg.serviceOptions(), draft.WithLogger(log))...)
	errs := api.NewErrorHandler(log)
	router := api.Router(api.RouterOptions{
		Logger:     log,
		Validation: api.NewValidationService(registry, log, errs),
		Drafts:     api.NewDraftService(drafts, errs),
		Readiness:  be.checks,
		RateLimit:  limiter.bucket(),
		ClientIP:   clientip.NewResolver(cfg.TrustedIPHeaders...),
	})

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}
	srv := httpserver.New(httpCfg,
		httpserver.WithLogger(log),
		// stops background loops before the stores are closed
		httpserver.WithOnShutdown(func(context.Context) { cancel() }),
	)
	return srv.Run(ctx, router)
}

func newLogger(cfg appConfig) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, "discountkit"),
		logger.WithContextExtractors(requestid.LogExtractor(), clientip.LogExtractor()),
	}
	if cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, logger.WithLevel(level))
	}
	return logger.New(opts...), nil
}

// loadForms reads the forms document from a local path or an s3:// URI.
// An empty location yields the embedded defaults.
func loadForms(ctx context.Context, location string) (*forms.Registry, error) {
	if location == "" {
		return forms.Default()
	}
	loc, err := file.ParseLocation(location)
	if err != nil {
		return nil, err
	}
	if !loc.IsS3() {
		return forms.LoadFile(ctx, loc.Name)
	}

	var s3Cfg file.S3Config
	if err := config.Load(&s3Cfg); err != nil {
		return nil, err
	}
	s3Cfg.Bucket = loc.Bucket
	src, err := file.NewS3Source(ctx, s3Cfg)
	if err != nil {
		return nil, err
	}
	return forms.LoadFrom(ctx, src, loc.Name)
}

// redisConn is the shared Redis connection and its key prefix.
type redisConn struct {
	client *goredis.Client
	prefix string
}

type namedCloser struct {
	name string
	fn   func() error
}

// backend is the draft store with the connections behind it.
type backend struct {
	store   draft.Store
	redis   *redisConn
	checks  []httpserver.Check
	closers []namedCloser
}

// close releases the backend connections in reverse order of opening.
func (b *backend) close(log *slog.Logger) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		c := b.closers[i]
		if err := c.fn(); err != nil {
			log.Error("close "+c.name, logger.Error(err))
		}
	}
	b.closers = nil
}

// newBackend opens the draft store selected by DRAFT_BACKEND. The Postgres
// backend also starts a purge loop for expired drafts that stops with ctx.
func newBackend(ctx context.Context, cfg appConfig, log *slog.Logger) (*backend, error) {
	switch cfg.DraftBackend {
	case backendMemory, "":
		if cfg.DraftCapacity <= 0 {
			return nil, fmt.Errorf("DRAFT_CAPACITY must be positive, got %d", cfg.DraftCapacity)
		}
		return &backend{store: draft.NewMemoryStore(cfg.DraftCapacity, cfg.DraftTTL)}, nil

	case backendRedis:
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &backend{
			store:   draft.NewRedisStore(client, redisCfg.KeyPrefix, cfg.DraftTTL),
			redis:   &redisConn{client: client, prefix: redisCfg.KeyPrefix},
			checks:  []httpserver.Check{{Name: "redis", Fn: redis.Healthcheck(client)}},
			closers: []namedCloser{{"redis", client.Close}},
		}, nil

	case backendPostgres:
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pg.Migrate(ctx, pool, draft.Migrations, draft.MigrationsDir, pgCfg, log); err != nil {
			pool.Close()
			return nil, err
		}
		store := draft.NewPostgresStore(pool, cfg.DraftTTL)
		if cfg.DraftTTL > 0 && cfg.PurgeInterval > 0 {
			go purgeExpired(ctx, log, store, cfg.PurgeInterval)
		}
		return &backend{
			store:   store,
			checks:  []httpserver.Check{{Name: "postgres", Fn: pg.Healthcheck(pool)}},
			closers: []namedCloser{{"postgres", func() error { pool.Close(); return nil }}},
		}, nil

	case backendMongo:
		var mongoCfg mongo.Config
		if err := config.Load(&mongoCfg); err != nil {
			return nil, err
		}
		client, err := mongo.Connect(ctx, mongoCfg)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		disconnect := func() error { return client.Disconnect(context.Background()) }
		store := draft.NewMongoStore(client.Database(mongoCfg.Database), cfg.DraftTTL)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = disconnect()
			return nil, err
		}
		return &backend{
			store:   store,
			checks:  []httpserver.Check{{Name: "mongo", Fn: mongo.Healthcheck(client)}},
			closers: []namedCloser{{"mongo", disconnect}},
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", errUnknownBackend, cfg.DraftBackend)
}

func purgeExpired(ctx context.Context, log *slog.Logger, store *draft.PostgresStore, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				log.WarnContext(ctx, "purge expired drafts", logger.Error(err), logger.Component("drafts"))
				continue
			}
			if n > 0 {
				log.DebugContext(ctx, "purged expired drafts", slog.Int64("count", n), logger.Component("drafts"))
			}
		}
	}
}

type rateLimiter struct {
	b     *ratelimiter.Bucket
	close func() error
}

func (l *rateLimiter) bucket() *ratelimiter.Bucket {
	if l == nil {
		return nil
	}
	return l.b
}

// newRateLimiter shares buckets through Redis when the drafts already live
// there, so every instance enforces the same limit. It returns nil when rate
// limiting is disabled.
func newRateLimiter(cfg appConfig, rc *redisConn) (*rateLimiter, error) {
	if !cfg.RateLimitEnabled {
		return nil, nil
	}

	var (
		store   ratelimiter.Store
		closeFn func() error
	)
	if rc != nil {
		store = ratelimiter.NewRedisStore(rc.client, rc.prefix)
	} else {
		mem := ratelimiter.NewMemoryStore()
		store, closeFn = mem, mem.Close
	}

	b, err := ratelimiter.NewBucket(store, cfg.RateLimit)
	if err != nil {
		if closeFn != nil {
			_ = closeFn()
		}
		return nil, err
	}
	return &rateLimiter{b: b, close: closeFn}, nil
}
