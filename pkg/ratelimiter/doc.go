// Package ratelimiter implements a token bucket rate limiter with in-memory
// and Redis stores.
//
// A bucket holds up to Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each request takes one token; a request that finds too few
// tokens is denied and consumes nothing.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       60,
//		RefillRate:     1,
//		RefillInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	r.Use(ratelimiter.Middleware(limiter, ratelimiter.ByIP))
//
// RedisStore runs the refill step as a Lua script so that several service
// instances share one bucket per key.
package ratelimiter
