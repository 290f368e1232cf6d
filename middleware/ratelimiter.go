package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimiter limits requests per client IP. With a Redis client the counters
// are shared by every instance; otherwise each process counts on its own.
func RateLimiter(perMinute int, rdb *redis.Client, log zerolog.Logger) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 100
	}
	rate := limiter.Rate{Period: time.Minute, Limit: int64(perMinute)}

	var store limiter.Store = memory.NewStore()
	if rdb != nil {
		s, err := sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: "ratelimit", MaxRetry: 3})
		if err != nil {
			log.Warn().Err(err).Msg("redis rate limit store unavailable, counting in memory")
		} else {
			store = s
		}
	}

	return ginlimiter.NewMiddleware(limiter.New(store, rate))
}
