package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// RateLimit caps requests per client IP at qps per second using a Redis
// counter with a one-second expiry. Wired only when redis.addr is
// configured; without Redis the service runs unthrottled.
func RateLimit(redisClient *redis.Client, qps int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		key := "rate_limit:" + ip

		ctx := c.Request.Context()
		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			// A limiter outage should not take the API down with it.
			log.Printf("ERROR: [RateLimit] Redis unavailable, letting request through: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			redisClient.Expire(ctx, key, time.Second)
		}

		if count > int64(qps) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests, please slow down.",
			})
			return
		}
		c.Next()
	}
}
