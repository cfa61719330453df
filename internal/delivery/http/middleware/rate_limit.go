package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"connectmetric-backend/internal/delivery/http/response"
	"connectmetric-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis
	KeyPrefix string
	// Whether to fail closed (reject) when Redis is unavailable
	FailClosed bool
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	count   int
	resetAt time.Time
	mu      sync.Mutex
}

var (
	rateLimitStore = sync.Map{}
	cleanupOnce    sync.Once
)

// Lua script for atomic increment with TTL on first set.
// KEYS[1] = counter key, ARGV[1] = TTL in seconds.
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// startCleanup runs a background goroutine to clean up expired entries
func startCleanup() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		for range ticker.C {
			now := time.Now()
			rateLimitStore.Range(func(key, value interface{}) bool {
				entry := value.(*rateLimitEntry)
				entry.mu.Lock()
				if now.After(entry.resetAt) {
					rateLimitStore.Delete(key)
				}
				entry.mu.Unlock()
				return true
			})
		}
	}()
}

// LoginRateLimitConfig returns strict config for the login endpoints
func LoginRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:login:",
		FailClosed: true,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimit enforces the given config, using Redis when available and an
// in-memory counter as fallback.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	cleanupOnce.Do(startCleanup)

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + cfg.KeyFunc(c)

		client := redis.Client()
		if client != nil {
			allowed, remaining, retryAfter, err := checkRedis(c, client, key, cfg)
			if err == nil {
				applyHeaders(c, cfg.Limit, remaining)
				if !allowed {
					reject(c, retryAfter)
					return
				}
				c.Next()
				return
			}
			if cfg.FailClosed {
				response.Error(c, http.StatusServiceUnavailable, "Rate limiter unavailable, try again later", nil)
				c.Abort()
				return
			}
			// Fall through to the in-memory counter
		}

		allowed, remaining, retryAfter := checkMemory(key, cfg)
		applyHeaders(c, cfg.Limit, remaining)
		if !allowed {
			reject(c, retryAfter)
			return
		}
		c.Next()
	}
}

func checkRedis(c *gin.Context, client *goredis.Client, key string, cfg RateLimitConfig) (allowed bool, remaining int, retryAfter time.Duration, err error) {
	res, err := client.Eval(c.Request.Context(), rateLimitLuaScript, []string{key},
		int(cfg.Window.Seconds()), cfg.Limit).Result()
	if err != nil {
		return false, 0, 0, err
	}

	values, _ := res.([]interface{})
	if len(values) != 2 {
		return true, cfg.Limit, 0, nil
	}
	count, _ := values[0].(int64)
	ttl, _ := values[1].(int64)

	remaining = cfg.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return int(count) <= cfg.Limit, remaining, time.Duration(ttl) * time.Second, nil
}

func checkMemory(key string, cfg RateLimitConfig) (allowed bool, remaining int, retryAfter time.Duration) {
	now := time.Now()
	value, _ := rateLimitStore.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(cfg.Window)})
	entry := value.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(cfg.Window)
	}
	entry.count++

	remaining = cfg.Limit - entry.count
	if remaining < 0 {
		remaining = 0
	}
	return entry.count <= cfg.Limit, remaining, time.Until(entry.resetAt)
}

func applyHeaders(c *gin.Context, limit, remaining int) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
}

func reject(c *gin.Context, retryAfter time.Duration) {
	seconds := int(retryAfter.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", strconv.Itoa(seconds))
	response.Error(c, http.StatusTooManyRequests, "Too many requests, slow down", nil)
	c.Abort()
}
