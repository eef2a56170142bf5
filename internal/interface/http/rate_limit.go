package http

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/nutrisnap/internal/infra/config"
)

const idleBucketTTL = 5 * time.Minute

// rateLimitMiddleware caps model-backed calls per client IP.
func rateLimitMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newClientLimiter(cfg)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if limiter.allow(ip) {
			c.Next()
			return
		}
		logger.Warn("model call throttled", "ip", ip, "path", c.Request.URL.Path, "session_id", sessionID(c))
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests, slow down", nil))
	}
}

type tokenBucket struct {
	tokens float64
	seen   time.Time
}

// refill tops the bucket up for the time elapsed since it was last seen.
func (b *tokenBucket) refill(now time.Time, perSecond, capacity float64) {
	if elapsed := now.Sub(b.seen).Seconds(); elapsed > 0 {
		b.tokens = min(capacity, b.tokens+elapsed*perSecond)
	}
	b.seen = now
}

type clientLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	perSecond float64
	capacity  float64
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiter(cfg config.RateLimitConfig) *clientLimiter {
	capacity := cfg.Burst
	if capacity <= 0 {
		capacity = 1
	}
	return &clientLimiter{
		buckets:   make(map[string]*tokenBucket),
		perSecond: float64(cfg.RequestsPerMinute) / 60,
		capacity:  float64(capacity),
		now:       time.Now,
	}
}

func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: l.capacity, seen: now}
		l.buckets[key] = b
	}
	b.refill(now, l.perSecond, l.capacity)
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops idle buckets at most once per idleBucketTTL. Caller holds mu.
func (l *clientLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < idleBucketTTL {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if now.Sub(b.seen) > idleBucketTTL {
			delete(l.buckets, key)
		}
	}
}
