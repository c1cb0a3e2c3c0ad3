package ratelimit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/httpx"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// CodeTooManyRequests is returned when a client exceeds its window
const CodeTooManyRequests = "TOO_MANY_REQUESTS"

// Decision is the outcome of one limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter counts requests per identifier
type Limiter interface {
	Allow(ctx context.Context, identifier string) (Decision, error)
}

// RedisLimiter is a sliding-window limiter backed by a Redis sorted set
type RedisLimiter struct {
	client      *redis.Client
	prefix      string
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// NewRedisLimiter allows maxRequests per identifier within window
func NewRedisLimiter(client *redis.Client, prefix string, maxRequests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		prefix:      prefix,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow records the request and reports whether it fits in the window
func (l *RedisLimiter) Allow(ctx context.Context, identifier string) (Decision, error) {
	key := l.prefix + ":ratelimit:" + identifier
	now := l.now()
	windowStart := now.Add(-l.window)

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(ctx, key, l.window+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to check rate limit: %w", err)
	}

	count := int(countCmd.Val())
	return Decision{
		Allowed:   count < l.maxRequests,
		Limit:     l.maxRequests,
		Remaining: max(l.maxRequests-count-1, 0),
		ResetAt:   now.Add(l.window),
	}, nil
}

// Middleware limits requests whose path starts with prefix, keyed by client IP.
// Limiter failures let the request through.
func Middleware(limiter Limiter, prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}

			identifier := ClientIP(r)
			d, err := limiter.Allow(r.Context(), identifier)
			if err != nil {
				logger.Error(r.Context()).Err(err).Str("identifier", identifier).Msg("Rate limiter error")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

			if !d.Allowed {
				logger.Warn(r.Context()).
					Str("identifier", identifier).
					Str("path", r.URL.Path).
					Msg("Rate limit exceeded")
				retry := time.Until(d.ResetAt).Round(time.Second)
				httpx.RespondError(w, r, apperror.RateLimited(CodeTooManyRequests,
					fmt.Sprintf("Too many requests. Try again in %v", retry)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP prefers the first proxy-reported address over the socket peer
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
