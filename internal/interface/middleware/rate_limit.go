package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/oksasatya/go-graphql-blog/pkg/response"
)

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// KeyByIP returns a key function that limits by client IP only
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByUserID limits authenticated callers by user id and anonymous ones by IP.
// It must run after Authenticate.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid := c.GetString(CtxUserIDKey)
		if uid == "" {
			return "rl:user:anon:ip:" + ipFromCtx(c)
		}
		return "rl:user:" + uid
	}
}

type AllowFunc func(*gin.Context) bool // return true for bypass limit

// Decision is the outcome of one Take.
type Decision struct {
	Allowed   bool
	Remaining int
	Reset     time.Duration
}

// Limiter counts requests per key in a fixed budget of Max per window.
type Limiter interface {
	Take(ctx context.Context, key string) (Decision, error)
	Max() int
}

// Lua script: atomic INCR + set PEXPIRE when the key is new
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RedisLimiter is a fixed-window counter shared by every instance.
type RedisLimiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, max: max, window: window}
}

func (l *RedisLimiter) Max() int { return l.max }

func (l *RedisLimiter) Take(ctx context.Context, key string) (Decision, error) {
	res, err := incrExpireScript.Run(ctx, l.rdb, []string{key}, l.window.Milliseconds()).Slice()
	if err != nil {
		return Decision{}, err
	}
	count, pttl := 0, 0
	if len(res) == 2 {
		count, pttl = toInt(res[0]), toInt(res[1])
	}
	reset := time.Duration(0)
	if pttl > 0 {
		reset = time.Duration(pttl) * time.Millisecond
	}
	return Decision{Allowed: count <= l.max, Remaining: max(l.max-count, 0), Reset: reset}, nil
}

// LocalLimiter is a per-process token bucket used when Redis is not configured.
type LocalLimiter struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	limiters map[string]*rate.Limiter
}

const localLimiterMaxKeys = 10000

func NewLocalLimiter(max int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{max: max, window: window, limiters: make(map[string]*rate.Limiter)}
}

func (l *LocalLimiter) Max() int { return l.max }

func (l *LocalLimiter) Take(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= localLimiterMaxKeys {
			l.limiters = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(rate.Every(l.window/time.Duration(l.max)), l.max)
		l.limiters[key] = lim
	}
	l.mu.Unlock()

	now := time.Now()
	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return Decision{Allowed: false}, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Decision{Allowed: false, Reset: delay}, nil
	}
	return Decision{Allowed: true, Remaining: int(lim.TokensAt(now))}, nil
}

// NewLimiter picks Redis when a client is given and the local limiter otherwise.
func NewLimiter(rdb *redis.Client, max int, window time.Duration) Limiter {
	if max <= 0 || window <= 0 {
		return nil
	}
	if rdb != nil {
		return NewRedisLimiter(rdb, max, window)
	}
	return NewLocalLimiter(max, window)
}

// RateLimit with:
// - standard headers (limit/remaining/reset)
// - optional allowlist bypass & method skip
// - fail-open when the limiter errors
func RateLimit(l Limiter, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if l == nil || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if allow != nil && allow(c) {
			c.Next()
			return
		}

		// skip OPTIONS
		if strings.EqualFold(c.Request.Method, http.MethodOptions) {
			c.Next()
			return
		}

		d, err := l.Take(c.Request.Context(), keyFn(c))
		if err != nil {
			c.Next()
			return
		}

		resetSec := int((d.Reset + time.Second - 1) / time.Second)
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.Max()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if !d.Allowed {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Abort(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}

func toInt(v interface{}) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}
