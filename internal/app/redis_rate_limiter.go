package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRateLimitPrefix = "returns:rate_limit"

// The key is bucketed per window, so the expiry only has to outlive the bucket.
var windowCounterScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisRateLimiter counts requests per subject in clock-aligned windows shared by
// every API replica.
type RedisRateLimiter struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisRateLimiter(client redis.UniversalClient, prefix string) *RedisRateLimiter {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = defaultRateLimitPrefix
	}
	return &RedisRateLimiter{client: client, prefix: prefix, now: time.Now}
}

// ConsumeRateLimit adds one hit for subject in scope and reports the window's running
// count together with the seconds left until the window rolls over.
func (r *RedisRateLimiter) ConsumeRateLimit(ctx context.Context, scope string, subject string, limit int, window time.Duration) (int, int, error) {
	if r == nil || r.client == nil || limit <= 0 {
		return 0, 0, nil
	}
	scope = strings.TrimSpace(scope)
	subject = strings.TrimSpace(subject)
	if scope == "" || subject == "" {
		return 0, 0, nil
	}
	if window < time.Second {
		window = time.Second
	}

	now := r.now()
	key := r.windowKey(scope, subject, window, now)
	reply, err := windowCounterScript.Run(ctx, r.client, []string{key}, (2 * window).Milliseconds()).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("rate limit script: %w", err)
	}
	count, err := parseCounterReply(reply)
	if err != nil {
		return 0, 0, err
	}
	return count, secondsUntilWindowEnd(window, now), nil
}

func (r *RedisRateLimiter) windowKey(scope, subject string, window time.Duration, now time.Time) string {
	bucket := now.UnixMilli() / window.Milliseconds()
	return r.prefix + ":" + scope + ":" + subject + ":" + strconv.FormatInt(bucket, 10)
}

func parseCounterReply(reply interface{}) (int, error) {
	switch v := reply.(type) {
	case int64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("unexpected rate limit counter %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected rate limit reply type: %T", reply)
	}
}

// secondsUntilWindowEnd rounds up and never reports less than one second.
func secondsUntilWindowEnd(window time.Duration, now time.Time) int {
	windowMs := window.Milliseconds()
	remainingMs := windowMs - now.UnixMilli()%windowMs
	seconds := int((remainingMs + 999) / 1000)
	if seconds < 1 {
		return 1
	}
	return seconds
}
