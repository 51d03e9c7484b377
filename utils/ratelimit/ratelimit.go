package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Gopher0727/Cario/config"
)

// Limiter counts requests per key inside a time window.
type Limiter interface {
	// Allow consumes one slot for key and reports whether it was available.
	Allow(ctx context.Context, key string, rule Rule) (bool, error)

	// Reset clears the counter for key in rule's current window.
	Reset(ctx context.Context, key string, rule Rule) error

	// Remaining returns the unused slots for key in the current window.
	Remaining(ctx context.Context, key string, rule Rule) (int, error)
}

// Rule is a limit per window. A non-positive Limit disables limiting.
type Rule struct {
	Limit  int
	Window time.Duration
}

// Action categories of the BFF.
const (
	ActionLogin    = "login"
	ActionRegister = "register"
	ActionMutation = "mutation"
	ActionAPI      = "api"
)

// RuleFor returns the per-minute rule configured for action.
func RuleFor(action string, cfg config.RateLimitConfig) Rule {
	limit := cfg.APIPerMinute
	switch action {
	case ActionLogin:
		limit = cfg.LoginPerMinute
	case ActionRegister:
		limit = cfg.RegisterPerMinute
	case ActionMutation:
		limit = cfg.MutationPerMinute
	}
	return Rule{Limit: limit, Window: time.Minute}
}

// RedisLimiter is a fixed-window counter stored in Redis (INCRBY + EXPIRE in
// one pipeline), shared by every BFF replica.
type RedisLimiter struct {
	client   *redis.Client
	logger   *zap.Logger
	failOpen bool // allow requests when Redis is unavailable
	now      func() time.Time
}

func NewRedisLimiter(client *redis.Client, logger *zap.Logger, failOpen bool) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		logger:   logger,
		failOpen: failOpen,
		now:      time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, rule Rule) (bool, error) {
	if rule.Limit <= 0 || rule.Window <= 0 {
		return true, nil
	}
	bucket := l.bucketKey(key, rule.Window)

	pipe := l.client.Pipeline()
	incr := pipe.IncrBy(ctx, bucket, 1)
	pipe.Expire(ctx, bucket, rule.Window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Error("rate limit check failed", zap.String("key", bucket), zap.Error(err))
		if l.failOpen {
			return true, nil
		}
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	allowed := incr.Val() <= int64(rule.Limit)
	if !allowed {
		l.logger.Warn("rate limit exceeded",
			zap.String("key", key),
			zap.Int64("count", incr.Val()),
			zap.Int("limit", rule.Limit),
		)
	}
	return allowed, nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string, rule Rule) error {
	if err := l.client.Del(ctx, l.bucketKey(key, rule.Window)).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit for key %s: %w", key, err)
	}
	return nil
}

func (l *RedisLimiter) Remaining(ctx context.Context, key string, rule Rule) (int, error) {
	count, err := l.client.Get(ctx, l.bucketKey(key, rule.Window)).Int64()
	if err == redis.Nil {
		return rule.Limit, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get remaining tokens: %w", err)
	}
	return max(rule.Limit-int(count), 0), nil
}

// bucketKey names the counter of the window that contains now.
func (l *RedisLimiter) bucketKey(key string, window time.Duration) string {
	secs := int64(window / time.Second)
	if secs <= 0 {
		secs = 1
	}
	return fmt.Sprintf("cario:ratelimit:%s:%d", key, l.now().Unix()/secs)
}
