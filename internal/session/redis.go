package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "cario:session:" // Redis String，值是会话 JSON

// RedisStore 多个 BFF 实例共享的会话存储，键的 TTL 与会话过期时间一致
type RedisStore struct {
	client     *redis.Client
	defaultTTL time.Duration // 会话没有过期时间时使用
	now        func() time.Time
}

func NewRedisStore(client *redis.Client, defaultTTL time.Duration) *RedisStore {
	if defaultTTL <= 0 {
		defaultTTL = 24 * time.Hour
	}
	return &RedisStore{client: client, defaultTTL: defaultTTL, now: time.Now}
}

func (r *RedisStore) key(id string) string {
	return sessionKeyPrefix + id
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("读取会话失败: %w", err)
	}

	var s Session
	if err := json.Unmarshal(val, &s); err != nil {
		// 无法解析的数据按不存在处理
		r.client.Del(ctx, r.key(id))
		return nil, ErrNotFound
	}
	if s.Expired(r.now()) {
		r.client.Del(ctx, r.key(id))
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	ttl := r.defaultTTL
	if !s.ExpiresAt.IsZero() {
		ttl = s.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return r.Delete(ctx, s.ID)
		}
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("保存会话失败: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("删除会话失败: %w", err)
	}
	return nil
}
