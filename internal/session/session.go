package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/Gopher0727/Cario/config"
	"github.com/Gopher0727/Cario/internal/models"
)

// ErrNotFound 会话不存在或已过期
var ErrNotFound = errors.New("session not found")

// Session 一次登录对应的会话，取代浏览器 localStorage 中的用户信息
type Session struct {
	ID        string    `json:"id" yaml:"id"`
	Username  string    `json:"username" yaml:"username"`
	Role      string    `json:"role" yaml:"role"`
	Token     string    `json:"token" yaml:"token"` // 后端 token Cookie
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	ExpiresAt time.Time `json:"expiresAt" yaml:"expires_at"`

	// 最近一次答题的结果
	QuizResults []models.QuizItem `json:"quizResults,omitempty" yaml:"quiz_results,omitempty"`
	Analysis    string            `json:"analysis,omitempty" yaml:"analysis,omitempty"`
}

// New 创建会话。backendExpiry 为零时只受 ttl 限制，两者取较早者
func New(username, role, token string, backendExpiry time.Time, ttl time.Duration, now time.Time) *Session {
	expires := now.Add(ttl)
	if !backendExpiry.IsZero() && backendExpiry.Before(expires) {
		expires = backendExpiry
	}
	return &Session{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      role,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: expires,
	}
}

// Expired 判断 now 时刻会话是否已失效
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// User 会话对应的用户
func (s *Session) User() models.User {
	return models.User{Username: s.Username, Role: s.Role}
}

// Store 会话存储
type Store interface {
	// Get 返回未过期的会话，过期的会话会被删除并返回 ErrNotFound
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// NewStore 按配置选择存储实现，redis 模式下 client 不能为空
func NewStore(cfg config.SessionConfig, client *redis.Client) (Store, error) {
	switch cfg.Store {
	case "memory", "":
		return NewMemoryStore(), nil
	case "redis":
		if client == nil {
			return nil, errors.New("session.store=redis 需要 Redis 连接")
		}
		return NewRedisStore(client, cfg.TTL), nil
	case "file":
		return NewFileStore(cfg.FilePath)
	default:
		return nil, fmt.Errorf("未知的 session.store: %q", cfg.Store)
	}
}
