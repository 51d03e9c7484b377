package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/session"
	logger "github.com/Gopher0727/Cario/middleware/log"
)

// AuthService 认证服务，登录结果保存为会话
type AuthService struct {
	client *client.Client
	store  session.Store
	ttl    time.Duration
	log    *logger.Logger
	now    func() time.Time
}

// NewAuthService 创建认证服务实例
func NewAuthService(c *client.Client, store session.Store, ttl time.Duration, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.Nop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{client: c, store: store, ttl: ttl, log: log.Named("auth"), now: time.Now}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest 注册请求，confirmPassword 可省略
type RegisterRequest struct {
	Username        string `json:"username" validate:"notblank"`
	Email           string `json:"email" validate:"notblank,simple_email"`
	Password        string `json:"password" validate:"required,min=6,has_lower,has_upper,has_digit"`
	ConfirmPassword string `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
	FullName        string `json:"fullName" validate:"omitempty,min=2"`
}

// Login 登录并创建会话。sessionID 非空时复用该 ID（命令行固定使用同一个 ID）
func (s *AuthService) Login(ctx context.Context, req LoginRequest, sessionID string) (*session.Session, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, client.ValidationError("Login", "Vui lòng nhập đầy đủ username và mật khẩu.")
	}
	username := strings.TrimSpace(req.Username)

	res, err := s.client.Login(ctx, username, req.Password)
	if err != nil {
		s.log.WarnContext(ctx, "login failed", zap.String("username", username), zap.String("code", client.CodeOf(err)))
		return nil, err
	}

	sess := session.New(res.Username, res.Role, res.Token, res.ExpiresAt, s.ttl, s.now())
	if sessionID != "" {
		sess.ID = sessionID
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "user logged in", zap.String("username", sess.Username), zap.String("role", sess.Role))
	return sess, nil
}

// Register 校验后调用后端注册
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := check("Register", req); err != nil {
		return err
	}
	return s.client.Register(ctx, client.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
}

// Logout 通知后端（失败只记录日志），本地会话总是删除
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sess, err := s.store.Get(ctx, sessionID); err == nil {
		if err := s.client.Logout(session.NewContext(ctx, sess)); err != nil {
			s.log.WarnContext(ctx, "backend logout failed", zap.String("username", sess.Username), zap.Error(err))
		}
	}
	return s.store.Delete(ctx, sessionID)
}

// Current 返回有效会话；不存在或已过期时返回 session.ErrNotFound
func (s *AuthService) Current(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, session.ErrNotFound
	}
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		_ = s.store.Delete(ctx, sessionID)
		return nil, session.ErrNotFound
	}
	return sess, nil
}

// Me 当前用户与默认落地页
type Me struct {
	models.User
	Authenticated bool      `json:"authenticated"`
	DefaultRoute  string    `json:"defaultRoute"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

func MeOf(sess *session.Session) Me {
	if sess == nil {
		return Me{DefaultRoute: "/login"}
	}
	return Me{
		User:          sess.User(),
		Authenticated: true,
		DefaultRoute:  models.DefaultRoute(sess.Role),
		ExpiresAt:     sess.ExpiresAt,
	}
}

// IsUnauthenticated 会话缺失或后端拒绝令牌
func IsUnauthenticated(err error) bool {
	return errors.Is(err, session.ErrNotFound) || client.CodeOf(err) == client.CodeUnauthorized
}
