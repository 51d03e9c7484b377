package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/session"
	"github.com/Gopher0727/Cario/middleware/jwt"
	logger "github.com/Gopher0727/Cario/middleware/log"
)

// SessionLoader 按会话 ID 取出有效会话
type SessionLoader interface {
	Current(ctx context.Context, sessionID string) (*session.Session, error)
}

// SessionMiddleware 解析会话令牌并把会话放进请求上下文
// 令牌缺失或无效时按匿名请求继续，是否必须登录由 RequireAuth 决定
func SessionMiddleware(tokens *jwt.TokenManager, sessions SessionLoader, cookieName string, log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(cookieName)
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := tokens.ParseToken(token)
		if err != nil {
			log.DebugContext(c.Request.Context(), "invalid session token", zap.Error(err))
			c.Next()
			return
		}

		sess, err := sessions.Current(c.Request.Context(), claims.SessionID)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				log.WarnContext(c.Request.Context(), "session lookup failed", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), sess))
		c.Set("username", sess.Username)
		c.Set("role", sess.Role)
		c.Next()
	}
}

// bearerToken 解析 Authorization: Bearer <token>
func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireAuth 未登录返回 401
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.FromContext(c.Request.Context()) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Vui lòng đăng nhập để tiếp tục.",
				"code":  client.CodeUnauthorized,
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin 仅 ADMIN 账号可访问，需放在 RequireAuth 之后
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.FromContext(c.Request.Context())
		if sess == nil || !models.CanAccessAdmin(sess.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Bạn không có quyền truy cập trang quản trị.",
				"code":  client.CodeForbidden,
			})
			return
		}
		c.Next()
	}
}

// CallerKey 区分调用方：已登录用会话 ID，否则用客户端 IP
func CallerKey(c *gin.Context) string {
	if s := session.FromContext(c.Request.Context()); s != nil {
		return s.ID
	}
	return "ip:" + c.ClientIP()
}
