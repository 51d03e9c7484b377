package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/Cario/internal/services"
	"github.com/Gopher0727/Cario/internal/session"
	"github.com/Gopher0727/Cario/middleware/jwt"
	logger "github.com/Gopher0727/Cario/middleware/log"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	authService *services.AuthService
	tokens      *jwt.TokenManager
	cookieName  string
	log         *logger.Logger
}

// NewAuthHandler 创建认证处理器实例
func NewAuthHandler(authService *services.AuthService, tokens *jwt.TokenManager, cookieName string, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{authService: authService, tokens: tokens, cookieName: cookieName, log: log.Named("auth")}
}

// Register 用户注册
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Vui lòng nhập đầy đủ thông tin.")
		return
	}
	if err := h.authService.Register(c.Request.Context(), req); err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, gin.H{"username": req.Username})
}

// Login 用户登录，签发 BFF 会话 Cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Vui lòng nhập đầy đủ username và mật khẩu.")
		return
	}

	sess, err := h.authService.Login(c.Request.Context(), req, "")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	token, err := h.tokens.GenerateToken(sess.ID, sess.Username, sess.Role)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	maxAge := int(sess.ExpiresAt.Sub(clock()).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, token, maxAge, "/", "", false, true)
	success(c, gin.H{
		"token": token,
		"me":    services.MeOf(sess),
	})
}

// Logout 用户登出，本地会话与 Cookie 总是清除
func (h *AuthHandler) Logout(c *gin.Context) {
	if sess := currentSession(c); sess != nil {
		if err := h.authService.Logout(c.Request.Context(), sess.ID); err != nil && !errors.Is(err, session.ErrNotFound) {
			fail(c, h.log, err)
			return
		}
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "logout success",
		"data":    nil,
	})
}

// Me 当前用户
func (h *AuthHandler) Me(c *gin.Context) {
	success(c, services.MeOf(currentSession(c)))
}
