package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/Cario/internal/handlers"
	"github.com/Gopher0727/Cario/internal/services"
	"github.com/Gopher0727/Cario/middleware/jwt"
	logger "github.com/Gopher0727/Cario/middleware/log"
	"github.com/Gopher0727/Cario/utils/ratelimit"
)

// NewEngine 创建 Gin 引擎并注册全部路由
func NewEngine(d Deps, s *services.Services) *gin.Engine {
	if d.Config.Server.Mode != "" {
		gin.SetMode(d.Config.Server.Mode)
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Tokens == nil {
		d.Tokens = jwt.NewTokenManager(d.Config.Session.Secret, d.Config.Session.TTL)
	}
	if d.Sessions == nil {
		d.Sessions = s.Auth
	}
	if d.Limiter == nil {
		d.Limiter = ratelimit.NewMemoryLimiter()
	}

	h := Handlers{
		Auth:      handlers.NewAuthHandler(s.Auth, d.Tokens, d.Config.Session.CookieName, d.Log),
		Community: handlers.NewCommunityHandler(s.Community, d.Log),
		Forum:     handlers.NewForumHandler(s.Forum, d.Log),
		Comment:   handlers.NewCommentHandler(s.Comment, d.Log),
		Quiz:      handlers.NewQuizHandler(s.Quiz, s.Chat, d.Log),
		Admin:     handlers.NewAdminHandler(s.Admin, d.Log),
	}

	r := gin.New()
	SetupRoutes(r, d, h)
	return r
}
