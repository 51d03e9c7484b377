package routers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/Cario/config"
	"github.com/Gopher0727/Cario/internal/handlers"
	"github.com/Gopher0727/Cario/internal/middlewares"
	"github.com/Gopher0727/Cario/middleware/jwt"
	logger "github.com/Gopher0727/Cario/middleware/log"
	"github.com/Gopher0727/Cario/utils/ratelimit"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	Auth      *handlers.AuthHandler
	Community *handlers.CommunityHandler
	Forum     *handlers.ForumHandler
	Comment   *handlers.CommentHandler
	Quiz      *handlers.QuizHandler
	Admin     *handlers.AdminHandler
}

// Deps 全局中间件依赖
type Deps struct {
	Config   *config.Config
	Log      *logger.Logger
	Tokens   *jwt.TokenManager
	Sessions middlewares.SessionLoader
	Limiter  ratelimit.Limiter
}

// SetupRoutes 设置所有路由
func SetupRoutes(r *gin.Engine, d Deps, h Handlers) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", logger.TraceHeader}
	r.Use(cors.New(corsConfig))

	r.Use(logger.GinMiddleware(d.Log))
	r.Use(middlewares.Recovery(d.Log))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"Status": "OK",
		})
	})

	api := r.Group("/api/v1")
	api.Use(middlewares.SessionMiddleware(d.Tokens, d.Sessions, d.Config.Session.CookieName, d.Log))
	api.Use(middlewares.RateLimitMiddleware(d.Limiter, ratelimit.ActionAPI, d.Config.RateLimit, d.Log))

	RegisterAuthRoutes(api, d, h.Auth)

	// 以下接口都需要登录
	authed := api.Group("")
	authed.Use(middlewares.RequireAuth())
	authed.Use(middlewares.MutationRateLimit(d.Limiter, d.Config.RateLimit, d.Log))
	RegisterCommunityRoutes(authed, h.Community)
	RegisterForumRoutes(authed, h.Forum, h.Comment)
	RegisterQuizRoutes(authed, h.Quiz)
	RegisterAdminRoutes(authed, h.Admin)
}

// RegisterAuthRoutes 认证接口
func RegisterAuthRoutes(api *gin.RouterGroup, d Deps, h *handlers.AuthHandler) {
	auth := api.Group("/auth")
	{
		auth.POST("/login", middlewares.RateLimitMiddleware(d.Limiter, ratelimit.ActionLogin, d.Config.RateLimit, d.Log), h.Login)
		auth.POST("/register", middlewares.RateLimitMiddleware(d.Limiter, ratelimit.ActionRegister, d.Config.RateLimit, d.Log), h.Register)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me) // 未登录时 authenticated=false
	}
}

// RegisterCommunityRoutes 群组接口
func RegisterCommunityRoutes(api *gin.RouterGroup, h *handlers.CommunityHandler) {
	groups := api.Group("/community/groups")
	{
		groups.GET("", h.ListGroups)           // 合并后的列表
		groups.GET("/search", h.SearchGroups)  // ?q=
		groups.POST("", h.CreateGroup)         // 创建群组
		groups.DELETE("/:id", h.DeleteGroup)   // 删除群组
		groups.POST("/:id/join", h.JoinGroup)  // 加入群组
		groups.GET("/:id/posts", h.GroupPosts) // 群组帖子（需已加入）
		groups.POST("/:id/posts", h.CreateGroupPost)

		// 成员管理
		groups.GET("/:id/members", h.Members)
		groups.PUT("/:id/members/:userId/role", h.UpdateMemberRole)
		groups.DELETE("/:id/members/:userId", h.RemoveMember)
	}
}

// RegisterForumRoutes 论坛与评论接口
func RegisterForumRoutes(api *gin.RouterGroup, forum *handlers.ForumHandler, comment *handlers.CommentHandler) {
	posts := api.Group("/forum/posts")
	{
		posts.GET("", forum.ListPosts) // ?username=
		posts.GET("/:id", forum.GetPost)
		posts.POST("", forum.CreatePost)
		posts.PUT("/:id", forum.UpdatePost)
		posts.DELETE("/:id", forum.DeletePost)
		posts.PUT("/:id/like", forum.ToggleLike)
	}

	api.GET("/posts/:id/comments", comment.Threads)
	api.POST("/posts/:id/comments", comment.CreateComment)
	api.DELETE("/comments/:id", comment.DeleteComment)
}

// RegisterQuizRoutes 测验与聊天机器人接口
func RegisterQuizRoutes(api *gin.RouterGroup, h *handlers.QuizHandler) {
	quiz := api.Group("/quiz")
	{
		quiz.GET("/types", h.Types)
		quiz.GET("/questions", h.Questions) // ?type=
		quiz.POST("/submit", h.Submit)
		quiz.GET("/result", h.Result)
	}
	api.POST("/chat", h.Chat)
}

// RegisterAdminRoutes 管理后台接口，仅 ADMIN
func RegisterAdminRoutes(api *gin.RouterGroup, h *handlers.AdminHandler) {
	admin := api.Group("/admin")
	admin.Use(middlewares.RequireAdmin())
	{
		admin.GET("/questions", h.Questions)
		admin.POST("/questions", h.CreateQuestion)
		admin.PUT("/questions/:id", h.UpdateQuestion)
		admin.DELETE("/questions/:id", h.DeleteQuestion)
		admin.PUT("/groups/:id/status", h.UpdateGroupStatus)
	}
}
