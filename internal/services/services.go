package services

import (
	"github.com/Gopher0727/Cario/config"
	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/normalize"
	"github.com/Gopher0727/Cario/internal/session"
	logger "github.com/Gopher0727/Cario/middleware/log"
	"github.com/Gopher0727/Cario/utils/inflight"
)

// Services BFF 与 CLI 共用的服务集合
type Services struct {
	Auth      *AuthService
	Community *CommunityService
	Forum     *ForumService
	Comment   *CommentService
	Quiz      *QuizService
	Chat      *ChatService
	Admin     *AdminService
}

// New 初始化全部服务，写操作共用同一个 in-flight 守卫
func New(c *client.Client, store session.Store, cfg *config.Config, log *logger.Logger) *Services {
	norm := normalize.New(log, normalize.Options{InferRoles: cfg.Community.InferRoles})
	guard := &inflight.Guard{}
	quiz := NewQuizService(c, norm, store, log)

	return &Services{
		Auth:      NewAuthService(c, store, cfg.Session.TTL, log),
		Community: NewCommunityService(c, norm, guard, log),
		Forum:     NewForumService(c, norm, guard, log),
		Comment:   NewCommentService(c, norm, guard),
		Quiz:      quiz,
		Chat:      NewChatService(c),
		Admin:     NewAdminService(c, quiz, guard),
	}
}
