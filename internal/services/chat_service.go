package services

import (
	"context"
	"strings"

	"github.com/Gopher0727/Cario/internal/client"
)

// AnonymousUser 未登录时发给聊天机器人的用户 ID
const AnonymousUser = "anonymous"

// ChatService 聊天机器人
type ChatService struct {
	client *client.Client
}

func NewChatService(c *client.Client) *ChatService {
	return &ChatService{client: c}
}

// ChatRequest 聊天消息
type ChatRequest struct {
	Message string `json:"message" validate:"notblank"`
}

func (s *ChatService) Send(ctx context.Context, viewer string, req ChatRequest) (string, error) {
	if err := check("Chat", req); err != nil {
		return "", err
	}
	userID := viewer
	if userID == "" {
		userID = AnonymousUser
	}
	return s.client.Chat(ctx, strings.TrimSpace(req.Message), userID)
}
