package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/Gopher0727/Cario/internal/models"
)

// NoReply 聊天机器人没有给出内容时的回复
const NoReply = "Không có phản hồi"

// Chat POST {chatbot}/query
func (c *Client) Chat(ctx context.Context, message, userID string) (string, error) {
	const op = "Chat"
	if strings.TrimSpace(message) == "" {
		return "", ValidationError(op, "Vui lòng nhập tin nhắn")
	}
	data, err := c.do(ctx, call{
		op:     op,
		method: http.MethodPost,
		base:   c.ChatbotURL,
		path:   "/query",
		body:   map[string]string{"query": message, "user_id": userID},
	})
	if err != nil {
		return "", err
	}
	if body, ok := data.(map[string]any); ok {
		if reply := firstString(body, "response", "answer", "message"); reply != "" {
			return reply, nil
		}
	}
	if s, ok := data.(string); ok && strings.TrimSpace(s) != "" {
		return s, nil
	}
	return NoReply, nil
}

// Analyze POST {analysis}/analyze-answers，返回分析文本
func (c *Client) Analyze(ctx context.Context, items []models.QuizItem) (string, error) {
	const op = "Analyze"
	if len(items) == 0 {
		return "", ValidationError(op, "Không có câu trả lời để phân tích")
	}
	resp, err := c.send(ctx, call{
		op:     op,
		method: http.MethodPost,
		base:   c.AnalysisURL,
		path:   "/analyze-answers",
		body:   map[string]any{"items": items},
	})
	if err != nil {
		return "", err
	}
	data, err := unwrapOp(op, resp.payload)
	if err != nil {
		return "", err
	}
	switch v := data.(type) {
	case string:
		return v, nil
	case map[string]any:
		if text := firstString(v, "analysis", "content", "message"); text != "" {
			return text, nil
		}
	}
	if raw := strings.TrimSpace(string(resp.raw)); raw != "" {
		return raw, nil
	}
	return "", payloadError(op, "phản hồi phân tích trống")
}
