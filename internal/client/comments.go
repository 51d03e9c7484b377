package client

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Comments(ctx context.Context, postID string) (any, error) {
	return c.do(ctx, call{op: "Comments", method: http.MethodGet, path: "/api/comment/get/by-posts/" + url.PathEscape(postID)})
}

// CommentInput 新评论，ParentID 非空时为回复
type CommentInput struct {
	PostID   string
	Content  string
	ParentID string
}

// CreateComment POST /api/comment/create
// 父评论 ID 同时以 parentId 和后端使用的 prentId 发送
func (c *Client) CreateComment(ctx context.Context, in CommentInput) (any, error) {
	body := map[string]any{"postId": idValue(in.PostID), "content": in.Content}
	if in.ParentID != "" {
		parent := idValue(in.ParentID)
		body["parentId"] = parent
		body["prentId"] = parent
	}
	return c.do(ctx, call{op: "CreateComment", method: http.MethodPost, path: "/api/comment/create", body: body})
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{op: "DeleteComment", method: http.MethodDelete, path: "/api/comment/delete/" + url.PathEscape(id)})
	return err
}
