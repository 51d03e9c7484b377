package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// idValue 数字 ID 以数字发送，其余原样
func idValue(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

// Posts GET /api/posts/get，论坛全部帖子
func (c *Client) Posts(ctx context.Context) (any, error) {
	return c.do(ctx, call{op: "Posts", method: http.MethodGet, path: "/api/posts/get"})
}

func (c *Client) PostsByUser(ctx context.Context, username string) (any, error) {
	q := url.Values{"username": {username}}
	return c.do(ctx, call{op: "PostsByUser", method: http.MethodGet, path: "/api/posts/get/by-user", query: q})
}

// PostQuery 群组帖子排序参数
type PostQuery struct {
	Sort     string
	TypeSort string
}

func (c *Client) PostsByGroup(ctx context.Context, groupID int64, pq PostQuery) (any, error) {
	q := url.Values{"groupId": {strconv.FormatInt(groupID, 10)}}
	if pq.Sort != "" {
		q.Set("sort", pq.Sort)
	}
	if pq.TypeSort != "" {
		q.Set("typeSort", pq.TypeSort)
	}
	return c.do(ctx, call{op: "PostsByGroup", method: http.MethodGet, path: "/api/posts/get/by-group", query: q})
}

func (c *Client) Post(ctx context.Context, id string) (any, error) {
	return c.do(ctx, call{op: "Post", method: http.MethodGet, path: "/api/posts/get/" + url.PathEscape(id)})
}

// PostInput 创建或更新帖子
type PostInput struct {
	ID      string
	Title   string
	Content string
	Type    string // 群组帖子为 "blog"
	GroupID int64  // 0 表示不属于群组
}

func (in PostInput) body() map[string]any {
	b := map[string]any{"title": in.Title, "content": in.Content}
	if in.ID != "" {
		b["id"] = idValue(in.ID)
	}
	if in.Type != "" {
		b["type"] = in.Type
	}
	if in.GroupID != 0 {
		b["groupId"] = in.GroupID
	}
	return b
}

func (c *Client) CreatePost(ctx context.Context, in PostInput) (any, error) {
	return c.do(ctx, call{op: "CreatePost", method: http.MethodPost, path: "/api/posts/create", body: in.body()})
}

func (c *Client) UpdatePost(ctx context.Context, in PostInput) (any, error) {
	return c.do(ctx, call{op: "UpdatePost", method: http.MethodPut, path: "/api/posts/update", body: in.body()})
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{op: "DeletePost", method: http.MethodDelete, path: "/api/posts/delete/" + url.PathEscape(id)})
	return err
}

// ToggleLike PUT /api/like，后端可能返回空响应体
func (c *Client) ToggleLike(ctx context.Context, postID string) error {
	_, err := c.do(ctx, call{op: "ToggleLike", method: http.MethodPut, path: "/api/like", body: map[string]any{"postId": idValue(postID)}})
	return err
}
