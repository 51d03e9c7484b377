package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// SearchGroups GET /group/get/all，name 为空时返回全部公开群组
func (c *Client) SearchGroups(ctx context.Context, name, username string) (any, error) {
	q := url.Values{}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		q.Set("name", trimmed)
	}
	if username != "" {
		q.Set("username", username)
	}
	return c.do(ctx, call{op: "SearchGroups", method: http.MethodGet, path: "/group/get/all", query: q})
}

// UserGroups GET /group/get/by-user，当前用户加入或创建的群组
func (c *Client) UserGroups(ctx context.Context, username string) (any, error) {
	q := url.Values{"username": {username}}
	return c.do(ctx, call{op: "UserGroups", method: http.MethodGet, path: "/group/get/by-user", query: q})
}

// GroupInput 创建群组
type GroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"isPrivate"`
}

func (c *Client) CreateGroup(ctx context.Context, in GroupInput) (any, error) {
	return c.do(ctx, call{op: "CreateGroup", method: http.MethodPost, path: "/group/create", body: in})
}

// GroupUpdate 更新群组，未设置的字段不发送
type GroupUpdate struct {
	ID          int64   `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPrivate   *bool   `json:"isPrivate,omitempty"`
	Status      string  `json:"status,omitempty"`
}

func (c *Client) UpdateGroup(ctx context.Context, in GroupUpdate) (any, error) {
	return c.do(ctx, call{op: "UpdateGroup", method: http.MethodPut, path: "/group/update-status", body: in})
}

func (c *Client) DeleteGroup(ctx context.Context, id int64) error {
	_, err := c.do(ctx, call{op: "DeleteGroup", method: http.MethodDelete, path: fmt.Sprintf("/group/delete/%d", id)})
	return err
}

// JoinGroup POST /api/group-member/join/{id}
func (c *Client) JoinGroup(ctx context.Context, id int64) error {
	_, err := c.do(ctx, call{op: "JoinGroup", method: http.MethodPost, path: fmt.Sprintf("/api/group-member/join/%d", id)})
	return err
}

func (c *Client) GroupMembers(ctx context.Context, groupID int64) (any, error) {
	q := url.Values{"groupId": {strconv.FormatInt(groupID, 10)}}
	return c.do(ctx, call{op: "GroupMembers", method: http.MethodGet, path: "/api/group-member/get/by-group", query: q})
}

// UpdateMemberRole PUT /api/group-member/update/role，后端按字符串解析各字段
func (c *Client) UpdateMemberRole(ctx context.Context, groupID, userID int64, role string) error {
	body := map[string]string{
		"groupId": strconv.FormatInt(groupID, 10),
		"userId":  strconv.FormatInt(userID, 10),
		"role":    role,
	}
	_, err := c.do(ctx, call{op: "UpdateMemberRole", method: http.MethodPut, path: "/api/group-member/update/role", body: body})
	return err
}

// RemoveMember DELETE /api/group-member/delete，请求体中 id 为群组 ID
func (c *Client) RemoveMember(ctx context.Context, groupID, userID int64) error {
	body := map[string]string{
		"id":     strconv.FormatInt(groupID, 10),
		"userId": strconv.FormatInt(userID, 10),
	}
	_, err := c.do(ctx, call{op: "RemoveMember", method: http.MethodDelete, path: "/api/group-member/delete", body: body})
	return err
}
