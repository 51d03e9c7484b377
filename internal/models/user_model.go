package models

import "strings"

// 账号角色（与群组角色不同）
const (
	AccountUser  = "USER"
	AccountAdmin = "ADMIN"
)

// User 账号信息
type User struct {
	ID        string `json:"id,omitempty"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FullName  string `json:"fullName,omitempty"`
	Role      string `json:"role,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// CanAccessAdmin 仅 ADMIN 可访问管理后台
func CanAccessAdmin(role string) bool {
	return strings.EqualFold(role, AccountAdmin)
}

// CanAccessUser USER 与 ADMIN 都可访问普通页面
func CanAccessUser(role string) bool {
	return strings.EqualFold(role, AccountUser) || strings.EqualFold(role, AccountAdmin)
}

// DefaultRoute 登录后的默认落地页
func DefaultRoute(role string) string {
	if CanAccessAdmin(role) {
		return "/admin/dashboard"
	}
	return "/"
}
