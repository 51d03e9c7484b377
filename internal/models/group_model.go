package models

import (
	"strings"
	"time"
)

// Role 用户在群组中的角色
type Role string

const (
	RoleNone   Role = ""
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole 大小写不敏感地解析角色，未知值原样保留（小写）
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// RoleSource 标记角色的来源
type RoleSource string

const (
	RoleFromServer   RoleSource = "server"
	RoleFromInferred RoleSource = "inferred"
	RoleFromNone     RoleSource = "none"
)

// Group 群组
// ID 必须是有限整数；CreatedAt 为零值表示后端未提供创建时间
type Group struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	IsPrivate     bool       `json:"isPrivate"`
	CreatedAt     time.Time  `json:"createdAt"`
	UserRole      Role       `json:"userRole,omitempty"`
	RoleSource    RoleSource `json:"roleSource"`
	Creator       string     `json:"creator,omitempty"`
	CountUserJoin int        `json:"countUserJoin"`
}

// HasRole 当前用户是否在群组中拥有任意角色
func (g Group) HasRole() bool {
	return g.UserRole != RoleNone
}

// GroupRef 帖子所属群组的简要信息
type GroupRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}
