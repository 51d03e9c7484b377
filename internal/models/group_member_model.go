package models

import "time"

// GroupMember 群组成员
type GroupMember struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Role      Role      `json:"role"`
	Status    string    `json:"status,omitempty"`
	JoinedAt  time.Time `json:"joinedAt"`
}
