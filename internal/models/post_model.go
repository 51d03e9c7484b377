package models

import "time"

// DefaultAuthor 无法解析作者时使用的显示名
const DefaultAuthor = "Người dùng"

// Author 帖子或评论的作者
type Author struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Post 帖子，ID 为不透明字符串
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Author       Author    `json:"author"`
	CountLike    int       `json:"countLike"`
	CountComment int       `json:"countComment"`
	UserIsLike   bool      `json:"userIsLike"`
	Group        *GroupRef `json:"group,omitempty"`
}

// Comment 评论，ParentID 非空时为单层回复
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Author    Author    `json:"author"`
	ParentID  string    `json:"parentId,omitempty"`
	CountLike int       `json:"countLike"`
	IsLike    bool      `json:"isLike"`
}

// CommentThread 顶层评论及其回复
type CommentThread struct {
	Comment
	Replies []Comment `json:"replies"`
}
