package handlers

import (
	"github.com/Gopher0727/Cario/internal/community"
	"github.com/Gopher0727/Cario/internal/models"
)

// GroupView 群组及当前用户在其中的权限
type GroupView struct {
	models.Group
	Permissions community.Permissions `json:"permissions"`
	NeedsJoin   bool                  `json:"needsJoin"`
	CanDelete   bool                  `json:"canDelete"`
	TimeAgo     string                `json:"timeAgo"`
}

func groupViews(groups []models.Group, viewer string) []GroupView {
	out := make([]GroupView, 0, len(groups))
	now := clock()
	for _, g := range groups {
		out = append(out, GroupView{
			Group:       g,
			Permissions: community.PermissionsFor(g.UserRole),
			NeedsJoin:   community.NeedsJoin(g),
			CanDelete:   community.CanDeleteGroup(g, viewer),
			TimeAgo:     community.TimeAgo(g.CreatedAt, now),
		})
	}
	return out
}

// PostView 帖子及展示字段
type PostView struct {
	models.Post
	TimeAgo   string `json:"timeAgo"`
	CanModify bool   `json:"canModify"`
}

// postViews 作者本人或可管理群组的用户可以编辑/删除
func postViews(posts []models.Post, viewer string, perms community.Permissions) []PostView {
	out := make([]PostView, 0, len(posts))
	now := clock()
	for _, p := range posts {
		out = append(out, PostView{
			Post:      p,
			TimeAgo:   community.TimeAgo(p.CreatedAt, now),
			CanModify: community.CanModifyPost(p, viewer, models.RoleNone) || perms.CanManage,
		})
	}
	return out
}

// CommentView 评论及展示字段
type CommentView struct {
	models.Comment
	TimeAgo   string `json:"timeAgo"`
	CanDelete bool   `json:"canDelete"`
}

// ThreadView 顶层评论与回复
type ThreadView struct {
	CommentView
	Replies []CommentView `json:"replies"`
}

func commentView(c models.Comment, viewer string) CommentView {
	return CommentView{
		Comment:   c,
		TimeAgo:   community.CommentTimeAgo(c.CreatedAt, clock()),
		CanDelete: community.CanDeleteComment(c, viewer),
	}
}

func threadViews(threads []models.CommentThread, viewer string) []ThreadView {
	out := make([]ThreadView, 0, len(threads))
	for _, t := range threads {
		tv := ThreadView{CommentView: commentView(t.Comment, viewer), Replies: make([]CommentView, 0, len(t.Replies))}
		for _, r := range t.Replies {
			tv.Replies = append(tv.Replies, commentView(r, viewer))
		}
		out = append(out, tv)
	}
	return out
}
