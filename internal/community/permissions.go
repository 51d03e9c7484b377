package community

import (
	"github.com/Gopher0727/Cario/internal/models"
)

// Permissions is what the viewer may do inside a group.
type Permissions struct {
	CanView   bool `json:"canView"`
	CanPost   bool `json:"canPost"`
	CanManage bool `json:"canManage"`
}

// PermissionsFor maps a group role to permissions. Owners and admins can do
// everything, members can view and post, anything else must join first.
func PermissionsFor(role models.Role) Permissions {
	switch models.ParseRole(string(role)) {
	case models.RoleOwner, models.RoleAdmin:
		return Permissions{CanView: true, CanPost: true, CanManage: true}
	case models.RoleMember:
		return Permissions{CanView: true, CanPost: true}
	default:
		return Permissions{}
	}
}

// NeedsJoin reports whether the join action should be offered.
func NeedsJoin(g models.Group) bool {
	return !PermissionsFor(g.UserRole).CanView
}

// CanDeleteGroup accepts either a managing role or a direct creator match.
func CanDeleteGroup(g models.Group, viewer string) bool {
	if PermissionsFor(g.UserRole).CanManage {
		return true
	}
	return viewer != "" && g.Creator == viewer
}

// CanModifyPost allows the author, or anyone who can manage the group the
// post belongs to.
func CanModifyPost(p models.Post, viewer string, groupRole models.Role) bool {
	if viewer != "" && p.Author.Username == viewer {
		return true
	}
	return PermissionsFor(groupRole).CanManage
}

// CanDeleteComment allows the comment author only.
func CanDeleteComment(c models.Comment, viewer string) bool {
	return viewer != "" && c.Author.Username == viewer
}
