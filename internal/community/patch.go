package community

import (
	"slices"

	"github.com/Gopher0727/Cario/internal/models"
)

// The helpers below return new slices and never modify their input, so a
// view can swap its list in one assignment after a successful mutation.

// ToggleLike flips the viewer's like on post id and adjusts the counter.
func ToggleLike(posts []models.Post, id string) []models.Post {
	out := slices.Clone(posts)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		if out[i].UserIsLike {
			out[i].UserIsLike = false
			out[i].CountLike = max(out[i].CountLike-1, 0)
		} else {
			out[i].UserIsLike = true
			out[i].CountLike++
		}
	}
	return out
}

// ReplacePost swaps the post with the same id, or prepends it when absent.
func ReplacePost(posts []models.Post, p models.Post) []models.Post {
	if i := slices.IndexFunc(posts, func(x models.Post) bool { return x.ID == p.ID }); i >= 0 {
		out := slices.Clone(posts)
		out[i] = p
		return out
	}
	return append([]models.Post{p}, posts...)
}

// RemovePost drops post id.
func RemovePost(posts []models.Post, id string) []models.Post {
	return slices.DeleteFunc(slices.Clone(posts), func(p models.Post) bool { return p.ID == id })
}

// AdjustCommentCount adds delta to the comment counter of post id.
func AdjustCommentCount(posts []models.Post, id string, delta int) []models.Post {
	out := slices.Clone(posts)
	for i := range out {
		if out[i].ID == id {
			out[i].CountComment = max(out[i].CountComment+delta, 0)
		}
	}
	return out
}

// SetGroupRole records the viewer's new role on group id (after a join).
func SetGroupRole(groups []models.Group, id int64, role models.Role) []models.Group {
	out := slices.Clone(groups)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		if !out[i].HasRole() {
			out[i].CountUserJoin++
		}
		out[i].UserRole = role
		out[i].RoleSource = models.RoleFromServer
	}
	return out
}

// RemoveGroup drops group id.
func RemoveGroup(groups []models.Group, id int64) []models.Group {
	return slices.DeleteFunc(slices.Clone(groups), func(g models.Group) bool { return g.ID == id })
}

// FindGroup returns the group with id.
func FindGroup(groups []models.Group, id int64) (models.Group, bool) {
	i := slices.IndexFunc(groups, func(g models.Group) bool { return g.ID == id })
	if i < 0 {
		return models.Group{}, false
	}
	return groups[i], true
}
