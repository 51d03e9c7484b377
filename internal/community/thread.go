package community

import "github.com/Gopher0727/Cario/internal/models"

// Thread groups comments into top-level entries with their replies, keeping
// server order. A reply is attached to its top-level ancestor, however deep
// it sits. Replies whose parent is not in the list become top-level.
func Thread(comments []models.Comment) []models.CommentThread {
	parent := make(map[string]string, len(comments))
	for _, c := range comments {
		parent[c.ID] = c.ParentID
	}

	top := make(map[string]int)
	out := make([]models.CommentThread, 0, len(comments))
	promote := func(c models.Comment) {
		top[c.ID] = len(out)
		out = append(out, models.CommentThread{Comment: c, Replies: []models.Comment{}})
	}
	for _, c := range comments {
		if c.ParentID == "" {
			promote(c)
		}
	}
	for _, c := range comments {
		if _, known := parent[c.ParentID]; c.ParentID != "" && !known {
			promote(c)
		}
	}

	for _, c := range comments {
		if _, isTop := top[c.ID]; isTop {
			continue
		}
		if i, ok := top[rootOf(c.ID, parent)]; ok {
			out[i].Replies = append(out[i].Replies, c)
			continue
		}
		// parent cycle
		promote(c)
	}
	return out
}

// rootOf follows parent links until an id without a listed parent.
func rootOf(id string, parent map[string]string) string {
	seen := map[string]bool{id: true}
	for {
		p, ok := parent[id]
		if !ok || p == "" {
			return id
		}
		if _, listed := parent[p]; !listed || seen[p] {
			return id
		}
		seen[p] = true
		id = p
	}
}
