package normalize

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Gopher0727/Cario/internal/models"
	logger "github.com/Gopher0727/Cario/middleware/log"
)

// ErrUnexpectedShape is returned where an unknown payload shape cannot be
// degraded to an empty list (quiz questions).
var ErrUnexpectedShape = errors.New("normalize: unexpected payload shape")

// Options tunes normalization.
type Options struct {
	// InferRoles fills a missing group role from the creator: the viewer
	// who created the group is "admin", everyone else "member".
	InferRoles bool
}

// Normalizer maps raw decoded JSON (maps, slices, json.Number) into models.
type Normalizer struct {
	log  *logger.Logger
	opts Options
}

func New(log *logger.Logger, opts Options) *Normalizer {
	if log == nil {
		log = logger.Nop()
	}
	return &Normalizer{log: log.Named("normalize"), opts: opts}
}

func (n *Normalizer) Report(kind string, shape Shape, total, dropped int) {
	if shape == ShapeUnknown {
		n.log.Warn("unrecognized payload shape, treating as empty",
			zap.String("kind", kind))
		return
	}
	if dropped > 0 {
		n.log.Warn("dropped records during normalization",
			zap.String("kind", kind),
			zap.String("shape", string(shape)),
			zap.Int("total", total),
			zap.Int("dropped", dropped))
	}
}

// Groups normalizes a group list payload for viewer (username, may be "").
func (n *Normalizer) Groups(payload any, viewer string) Result[models.Group] {
	recs, shape, skipped := Records(payload, "groups")
	res := Result[models.Group]{Items: make([]models.Group, 0, len(recs)), Shape: shape, Dropped: skipped}
	for _, rec := range recs {
		g, ok := n.Group(rec, viewer)
		if !ok {
			res.Dropped++
			continue
		}
		res.Items = append(res.Items, g)
	}
	n.Report("group", shape, len(recs)+skipped, res.Dropped)
	return res
}

// Group maps one raw group record. It fails only when the id is unusable.
func (n *Normalizer) Group(rec map[string]any, viewer string) (models.Group, bool) {
	id, ok := GroupID(rec)
	if !ok {
		return models.Group{}, false
	}

	g := models.Group{
		ID:            id,
		Name:          str(rec, "name", "title"),
		Description:   str(rec, "description", "desc"),
		IsPrivate:     flag(rec, []string{"isPrivate"}, "private"),
		CreatedAt:     timestamp(rec, "createdAt", "created_at"),
		Creator:       creatorOf(rec),
		CountUserJoin: count(rec, "countUserJoin", "countUser", "members"),
		RoleSource:    models.RoleFromNone,
	}

	if role := nonEmpty(rec, "userRole", "role"); role != "" {
		g.UserRole = models.ParseRole(role)
		g.RoleSource = models.RoleFromServer
	} else if n.opts.InferRoles {
		g.UserRole = models.RoleMember
		if viewer != "" && g.Creator == viewer {
			g.UserRole = models.RoleAdmin
		}
		g.RoleSource = models.RoleFromInferred
	}
	return g, true
}

func creatorOf(rec map[string]any) string {
	v, ok := first(rec, "creator", "createdBy", "owner")
	if !ok {
		return ""
	}
	if m, isObj := v.(map[string]any); isObj {
		return nonEmpty(m, "username", "userName")
	}
	s, _ := scalarString(v)
	return strings.TrimSpace(s)
}

// Posts normalizes a post list payload.
func (n *Normalizer) Posts(payload any) Result[models.Post] {
	recs, shape, skipped := Records(payload, "posts")
	res := Result[models.Post]{Items: make([]models.Post, 0, len(recs)), Shape: shape, Dropped: skipped}
	for _, rec := range recs {
		p, ok := Post(rec)
		if !ok {
			res.Dropped++
			continue
		}
		res.Items = append(res.Items, p)
	}
	n.Report("post", shape, len(recs)+skipped, res.Dropped)
	return res
}

// Post maps one raw post record; records without an id are rejected.
func Post(rec map[string]any) (models.Post, bool) {
	id, ok := StringID(rec, "id", "_id", "postId")
	if !ok {
		return models.Post{}, false
	}

	p := models.Post{
		ID:           id,
		Title:        str(rec, "title", "subject"),
		Content:      str(rec, "content", "body", "text"),
		CreatedAt:    timestamp(rec, "createdAt", "timestamp", "date", "created_at"),
		UpdatedAt:    timestamp(rec, "updatedAt", "updated_at"),
		Author:       authorOf(rec),
		CountLike:    count(rec, "countLike", "likes", "likeCount"),
		CountComment: count(rec, "countComment", "comments", "commentCount"),
		UserIsLike:   flag(rec, []string{"userIsLike", "isLiked", "isLike"}, "userIsLike", "isLiked", "isLike"),
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	if obj := object(rec, "group"); obj != nil {
		if gid, ok := GroupID(obj); ok {
			p.Group = &models.GroupRef{ID: gid, Name: str(obj, "name")}
		}
	} else if v, ok := first(rec, "groupId"); ok {
		if gid, ok := ParseGroupID(v); ok {
			p.Group = &models.GroupRef{ID: gid}
		}
	}
	return p, true
}

var authorObjectKeys = []string{"userOfPost", "userOfComment", "user", "author"}

func authorOf(rec map[string]any) models.Author {
	for _, key := range authorObjectKeys {
		switch v := rec[key].(type) {
		case map[string]any:
			if name := nonEmpty(v, "username", "userName", "name", "fullName"); name != "" {
				return models.Author{Username: name, AvatarURL: nonEmpty(v, "urlAvatar", "avatarUrl", "avatar")}
			}
		case string:
			if name := strings.TrimSpace(v); name != "" {
				return models.Author{Username: name}
			}
		}
	}
	if name := nonEmpty(rec, "authorName", "username"); name != "" {
		return models.Author{Username: name}
	}
	return models.Author{Username: models.DefaultAuthor}
}

// Comments normalizes a comment payload. Nested commentsChildren are
// flattened into a single level under their top-level comment.
func (n *Normalizer) Comments(payload any) Result[models.Comment] {
	recs, shape, skipped := Records(payload, "comments")
	res := Result[models.Comment]{Items: make([]models.Comment, 0, len(recs)), Shape: shape, Dropped: skipped}
	total := len(recs) + skipped
	for _, rec := range recs {
		c, ok := Comment(rec)
		if !ok {
			res.Dropped++
			continue
		}
		res.Items = append(res.Items, c)
		res.Items, res.Dropped, total = appendChildren(res.Items, rec, c.ID, res.Dropped, total)
	}
	n.Report("comment", shape, total, res.Dropped)
	return res
}

func appendChildren(out []models.Comment, rec map[string]any, rootID string, dropped, total int) ([]models.Comment, int, int) {
	children, _ := rec["commentsChildren"].([]any)
	for _, item := range children {
		total++
		child, isObj := item.(map[string]any)
		if !isObj {
			dropped++
			continue
		}
		c, ok := Comment(child)
		if !ok {
			dropped++
			continue
		}
		c.ParentID = rootID
		out = append(out, c)
		out, dropped, total = appendChildren(out, child, rootID, dropped, total)
	}
	return out, dropped, total
}

// Comment maps one raw comment record.
func Comment(rec map[string]any) (models.Comment, bool) {
	id, ok := StringID(rec, "id", "_id", "commentId")
	if !ok {
		return models.Comment{}, false
	}
	c := models.Comment{
		ID:        id,
		Content:   str(rec, "content", "text"),
		CreatedAt: timestamp(rec, "createdAt", "timestamp", "created_at"),
		Author:    authorOf(rec),
		CountLike: count(rec, "countLike", "likes"),
		IsLike:    flag(rec, []string{"isLike", "userIsLike"}, "isLike"),
	}
	if parent, ok := StringID(rec, "parentId", "prentId"); ok {
		c.ParentID = parent
	} else if obj := object(rec, "parent"); obj != nil {
		c.ParentID, _ = StringID(obj, "id")
	}
	return c, true
}

// Members normalizes a group member list.
func (n *Normalizer) Members(payload any) Result[models.GroupMember] {
	recs, shape, skipped := Records(payload, "members")
	res := Result[models.GroupMember]{Items: make([]models.GroupMember, 0, len(recs)), Shape: shape, Dropped: skipped}
	for _, rec := range recs {
		m, ok := Member(rec)
		if !ok {
			res.Dropped++
			continue
		}
		res.Items = append(res.Items, m)
	}
	n.Report("member", shape, len(recs)+skipped, res.Dropped)
	return res
}

// Member maps one membership record. The user is read from groupMember,
// user or the record itself; a member without a username is rejected.
func Member(rec map[string]any) (models.GroupMember, bool) {
	idKeys := []string{"id", "userId"}
	user := object(rec, "groupMember")
	if user == nil {
		user = object(rec, "user")
	}
	if user == nil {
		user = rec
		idKeys = []string{"userId", "id"}
	}

	name := nonEmpty(user, "username", "userName")
	if name == "" {
		return models.GroupMember{}, false
	}
	m := models.GroupMember{
		Username:  name,
		AvatarURL: nonEmpty(user, "urlAvatar", "avatarUrl"),
		Role:      models.ParseRole(str(rec, "userRole", "role")),
		Status:    str(rec, "status"),
		JoinedAt:  timestamp(rec, "joinAt", "joinedAt", "createdAt"),
	}
	if v, ok := first(user, idKeys...); ok {
		m.UserID, _ = ParseGroupID(v)
	}
	if m.UserID == 0 {
		if v, ok := first(rec, "userId"); ok {
			m.UserID, _ = ParseGroupID(v)
		}
	}
	return m, true
}

// Questions normalizes quiz questions. Unlike list views, a quiz cannot
// start without questions, so an unrecognized shape is an error.
func (n *Normalizer) Questions(payload any) ([]models.Question, error) {
	recs, shape, skipped := Records(payload, "questions")
	if shape == ShapeUnknown || shape == ShapeSingle {
		n.Report("question", ShapeUnknown, 0, 0)
		return nil, ErrUnexpectedShape
	}

	out := make([]models.Question, 0, len(recs))
	dropped := skipped
	for _, rec := range recs {
		q, ok := Question(rec)
		if !ok {
			dropped++
			continue
		}
		out = append(out, q)
	}
	n.Report("question", shape, len(recs)+skipped, dropped)
	return out, nil
}

// Question maps one raw question; blank content rejects it.
func Question(rec map[string]any) (models.Question, bool) {
	content := strings.TrimSpace(str(rec, "content", "question", "text"))
	if content == "" {
		return models.Question{}, false
	}
	q := models.Question{
		Content: content,
		Type:    models.QuestionType(strings.ToLower(str(rec, "type"))),
	}
	q.ID, _ = StringID(rec, "id", "_id")

	answers, _ := first(rec, "answers", "options")
	list, _ := answers.([]any)
	for _, item := range list {
		switch a := item.(type) {
		case map[string]any:
			ans := models.Answer{Content: str(a, "content", "text")}
			ans.ID, _ = StringID(a, "id", "_id")
			q.Answers = append(q.Answers, ans)
		case string:
			q.Answers = append(q.Answers, models.Answer{Content: a})
		}
	}
	return q, true
}
