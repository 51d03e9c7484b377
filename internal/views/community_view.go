// Package views holds the community screen state: the group list, the
// selected group and its posts, and the last error to show. All updates go
// through the mutex; network calls run outside of it.
package views

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/community"
	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/services"
	"github.com/Gopher0727/Cario/internal/session"
	logger "github.com/Gopher0727/Cario/middleware/log"
	"github.com/Gopher0727/Cario/utils/debounce"
	"github.com/Gopher0727/Cario/utils/latest"
)

const (
	keyGroups = "groups" // load and search share one key and supersede each other
	keyPosts  = "posts"
)

// State is a snapshot of the community screen.
type State struct {
	Groups      []models.Group
	Query       string
	Selected    *models.Group
	Permissions community.Permissions
	Posts       []models.Post
	Loading     bool
	Error       string
}

// CommunityView drives the community screen for one session.
type CommunityView struct {
	community *services.CommunityService
	forum     *services.ForumService
	log       *logger.Logger

	base   context.Context // session context used by debounced searches
	viewer string
	guard  latest.Guard
	search *debounce.Debouncer[string]

	mu       sync.Mutex
	state    State
	onChange func(State)
}

// NewCommunityView creates a view bound to the session carried by ctx.
func NewCommunityView(ctx context.Context, cs *services.CommunityService, fs *services.ForumService, delay time.Duration, log *logger.Logger) *CommunityView {
	if log == nil {
		log = logger.Nop()
	}
	v := &CommunityView{
		community: cs,
		forum:     fs,
		log:       log.Named("view"),
		base:      ctx,
		viewer:    session.Viewer(ctx),
	}
	v.search = debounce.New(delay, func(q string) {
		_ = v.Search(v.base, q)
	})
	return v
}

// OnChange registers fn to receive a snapshot after every state change.
func (v *CommunityView) OnChange(fn func(State)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onChange = fn
}

// Snapshot returns a copy of the current state.
func (v *CommunityView) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *CommunityView) snapshotLocked() State {
	s := v.state
	s.Groups = slices.Clone(s.Groups)
	s.Posts = slices.Clone(s.Posts)
	if s.Selected != nil {
		g := *s.Selected
		s.Selected = &g
	}
	return s
}

// apply runs fn under the lock and returns the new snapshot with the
// listener to notify once all locks are released.
func (v *CommunityView) apply(fn func(*State)) (State, func(State)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(&v.state)
	return v.snapshotLocked(), v.onChange
}

func (v *CommunityView) update(fn func(*State)) {
	snap, notify := v.apply(fn)
	if notify != nil {
		notify(snap)
	}
}

// commit applies fn only while ticket is still the newest request.
func (v *CommunityView) commit(ticket *latest.Ticket, fn func(*State)) error {
	var (
		snap   State
		notify func(State)
	)
	if err := ticket.Commit(func() { snap, notify = v.apply(fn) }); err != nil {
		return err
	}
	if notify != nil {
		notify(snap)
	}
	return nil
}

// fail stores the display message for err. Superseded and cancelled
// requests are not errors the user needs to see.
func (v *CommunityView) fail(err error) error {
	if errors.Is(err, latest.ErrSuperseded) || errors.Is(err, context.Canceled) {
		return err
	}
	v.log.Warn("community action failed", zap.String("code", client.CodeOf(err)), zap.Error(err))
	v.update(func(s *State) {
		s.Loading = false
		s.Error = client.Message(err)
	})
	return err
}

// Load fetches the merged group list.
func (v *CommunityView) Load(ctx context.Context) error {
	return v.loadGroups(ctx, func(ctx context.Context) ([]models.Group, error) {
		return v.community.Groups(ctx, v.viewer)
	})
}

// SearchInput records the query and schedules a debounced search.
func (v *CommunityView) SearchInput(q string) {
	v.update(func(s *State) { s.Query = q })
	v.search.Trigger(q)
}

// Search runs a group search immediately. An empty query lists all groups.
func (v *CommunityView) Search(ctx context.Context, q string) error {
	return v.loadGroups(ctx, func(ctx context.Context) ([]models.Group, error) {
		return v.community.SearchGroups(ctx, "view:"+v.viewer, q, v.viewer)
	})
}

func (v *CommunityView) loadGroups(ctx context.Context, fetch func(context.Context) ([]models.Group, error)) error {
	ctx, ticket := v.guard.Begin(ctx, keyGroups)
	defer ticket.Done()

	v.update(func(s *State) { s.Loading = true })
	groups, err := fetch(ctx)
	if err != nil {
		if !ticket.Current() {
			return latest.ErrSuperseded
		}
		return v.fail(err)
	}
	return v.commit(ticket, func(s *State) {
		s.Groups = groups
		s.Loading = false
		s.Error = ""
		if s.Selected != nil {
			if g, ok := community.FindGroup(groups, s.Selected.ID); ok {
				s.Selected = &g
				s.Permissions = community.PermissionsFor(g.UserRole)
			}
		}
	})
}

// SelectGroup opens a group. Posts are only fetched when the viewer's role
// allows viewing; otherwise the view offers the join action.
func (v *CommunityView) SelectGroup(ctx context.Context, id int64) error {
	v.mu.Lock()
	g, ok := community.FindGroup(v.state.Groups, id)
	v.mu.Unlock()
	if !ok {
		return v.fail(client.ValidationError("SelectGroup", "Không tìm thấy nhóm"))
	}

	perms := community.PermissionsFor(g.UserRole)
	v.update(func(s *State) {
		s.Selected = &g
		s.Permissions = perms
		s.Posts = nil
		s.Error = ""
	})
	if !perms.CanView {
		v.guard.Cancel(keyPosts)
		return nil
	}
	return v.loadPosts(ctx, id)
}

func (v *CommunityView) loadPosts(ctx context.Context, groupID int64) error {
	ctx, ticket := v.guard.Begin(ctx, keyPosts)
	defer ticket.Done()

	posts, err := v.community.GroupPosts(ctx, groupID, client.PostQuery{})
	if err != nil {
		if !ticket.Current() {
			return latest.ErrSuperseded
		}
		return v.fail(err)
	}
	return v.commit(ticket, func(s *State) {
		if s.Selected != nil && s.Selected.ID == groupID {
			s.Posts = posts
		}
	})
}

// Join joins group id and marks the viewer as member.
func (v *CommunityView) Join(ctx context.Context, id int64) error {
	if err := v.community.JoinGroup(ctx, v.viewer, id); err != nil {
		return v.fail(err)
	}

	var reload bool
	v.update(func(s *State) {
		s.Groups = community.SetGroupRole(s.Groups, id, models.RoleMember)
		s.Error = ""
		if s.Selected != nil && s.Selected.ID == id {
			if g, ok := community.FindGroup(s.Groups, id); ok {
				s.Selected = &g
				s.Permissions = community.PermissionsFor(g.UserRole)
				reload = true
			}
		}
	})
	if reload {
		return v.loadPosts(ctx, id)
	}
	return nil
}

// CreateGroup creates a group and adds it to the list, re-fetching when the
// response cannot be used directly.
func (v *CommunityView) CreateGroup(ctx context.Context, req services.CreateGroupRequest) error {
	created, err := v.community.CreateGroup(ctx, v.viewer, req)
	if err != nil {
		return v.fail(err)
	}
	if created == nil {
		return v.Load(ctx)
	}
	v.update(func(s *State) {
		s.Groups = append([]models.Group{*created}, community.RemoveGroup(s.Groups, created.ID)...)
		s.Error = ""
	})
	return nil
}

// DeleteGroup deletes group id when it is listed and the viewer may manage it.
func (v *CommunityView) DeleteGroup(ctx context.Context, id int64) error {
	v.mu.Lock()
	g, ok := community.FindGroup(v.state.Groups, id)
	v.mu.Unlock()
	if !ok || !community.CanDeleteGroup(g, v.viewer) {
		return v.fail(&client.Error{Kind: client.KindValidation, Op: "DeleteGroup", Code: client.CodeForbidden})
	}

	if err := v.community.DeleteGroup(ctx, v.viewer, id); err != nil {
		return v.fail(err)
	}
	v.update(func(s *State) {
		s.Groups = community.RemoveGroup(s.Groups, id)
		s.Error = ""
		if s.Selected != nil && s.Selected.ID == id {
			s.Selected = nil
			s.Posts = nil
			s.Permissions = community.Permissions{}
		}
	})
	return nil
}

// CreatePost posts into the selected group and re-fetches its posts.
func (v *CommunityView) CreatePost(ctx context.Context, title, content string) error {
	v.mu.Lock()
	selected, perms := v.state.Selected, v.state.Permissions
	v.mu.Unlock()
	if selected == nil {
		return v.fail(client.ValidationError("CreatePost", "Vui lòng chọn nhóm"))
	}
	if !perms.CanPost {
		return v.fail(&client.Error{Kind: client.KindValidation, Op: "CreatePost", Code: client.CodeJoinRequired})
	}

	err := v.community.CreateGroupPost(ctx, v.viewer, selected.ID, services.GroupPostRequest{Title: title, Content: content})
	if err != nil {
		return v.fail(err)
	}
	v.update(func(s *State) { s.Error = "" })
	return v.loadPosts(ctx, selected.ID)
}

// DeletePost removes a post of the selected group.
func (v *CommunityView) DeletePost(ctx context.Context, id string) error {
	if err := v.forum.DeletePost(ctx, v.viewer, id); err != nil {
		return v.fail(err)
	}
	v.update(func(s *State) {
		s.Posts = community.RemovePost(s.Posts, id)
		s.Error = ""
	})
	return nil
}

// ToggleLike likes or unlikes a post and patches the counter locally.
func (v *CommunityView) ToggleLike(ctx context.Context, id string) error {
	if err := v.forum.ToggleLike(ctx, v.viewer, id); err != nil {
		return v.fail(err)
	}
	v.update(func(s *State) {
		s.Posts = community.ToggleLike(s.Posts, id)
		s.Error = ""
	})
	return nil
}

// Close stops pending debounced searches and in-flight loads.
func (v *CommunityView) Close() {
	v.search.Cancel()
	v.guard.Cancel(keyGroups)
	v.guard.Cancel(keyPosts)
}
