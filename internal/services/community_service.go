package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/community"
	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/normalize"
	logger "github.com/Gopher0727/Cario/middleware/log"
	"github.com/Gopher0727/Cario/utils/inflight"
	"github.com/Gopher0727/Cario/utils/latest"
)

// CommunityService 社区服务：群组列表、成员、群组帖子
type CommunityService struct {
	client   *client.Client
	norm     *normalize.Normalizer
	log      *logger.Logger
	searches latest.Guard
	inflight *inflight.Guard
}

// NewCommunityService 创建社区服务实例
func NewCommunityService(c *client.Client, norm *normalize.Normalizer, guard *inflight.Guard, log *logger.Logger) *CommunityService {
	if log == nil {
		log = logger.Nop()
	}
	if guard == nil {
		guard = &inflight.Guard{}
	}
	return &CommunityService{client: c, norm: norm, log: log.Named("community"), inflight: guard}
}

// Groups 并发获取全部群组与用户群组，合并去重后规范化
// 只有两个请求都失败时才返回错误
func (s *CommunityService) Groups(ctx context.Context, viewer string) ([]models.Group, error) {
	var (
		g               errgroup.Group
		allRaw, userRaw any
		allErr, userErr error
	)
	g.Go(func() error {
		allRaw, allErr = s.client.SearchGroups(ctx, "", viewer)
		return nil
	})
	if viewer != "" {
		g.Go(func() error {
			userRaw, userErr = s.client.UserGroups(ctx, viewer)
			return nil
		})
	}
	_ = g.Wait()

	switch {
	case allErr != nil && (viewer == "" || userErr != nil):
		return nil, allErr
	case allErr != nil:
		s.log.WarnContext(ctx, "all groups fetch failed, showing user groups only", zap.Error(allErr))
	case userErr != nil:
		s.log.WarnContext(ctx, "user groups fetch failed, showing public groups only", zap.Error(userErr))
	}

	all := s.groupRecords("group", allRaw, allErr)
	user := s.groupRecords("user group", userRaw, userErr)
	return s.groupsFrom(community.MergeGroups(all, user), viewer), nil
}

// groupRecords 取出原始记录，并报告无法识别的格式与 ID 不可用的记录
func (s *CommunityService) groupRecords(kind string, raw any, fetchErr error) []map[string]any {
	if fetchErr != nil {
		return nil
	}
	recs, shape, skipped := normalize.Records(raw, "groups")
	dropped := skipped
	for _, rec := range recs {
		if _, ok := normalize.GroupID(rec); !ok {
			dropped++
		}
	}
	s.norm.Report(kind, shape, len(recs)+skipped, dropped)
	return recs
}

func (s *CommunityService) groupsFrom(recs []map[string]any, viewer string) []models.Group {
	out := make([]models.Group, 0, len(recs))
	for _, rec := range recs {
		if g, ok := s.norm.Group(rec, viewer); ok {
			out = append(out, g)
		}
	}
	return out
}

// SearchGroups 按名称搜索。key 标识调用方（会话），同一 key 的新搜索会取消旧搜索，
// 旧搜索返回 latest.ErrSuperseded
func (s *CommunityService) SearchGroups(ctx context.Context, key, query, viewer string) ([]models.Group, error) {
	return latest.Do(ctx, &s.searches, "search:"+key, func(ctx context.Context) ([]models.Group, error) {
		query = strings.TrimSpace(query)
		if query == "" {
			return s.Groups(ctx, viewer)
		}
		raw, err := s.client.SearchGroups(ctx, query, viewer)
		if err != nil {
			return nil, err
		}
		return s.norm.Groups(raw, viewer).Items, nil
	})
}

// Group 在合并列表中查找群组
func (s *CommunityService) Group(ctx context.Context, viewer string, id int64) (models.Group, bool, error) {
	groups, err := s.Groups(ctx, viewer)
	if err != nil {
		return models.Group{}, false, err
	}
	g, ok := community.FindGroup(groups, id)
	return g, ok, nil
}

// GroupPosts 群组帖子（不检查权限）
func (s *CommunityService) GroupPosts(ctx context.Context, groupID int64, q client.PostQuery) ([]models.Post, error) {
	raw, err := s.client.PostsByGroup(ctx, groupID, q)
	if err != nil {
		return nil, err
	}
	return s.norm.Posts(raw).Items, nil
}

// GatedGroupPosts 已知群组且当前用户没有角色时拒绝查看
func (s *CommunityService) GatedGroupPosts(ctx context.Context, viewer string, groupID int64, q client.PostQuery) ([]models.Post, community.Permissions, error) {
	perms := community.Permissions{CanView: true, CanPost: viewer != ""}
	if g, found, err := s.Group(ctx, viewer, groupID); err == nil && found {
		perms = community.PermissionsFor(g.UserRole)
		if !perms.CanView {
			return nil, perms, joinRequired("GroupPosts")
		}
	}
	posts, err := s.GroupPosts(ctx, groupID, q)
	return posts, perms, err
}

func joinRequired(op string) error {
	return &client.Error{Kind: client.KindValidation, Op: op, Code: client.CodeJoinRequired, Message: "Bạn cần tham gia nhóm"}
}

// mutation 同一用户的同一操作同时只允许一个
func (s *CommunityService) mutation(viewer, action string, target any, fn func() error) error {
	return s.inflight.Run(fmt.Sprintf("%s:%s:%v", viewer, action, target), fn)
}

// CreateGroupRequest 创建群组
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"isPrivate"`
}

// CreateGroup 创建群组。返回的群组无法解析时为 nil，调用方应重新拉取列表
func (s *CommunityService) CreateGroup(ctx context.Context, viewer string, req CreateGroupRequest) (*models.Group, error) {
	if err := check("CreateGroup", req); err != nil {
		return nil, err
	}
	var created *models.Group
	err := s.mutation(viewer, "create-group", strings.TrimSpace(req.Name), func() error {
		raw, err := s.client.CreateGroup(ctx, client.GroupInput{
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
			IsPrivate:   req.IsPrivate,
		})
		if err != nil {
			return err
		}
		if res := s.norm.Groups(raw, viewer); len(res.Items) > 0 {
			g := res.Items[0]
			if !g.HasRole() {
				// 创建者即群主
				g.UserRole, g.RoleSource = models.RoleOwner, models.RoleFromInferred
			}
			created = &g
		}
		return nil
	})
	return created, err
}

func (s *CommunityService) DeleteGroup(ctx context.Context, viewer string, id int64) error {
	if g, found, err := s.Group(ctx, viewer, id); err == nil && found && !community.CanDeleteGroup(g, viewer) {
		return &client.Error{Kind: client.KindValidation, Op: "DeleteGroup", Code: client.CodeForbidden, Message: "không có quyền xóa nhóm"}
	}
	return s.mutation(viewer, "delete-group", id, func() error {
		return s.client.DeleteGroup(ctx, id)
	})
}

// JoinGroup 加入群组，成功后角色为 member
func (s *CommunityService) JoinGroup(ctx context.Context, viewer string, id int64) error {
	return s.mutation(viewer, "join", id, func() error {
		return s.client.JoinGroup(ctx, id)
	})
}

func (s *CommunityService) Members(ctx context.Context, groupID int64) ([]models.GroupMember, error) {
	raw, err := s.client.GroupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.norm.Members(raw).Items, nil
}

// MemberRoleRequest 修改成员角色
type MemberRoleRequest struct {
	GroupID int64  `json:"groupId" validate:"gt=0"`
	UserID  int64  `json:"userId" validate:"gt=0"`
	Role    string `json:"role" validate:"oneof=owner admin member OWNER ADMIN MEMBER"`
}

func (s *CommunityService) UpdateMemberRole(ctx context.Context, viewer string, req MemberRoleRequest) error {
	if err := check("UpdateMemberRole", req); err != nil {
		return err
	}
	role := string(models.ParseRole(req.Role))
	return s.mutation(viewer, "member-role", fmt.Sprintf("%d/%d", req.GroupID, req.UserID), func() error {
		return s.client.UpdateMemberRole(ctx, req.GroupID, req.UserID, role)
	})
}

func (s *CommunityService) RemoveMember(ctx context.Context, viewer string, groupID, userID int64) error {
	return s.mutation(viewer, "remove-member", fmt.Sprintf("%d/%d", groupID, userID), func() error {
		return s.client.RemoveMember(ctx, groupID, userID)
	})
}

// GroupPostRequest 群组内发帖
type GroupPostRequest struct {
	Title   string `json:"title" validate:"notblank"`
	Content string `json:"content" validate:"notblank"`
}

// CreateGroupPost 在群组内发帖，帖子类型固定为 blog。已知群组且没有发帖权限时拒绝
func (s *CommunityService) CreateGroupPost(ctx context.Context, viewer string, groupID int64, req GroupPostRequest) error {
	if err := check("CreateGroupPost", req); err != nil {
		return err
	}
	if g, found, err := s.Group(ctx, viewer, groupID); err == nil && found {
		if !community.PermissionsFor(g.UserRole).CanPost {
			return joinRequired("CreateGroupPost")
		}
	}
	return s.mutation(viewer, "group-post", groupID, func() error {
		_, err := s.client.CreatePost(ctx, client.PostInput{
			Title:   strings.TrimSpace(req.Title),
			Content: strings.TrimSpace(req.Content),
			Type:    "blog",
			GroupID: groupID,
		})
		return err
	})
}
