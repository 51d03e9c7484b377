package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/middlewares"
	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/services"
	logger "github.com/Gopher0727/Cario/middleware/log"
)

// CommunityHandler 社区（群组）处理器
type CommunityHandler struct {
	communityService *services.CommunityService
	log              *logger.Logger
}

// NewCommunityHandler 创建社区处理器实例
func NewCommunityHandler(communityService *services.CommunityService, log *logger.Logger) *CommunityHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CommunityHandler{communityService: communityService, log: log.Named("community")}
}

// ListGroups 合并后的群组列表
func (h *CommunityHandler) ListGroups(c *gin.Context) {
	groups, err := h.communityService.Groups(c.Request.Context(), viewer(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, groupViews(groups, viewer(c)))
}

// SearchGroups 按名称搜索，同一调用方的旧搜索会被新搜索取代
func (h *CommunityHandler) SearchGroups(c *gin.Context) {
	groups, err := h.communityService.SearchGroups(c.Request.Context(), middlewares.CallerKey(c), c.Query("q"), viewer(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, groupViews(groups, viewer(c)))
}

// CreateGroup 创建群组
func (h *CommunityHandler) CreateGroup(c *gin.Context) {
	var req services.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	group, err := h.communityService.CreateGroup(c.Request.Context(), viewer(c), req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if group == nil {
		// 后端没有返回可用的群组，由前端重新拉取列表
		success(c, nil)
		return
	}
	success(c, groupViews([]models.Group{*group}, viewer(c))[0])
}

// DeleteGroup 删除群组
func (h *CommunityHandler) DeleteGroup(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.communityService.DeleteGroup(c.Request.Context(), viewer(c), id); err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, gin.H{"id": id})
}

// JoinGroup 加入群组
func (h *CommunityHandler) JoinGroup(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.communityService.JoinGroup(c.Request.Context(), viewer(c), id); err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, gin.H{"id": id, "userRole": models.RoleMember})
}

// GroupPosts 群组帖子，未加入的群组返回 403
func (h *CommunityHandler) GroupPosts(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	q := client.PostQuery{Sort: c.Query("sort"), TypeSort: c.Query("typeSort")}
	posts, perms, err := h.communityService.GatedGroupPosts(c.Request.Context(), viewer(c), id, q)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, gin.H{
		"permissions": perms,
		"posts":       postViews(posts, viewer(c), perms),
	})
}

// CreateGroupPost 在群组内发帖
func (h *CommunityHandler) CreateGroupPost(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req services.GroupPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	if err := h.communityService.CreateGroupPost(c.Request.Context(), viewer(c), id, req); err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, gin.H{"groupId": id})
}

// Members 群组成员
func (h *CommunityHandler) Members(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	members, err := h.communityService.Members(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, members)
}

// UpdateMemberRole 修改成员角色
func (h *CommunityHandler) UpdateMemberRole(c *gin.Context) {
	groupID, ok := int64Param(c, "id")
	if !ok {
		return
	}
	userID, ok := int64Param(c, "userId")
	if !ok {
		return
	}
	var body struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	req := services.MemberRoleRequest{GroupID: groupID, UserID: userID, Role: body.Role}
	if err := h.communityService.UpdateMemberRole(c.Request.Context(), viewer(c), req); err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, req)
}

// RemoveMember 移除成员（或退出群组）
func (h *CommunityHandler) RemoveMember(c *gin.Context) {
	groupID, ok := int64Param(c, "id")
	if !ok {
		return
	}
	userID, ok := int64Param(c, "userId")
	if !ok {
		return
	}
	if err := h.communityService.RemoveMember(c.Request.Context(), viewer(c), groupID, userID); err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, gin.H{"groupId": groupID, "userId": userID})
}
