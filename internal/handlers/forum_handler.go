package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/Cario/internal/community"
	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/services"
	logger "github.com/Gopher0727/Cario/middleware/log"
)

// ForumHandler 论坛处理器
type ForumHandler struct {
	forumService *services.ForumService
	log          *logger.Logger
}

// NewForumHandler 创建论坛处理器实例
func NewForumHandler(forumService *services.ForumService, log *logger.Logger) *ForumHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ForumHandler{forumService: forumService, log: log.Named("forum")}
}

// ListPosts 全部帖子，?username= 过滤作者
func (h *ForumHandler) ListPosts(c *gin.Context) {
	posts, err := h.forumService.Posts(c.Request.Context(), c.Query("username"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, postViews(posts, viewer(c), community.Permissions{}))
}

// GetPost 单个帖子
func (h *ForumHandler) GetPost(c *gin.Context) {
	post, err := h.forumService.Post(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, postViews([]models.Post{post}, viewer(c), community.Permissions{})[0])
}

// CreatePost 发帖
func (h *ForumHandler) CreatePost(c *gin.Context) {
	var req services.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	post, err := h.forumService.CreatePost(c.Request.Context(), viewer(c), req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	h.respondPost(c, post)
}

// UpdatePost 编辑帖子
func (h *ForumHandler) UpdatePost(c *gin.Context) {
	var req services.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	post, err := h.forumService.UpdatePost(c.Request.Context(), viewer(c), c.Param("id"), req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	h.respondPost(c, post)
}

func (h *ForumHandler) respondPost(c *gin.Context, post *models.Post) {
	if post == nil {
		success(c, nil)
		return
	}
	success(c, postViews([]models.Post{*post}, viewer(c), community.Permissions{})[0])
}

// DeletePost 删除帖子
func (h *ForumHandler) DeletePost(c *gin.Context) {
	id := c.Param("id")
	if err := h.forumService.DeletePost(c.Request.Context(), viewer(c), id); err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, gin.H{"id": id})
}

// ToggleLike 点赞/取消点赞
func (h *ForumHandler) ToggleLike(c *gin.Context) {
	id := c.Param("id")
	if err := h.forumService.ToggleLike(c.Request.Context(), viewer(c), id); err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, gin.H{"id": id})
}
