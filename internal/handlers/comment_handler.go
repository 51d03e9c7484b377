package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/Cario/internal/services"
	logger "github.com/Gopher0727/Cario/middleware/log"
)

// CommentHandler 评论处理器
type CommentHandler struct {
	commentService *services.CommentService
	log            *logger.Logger
}

func NewCommentHandler(commentService *services.CommentService, log *logger.Logger) *CommentHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CommentHandler{commentService: commentService, log: log.Named("comment")}
}

// Threads 帖子评论（按父评论分组）
func (h *CommentHandler) Threads(c *gin.Context) {
	threads, err := h.commentService.Threads(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, threadViews(threads, viewer(c)))
}

// CreateComment 发表评论或回复
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req services.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	comment, err := h.commentService.CreateComment(c.Request.Context(), viewer(c), c.Param("id"), req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if comment == nil {
		success(c, nil)
		return
	}
	success(c, commentView(*comment, viewer(c)))
}

// DeleteComment 删除评论
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id := c.Param("id")
	if err := h.commentService.DeleteComment(c.Request.Context(), viewer(c), id); err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, gin.H{"id": id})
}
