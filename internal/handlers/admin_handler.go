package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/Cario/internal/services"
	logger "github.com/Gopher0727/Cario/middleware/log"
)

// AdminHandler 管理后台处理器
type AdminHandler struct {
	adminService *services.AdminService
	log          *logger.Logger
}

func NewAdminHandler(adminService *services.AdminService, log *logger.Logger) *AdminHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AdminHandler{adminService: adminService, log: log.Named("admin")}
}

func (h *AdminHandler) Questions(c *gin.Context) {
	questions, err := h.adminService.Questions(c.Request.Context(), c.Query("type"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, questions)
}

func (h *AdminHandler) CreateQuestion(c *gin.Context) {
	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	if err := h.adminService.CreateQuestion(c.Request.Context(), req); err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, nil)
}

func (h *AdminHandler) UpdateQuestion(c *gin.Context) {
	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	if err := h.adminService.UpdateQuestion(c.Request.Context(), c.Param("id"), req); err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, gin.H{"id": c.Param("id")})
}

func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	if err := h.adminService.DeleteQuestion(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, gin.H{"id": c.Param("id")})
}

// UpdateGroupStatus 修改群组状态
func (h *AdminHandler) UpdateGroupStatus(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req services.GroupStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	if err := h.adminService.UpdateGroupStatus(c.Request.Context(), id, req); err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, gin.H{"id": id})
}
