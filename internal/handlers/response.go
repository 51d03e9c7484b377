package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/session"
	logger "github.com/Gopher0727/Cario/middleware/log"
)

// success 统一成功响应
func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

// fail 按错误码返回状态码与展示文案
func fail(c *gin.Context, log *logger.Logger, err error) {
	status := client.HTTPStatus(err)
	code := client.CodeOf(err)
	if status >= http.StatusInternalServerError {
		log.ErrorContext(c.Request.Context(), "request failed", zap.String("code", code), zap.Error(err))
	} else {
		log.WarnContext(c.Request.Context(), "request rejected", zap.String("code", code), zap.Error(err))
	}
	c.JSON(status, gin.H{
		"error": client.Message(err),
		"code":  code,
	})
}

// badRequest 请求体或参数无法解析
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": msg,
		"code":  client.CodeValidation,
	})
}

// int64Param 解析路径中的数字 ID
func int64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "ID không hợp lệ")
		return 0, false
	}
	return id, true
}

// currentSession 请求上下文中的会话，未登录时为 nil
func currentSession(c *gin.Context) *session.Session {
	return session.FromContext(c.Request.Context())
}

func viewer(c *gin.Context) string {
	return session.Viewer(c.Request.Context())
}

// clock 便于测试替换
var clock = time.Now
