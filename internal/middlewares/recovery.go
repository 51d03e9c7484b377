package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/Gopher0727/Cario/middleware/log"
)

// ReloadMessage panic 后返回给用户的提示
const ReloadMessage = "Đã xảy ra lỗi không mong muốn. Vui lòng tải lại trang và thử lại."

// Recovery 捕获 panic，记录日志并返回通用提示
func Recovery(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.ErrorContext(c.Request.Context(), "panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": ReloadMessage,
			"code":  "internal",
		})
	})
}
