package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Gopher0727/Cario/config"
	logger "github.com/Gopher0727/Cario/middleware/log"
	"github.com/Gopher0727/Cario/utils/ratelimit"
)

// RateLimitMiddleware 按动作和调用方限流
// 限流器出错时放行或拒绝由限流器自身的 failOpen 决定，这里出错一律返回 503
func RateLimitMiddleware(limiter ratelimit.Limiter, action string, cfg config.RateLimitConfig, log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	rule := ratelimit.RuleFor(action, cfg)
	return func(c *gin.Context) {
		key := action + ":" + CallerKey(c)
		allowed, err := limiter.Allow(c.Request.Context(), key, rule)
		if err != nil {
			log.ErrorContext(c.Request.Context(), "rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "Hệ thống đang bận, vui lòng thử lại sau.",
				"code":  "rate_limiter_unavailable",
			})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Bạn thao tác quá nhanh, vui lòng thử lại sau.",
				"code":  "rate_limited",
			})
			return
		}
		c.Next()
	}
}

// MutationRateLimit 只对写请求限流，GET/HEAD 直接放行
func MutationRateLimit(limiter ratelimit.Limiter, cfg config.RateLimitConfig, log *logger.Logger) gin.HandlerFunc {
	limit := RateLimitMiddleware(limiter, ratelimit.ActionMutation, cfg, log)
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			limit(c)
		}
	}
}
