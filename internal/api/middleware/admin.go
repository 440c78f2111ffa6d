package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-matcher/internal/pkg/common"
)

// AdminTokenHeader 管理端點使用的標頭
const AdminTokenHeader = "X-Admin-Token"

// AdminOnly 檢查管理權杖，token 為空時不檢查
func AdminOnly(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		got := c.GetHeader(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			common.LogWarn("管理權杖無效",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.ErrorResponse{
				Code:    common.ErrCodeUnauthorized,
				Message: common.ErrUnauthorized.Message,
			})
			return
		}
		c.Next()
	}
}
