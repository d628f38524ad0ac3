package middleware

import (
	"Devflow/internal/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入身份 ID，失败或缺失按匿名处理
func AuthOptionalMiddleware(verifier *security.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if clerkID, err := verifier.ValidateToken(token); err == nil {
				setClerkID(c, clerkID)
			}
		}
		c.Next()
	}
}
