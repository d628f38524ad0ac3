package middleware

import (
	"Devflow/internal/pkg/consts"
	"Devflow/internal/pkg/response"
	"Devflow/internal/pkg/security"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func setClerkID(c *gin.Context, clerkID string) {
	c.Set(consts.ClerkIDKey, clerkID)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), consts.ClerkIDKey, clerkID))
}

// AuthMiddleware 验证 Token 并将身份 ID 注入 Context
func AuthMiddleware(verifier *security.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		clerkID, err := verifier.ValidateToken(token)
		if err != nil {
			response.Fail(c, response.Unauthorized, security.ErrInvalidToken.Error())
			c.Abort()
			return
		}

		setClerkID(c, clerkID)
		c.Next()
	}
}
