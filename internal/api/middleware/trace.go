package middleware

import (
	"Devflow/internal/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	traceHeader     = "X-Trace-ID"
	maxTraceIDLen   = 64
	traceIDCharsets = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_."
)

// TraceMiddleware 沿用上游传入的 X-Trace-ID，缺失或不合法时重新生成
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceHeader)
		if !validTraceID(traceID) {
			traceID = uuid.NewString()
		}

		c.Set(logger.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), traceID))

		c.Header(traceHeader, traceID)
		c.Next()
	}
}

// validTraceID 只接受短的可打印标识，避免污染访问日志
func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLen {
		return false
	}
	for _, r := range id {
		if !strings.ContainsRune(traceIDCharsets, r) {
			return false
		}
	}
	return true
}
