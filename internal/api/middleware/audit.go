package middleware

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const auditBodyLimit = 4096

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseBodyWriter) Write(b []byte) (int, error) {
	if room := auditBodyLimit - r.body.Len(); room > 0 {
		if len(b) > room {
			r.body.Write(b[:room])
		} else {
			r.body.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

func (r *responseBodyWriter) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// AuditMiddleware 记录写请求的请求体与响应，读请求只记录耗时
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions {
			c.Next()
			log.DebugContext(ctx, "request served",
				log.String("path", c.Request.URL.Path),
				log.Int("status", c.Writer.Status()),
				log.Duration("latency", time.Since(start)),
			)
			return
		}

		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(io.LimitReader(c.Request.Body, auditBodyLimit))
			rest, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(reqBody), bytes.NewReader(rest)))
		}

		log.InfoContext(ctx, "Recv Request",
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.String("req_body", string(reqBody)),
		)

		w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		log.InfoContext(ctx, "Send Response",
			log.Int("status", c.Writer.Status()),
			log.Duration("latency", time.Since(start)),
			log.String("res_body", w.body.String()),
		)
	}
}
