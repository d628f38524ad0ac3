package middleware

import (
	"Devflow/internal/pkg/consts"
	"Devflow/internal/pkg/logger"
	"Devflow/internal/pkg/security"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(consts.ClerkIDKey))
	})
	return r
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/trace", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(logger.TraceIDKey).(string)
		c.String(http.StatusOK, id)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/trace", nil)
	req.Header.Set("X-Trace-ID", "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get("X-Trace-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trace", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Trace-ID"))

	for _, bad := range []string{strings.Repeat("a", 65), "bad id\n", "{\"x\":1}"} {
		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/trace", nil)
		req.Header.Set("X-Trace-ID", bad)
		r.ServeHTTP(w, req)
		assert.NotEqual(t, bad, w.Body.String())
		assert.Len(t, w.Body.String(), 36)
	}
}

func TestAuthMiddlewares(t *testing.T) {
	verifier := security.NewVerifier("secret", "")
	token, err := verifier.GenerateToken("user_1", time.Hour)
	require.NoError(t, err)

	required := newEngine(AuthMiddleware(verifier))
	optional := newEngine(AuthOptionalMiddleware(verifier))

	tests := []struct {
		name     string
		engine   *gin.Engine
		header   string
		wantBody string
	}{
		{"required with token", required, "Bearer " + token, "user_1"},
		{"required without token", required, "", `"code":401`},
		{"required with bad token", required, "Bearer broken", `"code":401`},
		{"optional with token", optional, "Bearer " + token, "user_1"},
		{"optional with bad token", optional, "Bearer broken", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			tt.engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			if tt.wantBody == "" {
				assert.Empty(t, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := newEngine(CORSMiddleware([]string{"https://devflow.example.com"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/whoami", nil)
	req.Header.Set("Origin", "https://devflow.example.com")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://devflow.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
