package response

import (
	"Devflow/internal/repository"
	"Devflow/internal/service"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func render(t *testing.T, err error) envelope {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Error(c, err)
	require.Equal(t, http.StatusOK, w.Code)
	var out envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", &service.ValidationError{Field: "Title", Rule: "min"}, BadRequest, "字段 [Title] 校验失败，规则 [min]"},
		{"sentinel", service.ErrForbidden, Forbidden, service.ErrForbidden.Error()},
		{"specific not found", service.ErrQuestionNotFound, NotFound, "问题不存在"},
		{"wrapped sentinel", errors.Wrap(service.ErrUserNotFound, "lookup"), NotFound, "用户不存在"},
		{"store not found", repository.ErrNotFound, NotFound, service.ErrNotFound.Error()},
		{"store failure", &repository.StoreError{Op: "find", Err: errors.New("connection reset")}, InternalServerError, service.UnExpectedError.Error()},
		{"json type", &json.UnmarshalTypeError{Value: "number", Field: "title"}, BadRequest, "Json错误"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, tt.err)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.msg, got.Message)
		})
	}
}
