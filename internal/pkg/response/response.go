package response

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/repository"
	"Devflow/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = service.BadRequest
	Unauthorized        = service.Unauthorized
	Forbidden           = service.Forbidden
	NotFound            = service.NotFound
	InternalServerError = service.InternalServerError
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装
func Fail(c *gin.Context, businessCode int, message string) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    nil,
	})
}

// Error 将错误映射为业务码
func Error(c *gin.Context, err error) {
	var fieldErr *service.ValidationError
	if errors.As(err, &fieldErr) {
		Fail(c, BadRequest, fieldErr.Error())
		return
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, BadRequest, "参数错误")
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		Fail(c, BadRequest, "Json错误")
		return
	}

	if code, ok := service.ErrorMap[err]; ok {
		Fail(c, code, err.Error())
		return
	}
	for target, code := range service.ErrorMap {
		if errors.Is(err, target) && target != service.ErrNotFound {
			Fail(c, code, target.Error())
			return
		}
	}
	if errors.Is(err, service.ErrNotFound) || errors.Is(err, repository.ErrNotFound) {
		Fail(c, NotFound, service.ErrNotFound.Error())
		return
	}

	log.ErrorContext(c.Request.Context(), "unexpected error", "err", err)
	Fail(c, InternalServerError, service.UnExpectedError.Error())
}
