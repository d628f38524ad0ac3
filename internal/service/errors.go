package service

import (
	"Devflow/internal/repository"
	"errors"
	"fmt"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

// notFoundError 具体资源不存在，errors.Is 可匹配 ErrNotFound
type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string { return e.msg }
func (e *notFoundError) Unwrap() error { return ErrNotFound }

var (
	ErrNotFound         = errors.New("资源不存在")
	ErrQuestionNotFound = error(&notFoundError{msg: "问题不存在"})
	ErrAnswerNotFound   = error(&notFoundError{msg: "回答不存在"})
	ErrUserNotFound     = error(&notFoundError{msg: "用户不存在"})
	ErrTagNotFound      = error(&notFoundError{msg: "标签不存在"})
	ErrParamInvalid     = errors.New("参数错误")
	ErrForbidden        = errors.New("无权操作该资源")
	UnauthorizedError   = errors.New("未登录或登录已过期")
	UnExpectedError     = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrNotFound:         NotFound,
	ErrQuestionNotFound: NotFound,
	ErrAnswerNotFound:   NotFound,
	ErrUserNotFound:     NotFound,
	ErrTagNotFound:      NotFound,
	ErrParamInvalid:     BadRequest,
	ErrForbidden:        Forbidden,
	UnauthorizedError:   Unauthorized,
	UnExpectedError:     InternalServerError,
}

// ValidationError 约束校验失败
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("字段 [%s] 校验失败，规则 [%s]", e.Field, e.Rule)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrNotFound)
}

// mapNotFound 将仓储层的 ErrNotFound 转换为具体的业务错误
func mapNotFound(err, target error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return err
}
