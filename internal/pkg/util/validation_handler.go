package util

import (
	"Devflow/internal/service"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// 标签名只含空白时长度校验仍会通过
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
}

// ValidateDTO 校验 validate 标签，返回第一个失败的字段
func ValidateDTO(dto any) error {
	if err := validate.Struct(dto); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			first := vErrs[0]
			return &service.ValidationError{Field: first.Field(), Rule: first.Tag()}
		}
		return err
	}
	return nil
}
