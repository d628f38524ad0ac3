package util

import (
	"Devflow/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseObjectID 解析路径中的十六进制 ID，格式错误视为参数错误
func ParseObjectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, service.ErrParamInvalid
	}
	return id, nil
}

// PtrObjectID 用于将 ObjectID 转换为 *ObjectID
func PtrObjectID(id primitive.ObjectID) *primitive.ObjectID {
	return &id
}
