package handler

import (
	"Devflow/internal/model"
	"Devflow/internal/pkg/consts"
	"Devflow/internal/service"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUser 根据登录身份查找本地用户
func currentUser(c *gin.Context, userSvc service.UserService) (*model.User, error) {
	clerkID := c.GetString(consts.ClerkIDKey)
	if clerkID == "" {
		return nil, service.UnauthorizedError
	}
	return userSvc.GetByClerkID(c.Request.Context(), clerkID)
}

// viewerID 可选登录的接口：匿名或未同步的用户返回 nil
func viewerID(c *gin.Context, userSvc service.UserService) *primitive.ObjectID {
	user, err := currentUser(c, userSvc)
	if err != nil {
		return nil
	}
	return &user.ID
}

// bindOptionalJSON 请求体为空时保留零值
func bindOptionalJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
