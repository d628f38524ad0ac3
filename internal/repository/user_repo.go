package repository

import (
	"Devflow/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserUpdate 资料字段，nil 表示不修改
type UserUpdate struct {
	Name             *string
	Username         *string
	Bio              *string
	Location         *string
	PortfolioWebsite *string
	Picture          *string
}

type UserRepo interface {
	// CreateIfAbsent 不存在相同身份 ID 时插入，返回已存储的用户
	CreateIfAbsent(ctx context.Context, user *model.User) (*model.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByClerkID(ctx context.Context, clerkID string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error)
	Update(ctx context.Context, clerkID string, upd UserUpdate) (*model.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncReputation(ctx context.Context, id primitive.ObjectID, delta int64) error
	// ToggleSaved 切换收藏状态，返回切换后的状态
	ToggleSaved(ctx context.Context, userID, questionID primitive.ObjectID) (bool, error)
	PullSavedFromAll(ctx context.Context, questionID primitive.ObjectID) error
	Find(ctx context.Context, q UserQuery) ([]*model.User, error)
	Count(ctx context.Context, q UserQuery) (int64, error)
}
