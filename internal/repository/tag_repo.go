package repository

import (
	"Devflow/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TagRepo interface {
	// Upsert 按 mode 查找或创建标签，并把 questionID 加入其问题集合
	Upsert(ctx context.Context, name string, mode TagMatchMode, questionID primitive.ObjectID) (*model.Tag, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Tag, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Tag, error)
	PullQuestion(ctx context.Context, questionID primitive.ObjectID) error
	Popular(ctx context.Context, limit int64) ([]*model.TagCount, error)
	Find(ctx context.Context, q TagQuery) ([]*model.Tag, error)
	Count(ctx context.Context, q TagQuery) (int64, error)
	ToggleFollower(ctx context.Context, tagID, userID primitive.ObjectID) (bool, error)
	PullFollower(ctx context.Context, userID primitive.ObjectID) error
}
