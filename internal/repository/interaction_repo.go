package repository

import (
	"Devflow/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InteractionRepo interface {
	Create(ctx context.Context, interaction *model.Interaction) error
	Exists(ctx context.Context, userID primitive.ObjectID, action model.InteractionAction, questionID primitive.ObjectID) (bool, error)
	// DistinctTagsByUser 用户全部交互记录中标签快照的并集
	DistinctTagsByUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	// TopTagsByUser 按互动次数倒序返回用户最常接触的标签，次数相同按标签 ID 升序
	TopTagsByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*model.TagUsage, error)
	DeleteByQuestion(ctx context.Context, questionID primitive.ObjectID) error
	DeleteByAnswers(ctx context.Context, answerIDs []primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}
