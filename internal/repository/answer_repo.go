package repository

import (
	"Devflow/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnswerRepo interface {
	VotableRepo

	Create(ctx context.Context, answer *model.Answer) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Answer, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteByQuestion 删除问题下全部回答并返回其 ID
	DeleteByQuestion(ctx context.Context, questionID primitive.ObjectID) ([]primitive.ObjectID, error)
	Find(ctx context.Context, q AnswerQuery) ([]*model.Answer, error)
	Count(ctx context.Context, q AnswerQuery) (int64, error)
	SumUpvotesByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error)
}
