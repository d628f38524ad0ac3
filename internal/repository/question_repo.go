package repository

import (
	"Devflow/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VotableRepo 投票所需的存储能力，一次原子集合变更并返回更新后的对象
type VotableRepo interface {
	ApplyVoteChange(ctx context.Context, id primitive.ObjectID, change model.VoteChange) (model.Votable, error)
	// PullVoter 从所有赞成与反对集合中移除该用户
	PullVoter(ctx context.Context, userID primitive.ObjectID) error
}

type QuestionRepo interface {
	VotableRepo

	Create(ctx context.Context, question *model.Question) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Question, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, title, content string) (*model.Question, error)
	SetTags(ctx context.Context, id primitive.ObjectID, tags []primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// IncViews 原子递增浏览数并返回更新后的问题
	IncViews(ctx context.Context, id primitive.ObjectID) (*model.Question, error)
	AddAnswer(ctx context.Context, id, answerID primitive.ObjectID) error
	PullAnswer(ctx context.Context, id, answerID primitive.ObjectID) error
	Find(ctx context.Context, q QuestionQuery) ([]*model.Question, error)
	Count(ctx context.Context, q QuestionQuery) (int64, error)
	SumUpvotesByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error)
	SumViewsByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error)
}
