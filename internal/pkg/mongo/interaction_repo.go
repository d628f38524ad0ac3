package mongo

import (
	"Devflow/internal/model"
	"Devflow/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type interactionRepoImpl struct {
	col *mongo.Collection
}

func NewInteractionRepo(db *mongo.Database) repository.InteractionRepo {
	return &interactionRepoImpl{
		col: db.Collection(colInteractions),
	}
}

func (s *interactionRepoImpl) Create(ctx context.Context, interaction *model.Interaction) error {
	if interaction.ID.IsZero() {
		interaction.ID = primitive.NewObjectID()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now()
	}
	interaction.Tags = nonNil(interaction.Tags)
	_, err := s.col.InsertOne(ctx, interaction)
	return wrap("create interaction", err)
}

func (s *interactionRepoImpl) Exists(ctx context.Context, userID primitive.ObjectID, action model.InteractionAction, questionID primitive.ObjectID) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"user": userID, "action": action, "question": questionID})
	if err != nil {
		return false, wrap("exists interaction", err)
	}
	return n > 0, nil
}

// DistinctTagsByUser 对用户全部互动记录的标签快照去重
func (s *interactionRepoImpl) DistinctTagsByUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	raw, err := s.col.Distinct(ctx, "tags", bson.M{"user": userID})
	if err != nil {
		return nil, wrap("distinct interaction tags", err)
	}
	return toObjectIDs(raw), nil
}

func (s *interactionRepoImpl) TopTagsByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*model.TagUsage, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": userID}}},
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	pipeline = pagingStages(pipeline, 0, limit)
	return aggregateAll[model.TagUsage](ctx, s.col, "top interaction tags", pipeline)
}

func (s *interactionRepoImpl) DeleteByQuestion(ctx context.Context, questionID primitive.ObjectID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"question": questionID})
	return wrap("delete question interactions", err)
}

func (s *interactionRepoImpl) DeleteByAnswers(ctx context.Context, answerIDs []primitive.ObjectID) error {
	if len(answerIDs) == 0 {
		return nil
	}
	_, err := s.col.DeleteMany(ctx, bson.M{"answer": bson.M{"$in": answerIDs}})
	return wrap("delete answer interactions", err)
}

func (s *interactionRepoImpl) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user": userID})
	return wrap("delete user interactions", err)
}
