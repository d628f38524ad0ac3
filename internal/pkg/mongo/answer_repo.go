package mongo

import (
	"Devflow/internal/model"
	"Devflow/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type answerRepoImpl struct {
	col *mongo.Collection
}

func NewAnswerRepo(db *mongo.Database) repository.AnswerRepo {
	return &answerRepoImpl{
		col: db.Collection(colAnswers),
	}
}

func (s *answerRepoImpl) Create(ctx context.Context, answer *model.Answer) error {
	if answer.ID.IsZero() {
		answer.ID = primitive.NewObjectID()
	}
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now()
	}
	answer.Upvotes = nonNil(answer.Upvotes)
	answer.Downvotes = nonNil(answer.Downvotes)
	_, err := s.col.InsertOne(ctx, answer)
	return wrap("create answer", err)
}

func (s *answerRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Answer, error) {
	var a model.Answer
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, wrap("get answer", err)
	}
	return &a, nil
}

func (s *answerRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap("delete answer", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByQuestion 先取出答案 id 供级联删除互动记录，再批量删除
func (s *answerRepoImpl) DeleteByQuestion(ctx context.Context, questionID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{"question": questionID}
	raw, err := s.col.Distinct(ctx, "_id", filter)
	if err != nil {
		return nil, wrap("list question answers", err)
	}
	ids := toObjectIDs(raw)
	if len(ids) == 0 {
		return ids, nil
	}
	if _, err = s.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return nil, wrap("delete question answers", err)
	}
	return ids, nil
}

func (s *answerRepoImpl) ApplyVoteChange(ctx context.Context, id primitive.ObjectID, change model.VoteChange) (model.Votable, error) {
	var a model.Answer
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, voteUpdate(change),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		return nil, wrap("vote answer", err)
	}
	return &a, nil
}

func (s *answerRepoImpl) PullVoter(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.UpdateMany(ctx,
		bson.M{"$or": bson.A{bson.M{"upvotes": userID}, bson.M{"downvotes": userID}}},
		bson.M{"$pull": bson.M{"upvotes": userID, "downvotes": userID}},
	)
	return wrap("pull answer voter", err)
}

func answerFilter(q repository.AnswerQuery) bson.M {
	filter := bson.M{}
	if q.Question != nil {
		filter["question"] = *q.Question
	}
	if q.Author != nil {
		filter["author"] = *q.Author
	}
	if q.Search != "" {
		filter["content"] = containsRegex(q.Search)
	}
	return filter
}

func (s *answerRepoImpl) Find(ctx context.Context, q repository.AnswerQuery) ([]*model.Answer, error) {
	var sort bson.D
	switch q.Sort {
	case repository.AnswerSortOldest:
		sort = bson.D{{Key: "created_at", Value: 1}}
	case repository.AnswerSortHighestUpvotes:
		sort = bson.D{{Key: "upvote_count", Value: -1}}
	case repository.AnswerSortLowestUpvotes:
		sort = bson.D{{Key: "upvote_count", Value: 1}}
	default:
		sort = bson.D{{Key: "created_at", Value: -1}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: answerFilter(q)}},
		{{Key: "$addFields", Value: bson.M{"upvote_count": sizeOf("upvotes")}}},
		{{Key: "$sort", Value: append(sort, bson.E{Key: "_id", Value: 1})}},
	}
	pipeline = pagingStages(pipeline, q.Skip, q.Limit)
	return aggregateAll[model.Answer](ctx, s.col, "find answers", pipeline)
}

func (s *answerRepoImpl) Count(ctx context.Context, q repository.AnswerQuery) (int64, error) {
	n, err := s.col.CountDocuments(ctx, answerFilter(q))
	return n, wrap("count answers", err)
}

func (s *answerRepoImpl) SumUpvotesByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	return sumField(ctx, s.col, "sum answer upvotes", author, sizeOf("upvotes"))
}
