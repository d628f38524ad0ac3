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

type questionRepoImpl struct {
	col *mongo.Collection
}

func NewQuestionRepo(db *mongo.Database) repository.QuestionRepo {
	return &questionRepoImpl{
		col: db.Collection(colQuestions),
	}
}

// Create 插入问题，数组字段统一落库为空数组
func (s *questionRepoImpl) Create(ctx context.Context, question *model.Question) error {
	if question.ID.IsZero() {
		question.ID = primitive.NewObjectID()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}
	question.Tags = nonNil(question.Tags)
	question.Upvotes = nonNil(question.Upvotes)
	question.Downvotes = nonNil(question.Downvotes)
	question.Answers = nonNil(question.Answers)
	_, err := s.col.InsertOne(ctx, question)
	return wrap("create question", err)
}

func (s *questionRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Question, error) {
	var q model.Question
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		return nil, wrap("get question", err)
	}
	return &q, nil
}

func (s *questionRepoImpl) findOneAndUpdate(ctx context.Context, op string, id primitive.ObjectID, update bson.M) (*model.Question, error) {
	var q model.Question
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&q)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &q, nil
}

func (s *questionRepoImpl) UpdateContent(ctx context.Context, id primitive.ObjectID, title, content string) (*model.Question, error) {
	return s.findOneAndUpdate(ctx, "update question", id, bson.M{"$set": bson.M{"title": title, "content": content}})
}

func (s *questionRepoImpl) SetTags(ctx context.Context, id primitive.ObjectID, tags []primitive.ObjectID) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"tags": nonNil(tags)}})
	if err != nil {
		return wrap("set question tags", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *questionRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap("delete question", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// IncViews 原子自增浏览量
func (s *questionRepoImpl) IncViews(ctx context.Context, id primitive.ObjectID) (*model.Question, error) {
	return s.findOneAndUpdate(ctx, "inc views", id, bson.M{"$inc": bson.M{"views": 1}})
}

func (s *questionRepoImpl) AddAnswer(ctx context.Context, id, answerID primitive.ObjectID) error {
	_, err := s.findOneAndUpdate(ctx, "add answer", id, bson.M{"$addToSet": bson.M{"answers": answerID}})
	return err
}

func (s *questionRepoImpl) PullAnswer(ctx context.Context, id, answerID primitive.ObjectID) error {
	_, err := s.findOneAndUpdate(ctx, "pull answer", id, bson.M{"$pull": bson.M{"answers": answerID}})
	return err
}

// ApplyVoteChange 单条 FindOneAndUpdate 完成投票集合变更
func (s *questionRepoImpl) ApplyVoteChange(ctx context.Context, id primitive.ObjectID, change model.VoteChange) (model.Votable, error) {
	q, err := s.findOneAndUpdate(ctx, "vote question", id, voteUpdate(change))
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *questionRepoImpl) PullVoter(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.UpdateMany(ctx,
		bson.M{"$or": bson.A{bson.M{"upvotes": userID}, bson.M{"downvotes": userID}}},
		bson.M{"$pull": bson.M{"upvotes": userID, "downvotes": userID}},
	)
	return wrap("pull question voter", err)
}

func questionFilter(q repository.QuestionQuery) bson.M {
	filter := bson.M{}
	if q.IDs != nil {
		filter["_id"] = bson.M{"$in": q.IDs}
	}
	if q.TagsAny != nil {
		filter["tags"] = bson.M{"$in": q.TagsAny}
	}
	switch {
	case q.Author != nil:
		filter["author"] = *q.Author
	case q.ExcludeAuthor != nil:
		filter["author"] = bson.M{"$ne": *q.ExcludeAuthor}
	}
	if q.Search != "" {
		re := containsRegex(q.Search)
		if q.SearchContent {
			filter["$or"] = bson.A{bson.M{"title": re}, bson.M{"content": re}}
		} else {
			filter["title"] = re
		}
	}
	if q.Unanswered {
		filter["answers"] = bson.M{"$size": 0}
	}
	return filter
}

func questionSort(sort repository.QuestionSort) bson.D {
	switch sort {
	case repository.QuestionSortNewest:
		return bson.D{{Key: "created_at", Value: -1}}
	case repository.QuestionSortOldest:
		return bson.D{{Key: "created_at", Value: 1}}
	case repository.QuestionSortMostViewed:
		return bson.D{{Key: "views", Value: -1}}
	case repository.QuestionSortMostVoted:
		return bson.D{{Key: "upvote_count", Value: -1}}
	case repository.QuestionSortMostAnswered:
		return bson.D{{Key: "answer_count", Value: -1}}
	case repository.QuestionSortTop:
		return bson.D{{Key: "views", Value: -1}, {Key: "upvote_count", Value: -1}}
	case repository.QuestionSortProfile:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "views", Value: -1}, {Key: "upvote_count", Value: -1}}
	}
	return nil
}

// Find 数组长度排序需要聚合管道计算 $size
func (s *questionRepoImpl) Find(ctx context.Context, q repository.QuestionQuery) ([]*model.Question, error) {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: questionFilter(q)}}}
	if sort := questionSort(q.Sort); sort != nil {
		pipeline = append(pipeline,
			bson.D{{Key: "$addFields", Value: bson.M{
				"upvote_count": sizeOf("upvotes"),
				"answer_count": sizeOf("answers"),
			}}},
			bson.D{{Key: "$sort", Value: append(sort, bson.E{Key: "_id", Value: 1})}},
		)
	}
	pipeline = pagingStages(pipeline, q.Skip, q.Limit)
	return aggregateAll[model.Question](ctx, s.col, "find questions", pipeline)
}

func (s *questionRepoImpl) Count(ctx context.Context, q repository.QuestionQuery) (int64, error) {
	n, err := s.col.CountDocuments(ctx, questionFilter(q))
	return n, wrap("count questions", err)
}

func (s *questionRepoImpl) SumUpvotesByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	return sumField(ctx, s.col, "sum question upvotes", author, sizeOf("upvotes"))
}

func (s *questionRepoImpl) SumViewsByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	return sumField(ctx, s.col, "sum question views", author, "$views")
}
