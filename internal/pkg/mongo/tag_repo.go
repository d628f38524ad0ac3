package mongo

import (
	"Devflow/internal/model"
	"Devflow/internal/repository"
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type tagRepoImpl struct {
	col *mongo.Collection
}

func NewTagRepo(db *mongo.Database) repository.TagRepo {
	return &tagRepoImpl{
		col: db.Collection(colTags),
	}
}

// Upsert 原子地查找或创建标签，并把问题加入反向引用
func (s *tagRepoImpl) Upsert(ctx context.Context, name string, mode repository.TagMatchMode, questionID primitive.ObjectID) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	normalized := model.NormalizeTagName(name)

	var filter bson.M
	if mode == repository.TagMatchPrefix {
		filter = bson.M{"normalized_name": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(normalized)}}
	} else {
		filter = bson.M{"normalized_name": normalized}
	}
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":            name,
			"normalized_name": normalized,
			"description":     "",
			"followers":       bson.A{},
			"created_at":      time.Now(),
		},
		"$addToSet": bson.M{"questions": questionID},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	var tag model.Tag
	err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&tag)
	if mongo.IsDuplicateKeyError(err) && mongo.SessionFromContext(ctx) == nil {
		// 并发插入同名标签，重试一次即可命中已存在的文档；事务内已被中止，由 txManager 整体重试
		err = s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&tag)
	}
	if err != nil {
		return nil, wrap("upsert tag", err)
	}
	return &tag, nil
}

func (s *tagRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Tag, error) {
	var tag model.Tag
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&tag); err != nil {
		return nil, wrap("get tag", err)
	}
	return &tag, nil
}

func (s *tagRepoImpl) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Tag, error) {
	tags, err := findAll[model.Tag](ctx, s.col, "get tags", bson.M{"_id": bson.M{"$in": nonNil(ids)}})
	if err != nil {
		return nil, err
	}
	// 保持调用方给定的顺序
	byID := make(map[primitive.ObjectID]*model.Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}
	ordered := make([]*model.Tag, 0, len(tags))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}

func (s *tagRepoImpl) PullQuestion(ctx context.Context, questionID primitive.ObjectID) error {
	_, err := s.col.UpdateMany(ctx, bson.M{"questions": questionID}, bson.M{"$pull": bson.M{"questions": questionID}})
	return wrap("pull tag question", err)
}

// Popular 按问题数量倒序
func (s *tagRepoImpl) Popular(ctx context.Context, limit int64) ([]*model.TagCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{"name": 1, "questions_count": sizeOf("questions")}}},
		{{Key: "$sort", Value: bson.D{{Key: "questions_count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	pipeline = pagingStages(pipeline, 0, limit)
	return aggregateAll[model.TagCount](ctx, s.col, "popular tags", pipeline)
}

func tagFilter(q repository.TagQuery) bson.M {
	if q.Search == "" {
		return bson.M{}
	}
	return bson.M{"name": containsRegex(q.Search)}
}

func (s *tagRepoImpl) Find(ctx context.Context, q repository.TagQuery) ([]*model.Tag, error) {
	var sort bson.D
	switch q.Sort {
	case repository.TagSortOld:
		sort = bson.D{{Key: "created_at", Value: 1}}
	case repository.TagSortPopular:
		sort = bson.D{{Key: "questions_count", Value: -1}}
	case repository.TagSortName:
		sort = bson.D{{Key: "name", Value: 1}}
	default:
		sort = bson.D{{Key: "created_at", Value: -1}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: tagFilter(q)}},
		{{Key: "$addFields", Value: bson.M{"questions_count": sizeOf("questions")}}},
		{{Key: "$sort", Value: append(sort, bson.E{Key: "_id", Value: 1})}},
	}
	pipeline = pagingStages(pipeline, q.Skip, q.Limit)
	return aggregateAll[model.Tag](ctx, s.col, "find tags", pipeline)
}

func (s *tagRepoImpl) Count(ctx context.Context, q repository.TagQuery) (int64, error) {
	n, err := s.col.CountDocuments(ctx, tagFilter(q))
	return n, wrap("count tags", err)
}

func (s *tagRepoImpl) ToggleFollower(ctx context.Context, tagID, userID primitive.ObjectID) (bool, error) {
	return toggleMember(ctx, s.col, "toggle follower", tagID, "followers", userID)
}

func (s *tagRepoImpl) PullFollower(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.UpdateMany(ctx, bson.M{"followers": userID}, bson.M{"$pull": bson.M{"followers": userID}})
	return wrap("pull follower", err)
}
