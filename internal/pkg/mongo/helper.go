package mongo

import (
	"Devflow/internal/model"
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// containsRegex 大小写不敏感的子串匹配，输入按字面量转义
func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func sizeOf(field string) bson.M {
	return bson.M{"$size": bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}}}
}

func nonNil(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return ids
}

// pagingStages 追加 skip / limit 阶段
func pagingStages(pipeline mongo.Pipeline, skip, limit int64) mongo.Pipeline {
	if skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: skip}})
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	return pipeline
}

func aggregateAll[T any](ctx context.Context, col *mongo.Collection, op string, pipeline mongo.Pipeline) ([]*T, error) {
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	list := []*T{}
	if err = cursor.All(ctx, &list); err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, op string, filter interface{}, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	list := []*T{}
	if err = cursor.All(ctx, &list); err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}

// sumField 汇总 author 名下文档的某个数值表达式
func sumField(ctx context.Context, col *mongo.Collection, op string, author primitive.ObjectID, expr interface{}) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author": author}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": expr}}}},
	}
	rows, err := aggregateAll[struct {
		Total int64 `bson:"total"`
	}](ctx, col, op, pipeline)
	if err != nil || len(rows) == 0 {
		return 0, err
	}
	return rows[0].Total, nil
}

// toggleMember 存在则 $pull，否则 $addToSet；返回操作后的成员状态
func toggleMember(ctx context.Context, col *mongo.Collection, op string, id primitive.ObjectID, field string, member primitive.ObjectID) (bool, error) {
	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id, field: member},
		bson.M{"$pull": bson.M{field: member}},
	)
	if err != nil {
		return false, wrap(op, err)
	}
	if res.MatchedCount > 0 {
		return false, nil
	}
	res, err = col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{field: member}},
	)
	if err != nil {
		return false, wrap(op, err)
	}
	if res.MatchedCount == 0 {
		return false, wrap(op, mongo.ErrNoDocuments)
	}
	return true, nil
}

// voteUpdate 将一次投票变更翻译为单条原子更新
func voteUpdate(change model.VoteChange) bson.M {
	update := bson.M{}
	pulls := bson.M{}
	if change.PullUp {
		pulls["upvotes"] = change.Voter
	}
	if change.PullDown {
		pulls["downvotes"] = change.Voter
	}
	adds := bson.M{}
	if change.AddUp {
		adds["upvotes"] = change.Voter
	}
	if change.AddDown {
		adds["downvotes"] = change.Voter
	}
	if len(pulls) > 0 {
		update["$pull"] = pulls
	}
	if len(adds) > 0 {
		update["$addToSet"] = adds
	}
	return update
}

func toObjectIDs(raw []interface{}) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
