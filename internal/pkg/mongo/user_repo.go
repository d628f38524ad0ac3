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

type userRepoImpl struct {
	col *mongo.Collection
}

func NewUserRepo(db *mongo.Database) repository.UserRepo {
	return &userRepoImpl{
		col: db.Collection(colUsers),
	}
}

// CreateIfAbsent 以 clerk_id 为键幂等插入用户
func (s *userRepoImpl) CreateIfAbsent(ctx context.Context, user *model.User) (*model.User, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.JoinedAt.IsZero() {
		user.JoinedAt = time.Now()
	}
	user.Saved = nonNil(user.Saved)

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var stored model.User
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"clerk_id": user.ClerkID},
		bson.M{"$setOnInsert": user},
		opts,
	).Decode(&stored)
	if err != nil {
		return nil, wrap("create user", err)
	}
	return &stored, nil
}

func (s *userRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, wrap("get user", err)
	}
	return &user, nil
}

func (s *userRepoImpl) GetByClerkID(ctx context.Context, clerkID string) (*model.User, error) {
	var user model.User
	if err := s.col.FindOne(ctx, bson.M{"clerk_id": clerkID}).Decode(&user); err != nil {
		return nil, wrap("get user by clerk id", err)
	}
	return &user, nil
}

func (s *userRepoImpl) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	return findAll[model.User](ctx, s.col, "get users", bson.M{"_id": bson.M{"$in": nonNil(ids)}})
}

// Update 仅更新非空字段
func (s *userRepoImpl) Update(ctx context.Context, clerkID string, upd repository.UserUpdate) (*model.User, error) {
	set := bson.M{}
	for field, v := range map[string]*string{
		"name":              upd.Name,
		"username":          upd.Username,
		"bio":               upd.Bio,
		"location":          upd.Location,
		"portfolio_website": upd.PortfolioWebsite,
		"picture":           upd.Picture,
	} {
		if v != nil {
			set[field] = *v
		}
	}
	if len(set) == 0 {
		return s.GetByClerkID(ctx, clerkID)
	}

	var user model.User
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"clerk_id": clerkID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return nil, wrap("update user", err)
	}
	return &user, nil
}

func (s *userRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap("delete user", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// IncReputation 原子增减声望
func (s *userRepoImpl) IncReputation(ctx context.Context, id primitive.ObjectID, delta int64) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"reputation": delta}})
	if err != nil {
		return wrap("inc reputation", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *userRepoImpl) ToggleSaved(ctx context.Context, userID, questionID primitive.ObjectID) (bool, error) {
	return toggleMember(ctx, s.col, "toggle saved", userID, "saved", questionID)
}

func (s *userRepoImpl) PullSavedFromAll(ctx context.Context, questionID primitive.ObjectID) error {
	_, err := s.col.UpdateMany(ctx, bson.M{"saved": questionID}, bson.M{"$pull": bson.M{"saved": questionID}})
	return wrap("pull saved", err)
}

func userFilter(q repository.UserQuery) bson.M {
	filter := bson.M{}
	if q.Search != "" {
		re := containsRegex(q.Search)
		if q.NameOnly {
			filter["name"] = re
		} else {
			filter["$or"] = bson.A{bson.M{"name": re}, bson.M{"username": re}}
		}
	}
	return filter
}

func (s *userRepoImpl) Find(ctx context.Context, q repository.UserQuery) ([]*model.User, error) {
	var sort bson.D
	switch q.Sort {
	case repository.UserSortOldest:
		sort = bson.D{{Key: "joined_at", Value: 1}}
	case repository.UserSortTopContributors:
		sort = bson.D{{Key: "reputation", Value: -1}}
	default:
		sort = bson.D{{Key: "joined_at", Value: -1}}
	}
	opts := options.Find().SetSort(sort).SetSkip(q.Skip)
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return findAll[model.User](ctx, s.col, "find users", userFilter(q), opts)
}

func (s *userRepoImpl) Count(ctx context.Context, q repository.UserQuery) (int64, error) {
	n, err := s.col.CountDocuments(ctx, userFilter(q))
	return n, wrap("count users", err)
}
