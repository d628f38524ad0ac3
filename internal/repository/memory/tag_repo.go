package memory

import (
	"Devflow/internal/model"
	"Devflow/internal/repository"
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type tagRepo struct {
	*db
}

func (r *tagRepo) Upsert(ctx context.Context, name string, mode repository.TagMatchMode, questionID primitive.ObjectID) (*model.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name = strings.TrimSpace(name)
	normalized := model.NormalizeTagName(name)
	for _, t := range values(r.tags) {
		hit := t.NormalizedName == normalized
		if mode == repository.TagMatchPrefix {
			hit = strings.HasPrefix(t.NormalizedName, normalized)
		}
		if hit {
			t.Questions = addToSet(t.Questions, questionID)
			return cloneTag(t), nil
		}
	}
	t := &model.Tag{
		ID:             primitive.NewObjectID(),
		Name:           name,
		NormalizedName: normalized,
		Questions:      []primitive.ObjectID{questionID},
		Followers:      []primitive.ObjectID{},
		CreatedAt:      time.Now(),
	}
	r.tags[t.ID] = t
	return cloneTag(t), nil
}

func (r *tagRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tags[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneTag(t), nil
}

func (r *tagRepo) GetByIDs(ctx context.Context, idList []primitive.ObjectID) ([]*model.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Tag, 0, len(idList))
	for _, id := range idList {
		if t, ok := r.tags[id]; ok {
			out = append(out, cloneTag(t))
		}
	}
	return out, nil
}

func (r *tagRepo) PullQuestion(ctx context.Context, questionID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tags {
		t.Questions = pull(t.Questions, questionID)
	}
	return nil
}

func (r *tagRepo) Popular(ctx context.Context, limit int64) ([]*model.TagCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := values(r.tags)
	stableSort(all, func(a, b *model.Tag) bool { return len(a.Questions) > len(b.Questions) })
	all = page(all, 0, limit)
	out := make([]*model.TagCount, 0, len(all))
	for _, t := range all {
		out = append(out, &model.TagCount{ID: t.ID, Name: t.Name, QuestionsCount: int64(len(t.Questions))})
	}
	return out, nil
}

func (r *tagRepo) filter(q repository.TagQuery) []*model.Tag {
	var out []*model.Tag
	for _, t := range values(r.tags) {
		if q.Search != "" && !containsFold(t.Name, q.Search) {
			continue
		}
		out = append(out, t)
	}
	switch q.Sort {
	case repository.TagSortOld:
		stableSort(out, func(a, b *model.Tag) bool { return a.CreatedAt.Before(b.CreatedAt) })
	case repository.TagSortPopular:
		stableSort(out, func(a, b *model.Tag) bool { return len(a.Questions) > len(b.Questions) })
	case repository.TagSortName:
		stableSort(out, func(a, b *model.Tag) bool { return a.Name < b.Name })
	default:
		stableSort(out, func(a, b *model.Tag) bool { return a.CreatedAt.After(b.CreatedAt) })
	}
	return out
}

func (r *tagRepo) Find(ctx context.Context, q repository.TagQuery) ([]*model.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(page(r.filter(q), q.Skip, q.Limit), cloneTag), nil
}

func (r *tagRepo) Count(ctx context.Context, q repository.TagQuery) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.filter(q))), nil
}

func (r *tagRepo) ToggleFollower(ctx context.Context, tagID, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tags[tagID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if contains(t.Followers, userID) {
		t.Followers = pull(t.Followers, userID)
		return false, nil
	}
	t.Followers = addToSet(t.Followers, userID)
	return true, nil
}

func (r *tagRepo) PullFollower(ctx context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tags {
		t.Followers = pull(t.Followers, userID)
	}
	return nil
}
