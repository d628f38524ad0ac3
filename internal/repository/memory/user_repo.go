package memory

import (
	"Devflow/internal/model"
	"Devflow/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepo struct {
	*db
}

func (r *userRepo) CreateIfAbsent(ctx context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ClerkID == user.ClerkID {
			return cloneUser(u), nil
		}
	}
	stored := cloneUser(user)
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	if stored.JoinedAt.IsZero() {
		stored.JoinedAt = time.Now()
	}
	r.users[stored.ID] = stored
	user.ID = stored.ID
	return cloneUser(stored), nil
}

func (r *userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepo) GetByClerkID(ctx context.Context, clerkID string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ClerkID == clerkID {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetByIDs(ctx context.Context, idList []primitive.ObjectID) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.User, 0, len(idList))
	for _, id := range idList {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *userRepo) Update(ctx context.Context, clerkID string, upd repository.UserUpdate) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ClerkID != clerkID {
			continue
		}
		setIf(&u.Name, upd.Name)
		setIf(&u.Username, upd.Username)
		setIf(&u.Bio, upd.Bio)
		setIf(&u.Location, upd.Location)
		setIf(&u.PortfolioWebsite, upd.PortfolioWebsite)
		setIf(&u.Picture, upd.Picture)
		return cloneUser(u), nil
	}
	return nil, repository.ErrNotFound
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (r *userRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *userRepo) IncReputation(ctx context.Context, id primitive.ObjectID, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Reputation += delta
	return nil
}

func (r *userRepo) ToggleSaved(ctx context.Context, userID, questionID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if contains(u.Saved, questionID) {
		u.Saved = pull(u.Saved, questionID)
		return false, nil
	}
	u.Saved = addToSet(u.Saved, questionID)
	return true, nil
}

func (r *userRepo) PullSavedFromAll(ctx context.Context, questionID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		u.Saved = pull(u.Saved, questionID)
	}
	return nil
}

func (r *userRepo) filter(q repository.UserQuery) []*model.User {
	var out []*model.User
	for _, u := range values(r.users) {
		if q.Search != "" {
			match := containsFold(u.Name, q.Search)
			if !q.NameOnly {
				match = match || containsFold(u.Username, q.Search)
			}
			if !match {
				continue
			}
		}
		out = append(out, u)
	}
	switch q.Sort {
	case repository.UserSortOldest:
		stableSort(out, func(a, b *model.User) bool { return a.JoinedAt.Before(b.JoinedAt) })
	case repository.UserSortTopContributors:
		stableSort(out, func(a, b *model.User) bool { return a.Reputation > b.Reputation })
	default:
		stableSort(out, func(a, b *model.User) bool { return a.JoinedAt.After(b.JoinedAt) })
	}
	return out
}

func (r *userRepo) Find(ctx context.Context, q repository.UserQuery) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(page(r.filter(q), q.Skip, q.Limit), cloneUser), nil
}

func (r *userRepo) Count(ctx context.Context, q repository.UserQuery) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.filter(q))), nil
}
