package memory

import (
	"Devflow/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type interactionRepo struct {
	*db
}

func (r *interactionRepo) Create(ctx context.Context, interaction *model.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if interaction.ID.IsZero() {
		interaction.ID = primitive.NewObjectID()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now()
	}
	r.interactions = append(r.interactions, cloneInteraction(interaction))
	return nil
}

func (r *interactionRepo) Exists(ctx context.Context, userID primitive.ObjectID, action model.InteractionAction, questionID primitive.ObjectID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, i := range r.interactions {
		if i.User == userID && i.Action == action && i.Question != nil && *i.Question == questionID {
			return true, nil
		}
	}
	return false, nil
}

func (r *interactionRepo) DistinctTagsByUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []primitive.ObjectID{}
	for _, i := range r.interactions {
		if i.User != userID {
			continue
		}
		for _, t := range i.Tags {
			out = addToSet(out, t)
		}
	}
	return out, nil
}

func (r *interactionRepo) TopTagsByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*model.TagUsage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := map[primitive.ObjectID]int64{}
	for _, i := range r.interactions {
		if i.User != userID {
			continue
		}
		for _, t := range i.Tags {
			counts[t]++
		}
	}
	out := make([]*model.TagUsage, 0, len(counts))
	for id, n := range counts {
		out = append(out, &model.TagUsage{TagID: id, Count: n})
	}
	stableSort(out, func(a, b *model.TagUsage) bool {
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.TagID.Hex() < b.TagID.Hex()
	})
	return page(out, 0, limit), nil
}

func (r *interactionRepo) removeWhere(match func(*model.Interaction) bool) {
	kept := r.interactions[:0]
	for _, i := range r.interactions {
		if !match(i) {
			kept = append(kept, i)
		}
	}
	r.interactions = kept
}

func (r *interactionRepo) DeleteByQuestion(ctx context.Context, questionID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeWhere(func(i *model.Interaction) bool { return i.Question != nil && *i.Question == questionID })
	return nil
}

func (r *interactionRepo) DeleteByAnswers(ctx context.Context, answerIDs []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeWhere(func(i *model.Interaction) bool { return i.Answer != nil && contains(answerIDs, *i.Answer) })
	return nil
}

func (r *interactionRepo) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeWhere(func(i *model.Interaction) bool { return i.User == userID })
	return nil
}
