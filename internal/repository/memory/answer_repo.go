package memory

import (
	"Devflow/internal/model"
	"Devflow/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type answerRepo struct {
	*db
}

func (r *answerRepo) Create(ctx context.Context, answer *model.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if answer.ID.IsZero() {
		answer.ID = primitive.NewObjectID()
	}
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now()
	}
	r.answers[answer.ID] = cloneAnswer(answer)
	return nil
}

func (r *answerRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Answer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.answers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneAnswer(a), nil
}

func (r *answerRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.answers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.answers, id)
	return nil
}

func (r *answerRepo) DeleteByQuestion(ctx context.Context, questionID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []primitive.ObjectID
	for id, a := range r.answers {
		if a.Question == questionID {
			removed = append(removed, id)
			delete(r.answers, id)
		}
	}
	return removed, nil
}

func (r *answerRepo) ApplyVoteChange(ctx context.Context, id primitive.ObjectID, change model.VoteChange) (model.Votable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.answers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	change.ApplyTo(a)
	return cloneAnswer(a), nil
}

func (r *answerRepo) PullVoter(ctx context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.answers {
		a.Upvotes = pull(a.Upvotes, userID)
		a.Downvotes = pull(a.Downvotes, userID)
	}
	return nil
}

func (r *answerRepo) filter(f repository.AnswerQuery) []*model.Answer {
	var out []*model.Answer
	for _, a := range values(r.answers) {
		if f.Question != nil && a.Question != *f.Question {
			continue
		}
		if f.Author != nil && a.Author != *f.Author {
			continue
		}
		if f.Search != "" && !containsFold(a.Content, f.Search) {
			continue
		}
		out = append(out, a)
	}
	switch f.Sort {
	case repository.AnswerSortOldest:
		stableSort(out, func(a, b *model.Answer) bool { return a.CreatedAt.Before(b.CreatedAt) })
	case repository.AnswerSortHighestUpvotes:
		stableSort(out, func(a, b *model.Answer) bool { return len(a.Upvotes) > len(b.Upvotes) })
	case repository.AnswerSortLowestUpvotes:
		stableSort(out, func(a, b *model.Answer) bool { return len(a.Upvotes) < len(b.Upvotes) })
	default:
		stableSort(out, func(a, b *model.Answer) bool { return a.CreatedAt.After(b.CreatedAt) })
	}
	return out
}

func (r *answerRepo) Find(ctx context.Context, f repository.AnswerQuery) ([]*model.Answer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(page(r.filter(f), f.Skip, f.Limit), cloneAnswer), nil
}

func (r *answerRepo) Count(ctx context.Context, f repository.AnswerQuery) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.filter(f))), nil
}

func (r *answerRepo) SumUpvotesByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total int64
	for _, a := range r.answers {
		if a.Author == author {
			total += int64(len(a.Upvotes))
		}
	}
	return total, nil
}
