package memory

import (
	"Devflow/internal/model"
	"Devflow/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type questionRepo struct {
	*db
}

func (r *questionRepo) Create(ctx context.Context, question *model.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if question.ID.IsZero() {
		question.ID = primitive.NewObjectID()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}
	r.questions[question.ID] = cloneQuestion(question)
	return nil
}

func (r *questionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneQuestion(q), nil
}

func (r *questionRepo) UpdateContent(ctx context.Context, id primitive.ObjectID, title, content string) (*model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	q.Title, q.Content = title, content
	return cloneQuestion(q), nil
}

func (r *questionRepo) SetTags(ctx context.Context, id primitive.ObjectID, tags []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return repository.ErrNotFound
	}
	q.Tags = ids(tags)
	return nil
}

func (r *questionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.questions, id)
	return nil
}

func (r *questionRepo) IncViews(ctx context.Context, id primitive.ObjectID) (*model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	q.Views++
	return cloneQuestion(q), nil
}

func (r *questionRepo) AddAnswer(ctx context.Context, id, answerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return repository.ErrNotFound
	}
	q.Answers = addToSet(q.Answers, answerID)
	return nil
}

func (r *questionRepo) PullAnswer(ctx context.Context, id, answerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return repository.ErrNotFound
	}
	q.Answers = pull(q.Answers, answerID)
	return nil
}

func (r *questionRepo) ApplyVoteChange(ctx context.Context, id primitive.ObjectID, change model.VoteChange) (model.Votable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	change.ApplyTo(q)
	return cloneQuestion(q), nil
}

func (r *questionRepo) PullVoter(ctx context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.questions {
		q.Upvotes = pull(q.Upvotes, userID)
		q.Downvotes = pull(q.Downvotes, userID)
	}
	return nil
}

func matchQuestion(q *model.Question, f repository.QuestionQuery) bool {
	if f.IDs != nil && !contains(f.IDs, q.ID) {
		return false
	}
	if f.TagsAny != nil && !q.HasAnyTag(f.TagsAny) {
		return false
	}
	if f.Author != nil && q.Author != *f.Author {
		return false
	}
	if f.ExcludeAuthor != nil && q.Author == *f.ExcludeAuthor {
		return false
	}
	if f.Search != "" {
		hit := containsFold(q.Title, f.Search)
		if f.SearchContent {
			hit = hit || containsFold(q.Content, f.Search)
		}
		if !hit {
			return false
		}
	}
	if f.Unanswered && len(q.Answers) > 0 {
		return false
	}
	return true
}

func (r *questionRepo) filter(f repository.QuestionQuery) []*model.Question {
	var out []*model.Question
	for _, q := range values(r.questions) {
		if matchQuestion(q, f) {
			out = append(out, q)
		}
	}
	newer := func(a, b *model.Question) bool { return a.CreatedAt.After(b.CreatedAt) }
	switch f.Sort {
	case repository.QuestionSortNewest:
		stableSort(out, newer)
	case repository.QuestionSortOldest:
		stableSort(out, func(a, b *model.Question) bool { return a.CreatedAt.Before(b.CreatedAt) })
	case repository.QuestionSortMostViewed:
		stableSort(out, func(a, b *model.Question) bool { return a.Views > b.Views })
	case repository.QuestionSortMostVoted:
		stableSort(out, func(a, b *model.Question) bool { return len(a.Upvotes) > len(b.Upvotes) })
	case repository.QuestionSortMostAnswered:
		stableSort(out, func(a, b *model.Question) bool { return len(a.Answers) > len(b.Answers) })
	case repository.QuestionSortTop:
		stableSort(out, func(a, b *model.Question) bool {
			if a.Views != b.Views {
				return a.Views > b.Views
			}
			return len(a.Upvotes) > len(b.Upvotes)
		})
	case repository.QuestionSortProfile:
		stableSort(out, func(a, b *model.Question) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return newer(a, b)
			}
			if a.Views != b.Views {
				return a.Views > b.Views
			}
			return len(a.Upvotes) > len(b.Upvotes)
		})
	}
	return out
}

func (r *questionRepo) Find(ctx context.Context, f repository.QuestionQuery) ([]*model.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(page(r.filter(f), f.Skip, f.Limit), cloneQuestion), nil
}

func (r *questionRepo) Count(ctx context.Context, f repository.QuestionQuery) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.filter(f))), nil
}

func (r *questionRepo) SumUpvotesByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total int64
	for _, q := range r.questions {
		if q.Author == author {
			total += int64(len(q.Upvotes))
		}
	}
	return total, nil
}

func (r *questionRepo) SumViewsByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total int64
	for _, q := range r.questions {
		if q.Author == author {
			total += q.Views
		}
	}
	return total, nil
}
