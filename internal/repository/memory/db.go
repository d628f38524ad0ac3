package memory

import (
	"Devflow/internal/model"
	"Devflow/internal/repository"
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// db 内存仓储共享的进程内状态
type db struct {
	mu           sync.RWMutex
	users        map[primitive.ObjectID]*model.User
	questions    map[primitive.ObjectID]*model.Question
	answers      map[primitive.ObjectID]*model.Answer
	tags         map[primitive.ObjectID]*model.Tag
	interactions []*model.Interaction
}

// NewStore 创建内存存储，用于测试与本地开发
func NewStore() *repository.Store {
	d := &db{
		users:     map[primitive.ObjectID]*model.User{},
		questions: map[primitive.ObjectID]*model.Question{},
		answers:   map[primitive.ObjectID]*model.Answer{},
		tags:      map[primitive.ObjectID]*model.Tag{},
	}
	return &repository.Store{
		Users:        &userRepo{d},
		Questions:    &questionRepo{d},
		Answers:      &answerRepo{d},
		Tags:         &tagRepo{d},
		Interactions: &interactionRepo{d},
		Tx:           txManager{},
	}
}

type txManager struct{}

// WithTransaction 内存后端不支持回滚，直接执行 fn
func (txManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func ids(src []primitive.ObjectID) []primitive.ObjectID {
	if src == nil {
		return []primitive.ObjectID{}
	}
	return append([]primitive.ObjectID(nil), src...)
}

func objectIDPtr(src *primitive.ObjectID) *primitive.ObjectID {
	if src == nil {
		return nil
	}
	v := *src
	return &v
}

// cloner 返回副本，调用方不会持有内部状态
type cloner[T any] func(*T) *T

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Saved = ids(u.Saved)
	return &c
}

func cloneQuestion(q *model.Question) *model.Question {
	c := *q
	c.Tags = ids(q.Tags)
	c.Upvotes = ids(q.Upvotes)
	c.Downvotes = ids(q.Downvotes)
	c.Answers = ids(q.Answers)
	return &c
}

func cloneAnswer(a *model.Answer) *model.Answer {
	c := *a
	c.Upvotes = ids(a.Upvotes)
	c.Downvotes = ids(a.Downvotes)
	return &c
}

func cloneTag(t *model.Tag) *model.Tag {
	c := *t
	c.Questions = ids(t.Questions)
	c.Followers = ids(t.Followers)
	return &c
}

func cloneInteraction(i *model.Interaction) *model.Interaction {
	c := *i
	c.Question = objectIDPtr(i.Question)
	c.Answer = objectIDPtr(i.Answer)
	c.Tags = ids(i.Tags)
	return &c
}

func contains(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func addToSet(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	if contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func pull(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// page 对已排序切片做分页
func page[T any](items []T, skip, limit int64) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(items)) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items
}

func cloneAll[T any](items []*T, fn cloner[T]) []*T {
	out := make([]*T, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}

// stableSort 相等键保持 ID 顺序
func stableSort[T any](items []T, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

// values 按 ID 顺序返回，即创建顺序
func values[T any](m map[primitive.ObjectID]*T) []*T {
	keys := make([]primitive.ObjectID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Hex() < keys[j].Hex() })
	out := make([]*T, 0, len(m))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
