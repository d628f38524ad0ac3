package service

import (
	"Devflow/internal/model"
	"Devflow/internal/pkg/redis"
	"Devflow/internal/repository"
	"Devflow/internal/repository/memory"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakePublisher 记录投递的互动事件
type fakePublisher struct {
	mu     sync.Mutex
	events []*model.Interaction
	err    error
}

func (p *fakePublisher) PublishInteraction(_ context.Context, i *model.Interaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, i)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

// fakeCache 内存版缓存
type fakeCache struct {
	redis.NopCache
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *fakeCache) DeleteKey(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type testEnv struct {
	ctx         context.Context
	store       *repository.Store
	cache       *fakeCache
	publisher   *fakePublisher
	interaction InteractionService
	tag         TagService
	recommend   RecommendService
	vote        VoteService
	question    QuestionService
	answer      AnswerService
	user        UserService
	search      SearchService
}

type envOption func(*envConfig)

type envConfig struct {
	matchMode     repository.TagMatchMode
	reverseOnFlip bool
}

func withPrefixMatch() envOption {
	return func(c *envConfig) { c.matchMode = repository.TagMatchPrefix }
}

func withReverseOnFlip() envOption {
	return func(c *envConfig) { c.reverseOnFlip = true }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	cfg := envConfig{matchMode: repository.TagMatchExact}
	for _, o := range opts {
		o(&cfg)
	}

	store := memory.NewStore()
	cache := newFakeCache()
	publisher := &fakePublisher{}

	env := &testEnv{ctx: context.Background(), store: store, cache: cache, publisher: publisher}
	env.interaction = NewInteractionService(store.Interactions, store.Questions, publisher)
	env.tag = NewTagService(store.Tags, store.Questions, store.Users, cache, cfg.matchMode, time.Minute)
	env.recommend = NewRecommendService(store.Interactions, store.Questions, store.Users, store.Tags)
	env.vote = NewVoteService(store.Questions, store.Answers, store.Users, store.Tx, cache, cfg.reverseOnFlip)
	env.question = NewQuestionService(store, env.tag, env.interaction, env.recommend, cache, time.Minute)
	env.answer = NewAnswerService(store, env.interaction)
	env.user = NewUserService(store, nil)
	env.search = NewSearchService(store)
	return env
}

// newUser 直接写入一个用户
func (e *testEnv) newUser(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := e.store.Users.CreateIfAbsent(e.ctx, &model.User{
		ClerkID:  "clerk_" + name,
		Name:     name,
		Username: strings.ToLower(name),
		Email:    strings.ToLower(name) + "@example.com",
		JoinedAt: time.Now(),
	})
	require.NoError(t, err)
	return u
}

// newQuestion 直接写入问题，不经过标签引擎
func (e *testEnv) newQuestion(t *testing.T, author primitive.ObjectID, title string, tags []primitive.ObjectID, createdAt time.Time) *model.Question {
	t.Helper()
	q := &model.Question{
		Title:     title,
		Content:   "content of " + title,
		Author:    author,
		Tags:      tags,
		CreatedAt: createdAt,
	}
	require.NoError(t, e.store.Questions.Create(e.ctx, q))
	return q
}

func (e *testEnv) reputation(t *testing.T, id primitive.ObjectID) int64 {
	t.Helper()
	u, err := e.store.Users.GetByID(e.ctx, id)
	require.NoError(t, err)
	return u.Reputation
}

func tagQuery(search string) repository.TagQuery {
	return repository.TagQuery{Search: search}
}
