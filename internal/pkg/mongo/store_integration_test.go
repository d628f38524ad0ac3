//go:build integration

package mongo

import (
	"Devflow/internal/api/config"
	"Devflow/internal/model"
	"Devflow/internal/repository"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newIntegrationStore(t *testing.T) (*repository.Store, *Store) {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	s := NewStore(config.MongoConfig{URL: uri, Database: "devflow_test", ConnectTimeout: 30, Transactions: true})
	require.NoError(t, s.Connect(ctx))
	// 重复连接为空操作
	require.NoError(t, s.Connect(ctx))
	t.Cleanup(func() {
		assert.NoError(t, s.Disconnect(context.Background()))
		assert.NoError(t, s.Disconnect(context.Background()))
	})
	return s.Repositories(), s
}

func TestMongoStore(t *testing.T) {
	store, _ := newIntegrationStore(t)
	ctx := context.Background()

	author, err := store.Users.CreateIfAbsent(ctx, &model.User{ClerkID: "clerk_author", Name: "Author", Username: "author"})
	require.NoError(t, err)
	again, err := store.Users.CreateIfAbsent(ctx, &model.User{ClerkID: "clerk_author", Name: "Someone else"})
	require.NoError(t, err)
	assert.Equal(t, author.ID, again.ID)
	assert.Equal(t, "Author", again.Name)

	voter, err := store.Users.CreateIfAbsent(ctx, &model.User{ClerkID: "clerk_voter", Name: "Voter", Username: "voter"})
	require.NoError(t, err)

	t.Run("tags upsert case-insensitively", func(t *testing.T) {
		q1, q2 := primitive.NewObjectID(), primitive.NewObjectID()
		first, err := store.Tags.Upsert(ctx, "Go", repository.TagMatchExact, q1)
		require.NoError(t, err)
		second, err := store.Tags.Upsert(ctx, "go", repository.TagMatchExact, q2)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Go", second.Name)
		assert.ElementsMatch(t, []primitive.ObjectID{q1, q2}, second.Questions)

		prefixed, err := store.Tags.Upsert(ctx, "g", repository.TagMatchPrefix, q1)
		require.NoError(t, err)
		assert.Equal(t, first.ID, prefixed.ID)
	})

	t.Run("concurrent upserts create a single tag", func(t *testing.T) {
		var wg sync.WaitGroup
		ids := make([]primitive.ObjectID, 8)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				tag, err := store.Tags.Upsert(ctx, "Concurrency", repository.TagMatchExact, primitive.NewObjectID())
				if assert.NoError(t, err) {
					ids[i] = tag.ID
				}
			}(i)
		}
		wg.Wait()
		for _, id := range ids {
			assert.Equal(t, ids[0], id)
		}
	})

	t.Run("vote changes are atomic set updates", func(t *testing.T) {
		q := &model.Question{Title: "atomic votes", Content: "body", Author: author.ID}
		require.NoError(t, store.Questions.Create(ctx, q))

		v, err := store.Questions.ApplyVoteChange(ctx, q.ID, model.VoteChange{Voter: voter.ID, AddUp: true, PullDown: true})
		require.NoError(t, err)
		up, down := v.GetVoteSets()
		assert.Equal(t, []primitive.ObjectID{voter.ID}, up)
		assert.Empty(t, down)

		v, err = store.Questions.ApplyVoteChange(ctx, q.ID, model.VoteChange{Voter: voter.ID, PullUp: true, AddDown: true})
		require.NoError(t, err)
		up, down = v.GetVoteSets()
		assert.Empty(t, up)
		assert.Equal(t, []primitive.ObjectID{voter.ID}, down)

		_, err = store.Questions.ApplyVoteChange(ctx, primitive.NewObjectID(), model.VoteChange{Voter: voter.ID, AddUp: true})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("question queries", func(t *testing.T) {
		base := time.Now().Add(-time.Hour)
		tag := primitive.NewObjectID()
		popular := &model.Question{Title: "Popular regex a.*b", Content: "body", Author: author.ID, Tags: []primitive.ObjectID{tag}, Views: 10, CreatedAt: base}
		fresh := &model.Question{Title: "Fresh", Content: "mentions regex", Author: voter.ID, CreatedAt: base.Add(time.Minute), Answers: []primitive.ObjectID{primitive.NewObjectID()}}
		require.NoError(t, store.Questions.Create(ctx, popular))
		require.NoError(t, store.Questions.Create(ctx, fresh))

		found, err := store.Questions.Find(ctx, repository.QuestionQuery{Search: "a.*b"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, popular.ID, found[0].ID)

		found, err = store.Questions.Find(ctx, repository.QuestionQuery{Search: "REGEX", SearchContent: true, Sort: repository.QuestionSortNewest})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, fresh.ID, found[0].ID)

		found, err = store.Questions.Find(ctx, repository.QuestionQuery{TagsAny: []primitive.ObjectID{tag}, ExcludeAuthor: &voter.ID})
		require.NoError(t, err)
		require.Len(t, found, 1)

		none, err := store.Questions.Find(ctx, repository.QuestionQuery{IDs: []primitive.ObjectID{}})
		require.NoError(t, err)
		assert.Empty(t, none)

		views, err := store.Questions.SumViewsByAuthor(ctx, author.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), views)
	})
}

func TestMongoTransactionRollback(t *testing.T) {
	store, _ := newIntegrationStore(t)
	ctx := context.Background()

	user, err := store.Users.CreateIfAbsent(ctx, &model.User{ClerkID: "clerk_tx", Name: "Tx"})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := store.Users.IncReputation(ctx, user.ID, 10); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Reputation)
}

func TestMongoConcurrentTagUpsertInTransactions(t *testing.T) {
	store, _ := newIntegrationStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]primitive.ObjectID, 6)
	questions := make([]primitive.ObjectID, len(ids))
	for i := range ids {
		questions[i] = primitive.NewObjectID()
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.Tx.WithTransaction(ctx, func(ctx context.Context) error {
				tag, err := store.Tags.Upsert(ctx, "Transactional", repository.TagMatchExact, questions[i])
				if err != nil {
					return err
				}
				ids[i] = tag.ID
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	tag, err := store.Tags.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.ElementsMatch(t, questions, tag.Questions)
}
