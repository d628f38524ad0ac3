package job

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/pkg/consts"
	devredis "Devflow/internal/pkg/redis"
	"Devflow/internal/repository"
	"Devflow/internal/repository/memory"
	"Devflow/internal/service"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setup(t *testing.T) (*PopularTagsJob, service.TagService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	cache := devredis.NewClient(rdb)

	store := memory.NewStore()
	tagSvc := service.NewTagService(store.Tags, store.Questions, store.Users, cache, repository.TagMatchExact, time.Minute)
	return NewPopularTagsJob(tagSvc, cache, 0), tagSvc, mr
}

func TestPopularTagsJobRefreshesCache(t *testing.T) {
	job, tagSvc, mr := setup(t)
	ctx := context.Background()

	_, err := tagSvc.EnsureTags(ctx, []string{"go"}, primitive.NewObjectID())
	require.NoError(t, err)
	_, err = tagSvc.EnsureTags(ctx, []string{"go", "redis"}, primitive.NewObjectID())
	require.NoError(t, err)

	job.Run()

	key := consts.PopularTagsKey + "5"
	require.True(t, mr.Exists(key))
	assert.False(t, mr.Exists(consts.PopularTagsJobLock))

	tags, err := tagSvc.PopularTags(ctx, 5)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, dto.PopularTagDTO{ID: tags[0].ID, Name: "go", NumberOfQuestions: 2}, *tags[0])
}

func TestPopularTagsJobSkipsWhenLocked(t *testing.T) {
	job, _, mr := setup(t)
	require.NoError(t, mr.Set(consts.PopularTagsJobLock, "other-instance"))

	job.run(context.Background(), "this-instance")

	assert.False(t, mr.Exists(consts.PopularTagsKey+"5"))
	got, err := mr.Get(consts.PopularTagsJobLock)
	require.NoError(t, err)
	assert.Equal(t, "other-instance", got)
}
