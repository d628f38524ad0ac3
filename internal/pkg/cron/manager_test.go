package cron

import (
	"Devflow/internal/job"
	"Devflow/internal/pkg/consts"
	devredis "Devflow/internal/pkg/redis"
	"Devflow/internal/repository"
	"Devflow/internal/repository/memory"
	"Devflow/internal/service"
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newManager(t *testing.T, spec string) (*Manager, *miniredis.Miniredis, service.TagService) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	cache := devredis.NewClient(rdb)

	store := memory.NewStore()
	tagSvc := service.NewTagService(store.Tags, store.Questions, store.Users, cache, repository.TagMatchExact, time.Minute)
	return NewCronManager(spec, job.NewPopularTagsJob(tagSvc, cache, consts.PopularTagsLimit)), mr, tagSvc
}

func TestNewCronManagerDefaultSpec(t *testing.T) {
	mgr, _, _ := newManager(t, "")
	assert.Equal(t, defaultPopularTagsSpec, mgr.popularTagsSpec)
}

func TestInitCronRejectsInvalidSpec(t *testing.T) {
	mgr, _, _ := newManager(t, "not a cron spec")
	assert.Error(t, InitCron(mgr))
}

func TestInitCronWarmsPopularTags(t *testing.T) {
	mgr, mr, tagSvc := newManager(t, "")
	_, err := tagSvc.EnsureTags(context.Background(), []string{"go"}, primitive.NewObjectID())
	require.NoError(t, err)

	require.NoError(t, InitCron(mgr))
	defer mgr.Stop()

	assert.True(t, mr.Exists(consts.PopularTagsKey+strconv.Itoa(consts.PopularTagsLimit)))
	assert.False(t, mr.Exists(consts.PopularTagsJobLock))
	assert.Len(t, mgr.engine.Entries(), 1)
}
