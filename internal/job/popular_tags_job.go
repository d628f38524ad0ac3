package job

import (
	"Devflow/internal/pkg/consts"
	"Devflow/internal/pkg/logger"
	"Devflow/internal/pkg/redis"
	"Devflow/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const popularTagsJobTimeout = time.Minute

// PopularTagsJob 定时重算热门标签缓存，多实例部署时由分布式锁保证只有一个实例执行
type PopularTagsJob struct {
	tagSvc service.TagService
	cache  redis.Cache
	limit  int64
}

func NewPopularTagsJob(tagSvc service.TagService, cache redis.Cache, limit int64) *PopularTagsJob {
	if limit <= 0 {
		limit = consts.PopularTagsLimit
	}
	return &PopularTagsJob{
		tagSvc: tagSvc,
		cache:  cache,
		limit:  limit,
	}
}

func (s *PopularTagsJob) Run() {
	traceID := "job-popular-tags-" + uuid.NewString()
	ctx, cancel := context.WithTimeout(logger.WithTraceID(context.Background(), traceID), popularTagsJobTimeout)
	defer cancel()
	s.run(ctx, traceID)
}

func (s *PopularTagsJob) run(ctx context.Context, owner string) {
	locked, err := s.cache.TryLock(ctx, consts.PopularTagsJobLock, owner, popularTagsJobTimeout, 1)
	if err != nil {
		log.ErrorContext(ctx, "popular tags job lock error", "err", err)
		return
	}
	if !locked {
		log.InfoContext(ctx, "popular tags job skipped, lock held elsewhere")
		return
	}
	defer s.cache.UnLock(ctx, consts.PopularTagsJobLock, owner)

	tags, err := s.tagSvc.RefreshPopularTags(ctx, s.limit)
	if err != nil {
		log.ErrorContext(ctx, "popular tags refresh error", "err", err)
		return
	}
	log.InfoContext(ctx, "popular tags refreshed", "count", len(tags))
}
