package service

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/model"
	"Devflow/internal/pkg/consts"
	"Devflow/internal/pkg/redis"
	"Devflow/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TagService interface {
	EnsureTags(ctx context.Context, names []string, questionID primitive.ObjectID) ([]primitive.ObjectID, error)
	PopularTags(ctx context.Context, limit int64) ([]*dto.PopularTagDTO, error)
	RefreshPopularTags(ctx context.Context, limit int64) ([]*dto.PopularTagDTO, error)
	InvalidatePopularTags(ctx context.Context)
	GetAllTags(ctx context.Context, search, filter string, page, pageSize int) (*dto.TagListDTO, error)
	GetQuestionsByTag(ctx context.Context, tagID primitive.ObjectID, search string, page, pageSize int) (*dto.TagQuestionsDTO, error)
	ToggleFollowTag(ctx context.Context, userID, tagID primitive.ObjectID) (bool, error)
}

type tagServiceImpl struct {
	tagRepo      repository.TagRepo
	questionRepo repository.QuestionRepo
	cache        redis.Cache
	matchMode    repository.TagMatchMode
	cacheTTL     time.Duration
	populator
}

func NewTagService(
	tagRepo repository.TagRepo,
	questionRepo repository.QuestionRepo,
	userRepo repository.UserRepo,
	cache redis.Cache,
	matchMode repository.TagMatchMode,
	cacheTTL time.Duration,
) TagService {
	if matchMode != repository.TagMatchPrefix {
		matchMode = repository.TagMatchExact
	}
	if cacheTTL <= 0 {
		cacheTTL = consts.DefaultCacheTTL
	}
	return &tagServiceImpl{
		tagRepo:      tagRepo,
		questionRepo: questionRepo,
		cache:        cache,
		matchMode:    matchMode,
		cacheTTL:     cacheTTL,
		populator:    populator{userRepo: userRepo, tagRepo: tagRepo},
	}
}

// EnsureTags 按输入顺序查找或创建标签并登记问题反向引用，重复名称只保留一次
func (s *tagServiceImpl) EnsureTags(ctx context.Context, names []string, questionID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(names))
	seenName := make(map[string]struct{}, len(names))
	seenID := make(map[primitive.ObjectID]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		normalized := model.NormalizeTagName(name)
		if normalized == "" {
			continue
		}
		if _, ok := seenName[normalized]; ok {
			continue
		}
		seenName[normalized] = struct{}{}

		tag, err := s.tagRepo.Upsert(ctx, name, s.matchMode, questionID)
		if err != nil {
			return nil, err
		}
		if _, ok := seenID[tag.ID]; ok {
			continue
		}
		seenID[tag.ID] = struct{}{}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func popularTagsKey(limit int64) string {
	return consts.PopularTagsKey + strconv.FormatInt(limit, 10)
}

// PopularTags 优先读缓存，未命中时回源并回填
func (s *tagServiceImpl) PopularTags(ctx context.Context, limit int64) ([]*dto.PopularTagDTO, error) {
	if limit <= 0 {
		limit = consts.PopularTagsLimit
	}
	var cached []*dto.PopularTagDTO
	hit, err := s.cache.GetJSON(ctx, popularTagsKey(limit), &cached)
	if err != nil {
		log.WarnContext(ctx, "popular tags cache read error", "err", err)
	}
	if hit {
		return cached, nil
	}
	return s.RefreshPopularTags(ctx, limit)
}

// RefreshPopularTags 重新计算热门标签并写入缓存
func (s *tagServiceImpl) RefreshPopularTags(ctx context.Context, limit int64) ([]*dto.PopularTagDTO, error) {
	rows, err := s.tagRepo.Popular(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PopularTagDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, &dto.PopularTagDTO{ID: r.ID.Hex(), Name: r.Name, NumberOfQuestions: r.QuestionsCount})
	}
	if err = s.cache.SetJSON(ctx, popularTagsKey(limit), out, s.cacheTTL); err != nil {
		log.WarnContext(ctx, "popular tags cache write error", "err", err)
	}
	return out, nil
}

// InvalidatePopularTags 问题新增或删除后清除热门标签缓存
func (s *tagServiceImpl) InvalidatePopularTags(ctx context.Context) {
	if err := s.cache.DeleteByPrefix(ctx, consts.PopularTagsKey); err != nil {
		log.WarnContext(ctx, "popular tags cache invalidate error", "err", err)
	}
}

func tagSortOf(filter string) repository.TagSort {
	switch filter {
	case "popular":
		return repository.TagSortPopular
	case "old":
		return repository.TagSortOld
	case "name":
		return repository.TagSortName
	default:
		return repository.TagSortRecent
	}
}

func (s *tagServiceImpl) GetAllTags(ctx context.Context, search, filter string, page, pageSize int) (*dto.TagListDTO, error) {
	skip, limit := pageWindow(page, pageSize)
	q := repository.TagQuery{Search: search, Sort: tagSortOf(filter), Skip: skip, Limit: limit}
	tags, err := s.tagRepo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	total, err := s.tagRepo.Count(ctx, q)
	if err != nil {
		return nil, err
	}

	out := &dto.TagListDTO{Tags: make([]*dto.TagDTO, 0, len(tags)), IsNext: hasNext(total, skip, len(tags))}
	for _, t := range tags {
		item, err := toTagDTO(t)
		if err != nil {
			return nil, err
		}
		out.Tags = append(out.Tags, item)
	}
	return out, nil
}

// GetQuestionsByTag 标签下的问题，按创建时间倒序
func (s *tagServiceImpl) GetQuestionsByTag(ctx context.Context, tagID primitive.ObjectID, search string, page, pageSize int) (*dto.TagQuestionsDTO, error) {
	tag, err := s.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}

	skip, limit := pageWindow(page, pageSize)
	q := repository.QuestionQuery{
		IDs:    tag.Questions,
		Search: search,
		Sort:   repository.QuestionSortNewest,
		Skip:   skip,
		Limit:  limit,
	}
	if q.IDs == nil {
		q.IDs = []primitive.ObjectID{}
	}
	questions, err := s.questionRepo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	total, err := s.questionRepo.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	items, err := s.populator.questions(ctx, questions)
	if err != nil {
		return nil, err
	}
	return &dto.TagQuestionsDTO{TagTitle: tag.Name, Questions: items, IsNext: hasNext(total, skip, len(questions))}, nil
}

// ToggleFollowTag 关注 / 取消关注标签
func (s *tagServiceImpl) ToggleFollowTag(ctx context.Context, userID, tagID primitive.ObjectID) (bool, error) {
	following, err := s.tagRepo.ToggleFollower(ctx, tagID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrTagNotFound
		}
		return false, err
	}
	return following, nil
}
