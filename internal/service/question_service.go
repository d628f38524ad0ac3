package service

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/model"
	"Devflow/internal/pkg/consts"
	"Devflow/internal/pkg/redis"
	"Devflow/internal/repository"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QuestionService interface {
	AskQuestion(ctx context.Context, authorID primitive.ObjectID, req *dto.AskQuestionDTO) (*dto.QuestionDTO, error)
	EditQuestion(ctx context.Context, userID, questionID primitive.ObjectID, req *dto.EditQuestionDTO) (*dto.QuestionDTO, error)
	DeleteQuestion(ctx context.Context, userID, questionID primitive.ObjectID) error
	GetQuestionByID(ctx context.Context, questionID primitive.ObjectID) (*dto.QuestionDTO, error)
	GetQuestions(ctx context.Context, viewerID *primitive.ObjectID, search, filter string, page, pageSize int) (*dto.QuestionListDTO, error)
	GetTopQuestions(ctx context.Context) ([]*dto.QuestionDTO, error)
	GetSavedQuestions(ctx context.Context, userID primitive.ObjectID, search, filter string, page, pageSize int) (*dto.QuestionListDTO, error)
	ToggleSaveQuestion(ctx context.Context, userID, questionID primitive.ObjectID) (bool, error)
	ViewQuestion(ctx context.Context, viewerID *primitive.ObjectID, questionID primitive.ObjectID) (*dto.ViewResultDTO, error)
}

type questionServiceImpl struct {
	questionRepo   repository.QuestionRepo
	userRepo       repository.UserRepo
	tx             repository.TxManager
	tagSvc         TagService
	interactionSvc InteractionService
	recommendSvc   RecommendService
	cache          redis.Cache
	cacheTTL       time.Duration
	cascader
	populator
}

func NewQuestionService(
	store *repository.Store,
	tagSvc TagService,
	interactionSvc InteractionService,
	recommendSvc RecommendService,
	cache redis.Cache,
	cacheTTL time.Duration,
) QuestionService {
	if cacheTTL <= 0 {
		cacheTTL = consts.DefaultCacheTTL
	}
	return &questionServiceImpl{
		questionRepo:   store.Questions,
		userRepo:       store.Users,
		tx:             store.Tx,
		tagSvc:         tagSvc,
		interactionSvc: interactionSvc,
		recommendSvc:   recommendSvc,
		cache:          cache,
		cacheTTL:       cacheTTL,
		cascader:       newCascader(store),
		populator:      populator{userRepo: store.Users, tagRepo: store.Tags},
	}
}

// AskQuestion 创建问题、登记标签并记录提问互动
func (s *questionServiceImpl) AskQuestion(ctx context.Context, authorID primitive.ObjectID, req *dto.AskQuestionDTO) (*dto.QuestionDTO, error) {
	if len(req.Tags) == 0 {
		return nil, ErrParamInvalid
	}
	if !hasTagName(req.Tags) {
		return nil, &ValidationError{Field: "Tags", Rule: "notblank"}
	}
	question := &model.Question{
		ID:        primitive.NewObjectID(),
		Title:     req.Title,
		Content:   req.Content,
		Author:    authorID,
		Tags:      []primitive.ObjectID{},
		Upvotes:   []primitive.ObjectID{},
		Downvotes: []primitive.ObjectID{},
		Answers:   []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.questionRepo.Create(ctx, question); err != nil {
			return err
		}
		tagIDs, err := s.tagSvc.EnsureTags(ctx, req.Tags, question.ID)
		if err != nil {
			return err
		}
		if len(tagIDs) == 0 {
			return &ValidationError{Field: "Tags", Rule: "notblank"}
		}
		if err = s.questionRepo.SetTags(ctx, question.ID, tagIDs); err != nil {
			return err
		}
		question.Tags = tagIDs

		qid := question.ID
		_, err = s.interactionSvc.Record(ctx, authorID, model.ActionAskQuestion, RecordOptions{QuestionID: &qid, Tags: tagIDs})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)
	log.InfoContext(ctx, "question created", "question", question.ID.Hex(), "tags", len(question.Tags))
	return s.populator.question(ctx, question)
}

// hasTagName 至少有一个去除空白后非空的标签名
func hasTagName(names []string) bool {
	for _, name := range names {
		if model.NormalizeTagName(name) != "" {
			return true
		}
	}
	return false
}

// loadOwned 获取问题并校验作者身份
func (s *questionServiceImpl) loadOwned(ctx context.Context, userID, questionID primitive.ObjectID) (*model.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, mapNotFound(err, ErrQuestionNotFound)
	}
	if question.Author != userID {
		return nil, ErrForbidden
	}
	return question, nil
}

// EditQuestion 仅修改标题与内容，标签不变
func (s *questionServiceImpl) EditQuestion(ctx context.Context, userID, questionID primitive.ObjectID, req *dto.EditQuestionDTO) (*dto.QuestionDTO, error) {
	if _, err := s.loadOwned(ctx, userID, questionID); err != nil {
		return nil, err
	}
	question, err := s.questionRepo.UpdateContent(ctx, questionID, req.Title, req.Content)
	if err != nil {
		return nil, mapNotFound(err, ErrQuestionNotFound)
	}
	return s.populator.question(ctx, question)
}

func (s *questionServiceImpl) DeleteQuestion(ctx context.Context, userID, questionID primitive.ObjectID) error {
	if _, err := s.loadOwned(ctx, userID, questionID); err != nil {
		return err
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.cascader.deleteQuestion(ctx, questionID)
	})
	if err != nil {
		return mapNotFound(err, ErrQuestionNotFound)
	}
	s.invalidateLists(ctx)
	return nil
}

// invalidateLists 清除依赖问题集合的缓存
func (s *questionServiceImpl) invalidateLists(ctx context.Context) {
	s.tagSvc.InvalidatePopularTags(ctx)
	if err := s.cache.DeleteKey(ctx, consts.TopQuestionsKey); err != nil {
		log.WarnContext(ctx, "top questions cache invalidate error", "err", err)
	}
}

func (s *questionServiceImpl) GetQuestionByID(ctx context.Context, questionID primitive.ObjectID) (*dto.QuestionDTO, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, mapNotFound(err, ErrQuestionNotFound)
	}
	return s.populator.question(ctx, question)
}

// GetQuestions 首页问题列表：newest / frequent / unanswered / recommended
func (s *questionServiceImpl) GetQuestions(ctx context.Context, viewerID *primitive.ObjectID, search, filter string, page, pageSize int) (*dto.QuestionListDTO, error) {
	if filter == "recommended" {
		if viewerID == nil {
			return &dto.QuestionListDTO{Questions: []*dto.QuestionDTO{}}, nil
		}
		return s.recommendSvc.Recommend(ctx, *viewerID, search, page, pageSize)
	}

	skip, limit := pageWindow(page, pageSize)
	q := repository.QuestionQuery{
		Search:        search,
		SearchContent: true,
		Sort:          repository.QuestionSortNewest,
		Skip:          skip,
		Limit:         limit,
	}
	switch filter {
	case "frequent":
		q.Sort = repository.QuestionSortMostViewed
	case "unanswered":
		q.Unanswered = true
	}
	return s.list(ctx, q)
}

func (s *questionServiceImpl) list(ctx context.Context, q repository.QuestionQuery) (*dto.QuestionListDTO, error) {
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
	return &dto.QuestionListDTO{Questions: items, Total: total, IsNext: hasNext(total, q.Skip, len(questions))}, nil
}

// GetTopQuestions 浏览量最高的问题，浏览量相同按点赞数
func (s *questionServiceImpl) GetTopQuestions(ctx context.Context) ([]*dto.QuestionDTO, error) {
	var cached []*dto.QuestionDTO
	hit, err := s.cache.GetJSON(ctx, consts.TopQuestionsKey, &cached)
	if err != nil {
		log.WarnContext(ctx, "top questions cache read error", "err", err)
	}
	if hit {
		return cached, nil
	}

	questions, err := s.questionRepo.Find(ctx, repository.QuestionQuery{
		Sort:  repository.QuestionSortTop,
		Limit: consts.TopQuestionsLimit,
	})
	if err != nil {
		return nil, err
	}
	items, err := s.populator.questions(ctx, questions)
	if err != nil {
		return nil, err
	}
	if err = s.cache.SetJSON(ctx, consts.TopQuestionsKey, items, s.cacheTTL); err != nil {
		log.WarnContext(ctx, "top questions cache write error", "err", err)
	}
	return items, nil
}

func savedSortOf(filter string) repository.QuestionSort {
	switch filter {
	case "oldest":
		return repository.QuestionSortOldest
	case "mostVoted":
		return repository.QuestionSortMostVoted
	case "mostViewed":
		return repository.QuestionSortMostViewed
	case "mostAnswered":
		return repository.QuestionSortMostAnswered
	default:
		return repository.QuestionSortNewest
	}
}

// GetSavedQuestions 用户收藏的问题，搜索仅匹配标题
func (s *questionServiceImpl) GetSavedQuestions(ctx context.Context, userID primitive.ObjectID, search, filter string, page, pageSize int) (*dto.QuestionListDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	skip, limit := pageWindow(page, pageSize)
	ids := user.Saved
	if ids == nil {
		ids = []primitive.ObjectID{}
	}
	return s.list(ctx, repository.QuestionQuery{
		IDs:    ids,
		Search: search,
		Sort:   savedSortOf(filter),
		Skip:   skip,
		Limit:  limit,
	})
}

// ToggleSaveQuestion 收藏 / 取消收藏
func (s *questionServiceImpl) ToggleSaveQuestion(ctx context.Context, userID, questionID primitive.ObjectID) (bool, error) {
	if _, err := s.questionRepo.GetByID(ctx, questionID); err != nil {
		return false, mapNotFound(err, ErrQuestionNotFound)
	}
	saved, err := s.userRepo.ToggleSaved(ctx, userID, questionID)
	if err != nil {
		return false, mapNotFound(err, ErrUserNotFound)
	}
	return saved, nil
}

func (s *questionServiceImpl) ViewQuestion(ctx context.Context, viewerID *primitive.ObjectID, questionID primitive.ObjectID) (*dto.ViewResultDTO, error) {
	question, err := s.interactionSvc.RecordView(ctx, viewerID, questionID)
	if err != nil {
		return nil, err
	}
	return &dto.ViewResultDTO{Views: question.Views}, nil
}
