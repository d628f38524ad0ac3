package wire

import (
	"Devflow/internal/api"
	"Devflow/internal/api/config"
	"Devflow/internal/api/handler"
	"Devflow/internal/job"
	"Devflow/internal/pkg/consts"
	"Devflow/internal/pkg/cron"
	"Devflow/internal/pkg/kafka"
	"Devflow/internal/pkg/redis"
	"Devflow/internal/pkg/security"
	"Devflow/internal/repository"
	"Devflow/internal/service"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	CronMgr *cron.Manager
}

// ParseTagMatchMode 空值按精确匹配处理
func ParseTagMatchMode(mode string) (repository.TagMatchMode, error) {
	switch repository.TagMatchMode(mode) {
	case "", repository.TagMatchExact:
		return repository.TagMatchExact, nil
	case repository.TagMatchPrefix:
		return repository.TagMatchPrefix, nil
	}
	return "", fmt.Errorf("unknown tag match mode %q", mode)
}

func BuildApplication(store *repository.Store, cache redis.Cache, publisher kafka.Publisher, cfg *config.Config) (*ApplicationContainer, error) {
	matchMode, err := ParseTagMatchMode(cfg.Tag.MatchMode)
	if err != nil {
		return nil, err
	}
	cacheTTL := time.Duration(cfg.Redis.TTL) * time.Second

	interactionService := service.NewInteractionService(store.Interactions, store.Questions, publisher)
	tagService := service.NewTagService(store.Tags, store.Questions, store.Users, cache, matchMode, cacheTTL)
	recommendService := service.NewRecommendService(store.Interactions, store.Questions, store.Users, store.Tags)
	voteService := service.NewVoteService(store.Questions, store.Answers, store.Users, store.Tx, cache, cfg.Vote.ReverseOnFlip)
	questionService := service.NewQuestionService(store, tagService, interactionService, recommendService, cache, cacheTTL)
	answerService := service.NewAnswerService(store, interactionService)
	userService := service.NewUserService(store, nil)
	searchService := service.NewSearchService(store)

	handlers := &api.HandlersGroup{
		UserHandler:     handler.NewUserHandler(userService),
		QuestionHandler: handler.NewQuestionHandler(questionService, answerService, voteService, recommendService, userService),
		AnswerHandler:   handler.NewAnswerHandler(answerService, voteService, userService),
		TagHandler:      handler.NewTagHandler(tagService, userService),
		SearchHandler:   handler.NewSearchHandler(searchService),
	}

	router := api.SetupRouter(handlers, api.RouterOptions{
		Verifier:       security.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	popularTagsJob := job.NewPopularTagsJob(tagService, cache, consts.PopularTagsLimit)
	cronMgr := cron.NewCronManager(cfg.Cron.PopularTags, popularTagsJob)

	return &ApplicationContainer{
		Router:  router,
		CronMgr: cronMgr,
	}, nil
}
