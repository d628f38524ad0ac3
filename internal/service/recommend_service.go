package service

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RecommendService interface {
	Recommend(ctx context.Context, userID primitive.ObjectID, search string, page, pageSize int) (*dto.QuestionListDTO, error)
}

type recommendServiceImpl struct {
	interactionRepo repository.InteractionRepo
	questionRepo    repository.QuestionRepo
	populator
}

func NewRecommendService(
	interactionRepo repository.InteractionRepo,
	questionRepo repository.QuestionRepo,
	userRepo repository.UserRepo,
	tagRepo repository.TagRepo,
) RecommendService {
	return &recommendServiceImpl{
		interactionRepo: interactionRepo,
		questionRepo:    questionRepo,
		populator:       populator{userRepo: userRepo, tagRepo: tagRepo},
	}
}

// Recommend 基于用户互动过的标签推荐他人的问题
func (s *recommendServiceImpl) Recommend(ctx context.Context, userID primitive.ObjectID, search string, page, pageSize int) (*dto.QuestionListDTO, error) {
	tags, err := s.interactionRepo.DistinctTagsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return &dto.QuestionListDTO{Questions: []*dto.QuestionDTO{}, IsNext: false}, nil
	}

	skip, limit := pageWindow(page, pageSize)
	uid := userID
	q := repository.QuestionQuery{
		TagsAny:       tags,
		ExcludeAuthor: &uid,
		Search:        search,
		SearchContent: true,
		Skip:          skip,
		Limit:         limit,
	}
	total, err := s.questionRepo.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	items, err := s.populator.questions(ctx, questions)
	if err != nil {
		return nil, err
	}
	return &dto.QuestionListDTO{Questions: items, IsNext: hasNext(total, skip, len(questions))}, nil
}
