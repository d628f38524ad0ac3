package service

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/pkg/consts"
	"Devflow/internal/repository"
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	SearchTypeQuestion = "question"
	SearchTypeUser     = "user"
	SearchTypeAnswer   = "answer"
	SearchTypeTag      = "tag"
)

var searchTypes = []string{SearchTypeQuestion, SearchTypeUser, SearchTypeAnswer, SearchTypeTag}

type SearchService interface {
	GlobalSearch(ctx context.Context, query, typ string) ([]*dto.SearchResultDTO, error)
}

type searchServiceImpl struct {
	questionRepo repository.QuestionRepo
	userRepo     repository.UserRepo
	answerRepo   repository.AnswerRepo
	tagRepo      repository.TagRepo
}

func NewSearchService(store *repository.Store) SearchService {
	return &searchServiceImpl{
		questionRepo: store.Questions,
		userRepo:     store.Users,
		answerRepo:   store.Answers,
		tagRepo:      store.Tags,
	}
}

// GlobalSearch 未指定类型时每类取两条；指定有效类型时只查该类，取八条
func (s *searchServiceImpl) GlobalSearch(ctx context.Context, query, typ string) ([]*dto.SearchResultDTO, error) {
	kinds := searchTypes
	limit := int64(consts.SearchLimit)
	typ = strings.ToLower(strings.TrimSpace(typ))
	for _, k := range searchTypes {
		if typ == k {
			kinds = []string{k}
			limit = consts.SearchFilteredLimit
			break
		}
	}

	buckets := make([][]*dto.SearchResultDTO, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() (err error) {
			buckets[i], err = s.searchKind(gctx, kind, query, limit)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]*dto.SearchResultDTO, 0)
	for _, b := range buckets {
		results = append(results, b...)
	}
	return results, nil
}

func (s *searchServiceImpl) searchKind(ctx context.Context, kind, query string, limit int64) ([]*dto.SearchResultDTO, error) {
	var out []*dto.SearchResultDTO
	switch kind {
	case SearchTypeQuestion:
		list, err := s.questionRepo.Find(ctx, repository.QuestionQuery{Search: query, Limit: limit})
		if err != nil {
			return nil, err
		}
		for _, q := range list {
			out = append(out, &dto.SearchResultDTO{Title: q.Title, Type: kind, ID: q.ID.Hex()})
		}
	case SearchTypeUser:
		list, err := s.userRepo.Find(ctx, repository.UserQuery{Search: query, NameOnly: true, Limit: limit})
		if err != nil {
			return nil, err
		}
		for _, u := range list {
			out = append(out, &dto.SearchResultDTO{Title: u.Name, Type: kind, ID: u.ClerkID})
		}
	case SearchTypeAnswer:
		list, err := s.answerRepo.Find(ctx, repository.AnswerQuery{Search: query, Limit: limit})
		if err != nil {
			return nil, err
		}
		for _, a := range list {
			// 回答结果跳转到所属问题
			out = append(out, &dto.SearchResultDTO{Title: "Answers containing " + query, Type: kind, ID: a.Question.Hex()})
		}
	case SearchTypeTag:
		list, err := s.tagRepo.Find(ctx, repository.TagQuery{Search: query, Limit: limit})
		if err != nil {
			return nil, err
		}
		for _, t := range list {
			out = append(out, &dto.SearchResultDTO{Title: t.Name, Type: kind, ID: t.ID.Hex()})
		}
	}
	return out, nil
}
