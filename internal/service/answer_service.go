package service

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/model"
	"Devflow/internal/repository"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnswerService interface {
	CreateAnswer(ctx context.Context, authorID, questionID primitive.ObjectID, req *dto.CreateAnswerDTO) (*dto.AnswerDTO, error)
	DeleteAnswer(ctx context.Context, userID, answerID primitive.ObjectID) error
	GetAnswers(ctx context.Context, questionID primitive.ObjectID, filter string, page, pageSize int) (*dto.AnswerListDTO, error)
}

type answerServiceImpl struct {
	answerRepo     repository.AnswerRepo
	questionRepo   repository.QuestionRepo
	tx             repository.TxManager
	interactionSvc InteractionService
	cascader
	populator
}

func NewAnswerService(store *repository.Store, interactionSvc InteractionService) AnswerService {
	return &answerServiceImpl{
		answerRepo:     store.Answers,
		questionRepo:   store.Questions,
		tx:             store.Tx,
		interactionSvc: interactionSvc,
		cascader:       newCascader(store),
		populator:      populator{userRepo: store.Users, tagRepo: store.Tags},
	}
}

// CreateAnswer 创建回答，挂到问题上并记录回答互动（携带问题的标签快照）
func (s *answerServiceImpl) CreateAnswer(ctx context.Context, authorID, questionID primitive.ObjectID, req *dto.CreateAnswerDTO) (*dto.AnswerDTO, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, mapNotFound(err, ErrQuestionNotFound)
	}

	answer := &model.Answer{
		ID:        primitive.NewObjectID(),
		Question:  questionID,
		Author:    authorID,
		Content:   req.Content,
		Upvotes:   []primitive.ObjectID{},
		Downvotes: []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.answerRepo.Create(ctx, answer); err != nil {
			return err
		}
		if err := s.questionRepo.AddAnswer(ctx, questionID, answer.ID); err != nil {
			return mapNotFound(err, ErrQuestionNotFound)
		}
		qid, aid := questionID, answer.ID
		_, err := s.interactionSvc.Record(ctx, authorID, model.ActionAnswer, RecordOptions{
			QuestionID: &qid,
			AnswerID:   &aid,
			Tags:       question.Tags,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "answer created", "answer", answer.ID.Hex(), "question", questionID.Hex())
	items, err := s.populator.answers(ctx, []*model.Answer{answer})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *answerServiceImpl) DeleteAnswer(ctx context.Context, userID, answerID primitive.ObjectID) error {
	answer, err := s.answerRepo.GetByID(ctx, answerID)
	if err != nil {
		return mapNotFound(err, ErrAnswerNotFound)
	}
	if answer.Author != userID {
		return ErrForbidden
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.cascader.deleteAnswer(ctx, answerID, answer.Question)
	})
	return mapNotFound(err, ErrAnswerNotFound)
}

func answerSortOf(filter string) repository.AnswerSort {
	switch filter {
	case "highestUpvotes":
		return repository.AnswerSortHighestUpvotes
	case "lowestUpvotes":
		return repository.AnswerSortLowestUpvotes
	case "old":
		return repository.AnswerSortOldest
	default:
		return repository.AnswerSortNewest
	}
}

// GetAnswers 问题下的回答列表
func (s *answerServiceImpl) GetAnswers(ctx context.Context, questionID primitive.ObjectID, filter string, page, pageSize int) (*dto.AnswerListDTO, error) {
	if _, err := s.questionRepo.GetByID(ctx, questionID); err != nil {
		return nil, mapNotFound(err, ErrQuestionNotFound)
	}
	skip, limit := pageWindow(page, pageSize)
	qid := questionID
	return s.list(ctx, repository.AnswerQuery{Question: &qid, Sort: answerSortOf(filter), Skip: skip, Limit: limit})
}

func (s *answerServiceImpl) list(ctx context.Context, q repository.AnswerQuery) (*dto.AnswerListDTO, error) {
	answers, err := s.answerRepo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	total, err := s.answerRepo.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	items, err := s.populator.answers(ctx, answers)
	if err != nil {
		return nil, err
	}
	return &dto.AnswerListDTO{Answers: items, Total: total, IsNext: hasNext(total, q.Skip, len(answers))}, nil
}
