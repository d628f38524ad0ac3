package service

import (
	"Devflow/internal/model"
	"Devflow/internal/pkg/kafka"
	"Devflow/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordOptions 互动记录关联的对象与标签快照
type RecordOptions struct {
	QuestionID *primitive.ObjectID
	AnswerID   *primitive.ObjectID
	Tags       []primitive.ObjectID
}

type InteractionService interface {
	Record(ctx context.Context, userID primitive.ObjectID, action model.InteractionAction, opts RecordOptions) (*model.Interaction, error)
	RecordView(ctx context.Context, userID *primitive.ObjectID, questionID primitive.ObjectID) (*model.Question, error)
}

type interactionServiceImpl struct {
	interactionRepo repository.InteractionRepo
	questionRepo    repository.QuestionRepo
	publisher       kafka.Publisher
}

func NewInteractionService(
	interactionRepo repository.InteractionRepo,
	questionRepo repository.QuestionRepo,
	publisher kafka.Publisher,
) InteractionService {
	return &interactionServiceImpl{
		interactionRepo: interactionRepo,
		questionRepo:    questionRepo,
		publisher:       publisher,
	}
}

// Record 追加一条互动记录，并投递到事件流
func (s *interactionServiceImpl) Record(ctx context.Context, userID primitive.ObjectID, action model.InteractionAction, opts RecordOptions) (*model.Interaction, error) {
	interaction := &model.Interaction{
		User:      userID,
		Action:    action,
		Question:  opts.QuestionID,
		Answer:    opts.AnswerID,
		Tags:      opts.Tags,
		CreatedAt: time.Now(),
	}
	if interaction.Tags == nil {
		interaction.Tags = []primitive.ObjectID{}
	}
	if err := s.interactionRepo.Create(ctx, interaction); err != nil {
		return nil, err
	}

	// 事件流仅用于下游分析，失败不影响主流程
	if err := s.publisher.PublishInteraction(ctx, interaction); err != nil {
		log.WarnContext(ctx, "publish interaction error", "action", action, "err", err)
	}
	return interaction, nil
}

// RecordView 浏览量每次都自增；同一用户对同一问题只记录一条浏览互动
func (s *interactionServiceImpl) RecordView(ctx context.Context, userID *primitive.ObjectID, questionID primitive.ObjectID) (*model.Question, error) {
	question, err := s.questionRepo.IncViews(ctx, questionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	if userID == nil {
		return question, nil
	}

	exists, err := s.interactionRepo.Exists(ctx, *userID, model.ActionView, questionID)
	if err != nil {
		return nil, err
	}
	if exists {
		return question, nil
	}
	qid := questionID
	if _, err = s.Record(ctx, *userID, model.ActionView, RecordOptions{QuestionID: &qid, Tags: question.Tags}); err != nil {
		return nil, err
	}
	return question, nil
}
