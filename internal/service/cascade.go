package service

import (
	"Devflow/internal/repository"
	"context"
	log "log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// cascader 维护删除时的反向引用一致性
type cascader struct {
	questionRepo    repository.QuestionRepo
	answerRepo      repository.AnswerRepo
	tagRepo         repository.TagRepo
	userRepo        repository.UserRepo
	interactionRepo repository.InteractionRepo
}

func newCascader(store *repository.Store) cascader {
	return cascader{
		questionRepo:    store.Questions,
		answerRepo:      store.Answers,
		tagRepo:         store.Tags,
		userRepo:        store.Users,
		interactionRepo: store.Interactions,
	}
}

// deleteQuestion 删除问题及其回答、相关互动记录、标签反向引用和用户收藏
func (c cascader) deleteQuestion(ctx context.Context, questionID primitive.ObjectID) error {
	if err := c.questionRepo.Delete(ctx, questionID); err != nil {
		return err
	}
	answerIDs, err := c.answerRepo.DeleteByQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if err = c.interactionRepo.DeleteByQuestion(ctx, questionID); err != nil {
		return err
	}
	if err = c.interactionRepo.DeleteByAnswers(ctx, answerIDs); err != nil {
		return err
	}
	if err = c.tagRepo.PullQuestion(ctx, questionID); err != nil {
		return err
	}
	if err = c.userRepo.PullSavedFromAll(ctx, questionID); err != nil {
		return err
	}
	log.InfoContext(ctx, "question deleted", "question", questionID.Hex(), "answers", len(answerIDs))
	return nil
}

// deleteAnswer 删除回答，并从问题中移除引用、清理互动记录
func (c cascader) deleteAnswer(ctx context.Context, answerID, questionID primitive.ObjectID) error {
	if err := c.answerRepo.Delete(ctx, answerID); err != nil {
		return err
	}
	if err := c.questionRepo.PullAnswer(ctx, questionID, answerID); err != nil && !isNotFound(err) {
		return err
	}
	return c.interactionRepo.DeleteByAnswers(ctx, []primitive.ObjectID{answerID})
}
