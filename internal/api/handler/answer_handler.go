package handler

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/model"
	"Devflow/internal/pkg/response"
	"Devflow/internal/pkg/util"
	"Devflow/internal/service"

	"github.com/gin-gonic/gin"
)

type AnswerHandler struct {
	answerSvc service.AnswerService
	voteSvc   service.VoteService
	userSvc   service.UserService
}

func NewAnswerHandler(answerSvc service.AnswerService, voteSvc service.VoteService, userSvc service.UserService) *AnswerHandler {
	return &AnswerHandler{
		answerSvc: answerSvc,
		voteSvc:   voteSvc,
		userSvc:   userSvc,
	}
}

func (s *AnswerHandler) DeleteAnswer(c *gin.Context) {
	user, err := currentUser(c, s.userSvc)
	if err != nil {
		response.Error(c, err)
		return
	}
	answerID, err := util.ParseObjectID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if err = s.answerSvc.DeleteAnswer(c.Request.Context(), user.ID, answerID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AnswerHandler) Upvote(c *gin.Context) {
	castVote(c, s.voteSvc, s.userSvc, model.TargetAnswer, model.VoteUp)
}

func (s *AnswerHandler) Downvote(c *gin.Context) {
	castVote(c, s.voteSvc, s.userSvc, model.TargetAnswer, model.VoteDown)
}

// castVote 问题与回答共用的投票流程
func castVote(c *gin.Context, voteSvc service.VoteService, userSvc service.UserService, kind model.TargetKind, direction model.VoteDirection) {
	user, err := currentUser(c, userSvc)
	if err != nil {
		response.Error(c, err)
		return
	}
	targetID, err := util.ParseObjectID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.VoteDTO
	if err = bindOptionalJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	res, err := voteSvc.Vote(c.Request.Context(), kind, targetID, user.ID, direction, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
