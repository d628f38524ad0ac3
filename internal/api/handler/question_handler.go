package handler

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/model"
	"Devflow/internal/pkg/response"
	"Devflow/internal/pkg/util"
	"Devflow/internal/service"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questionSvc  service.QuestionService
	answerSvc    service.AnswerService
	voteSvc      service.VoteService
	recommendSvc service.RecommendService
	userSvc      service.UserService
}

func NewQuestionHandler(
	questionSvc service.QuestionService,
	answerSvc service.AnswerService,
	voteSvc service.VoteService,
	recommendSvc service.RecommendService,
	userSvc service.UserService,
) *QuestionHandler {
	return &QuestionHandler{
		questionSvc:  questionSvc,
		answerSvc:    answerSvc,
		voteSvc:      voteSvc,
		recommendSvc: recommendSvc,
		userSvc:      userSvc,
	}
}

func (s *QuestionHandler) GetQuestions(c *gin.Context) {
	var query dto.ListQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	questions, err := s.questionSvc.GetQuestions(c.Request.Context(), viewerID(c, s.userSvc), query.Search, query.Filter, query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, questions)
}

func (s *QuestionHandler) GetTopQuestions(c *gin.Context) {
	questions, err := s.questionSvc.GetTopQuestions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, questions)
}

func (s *QuestionHandler) GetRecommendedQuestions(c *gin.Context) {
	user, err := currentUser(c, s.userSvc)
	if err != nil {
		response.Error(c, err)
		return
	}

	var query dto.ListQueryDTO
	if err = c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	questions, err := s.recommendSvc.Recommend(c.Request.Context(), user.ID, query.Search, query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, questions)
}

func (s *QuestionHandler) GetSavedQuestions(c *gin.Context) {
	user, err := currentUser(c, s.userSvc)
	if err != nil {
		response.Error(c, err)
		return
	}

	var query dto.ListQueryDTO
	if err = c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	questions, err := s.questionSvc.GetSavedQuestions(c.Request.Context(), user.ID, query.Search, query.Filter, query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, questions)
}

func (s *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID, err := util.ParseObjectID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	question, err := s.questionSvc.GetQuestionByID(c.Request.Context(), questionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, question)
}

// ViewQuestion 浏览数加一；登录用户额外记录浏览互动
func (s *QuestionHandler) ViewQuestion(c *gin.Context) {
	questionID, err := util.ParseObjectID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := s.questionSvc.ViewQuestion(c.Request.Context(), viewerID(c, s.userSvc), questionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *QuestionHandler) AskQuestion(c *gin.Context) {
	user, err := currentUser(c, s.userSvc)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.AskQuestionDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	question, err := s.questionSvc.AskQuestion(c.Request.Context(), user.ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, question)
}

func (s *QuestionHandler) EditQuestion(c *gin.Context) {
	user, err := currentUser(c, s.userSvc)
	if err != nil {
		response.Error(c, err)
		return
	}
	questionID, err := util.ParseObjectID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.EditQuestionDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	question, err := s.questionSvc.EditQuestion(c.Request.Context(), user.ID, questionID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, question)
}

func (s *QuestionHandler) DeleteQuestion(c *gin.Context) {
	user, err := currentUser(c, s.userSvc)
	if err != nil {
		response.Error(c, err)
		return
	}
	questionID, err := util.ParseObjectID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if err = s.questionSvc.DeleteQuestion(c.Request.Context(), user.ID, questionID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *QuestionHandler) Upvote(c *gin.Context) {
	s.vote(c, model.VoteUp)
}

func (s *QuestionHandler) Downvote(c *gin.Context) {
	s.vote(c, model.VoteDown)
}

func (s *QuestionHandler) vote(c *gin.Context, direction model.VoteDirection) {
	castVote(c, s.voteSvc, s.userSvc, model.TargetQuestion, direction)
}

func (s *QuestionHandler) ToggleSave(c *gin.Context) {
	user, err := currentUser(c, s.userSvc)
	if err != nil {
		response.Error(c, err)
		return
	}
	questionID, err := util.ParseObjectID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	saved, err := s.questionSvc.ToggleSaveQuestion(c.Request.Context(), user.ID, questionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.SaveResultDTO{Saved: saved})
}

func (s *QuestionHandler) GetAnswers(c *gin.Context) {
	questionID, err := util.ParseObjectID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var query dto.ListQueryDTO
	if err = c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	answers, err := s.answerSvc.GetAnswers(c.Request.Context(), questionID, query.Filter, query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, answers)
}

func (s *QuestionHandler) CreateAnswer(c *gin.Context) {
	user, err := currentUser(c, s.userSvc)
	if err != nil {
		response.Error(c, err)
		return
	}
	questionID, err := util.ParseObjectID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateAnswerDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	answer, err := s.answerSvc.CreateAnswer(c.Request.Context(), user.ID, questionID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, answer)
}
