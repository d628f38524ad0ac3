package handler

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/pkg/consts"
	"Devflow/internal/pkg/response"
	"Devflow/internal/pkg/util"
	"Devflow/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
	}
}

// SyncUser 首次登录时由前端调用，按身份 ID 建档
func (s *UserHandler) SyncUser(c *gin.Context) {
	var req dto.SyncUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	user, err := s.userSvc.SyncUser(c.Request.Context(), c.GetString(consts.ClerkIDKey), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	user, err := s.userSvc.UpdateUser(c.Request.Context(), c.GetString(consts.ClerkIDKey), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *UserHandler) DeleteMe(c *gin.Context) {
	if err := s.userSvc.DeleteUser(c.Request.Context(), c.GetString(consts.ClerkIDKey)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) GetAllUsers(c *gin.Context) {
	var query dto.ListQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	users, err := s.userSvc.GetAllUsers(c.Request.Context(), query.Search, query.Filter, query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

func (s *UserHandler) GetUserInfo(c *gin.Context) {
	info, err := s.userSvc.GetUserInfo(c.Request.Context(), c.Param("clerk_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}

func (s *UserHandler) GetUserQuestions(c *gin.Context) {
	var query dto.ListQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	questions, err := s.userSvc.GetUserQuestions(c.Request.Context(), c.Param("clerk_id"), query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, questions)
}

func (s *UserHandler) GetUserAnswers(c *gin.Context) {
	var query dto.ListQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	answers, err := s.userSvc.GetUserAnswers(c.Request.Context(), c.Param("clerk_id"), query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, answers)
}

// GetUserTopTags 用户互动最多的标签，limit 默认 3
func (s *UserHandler) GetUserTopTags(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(consts.TopInteractedTagsLimit)), 10, 64)
	if err != nil || limit <= 0 || limit > consts.MaxPageSize {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	tags, err := s.userSvc.GetTopInteractedTags(c.Request.Context(), c.Param("clerk_id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags)
}
