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

type TagHandler struct {
	tagSvc  service.TagService
	userSvc service.UserService
}

func NewTagHandler(tagSvc service.TagService, userSvc service.UserService) *TagHandler {
	return &TagHandler{
		tagSvc:  tagSvc,
		userSvc: userSvc,
	}
}

func (s *TagHandler) GetAllTags(c *gin.Context) {
	var query dto.ListQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	tags, err := s.tagSvc.GetAllTags(c.Request.Context(), query.Search, query.Filter, query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags)
}

func (s *TagHandler) GetPopularTags(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(consts.PopularTagsLimit)), 10, 64)
	if err != nil || limit <= 0 || limit > consts.MaxPageSize {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	tags, err := s.tagSvc.PopularTags(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags)
}

func (s *TagHandler) GetQuestionsByTag(c *gin.Context) {
	tagID, err := util.ParseObjectID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var query dto.ListQueryDTO
	if err = c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	res, err := s.tagSvc.GetQuestionsByTag(c.Request.Context(), tagID, query.Search, query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *TagHandler) ToggleFollow(c *gin.Context) {
	user, err := currentUser(c, s.userSvc)
	if err != nil {
		response.Error(c, err)
		return
	}
	tagID, err := util.ParseObjectID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	following, err := s.tagSvc.ToggleFollowTag(c.Request.Context(), user.ID, tagID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FollowResultDTO{Following: following})
}
