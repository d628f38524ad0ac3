package handler

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/pkg/response"
	"Devflow/internal/service"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchSvc service.SearchService
}

func NewSearchHandler(searchSvc service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchSvc: searchSvc,
	}
}

// GlobalSearch type 为空或无法识别时搜索全部类型
func (s *SearchHandler) GlobalSearch(c *gin.Context) {
	var query dto.SearchQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	results, err := s.searchSvc.GlobalSearch(c.Request.Context(), query.Query, query.Type)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, results)
}
