package dto

// ListQueryDTO 列表类接口的公共查询参数
type ListQueryDTO struct {
	Search   string `form:"search"`
	Filter   string `form:"filter"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// SearchQueryDTO 全局搜索参数
type SearchQueryDTO struct {
	Query string `form:"q" binding:"required"`
	Type  string `form:"type"`
}
