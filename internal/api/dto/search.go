package dto

// SearchResultDTO 全局搜索结果项
type SearchResultDTO struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	ID    string `json:"id"`
}
