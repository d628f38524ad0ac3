package dto

import "time"

// AskQuestionDTO 提问
type AskQuestionDTO struct {
	Title   string   `json:"title" binding:"required" validate:"min=5,max=100"`
	Content string   `json:"content" binding:"required" validate:"min=20"`
	Tags    []string `json:"tags" binding:"required" validate:"min=1,max=5,unique,dive,notblank,min=2,max=15"`
}

// EditQuestionDTO 编辑问题，仅允许修改标题与内容
type EditQuestionDTO struct {
	Title   string `json:"title" binding:"required" validate:"min=5,max=100"`
	Content string `json:"content" binding:"required" validate:"min=20"`
}

type QuestionDTO struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Tags      []*TagBriefDTO `json:"tags" copier:"-"`
	Author    *AuthorDTO     `json:"author" copier:"-"`
	Views     int64          `json:"views"`
	Upvotes   []string       `json:"upvotes"`
	Downvotes []string       `json:"downvotes"`
	Answers   []string       `json:"answers"`
	CreatedAt time.Time      `json:"created_at"`
}

type QuestionListDTO struct {
	Questions []*QuestionDTO `json:"questions"`
	Total     int64          `json:"total,omitempty"`
	IsNext    bool           `json:"is_next"`
}

// VoteDTO 投票请求；Path 原样回传给前端用于缓存失效
type VoteDTO struct {
	HasUpVoted   bool   `json:"has_up_voted"`
	HasDownVoted bool   `json:"has_down_voted"`
	Path         string `json:"path"`
}

type VoteResultDTO struct {
	Upvotes      int    `json:"upvotes"`
	Downvotes    int    `json:"downvotes"`
	HasUpVoted   bool   `json:"has_up_voted"`
	HasDownVoted bool   `json:"has_down_voted"`
	Revalidate   string `json:"revalidate,omitempty"`
}

type SaveResultDTO struct {
	Saved bool `json:"saved"`
}

type ViewResultDTO struct {
	Views int64 `json:"views"`
}
