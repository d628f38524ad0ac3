package dto

import "time"

type CreateAnswerDTO struct {
	Content string `json:"content" binding:"required" validate:"min=5"`
}

type AnswerDTO struct {
	ID        string     `json:"id"`
	Question  string     `json:"question"`
	Author    *AuthorDTO `json:"author" copier:"-"`
	Content   string     `json:"content"`
	Upvotes   []string   `json:"upvotes"`
	Downvotes []string   `json:"downvotes"`
	CreatedAt time.Time  `json:"created_at"`
}

type AnswerListDTO struct {
	Answers []*AnswerDTO `json:"answers"`
	Total   int64        `json:"total"`
	IsNext  bool         `json:"is_next"`
}
