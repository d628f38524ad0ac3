package dto

import (
	"Devflow/internal/pkg/badge"
	"time"
)

// SyncUserDTO 身份服务首次登录时同步的资料
type SyncUserDTO struct {
	Name     string `json:"name" binding:"required" validate:"min=2,max=50"`
	Username string `json:"username" binding:"required" validate:"min=2,max=50"`
	Email    string `json:"email" binding:"required" validate:"email"`
	Picture  string `json:"picture"`
}

// UpdateUserDTO 修改资料，空字段不更新
type UpdateUserDTO struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Username         *string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	Bio              *string `json:"bio,omitempty" validate:"omitempty,max=100"`
	Location         *string `json:"location,omitempty" validate:"omitempty,max=100"`
	PortfolioWebsite *string `json:"portfolio_website,omitempty" validate:"omitempty,url"`
	Picture          *string `json:"picture,omitempty" validate:"omitempty,url"`
}

type UserDTO struct {
	ID               string    `json:"id"`
	ClerkID          string    `json:"clerk_id"`
	Name             string    `json:"name"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Picture          string    `json:"picture"`
	Bio              string    `json:"bio,omitempty"`
	Location         string    `json:"location,omitempty"`
	PortfolioWebsite string    `json:"portfolio_website,omitempty"`
	Reputation       int64     `json:"reputation"`
	Saved            []string  `json:"saved"`
	JoinedAt         time.Time `json:"joined_at"`
}

// AuthorDTO 作者简要信息
type AuthorDTO struct {
	ID      string `json:"id"`
	ClerkID string `json:"clerk_id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// UserInfoDTO 个人主页信息
type UserInfoDTO struct {
	User           *UserDTO     `json:"user"`
	TotalQuestions int64        `json:"total_questions"`
	TotalAnswers   int64        `json:"total_answers"`
	BadgeCounts    badge.Counts `json:"badge_counts"`
	Reputation     int64        `json:"reputation"`
}

type UserListDTO struct {
	Users  []*UserDTO `json:"users"`
	IsNext bool       `json:"is_next"`
}
