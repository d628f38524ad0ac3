package dto

import "time"

type TagBriefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TagDTO struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	QuestionsCount int       `json:"questions_count" copier:"-"`
	FollowersCount int       `json:"followers_count" copier:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

type TagListDTO struct {
	Tags   []*TagDTO `json:"tags"`
	IsNext bool      `json:"is_next"`
}

// InteractedTagDTO 用户互动最多的标签
type InteractedTagDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// PopularTagDTO 热门标签及其问题数
type PopularTagDTO struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	NumberOfQuestions int64  `json:"number_of_questions"`
}

// TagQuestionsDTO 标签下的问题列表
type TagQuestionsDTO struct {
	TagTitle  string         `json:"tag_title"`
	Questions []*QuestionDTO `json:"questions"`
	IsNext    bool           `json:"is_next"`
}

type FollowResultDTO struct {
	Following bool `json:"following"`
}
