package repository

import "go.mongodb.org/mongo-driver/bson/primitive"

type QuestionSort int

const (
	QuestionSortNone QuestionSort = iota
	QuestionSortNewest
	QuestionSortOldest
	QuestionSortMostViewed
	QuestionSortMostVoted
	QuestionSortMostAnswered
	// QuestionSortTop 浏览数降序，其次赞成数降序
	QuestionSortTop
	// QuestionSortProfile 最新优先，其次浏览数与赞成数
	QuestionSortProfile
)

// QuestionQuery 问题列表的过滤与分页，nil 切片或指针表示不限制
type QuestionQuery struct {
	IDs           []primitive.ObjectID
	TagsAny       []primitive.ObjectID
	Author        *primitive.ObjectID
	ExcludeAuthor *primitive.ObjectID
	// Search 标题大小写无关子串匹配，SearchContent 为 true 时同时匹配正文
	Search        string
	SearchContent bool
	Unanswered    bool
	Sort          QuestionSort
	Skip          int64
	Limit         int64
}

type AnswerSort int

const (
	AnswerSortNewest AnswerSort = iota
	AnswerSortOldest
	AnswerSortHighestUpvotes
	AnswerSortLowestUpvotes
)

type AnswerQuery struct {
	Question *primitive.ObjectID
	Author   *primitive.ObjectID
	Search   string
	Sort     AnswerSort
	Skip     int64
	Limit    int64
}

type TagSort int

const (
	TagSortRecent TagSort = iota
	TagSortOld
	TagSortPopular
	TagSortName
)

type TagQuery struct {
	Search string
	Sort   TagSort
	Skip   int64
	Limit  int64
}

type UserSort int

const (
	UserSortNewest UserSort = iota
	UserSortOldest
	UserSortTopContributors
)

type UserQuery struct {
	Search string
	// NameOnly 仅按名称搜索
	NameOnly bool
	Sort     UserSort
	Skip     int64
	Limit    int64
}

// TagMatchMode 标签名匹配方式
type TagMatchMode string

const (
	TagMatchExact  TagMatchMode = "exact"
	TagMatchPrefix TagMatchMode = "prefix"
)
