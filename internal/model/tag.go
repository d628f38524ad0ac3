package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Tag struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name           string               `bson:"name" json:"name"`
	NormalizedName string               `bson:"normalized_name" json:"-"`
	Description    string               `bson:"description" json:"description"`
	Questions      []primitive.ObjectID `bson:"questions" json:"questions"`
	Followers      []primitive.ObjectID `bson:"followers" json:"followers"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
}

// TagUsage 用户在某标签上的互动次数
type TagUsage struct {
	TagID primitive.ObjectID `bson:"_id"`
	Count int64              `bson:"count"`
}

// TagCount 标签及其关联问题数
type TagCount struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Name           string             `bson:"name" json:"name"`
	QuestionsCount int64              `bson:"questions_count" json:"questions_count"`
}

// NormalizeTagName 去除首尾空白并转小写，用于大小写无关匹配
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
