package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InteractionAction 交互日志中的行为类型
type InteractionAction string

const (
	ActionAskQuestion InteractionAction = "ask_question"
	ActionAnswer      InteractionAction = "answer"
	ActionView        InteractionAction = "view"
)

// Interaction 不可变的交互记录，Tags 为行为发生时的标签快照
type Interaction struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID   `bson:"user" json:"user"`
	Action    InteractionAction    `bson:"action" json:"action"`
	Question  *primitive.ObjectID  `bson:"question,omitempty" json:"question,omitempty"`
	Answer    *primitive.ObjectID  `bson:"answer,omitempty" json:"answer,omitempty"`
	Tags      []primitive.ObjectID `bson:"tags" json:"tags"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}
