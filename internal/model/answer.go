package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Answer struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Question  primitive.ObjectID   `bson:"question" json:"question"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	Content   string               `bson:"content" json:"content"`
	Upvotes   []primitive.ObjectID `bson:"upvotes" json:"upvotes"`
	Downvotes []primitive.ObjectID `bson:"downvotes" json:"downvotes"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}

func (a *Answer) GetID() primitive.ObjectID     { return a.ID }
func (a *Answer) GetAuthor() primitive.ObjectID { return a.Author }

func (a *Answer) GetVoteSets() (up, down []primitive.ObjectID) {
	return a.Upvotes, a.Downvotes
}

func (a *Answer) SetVoteSets(up, down []primitive.ObjectID) {
	a.Upvotes, a.Downvotes = up, down
}
