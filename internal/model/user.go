package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ClerkID          string               `bson:"clerk_id" json:"clerk_id"`
	Name             string               `bson:"name" json:"name"`
	Username         string               `bson:"username" json:"username"`
	Email            string               `bson:"email" json:"email"`
	Picture          string               `bson:"picture" json:"picture"`
	Bio              string               `bson:"bio,omitempty" json:"bio,omitempty"`
	Location         string               `bson:"location,omitempty" json:"location,omitempty"`
	PortfolioWebsite string               `bson:"portfolio_website,omitempty" json:"portfolio_website,omitempty"`
	Reputation       int64                `bson:"reputation" json:"reputation"`
	Saved            []primitive.ObjectID `bson:"saved" json:"saved"`
	JoinedAt         time.Time            `bson:"joined_at" json:"joined_at"`
}

// HasSaved 问题是否已被收藏
func (u *User) HasSaved(questionID primitive.ObjectID) bool {
	return containsID(u.Saved, questionID)
}
