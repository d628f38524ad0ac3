package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Question struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title     string               `bson:"title" json:"title"`
	Content   string               `bson:"content" json:"content"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	Tags      []primitive.ObjectID `bson:"tags" json:"tags"`
	Views     int64                `bson:"views" json:"views"`
	Upvotes   []primitive.ObjectID `bson:"upvotes" json:"upvotes"`
	Downvotes []primitive.ObjectID `bson:"downvotes" json:"downvotes"`
	Answers   []primitive.ObjectID `bson:"answers" json:"answers"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}

func (q *Question) GetID() primitive.ObjectID     { return q.ID }
func (q *Question) GetAuthor() primitive.ObjectID { return q.Author }

func (q *Question) GetVoteSets() (up, down []primitive.ObjectID) {
	return q.Upvotes, q.Downvotes
}

func (q *Question) SetVoteSets(up, down []primitive.ObjectID) {
	q.Upvotes, q.Downvotes = up, down
}

// HasTag 问题是否包含该标签
func (q *Question) HasTag(tagID primitive.ObjectID) bool {
	return containsID(q.Tags, tagID)
}

// HasAnyTag 问题是否与集合有至少一个共同标签
func (q *Question) HasAnyTag(tagIDs []primitive.ObjectID) bool {
	for _, t := range tagIDs {
		if containsID(q.Tags, t) {
			return true
		}
	}
	return false
}

// PopulatedQuestion 已展开标签与作者引用的问题
type PopulatedQuestion struct {
	*Question
	TagDocs   []*Tag `json:"tag_docs"`
	AuthorDoc *User  `json:"author_doc"`
}
