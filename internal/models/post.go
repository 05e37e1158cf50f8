package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post carries the author's name and avatar as they were when it was
// written; later profile edits are not copied back.
type Post struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User     primitive.ObjectID `bson:"user" json:"user"`
	Text     string             `bson:"text" json:"text"`
	Name     string             `bson:"name" json:"name"`
	Avatar   string             `bson:"avatar" json:"avatar"`
	Likes    []Like             `bson:"likes" json:"likes"`
	Comments []Comment          `bson:"comments" json:"comments"`
	Date     time.Time          `bson:"date" json:"date"`
}

type Like struct {
	User primitive.ObjectID `bson:"user" json:"user"`
}

type Comment struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	User   primitive.ObjectID `bson:"user" json:"user"`
	Text   string             `bson:"text" json:"text"`
	Name   string             `bson:"name" json:"name"`
	Avatar string             `bson:"avatar" json:"avatar"`
	Date   time.Time          `bson:"date" json:"date"`
}

type PostInput struct {
	Text string `json:"text" validate:"required"`
}

type CommentInput struct {
	Text string `json:"text" validate:"required"`
}

// LikedBy reports whether userId appears in the post's likes.
func (p *Post) LikedBy(userId primitive.ObjectID) bool {
	for _, l := range p.Likes {
		if l.User == userId {
			return true
		}
	}
	return false
}

// CommentIndex returns the position of the comment with commentId, or -1.
func (p *Post) CommentIndex(commentId primitive.ObjectID) int {
	for i, c := range p.Comments {
		if c.ID == commentId {
			return i
		}
	}
	return -1
}
