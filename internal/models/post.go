package models

import "time"

type Post struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Slug     string `json:"slug" gorm:"uniqueIndex;not null;size:200"`
	AuthorID string `json:"author_id" gorm:"not null;index;size:255"`
	Title    string `json:"title" gorm:"not null;size:300"`
	Content  string `json:"content" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

type ReactionType string

const (
	ReactionLike   ReactionType = "like"
	ReactionLove   ReactionType = "love"
	ReactionRocket ReactionType = "rocket"
	ReactionClap   ReactionType = "clap"
)

// ReactionTypes lists every accepted reaction in display order
var ReactionTypes = []ReactionType{ReactionLike, ReactionLove, ReactionRocket, ReactionClap}

func (t ReactionType) IsValid() bool {
	for _, rt := range ReactionTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// Reaction is unique per (post, user); reacting again replaces the type.
type Reaction struct {
	ID     uint         `json:"id" gorm:"primaryKey"`
	PostID uint         `json:"post_id" gorm:"not null;uniqueIndex:idx_reaction_post_user"`
	UserID string       `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_reaction_post_user"`
	Type   ReactionType `json:"type" gorm:"not null;size:20"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Reaction) TableName() string {
	return "reactions"
}

// Comment is append-only
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;index:idx_comment_post_created,priority:1"`
	UserID    string    `json:"user_id" gorm:"not null;size:255"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_comment_post_created,priority:2"`

	Author *Profile `json:"author,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

func (Comment) TableName() string {
	return "comments"
}
