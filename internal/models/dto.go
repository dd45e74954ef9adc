package models

import "time"

// ===== REQUESTS =====

type ReactRequest struct {
	Type ReactionType `json:"type" validate:"required,reaction_type"`
}

type AddCommentRequest struct {
	Content string `json:"content" validate:"comment_content"`
}

type UpdateProfileRequest struct {
	DisplayName string  `json:"display_name" validate:"required,display_name"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url,max=500"`
	Bio         *string `json:"bio" validate:"omitempty,max=1000"`
}

type AuthCallbackRequest struct {
	Code  string `json:"code" validate:"required"`
	State string `json:"state"`
}

// ===== VIEWS =====

// ReactionSummary holds per-post counts for every reaction type plus the
// viewer's own reaction, if any.
type ReactionSummary struct {
	PostID         uint                   `json:"post_id"`
	Counts         map[ReactionType]int64 `json:"counts"`
	Total          int64                  `json:"total"`
	ViewerReaction *ReactionType          `json:"viewer_reaction"`
}

// NewReactionSummary seeds every reaction type with zero.
func NewReactionSummary(postID uint) *ReactionSummary {
	counts := make(map[ReactionType]int64, len(ReactionTypes))
	for _, t := range ReactionTypes {
		counts[t] = 0
	}
	return &ReactionSummary{PostID: postID, Counts: counts}
}

type CommentView struct {
	ID        uint           `json:"id"`
	PostID    uint           `json:"post_id"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	Author    ProfileSummary `json:"author"`
}

func NewCommentView(c Comment) CommentView {
	view := CommentView{
		ID:        c.ID,
		PostID:    c.PostID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Author:    ProfileSummary{ID: c.UserID},
	}
	if c.Author != nil {
		view.Author = c.Author.Summary()
	}
	return view
}

type CommentPage struct {
	Comments   []CommentView `json:"comments"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

type ConnectionEntry struct {
	Connection *Connection      `json:"connection"`
	Profile    ProfileSummary   `json:"profile"`
	Status     ConnectionStatus `json:"status"`
}

type ConnectionListResponse struct {
	Connections []ConnectionEntry `json:"connections"`
	Total       int64             `json:"total"`
	Page        int               `json:"page"`
	Size        int               `json:"size"`
}

// ProfileView is the aggregated profile page model. Slices that failed to
// load are left empty.
type ProfileView struct {
	Profile          *Profile            `json:"profile"`
	OwnerMode        bool                `json:"owner_mode"`
	CanConnect       bool                `json:"can_connect"`
	Relation         *ConnectionRelation `json:"relation,omitempty"`
	Stats            ConnectionStats     `json:"stats"`
	Courses          []EnrollmentRecord  `json:"courses"`
	CompletedCourses []EnrollmentRecord  `json:"completed_courses"`
	Languages        []ProfileLanguage   `json:"languages"`
	Interests        []ProfileInterest   `json:"interests"`
	Skills           []ProfileSkill      `json:"skills"`
	Goals            []string            `json:"goals"`
}

type PostView struct {
	Post      *Post            `json:"post"`
	Reactions *ReactionSummary `json:"reactions"`
	Comments  *CommentPage     `json:"comments"`
}

type CommentAddResponse struct {
	Added bool         `json:"added"`
	Page  *CommentPage `json:"page"`
}
