package models

import "time"

// User is the identity record held by the identity provider. It is never
// persisted locally; Profile is the local projection of it.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DisplayName   string    `json:"display_name"`
	Email         string    `json:"email"`
	AvatarURL     *string   `json:"avatar_url"`
	EmailVerified bool      `json:"email_verified"`
	IsAdmin       bool      `json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PreferredName returns the display name, falling back to the account name
// and then the email.
func (u *User) PreferredName() string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}

// Summary is the card shown for an identity that has no profile row yet
func (u *User) Summary() ProfileSummary {
	return ProfileSummary{
		ID:          u.ID,
		DisplayName: u.PreferredName(),
		PhotoURL:    u.AvatarURL,
	}
}
