package models

import (
	"strings"
	"time"
)

type Profile struct {
	ID          string  `json:"id" gorm:"primaryKey;size:255"`
	DisplayName string  `json:"display_name" gorm:"not null;size:100"`
	Email       string  `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PhotoURL    *string `json:"photo_url" gorm:"size:500"`
	Bio         *string `json:"bio" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Derived from configuration, never stored
	IsPlatformOwner bool `json:"is_platform_owner" gorm:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}

// MarkPlatformOwner sets IsPlatformOwner when the profile email matches ownerEmail.
func (p *Profile) MarkPlatformOwner(ownerEmail string) {
	ownerEmail = strings.TrimSpace(ownerEmail)
	p.IsPlatformOwner = ownerEmail != "" && strings.EqualFold(strings.TrimSpace(p.Email), ownerEmail)
}

func (p *Profile) Summary() ProfileSummary {
	return ProfileSummary{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
	}
}

// ProfileSummary is the public card shown next to comments and connections
type ProfileSummary struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	PhotoURL    *string `json:"photo_url"`
}

// NewProfileFromUser projects an identity record into a fresh profile row
func NewProfileFromUser(u *User) *Profile {
	p := &Profile{
		ID:          u.ID,
		DisplayName: u.PreferredName(),
		Email:       strings.ToLower(strings.TrimSpace(u.Email)),
	}
	if u.AvatarURL != nil && *u.AvatarURL != "" {
		photo := *u.AvatarURL
		p.PhotoURL = &photo
	}
	return p
}
