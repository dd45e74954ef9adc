package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

type ProfileLanguage struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProfileID string `json:"-" gorm:"not null;index;size:255"`
	Name      string `json:"name" gorm:"not null;size:100"`
	Level     string `json:"level" gorm:"size:50"`
}

func (ProfileLanguage) TableName() string {
	return "profile_languages"
}

type ProfileInterest struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProfileID string `json:"-" gorm:"not null;index;size:255"`
	Name      string `json:"name" gorm:"not null;size:100"`
}

func (ProfileInterest) TableName() string {
	return "profile_interests"
}

type ProfileSkill struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProfileID string `json:"-" gorm:"not null;index;size:255"`
	Name      string `json:"name" gorm:"not null;size:100"`
	Level     string `json:"level" gorm:"size:50"`
}

func (ProfileSkill) TableName() string {
	return "profile_skills"
}

// OnboardingGoals stores the goal list picked during onboarding as a JSON array
type OnboardingGoals struct {
	ProfileID string         `json:"profile_id" gorm:"primaryKey;size:255"`
	Goals     datatypes.JSON `json:"goals"`
}

func (OnboardingGoals) TableName() string {
	return "onboarding_goals"
}

// List decodes the stored goals. Malformed or empty payloads yield an empty list.
func (g *OnboardingGoals) List() []string {
	if g == nil || len(g.Goals) == 0 {
		return []string{}
	}
	var goals []string
	if err := json.Unmarshal(g.Goals, &goals); err != nil {
		return []string{}
	}
	return goals
}

// NewOnboardingGoals encodes goals into the JSON column
func NewOnboardingGoals(profileID string, goals []string) (*OnboardingGoals, error) {
	if goals == nil {
		goals = []string{}
	}
	raw, err := json.Marshal(goals)
	if err != nil {
		return nil, err
	}
	return &OnboardingGoals{ProfileID: profileID, Goals: datatypes.JSON(raw)}, nil
}
