package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidWeeklyGoal = errors.New("weekly goal must be between 1 and 7")
	ErrInvalidTheme      = errors.New("unknown streak theme")
)

const DefaultWeeklyGoal = 5

type UserSettings struct {
	UserID                 string    `json:"userId" db:"user_id"`
	WeeklyGoal             int       `json:"weeklyGoal" db:"weekly_goal"`
	Theme                  string    `json:"theme" db:"theme"`
	NotificationsEnabled   bool      `json:"notificationsEnabled" db:"notifications_enabled"`
	Timezone               string    `json:"timezone" db:"timezone"`
	HasCompletedOnboarding bool      `json:"hasCompletedOnboarding" db:"has_completed_onboarding"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt              time.Time `json:"updatedAt" db:"updated_at"`
}

func NewUserSettings(userID string) *UserSettings {
	now := time.Now().UTC()
	return &UserSettings{
		UserID:               userID,
		WeeklyGoal:           DefaultWeeklyGoal,
		Theme:                string(ThemeGitHub),
		NotificationsEnabled: true,
		Timezone:             "UTC",
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func (s *UserSettings) Validate() error {
	if s.WeeklyGoal < 1 || s.WeeklyGoal > 7 {
		return ErrInvalidWeeklyGoal
	}
	if !ValidStreakTheme(s.Theme) {
		return ErrInvalidTheme
	}
	return nil
}
