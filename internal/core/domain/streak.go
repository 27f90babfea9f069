package domain

import "time"

// Derived streak view types. These are ephemeral: recomputed from the raw
// ledger on every read, never persisted. JSON field names are the API
// contract consumed by the web client.

type WeeklyDayStatus struct {
	Date       time.Time `json:"date"`
	Completed  bool      `json:"completed"`
	IsToday    bool      `json:"isToday"`
	TasksCount int       `json:"tasksCount"`
}

type ContributionDay struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
	Level int       `json:"level"` // 0-4 quantized intensity
}

type StreakSummary struct {
	CurrentStreak     int               `json:"currentStreak"`
	ConsistencyRate   int               `json:"consistencyRate"` // 0-100
	IsOnFire          bool              `json:"isOnFire"`
	WeeklyProgress    []WeeklyDayStatus `json:"weeklyProgress"`  // Monday..Sunday
	ContributionData  []ContributionDay `json:"contributionData"` // oldest..today
	ThisWeekCompleted int               `json:"thisWeekCompleted"`
	ThisWeekTotal     int               `json:"thisWeekTotal"`
}

// StreakTheme names a heat-map color palette. Themes are a client rendering
// preference; computed levels never depend on them.
type StreakTheme string

const (
	ThemeGitHub StreakTheme = "github"
	ThemeOcean  StreakTheme = "ocean"
	ThemeSunset StreakTheme = "sunset"
	ThemePurple StreakTheme = "purple"
)

type ThemeInfo struct {
	Color string `json:"color"`
	Name  string `json:"name"`
}

var StreakThemes = map[StreakTheme]ThemeInfo{
	ThemeGitHub: {Color: "#22c55e", Name: "GitHub Green"},
	ThemeOcean:  {Color: "#0ea5e9", Name: "Ocean Blue"},
	ThemeSunset: {Color: "#f97316", Name: "Sunset Orange"},
	ThemePurple: {Color: "#a855f7", Name: "Purple"},
}

func ValidStreakTheme(s string) bool {
	_, ok := StreakThemes[StreakTheme(s)]
	return ok
}
