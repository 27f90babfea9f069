// Package streaks derives streak, consistency and contribution views from
// the raw daily activity ledger. Every function is a pure function of the
// record snapshot and an explicit "now": no clock reads, no I/O, no state,
// so repeated calls with the same inputs always agree. Callers pass
// time.Now().UTC().
package streaks

import (
	"math"
	"sort"
	"time"

	"github.com/dferrante/anchorline/internal/core/dateutil"
	"github.com/dferrante/anchorline/internal/core/domain"
)

const (
	// DefaultConsistencyDays is the trailing window for the consistency rate.
	DefaultConsistencyDays = 7

	// DefaultContributionWeeks is the heat-map span.
	DefaultContributionWeeks = 12

	// OnFireThreshold is the consistency percentage at which the flame shows.
	OnFireThreshold = 80
)

// indexByDay builds the day-keyed lookup the builders use, keeping the scans
// O(days + records). The caller guarantees at most one record per day; if
// that invariant is violated upstream, the first occurrence wins.
func indexByDay(records []*domain.DailyRecord) map[string]*domain.DailyRecord {
	byDay := make(map[string]*domain.DailyRecord, len(records))
	for _, r := range records {
		key := dateutil.DayKey(r.Date)
		if _, seen := byDay[key]; !seen {
			byDay[key] = r
		}
	}
	return byDay
}

// uniqueRecordsDesc returns one record per day, newest day first.
func uniqueRecordsDesc(records []*domain.DailyRecord) []*domain.DailyRecord {
	byDay := indexByDay(records)

	unique := make([]*domain.DailyRecord, 0, len(byDay))
	for _, r := range byDay {
		unique = append(unique, r)
	}

	sort.Slice(unique, func(i, j int) bool {
		return dateutil.ToUTCMidnight(unique[i].Date).After(dateutil.ToUTCMidnight(unique[j].Date))
	})

	return unique
}

// CurrentStreak walks backward from today counting consecutive days with at
// least one completion. Two tolerances apply:
//   - today with zero completions (whether the row is missing or an explicit
//     zero) does not break the streak; the scan just moves on to yesterday,
//   - a single day with no row at all is skipped once per gap.
//
// An explicit zero row on any past day ends the streak. The asymmetry
// between an explicit zero and a missing row is intentional and locked in by
// tests.
func CurrentStreak(records []*domain.DailyRecord, now time.Time) int {
	if len(records) == 0 {
		return 0
	}

	today := dateutil.ToUTCMidnight(now)

	streak := 0
	expected := today

	for _, r := range uniqueRecordsDesc(records) {
		day := dateutil.ToUTCMidnight(r.Date)

		if r.TasksCompleted == 0 {
			if day.Equal(today) {
				expected = dateutil.AddDaysUTC(today, -1)
				continue
			}
			break
		}

		switch {
		case day.Equal(expected):
			streak++
			expected = dateutil.AddDaysUTC(expected, -1)
		case day.Equal(dateutil.AddDaysUTC(expected, -1)):
			// No row existed for expected at all: one untracked day is
			// tolerated, then the walk continues from this record.
			expected = day
			streak++
			expected = dateutil.AddDaysUTC(expected, -1)
		default:
			return streak
		}
	}

	return streak
}

// ConsistencyRate returns the percentage (0-100, rounded half up) of the
// trailing `days` calendar days ending today that had at least one
// completion. Days without a row count as misses, not errors.
func ConsistencyRate(records []*domain.DailyRecord, days int, now time.Time) int {
	if len(records) == 0 || days <= 0 {
		return 0
	}

	today := dateutil.ToUTCMidnight(now)
	start := dateutil.AddDaysUTC(today, -(days - 1))
	byDay := indexByDay(records)

	completed := 0
	for i := 0; i < days; i++ {
		day := dateutil.AddDaysUTC(start, i)
		if r, ok := byDay[dateutil.DayKey(day)]; ok && r.TasksCompleted > 0 {
			completed++
		}
	}

	return int(math.Round(float64(completed) / float64(days) * 100))
}

// IsOnFire reports whether the consistency rate clears the fixed threshold.
// No hysteresis: recomputed fresh on every call.
func IsOnFire(consistencyRate int) bool {
	return consistencyRate >= OnFireThreshold
}

// WeeklyProgress returns exactly seven entries for Monday through Sunday of
// the current UTC week. Days without a row come back with zero counts.
func WeeklyProgress(records []*domain.DailyRecord, now time.Time) []domain.WeeklyDayStatus {
	today := dateutil.ToUTCMidnight(now)
	weekStart := dateutil.StartOfWeekUTC(today)
	byDay := indexByDay(records)

	week := make([]domain.WeeklyDayStatus, 0, 7)
	for i := 0; i < 7; i++ {
		day := dateutil.AddDaysUTC(weekStart, i)

		count := 0
		if r, ok := byDay[dateutil.DayKey(day)]; ok {
			count = r.TasksCompleted
		}

		week = append(week, domain.WeeklyDayStatus{
			Date:       day,
			Completed:  count > 0,
			IsToday:    day.Equal(today),
			TasksCount: count,
		})
	}

	return week
}

// ContributionData returns weeks*7 heat-map entries spanning the trailing
// window through today, oldest first. The level quantizes the day's own
// completed/total ratio into buckets 1-4; a day with no completions, no row,
// or a zero total stays at level 0.
func ContributionData(records []*domain.DailyRecord, weeks int, now time.Time) []domain.ContributionDay {
	today := dateutil.ToUTCMidnight(now)
	totalDays := weeks * 7
	start := dateutil.AddDaysUTC(today, -(totalDays - 1))
	byDay := indexByDay(records)

	data := make([]domain.ContributionDay, 0, totalDays)
	for i := 0; i < totalDays; i++ {
		day := dateutil.AddDaysUTC(start, i)

		count, total := 0, 0
		if r, ok := byDay[dateutil.DayKey(day)]; ok {
			count = r.TasksCompleted
			total = r.TotalTasks
		}

		data = append(data, domain.ContributionDay{
			Date:  day,
			Count: count,
			Level: contributionLevel(count, total),
		})
	}

	return data
}

func contributionLevel(completed, total int) int {
	if completed <= 0 || total <= 0 {
		return 0
	}

	ratio := float64(completed) / float64(total)
	switch {
	case ratio <= 0.25:
		return 1
	case ratio <= 0.50:
		return 2
	case ratio <= 0.75:
		return 3
	default:
		return 4
	}
}

// BuildSummary composes the full derived bundle from one ledger snapshot.
// Pure composition; the only logic of its own is the weekly completed tally.
func BuildSummary(records []*domain.DailyRecord, weeks int, now time.Time) *domain.StreakSummary {
	if weeks <= 0 {
		weeks = DefaultContributionWeeks
	}
	rate := ConsistencyRate(records, DefaultConsistencyDays, now)
	weekly := WeeklyProgress(records, now)

	thisWeekCompleted := 0
	for _, day := range weekly {
		if day.Completed {
			thisWeekCompleted++
		}
	}

	return &domain.StreakSummary{
		CurrentStreak:     CurrentStreak(records, now),
		ConsistencyRate:   rate,
		IsOnFire:          IsOnFire(rate),
		WeeklyProgress:    weekly,
		ContributionData:  ContributionData(records, weeks, now),
		ThisWeekCompleted: thisWeekCompleted,
		ThisWeekTotal:     7,
	}
}
