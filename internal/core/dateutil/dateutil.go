// Package dateutil provides the canonical "calendar day" representation used
// by the streak ledger and engine: every date is truncated to UTC midnight
// before comparison, so day equality is exact and independent of the server's
// local timezone.
package dateutil

import "time"

const dayKeyLayout = "2006-01-02"

// TodayUTC returns the current date truncated to UTC midnight.
func TodayUTC() time.Time {
	return ToUTCMidnight(time.Now())
}

// ToUTCMidnight truncates t to midnight of the same UTC calendar day.
func ToUTCMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDayUTC reports whether a and b fall on the same UTC calendar day.
func SameDayUTC(a, b time.Time) bool {
	return ToUTCMidnight(a).Equal(ToUTCMidnight(b))
}

// AddDaysUTC returns the UTC midnight n days away from t's UTC day. n may be
// negative.
func AddDaysUTC(t time.Time, n int) time.Time {
	return ToUTCMidnight(t).AddDate(0, 0, n)
}

// DayOfWeekUTC returns the ISO day index for t's UTC day: 0=Monday .. 6=Sunday.
func DayOfWeekUTC(t time.Time) int {
	wd := int(t.UTC().Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

// StartOfWeekUTC returns the Monday (UTC midnight) of the week containing t.
func StartOfWeekUTC(t time.Time) time.Time {
	d := ToUTCMidnight(t)
	return d.AddDate(0, 0, -DayOfWeekUTC(d))
}

// DayKey returns t's UTC day as a YYYY-MM-DD string, suitable as a map key.
func DayKey(t time.Time) string {
	return ToUTCMidnight(t).Format(dayKeyLayout)
}
