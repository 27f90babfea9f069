package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToUTCMidnight(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "Already midnight UTC",
			in:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "Afternoon UTC",
			in:   time.Date(2024, 3, 15, 16, 45, 12, 999, time.UTC),
			want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "Non-UTC zone truncates in the UTC calendar, not the local one",
			in:   time.Date(2024, 3, 15, 1, 30, 0, 0, time.FixedZone("UTC+5", 5*3600)),
			want: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToUTCMidnight(tt.in)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestSameDayUTC(t *testing.T) {
	morning := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)
	night := time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)
	nextDay := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDayUTC(morning, night))
	assert.False(t, SameDayUTC(night, nextDay))

	// 23:00 UTC-3 is already the next UTC day.
	late := time.Date(2024, 3, 15, 23, 0, 0, 0, time.FixedZone("UTC-3", -3*3600))
	assert.True(t, SameDayUTC(late, nextDay))
}

func TestAddDaysUTC(t *testing.T) {
	d := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), AddDaysUTC(d, 1))
	assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), AddDaysUTC(d, -7))

	// Month and year boundaries.
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		AddDaysUTC(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), 1))
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		AddDaysUTC(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), -1))
}

func TestDayOfWeekUTC(t *testing.T) {
	// 2024-03-11 is a Monday, 2024-03-17 a Sunday.
	monday := time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 3, 17, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DayOfWeekUTC(monday))
	assert.Equal(t, 6, DayOfWeekUTC(sunday))
	assert.Equal(t, 3, DayOfWeekUTC(time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)))
}

func TestStartOfWeekUTC(t *testing.T) {
	monday := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		got := StartOfWeekUTC(day)
		assert.True(t, got.Equal(monday), "day %v: start of week %v, want %v", day, got, monday)
	}

	// Sunday evening must not roll into the next week.
	sundayNight := time.Date(2024, 3, 17, 23, 59, 0, 0, time.UTC)
	assert.True(t, StartOfWeekUTC(sundayNight).Equal(monday))
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2024-03-15", DayKey(time.Date(2024, 3, 15, 22, 10, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-14", DayKey(time.Date(2024, 3, 15, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*3600))))
}
