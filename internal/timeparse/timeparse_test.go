package timeparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
)

func TestNormalizeClockTimeForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9", "09:00"},
		{"09", "09:00"},
		{"9:30", "09:30"},
		{"9.30", "09:30"},
		{"9h30", "09:30"},
		{"930", "09:30"},
		{"0930", "09:30"},
		{"2130", "21:30"},
		{"9pm", "21:00"},
		{"9 pm", "21:00"},
		{"12am", "00:00"},
		{"12pm", "12:00"},
		{"24:00", "00:00"},
		{"24", "00:00"},
		{"  14:05  ", "14:05"},
	}
	for _, tc := range cases {
		got, ok := NormalizeClockTime(tc.in)
		require.True(t, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestNormalizeClockTimeClamps(t *testing.T) {
	got, ok := NormalizeClockTime("25:99")
	require.True(t, ok)
	assert.Equal(t, "23:59", got)
}

func TestNormalizeClockTimeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "whenever", "no:on", "12345"} {
		_, ok := NormalizeClockTime(in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestParseAvailabilityExplicitRange(t *testing.T) {
	got := ParseAvailability("09:00-17:00")
	assert.Equal(t, []models.Interval{{Start: 540, End: 1020}}, got)
}

func TestParseAvailabilityRangeWords(t *testing.T) {
	for _, in := range []string{"9 to 17", "9 until 17", "9 till 17", "from 9 through 17"} {
		got := ParseAvailability(in)
		assert.Equal(t, []models.Interval{{Start: 540, End: 1020}}, got, "input %q", in)
	}
}

func TestParseAvailabilityLoneTimeGetsOneHour(t *testing.T) {
	got := ParseAvailability("21:00")
	assert.Equal(t, []models.Interval{{Start: 1260, End: 1320}}, got)
}

func TestParseAvailabilityLoneTimeWrapsAtMidnight(t *testing.T) {
	// 23:30 + 60 wraps to 00:30: an overnight split.
	got := ParseAvailability("23:30")
	assert.Equal(t, []models.Interval{
		{Start: 1410, End: 1439},
		{Start: 0, End: 30},
	}, got)
}

func TestParseAvailabilityOvernightSplit(t *testing.T) {
	got := ParseAvailability("23:00-01:00")
	assert.Equal(t, []models.Interval{
		{Start: 1380, End: 1439},
		{Start: 0, End: 60},
	}, got)
}

func TestParseAvailabilityOvernightEndingMidnightDropsSecondHalf(t *testing.T) {
	got := ParseAvailability("22:00-00:00")
	assert.Equal(t, []models.Interval{{Start: 1320, End: 1439}}, got)
}

func TestParseAvailabilityDegenerateRangeDiscarded(t *testing.T) {
	assert.Empty(t, ParseAvailability("09:00-09:00"))
}

func TestParseAvailabilityMultipleSegments(t *testing.T) {
	got := ParseAvailability("9-12, 14:00 to 18:00 and 22-23")
	assert.Equal(t, []models.Interval{
		{Start: 540, End: 720},
		{Start: 840, End: 1080},
		{Start: 1320, End: 1380},
	}, got)
}

func TestParseAvailabilityNoiseWordsIgnored(t *testing.T) {
	got := ParseAvailability("free from 10 to 12")
	assert.Equal(t, []models.Interval{{Start: 600, End: 720}}, got)
}

func TestParseAvailabilityUnicodeDashes(t *testing.T) {
	got := ParseAvailability("10:00–12:00")
	assert.Equal(t, []models.Interval{{Start: 600, End: 720}}, got)
}

func TestParseAvailabilityEmptyInput(t *testing.T) {
	assert.Empty(t, ParseAvailability(""))
	assert.Empty(t, ParseAvailability("whenever works"))
}

func TestUnionIntervalsDedupesAndSorts(t *testing.T) {
	in := []models.Interval{
		{Start: 840, End: 1080},
		{Start: 540, End: 720},
		{Start: 840, End: 1080},
	}
	got := UnionIntervals(in)
	assert.Equal(t, []models.Interval{
		{Start: 540, End: 720},
		{Start: 840, End: 1080},
	}, got)
}

func TestUnionIntervalsKeepsOverlapsUnmerged(t *testing.T) {
	in := []models.Interval{
		{Start: 540, End: 720},
		{Start: 600, End: 780},
	}
	got := UnionIntervals(in)
	assert.Len(t, got, 2)
}

func TestUnionIntervalsStableForEqualStarts(t *testing.T) {
	in := []models.Interval{
		{Start: 540, End: 720},
		{Start: 540, End: 600},
	}
	got := UnionIntervals(in)
	assert.Equal(t, in, got)
}

func TestUnionIntervalsIdempotent(t *testing.T) {
	in := []models.Interval{
		{Start: 840, End: 1080},
		{Start: 540, End: 720},
	}
	once := UnionIntervals(in)
	twice := UnionIntervals(once)
	assert.Equal(t, once, twice)
}

func TestTotalAvailableMinutes(t *testing.T) {
	assert.Equal(t, 0, TotalAvailableMinutes(nil))
	assert.Equal(t, 480, TotalAvailableMinutes([]models.Interval{{Start: 540, End: 1020}}))
	// overlaps double-count
	assert.Equal(t, 360, TotalAvailableMinutes([]models.Interval{
		{Start: 540, End: 720},
		{Start: 600, End: 780},
	}))
	// wrap adds a full day to the negative span
	assert.Equal(t, 120, TotalAvailableMinutes([]models.Interval{{Start: 1380, End: 60}}))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "00:00", FormatMinutes(0))
	assert.Equal(t, "09:30", FormatMinutes(570))
	assert.Equal(t, "23:59", FormatMinutes(1439))
	assert.Equal(t, "00:00", FormatMinutes(1440))
}

func TestRenderIntervals(t *testing.T) {
	assert.Equal(t, "any time", RenderIntervals(nil))
	assert.Equal(t, "09:00-12:00, 14:00-18:00", RenderIntervals([]models.Interval{
		{Start: 540, End: 720},
		{Start: 840, End: 1080},
	}))
}
