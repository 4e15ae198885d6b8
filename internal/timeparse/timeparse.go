// Package timeparse normalizes free-text availability declarations into
// minute-of-day intervals. Roster time fields are typed by humans; the parser
// favours best-effort token extraction over strict rejection, so callers
// validate presence of required fields separately and treat unparseable
// tokens as contributing no constraint.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
)

const (
	// MinutesPerDay is the wrap modulus for overnight arithmetic.
	MinutesPerDay = 24 * 60
	// EndOfDay is the last representable minute, 23:59.
	EndOfDay = MinutesPerDay - 1
)

var (
	dashRunes   = strings.NewReplacer("–", "-", "—", "-")
	rangeWords  = regexp.MustCompile(`\b(?:to|till|until|through|thru)(?:\s+times?)?\b`)
	noiseWords  = regexp.MustCompile(`\b(?:at|from|between|start(?:ing)?|end(?:ing)?|hours?|avail(?:ability)?|free|can\s+play)\b`)
	separators  = regexp.MustCompile(`[,&/]|\bor\b|\band\b`)
	digitsOnly  = regexp.MustCompile(`^[0-9]+$`)
	meridiemSfx = regexp.MustCompile(`(?:\s*(am|pm))$`)
)

// NormalizeClockTime parses a single time token into "HH:MM". Accepted forms:
// hour-only ("9"), "H:MM", "H.MM", "HhMM", 4-digit military ("0930"), each
// with an optional am/pm suffix. Hours clamp to [0,23] and minutes to [0,59];
// hour 24 in any form means midnight. The second return is false when the
// token carries no recognizable time.
func NormalizeClockTime(text string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return "", false
	}

	meridiem := ""
	if m := meridiemSfx.FindStringSubmatch(s); m != nil {
		meridiem = m[1]
		s = strings.TrimSpace(s[:len(s)-len(m[0])])
	}
	if s == "" {
		return "", false
	}

	var hour, minute int
	if idx := strings.IndexAny(s, ":.h"); idx >= 0 {
		h, err := strconv.Atoi(s[:idx])
		if err != nil {
			return "", false
		}
		m, err := strconv.Atoi(s[idx+1:])
		if err != nil {
			return "", false
		}
		hour, minute = h, m
	} else {
		if !digitsOnly.MatchString(s) {
			return "", false
		}
		switch len(s) {
		case 1, 2:
			hour, _ = strconv.Atoi(s)
		case 3:
			hour, _ = strconv.Atoi(s[:1])
			minute, _ = strconv.Atoi(s[1:])
		case 4:
			hour, _ = strconv.Atoi(s[:2])
			minute, _ = strconv.Atoi(s[2:])
		default:
			return "", false
		}
	}

	if meridiem == "pm" && hour < 12 {
		hour += 12
	}
	if meridiem == "am" && hour == 12 {
		hour = 0
	}
	if hour == 24 {
		hour = 0
	}
	if hour < 0 {
		hour = 0
	}
	if hour > 23 {
		hour = 23
	}
	if minute < 0 {
		minute = 0
	}
	if minute > 59 {
		minute = 59
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// ClockMinutes parses a time token into minutes past midnight.
func ClockMinutes(text string) (int, bool) {
	clock, ok := NormalizeClockTime(text)
	if !ok {
		return 0, false
	}
	hour, _ := strconv.Atoi(clock[:2])
	minute, _ := strconv.Atoi(clock[3:])
	return hour*60 + minute, true
}

// FormatMinutes renders minutes past midnight as "HH:MM".
func FormatMinutes(min int) string {
	min = ((min % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

type token struct {
	dash    bool
	minutes int
}

// ParseAvailability extracts availability intervals from free text. Adjacent
// time tokens joined by a range delimiter form an explicit range; a lone time
// token forms an implicit one-hour range. A range that wraps past midnight is
// split into its two non-wrapping halves, except that a second half ending at
// exactly 00:00 would be zero-length and is dropped. A range whose start
// equals its end is discarded. The result preserves emission order; callers
// run UnionIntervals before handing intervals to the scheduler.
func ParseAvailability(text string) []models.Interval {
	cleaned := dashRunes.Replace(strings.ToLower(text))
	cleaned = rangeWords.ReplaceAllString(cleaned, " - ")
	cleaned = noiseWords.ReplaceAllString(cleaned, " ")

	var intervals []models.Interval
	for _, segment := range separators.Split(cleaned, -1) {
		intervals = append(intervals, parseSegment(segment)...)
	}
	return intervals
}

func parseSegment(segment string) []models.Interval {
	segment = strings.ReplaceAll(segment, "-", " - ")

	var tokens []token
	for _, field := range strings.Fields(segment) {
		if field == "-" {
			tokens = append(tokens, token{dash: true})
			continue
		}
		if minutes, ok := ClockMinutes(field); ok {
			tokens = append(tokens, token{minutes: minutes})
		}
		// unrecognized words contribute nothing
	}

	var intervals []models.Interval
	for i := 0; i < len(tokens); {
		if tokens[i].dash {
			i++
			continue
		}
		start := tokens[i].minutes
		if i+2 < len(tokens) && tokens[i+1].dash && !tokens[i+2].dash {
			intervals = append(intervals, splitRange(start, tokens[i+2].minutes)...)
			i += 3
			continue
		}
		intervals = append(intervals, splitRange(start, (start+60)%MinutesPerDay)...)
		i++
	}
	return intervals
}

// splitRange normalizes one raw (start, end) pair: degenerate ranges vanish,
// overnight ranges split at midnight.
func splitRange(start, end int) []models.Interval {
	if start == end {
		return nil
	}
	if end < start {
		head := models.Interval{Start: start, End: EndOfDay}
		if end == 0 {
			return []models.Interval{head}
		}
		return []models.Interval{head, {Start: 0, End: end}}
	}
	return []models.Interval{{Start: start, End: end}}
}

// UnionIntervals removes exact-duplicate intervals and sorts ascending by
// start. Overlapping or adjacent intervals are NOT merged: downstream overlap
// totals are meant to reflect stacked declarations, not deduplicated
// coverage.
func UnionIntervals(intervals []models.Interval) []models.Interval {
	seen := make(map[models.Interval]struct{}, len(intervals))
	out := make([]models.Interval, 0, len(intervals))
	for _, iv := range intervals {
		if _, dup := seen[iv]; dup {
			continue
		}
		seen[iv] = struct{}{}
		out = append(out, iv)
	}
	// insertion sort keeps equal starts in input order
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Start < out[j-1].Start; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// TotalAvailableMinutes sums interval lengths, treating end < start as a wrap
// past midnight. Overlapping intervals double-count; the result is a relative
// scarcity signal for sort ordering, not an exact availability measure.
func TotalAvailableMinutes(intervals []models.Interval) int {
	total := 0
	for _, iv := range intervals {
		length := iv.End - iv.Start
		if length < 0 {
			length += MinutesPerDay
		}
		total += length
	}
	return total
}

// RenderIntervals produces the human-readable availability string used on
// waiting entries, e.g. "09:00-12:30, 14:00-23:59".
func RenderIntervals(intervals []models.Interval) string {
	if len(intervals) == 0 {
		return "any time"
	}
	parts := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		parts = append(parts, iv.String())
	}
	return strings.Join(parts, ", ")
}
