package scheduler

import (
	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
	"github.com/clansdown/KingShotMinisterScheduler/internal/timeparse"
)

// IsAvailable reports whether a candidate's declared availability intersects
// the slot [slotStart, slotEnd) sufficiently. A candidate with no declared
// intervals is available unconditionally. A candidate counts as present when
// the summed overlap across their intervals reaches the core-window width;
// brief presence is enough to make use of an appointment, full slot coverage
// is not required.
func IsAvailable(c *models.Candidate, slotStart, slotEnd int) bool {
	if len(c.Availability) == 0 {
		return true
	}

	windowStart := c.Availability[0].Start
	windowEnd := c.Availability[0].End
	for _, iv := range c.Availability[1:] {
		if iv.Start < windowStart {
			windowStart = iv.Start
		}
		if iv.End > windowEnd {
			windowEnd = iv.End
		}
	}

	slotEndAdj := slotEnd
	if slotEndAdj < slotStart {
		slotEndAdj += timeparse.MinutesPerDay
	}
	windowEndAdj := windowEnd
	if windowEndAdj < windowStart {
		windowEndAdj += timeparse.MinutesPerDay
	}
	if slotStart < windowStart || slotEndAdj > windowEndAdj {
		return false
	}

	// A slot crossing midnight is assumed covered once the overall-window
	// check passes. This is asymmetric with the overlap sum below and is a
	// deliberate simplification kept for behaviour parity.
	if slotEnd < slotStart {
		return true
	}

	overlap := 0
	for _, iv := range c.Availability {
		lo := iv.Start
		if slotStart > lo {
			lo = slotStart
		}
		hi := iv.End
		if slotEnd < hi {
			hi = slotEnd
		}
		if hi > lo {
			overlap += hi - lo
		}
	}
	return overlap >= CoreWidthMinutes
}
