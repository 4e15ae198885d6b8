// Package scheduler implements the buff-appointment allocation engine: the
// daily slot grid, the availability resolver, the greedy and displacement
// passes, and the multi-day orchestration over an explicit RunState.
package scheduler

import (
	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
	"github.com/clansdown/KingShotMinisterScheduler/internal/timeparse"
)

// Scheduling policy constants. The cadence and core width are fixed policy,
// not per-run configuration.
const (
	SlotWidthMinutes = 30
	CoreWidthMinutes = 10
	SlotsPerDay      = 24 * 60 / SlotWidthMinutes

	// TrainingDay is the fixed rotation day hosting the advisor stage and
	// the minister overflow stage.
	TrainingDay = 4
)

// GenerateDaySlots produces the fixed catalog of 48 assignable slots covering
// a 24-hour day at a 30-minute cadence. Each call returns a fresh array; slot
// catalogs are never shared between scheduling stages.
func GenerateDaySlots() []models.Slot {
	slots := make([]models.Slot, 0, SlotsPerDay)
	for i := 0; i < SlotsPerDay; i++ {
		start := i * SlotWidthMinutes
		slots = append(slots, models.Slot{
			Start:   start,
			End:     (start + SlotWidthMinutes) % timeparse.MinutesPerDay,
			CoreEnd: (start + CoreWidthMinutes) % timeparse.MinutesPerDay,
		})
	}
	return slots
}
