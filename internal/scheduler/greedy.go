package scheduler

import (
	"sort"

	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
	"github.com/clansdown/KingShotMinisterScheduler/internal/timeparse"
)

// Assignment pairs one claimed slot with its current holder.
type Assignment struct {
	Slot      models.Slot
	Candidate *models.Candidate
}

// AssignFirstPass performs scarcity-first greedy allocation: candidates with
// the fewest availability minutes pick first, since they are least likely to
// fit anywhere if deferred. Ties keep input order. For each candidate the
// catalog is scanned in order for the first unclaimed slot the candidate is
// available for; candidates with no fitting slot stay pending. The occupied
// set tracks claimed slot starts for the (day, role) track this pass serves
// and is shared with any later pass on the same track.
func AssignFirstPass(candidates []*models.Candidate, slots []models.Slot, occupied map[int]bool) (assigned []Assignment, stillPending []*models.Candidate) {
	pending := make([]*models.Candidate, len(candidates))
	copy(pending, candidates)
	sort.SliceStable(pending, func(i, j int) bool {
		return timeparse.TotalAvailableMinutes(pending[i].Availability) <
			timeparse.TotalAvailableMinutes(pending[j].Availability)
	})

	for _, candidate := range pending {
		placed := false
		for _, slot := range slots {
			if occupied[slot.Start] {
				continue
			}
			if !IsAvailable(candidate, slot.Start, slot.End) {
				continue
			}
			occupied[slot.Start] = true
			assigned = append(assigned, Assignment{Slot: slot, Candidate: candidate})
			placed = true
			break
		}
		if !placed {
			stillPending = append(stillPending, candidate)
		}
	}
	return assigned, stillPending
}
