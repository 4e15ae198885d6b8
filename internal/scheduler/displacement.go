package scheduler

import (
	"sort"

	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
)

// Evaluator scores a candidate for one role track, e.g. the construction
// score on the construction king day.
type Evaluator func(*models.Candidate) float64

// PerformDisplacement iteratively improves a greedy result: the
// highest-value pending candidate displaces the lowest-value incumbent whose
// slot the candidate could also fill, provided the challenger's value
// strictly exceeds the incumbent's. Each swap returns the incumbent to the
// pending set and restarts the scan, so the pass is a chain of single
// best-available swaps until stable. Ties never swap, which guarantees
// termination: every swap strictly raises the minimum value held by the
// assigned set.
func PerformDisplacement(pending []*models.Candidate, assigned []Assignment, eval Evaluator) ([]Assignment, []*models.Candidate) {
	pend := make([]*models.Candidate, len(pending))
	copy(pend, pending)
	assign := make([]Assignment, len(assigned))
	copy(assign, assigned)

	for {
		sort.SliceStable(pend, func(i, j int) bool {
			return eval(pend[i]) > eval(pend[j])
		})

		swapped := false
		for _, challenger := range pend {
			target := -1
			for idx, incumbent := range assign {
				if !IsAvailable(challenger, incumbent.Slot.Start, incumbent.Slot.End) {
					continue
				}
				if target == -1 || eval(incumbent.Candidate) < eval(assign[target].Candidate) {
					target = idx
				}
			}
			if target == -1 {
				continue
			}
			if eval(challenger) <= eval(assign[target].Candidate) {
				continue
			}

			displaced := assign[target].Candidate
			assign[target].Candidate = challenger
			pend = removeCandidate(pend, challenger)
			pend = append(pend, displaced)
			swapped = true
			break
		}
		if !swapped {
			return assign, pend
		}
	}
}

func removeCandidate(list []*models.Candidate, target *models.Candidate) []*models.Candidate {
	for i, c := range list {
		if c == target {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
