package roster

import (
	"strings"

	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
	"github.com/clansdown/KingShotMinisterScheduler/internal/timeparse"
)

// BuildCandidates converts roster members into scheduling candidates,
// returning both the pre-allocation view and the post-allocation view the
// engine consumes. The general speedup pool splits evenly across the
// member's declared used-for categories; a member declaring no recognized
// category keeps the pool unallocated.
func BuildCandidates(members []models.RosterMember) (raw, allocated []models.Candidate) {
	raw = make([]models.Candidate, 0, len(members))
	allocated = make([]models.Candidate, 0, len(members))
	for _, m := range members {
		base := models.Candidate{
			Identity:     models.Identity{Alliance: m.Alliance, Name: m.Name},
			Construction: m.Construction,
			Research:     m.Research,
			Training:     m.Training,
			TrueGold:     m.TrueGold,
			Availability: AvailabilityIntervals(m),
		}
		raw = append(raw, base)
		allocated = append(allocated, allocateBonus(base, m.Speedup, m.UsedFor))
	}
	return raw, allocated
}

// AvailabilityIntervals resolves the member's declared time sources into the
// normalized interval set: the explicit start/end pair and the free-text
// all-times field are parsed independently and unioned.
func AvailabilityIntervals(m models.RosterMember) []models.Interval {
	var intervals []models.Interval
	if m.StartTime != "" && m.EndTime != "" {
		intervals = append(intervals, timeparse.ParseAvailability(m.StartTime+"-"+m.EndTime)...)
	}
	if m.AllTimes != "" {
		intervals = append(intervals, timeparse.ParseAvailability(m.AllTimes)...)
	}
	return timeparse.UnionIntervals(intervals)
}

func allocateBonus(c models.Candidate, pool float64, usedFor string) models.Candidate {
	if pool <= 0 {
		return c
	}
	var categories []models.ResourceCategory
	for _, part := range strings.Split(usedFor, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "construction":
			categories = append(categories, models.CategoryConstruction)
		case "research":
			categories = append(categories, models.CategoryResearch)
		case "soldier training", "training":
			categories = append(categories, models.CategoryTraining)
		}
	}
	if len(categories) == 0 {
		return c
	}
	share := pool / float64(len(categories))
	for _, cat := range categories {
		switch cat {
		case models.CategoryConstruction:
			c.Construction += share
		case models.CategoryResearch:
			c.Research += share
		case models.CategoryTraining:
			c.Training += share
		}
	}
	return c
}
