package scheduler

import (
	"math"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
	"github.com/clansdown/KingShotMinisterScheduler/internal/timeparse"
)

type trackFlags struct {
	construction bool
	research     bool
	training     bool
}

type dayRole struct {
	day  int
	role models.Role
}

// RunState is the working state of one scheduling run, constructed fresh per
// invocation and threaded through every stage. Candidates are read-only once
// the run starts; all mutation is confined to the run's own collections.
type RunState struct {
	cfg    models.RunConfig
	logger *zap.Logger

	candidates []*models.Candidate
	byIdentity map[models.Identity]*models.Candidate
	flags      map[models.Identity]*trackFlags
	occupied   map[dayRole]map[int]bool

	appointments []models.Appointment
	waiting      map[int][]models.WaitingEntry
	filtered     []models.Candidate
}

// NewRunState builds run state from post-allocation candidates.
func NewRunState(cfg models.RunConfig, candidates []models.Candidate, logger *zap.Logger) *RunState {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RunState{
		cfg:        cfg,
		logger:     logger,
		byIdentity: make(map[models.Identity]*models.Candidate, len(candidates)),
		flags:      make(map[models.Identity]*trackFlags, len(candidates)),
		occupied:   make(map[dayRole]map[int]bool),
		waiting:    make(map[int][]models.WaitingEntry),
	}
	for i := range candidates {
		c := candidates[i]
		ptr := &c
		s.candidates = append(s.candidates, ptr)
		s.byIdentity[c.Identity] = ptr
		s.flags[c.Identity] = &trackFlags{}
	}
	return s
}

// Run executes every scheduling stage in order and returns the completed
// snapshot. Non-placement is never an error: every stage resolves an
// unplaceable candidate to a waiting entry.
func (s *RunState) Run() *models.RunSnapshot {
	started := time.Now().UTC()

	s.runConstructionDay()
	s.runResearchDay()
	s.runTrainingDay()
	s.runSpilloverDay()
	s.reconcile()

	return s.snapshot(started)
}

func (s *RunState) runConstructionDay() {
	var eligible []*models.Candidate
	for _, c := range s.candidates {
		if c.Construction >= s.cfg.MinHours && !s.flags[c.Identity].construction {
			eligible = append(eligible, c)
		}
	}
	s.logger.Debug("construction day pass",
		zap.Int("day", s.cfg.ConstructionKingDay),
		zap.Int("eligible", len(eligible)))
	s.runMinisterPass(s.cfg.ConstructionKingDay, eligible,
		func(c *models.Candidate) float64 { return c.Construction },
		func(f *trackFlags) { f.construction = true })
}

func (s *RunState) runResearchDay() {
	var eligible []*models.Candidate
	for _, c := range s.candidates {
		if c.Research >= s.cfg.MinHours && !s.flags[c.Identity].research {
			eligible = append(eligible, c)
		}
	}
	s.logger.Debug("research day pass",
		zap.Int("day", s.cfg.ResearchKingDay),
		zap.Int("eligible", len(eligible)))
	s.runMinisterPass(s.cfg.ResearchKingDay, eligible,
		func(c *models.Candidate) float64 { return c.Research },
		func(f *trackFlags) { f.research = true })
}

// runMinisterPass is the shared king-day pipeline: greedy by scarcity, then
// displacement keyed on the day's resource score, leftovers to the day's
// waiting list.
func (s *RunState) runMinisterPass(day int, eligible []*models.Candidate, eval Evaluator, mark func(*trackFlags)) {
	slots := GenerateDaySlots()
	assigned, pending := AssignFirstPass(eligible, slots, s.occupiedFor(day, models.RoleMinister))
	assigned, pending = PerformDisplacement(pending, assigned, eval)

	for _, a := range assigned {
		s.record(day, models.RoleMinister, a, ministerValue(a.Candidate))
		mark(s.flags[a.Candidate.Identity])
	}
	for _, c := range pending {
		s.addWaiting(day, c)
	}
}

// runTrainingDay schedules the fixed training day in two stages: the advisor
// track first, then a minister-overflow grid for everyone stage A could not
// place, still keyed on the soldier-training score.
func (s *RunState) runTrainingDay() {
	var eligible []*models.Candidate
	for _, c := range s.candidates {
		if c.Training >= s.cfg.MinHours && !s.flags[c.Identity].training {
			eligible = append(eligible, c)
		}
	}
	eval := func(c *models.Candidate) float64 { return c.Training }
	s.logger.Debug("training day pass", zap.Int("day", TrainingDay), zap.Int("eligible", len(eligible)))

	assignedA, pendingA := AssignFirstPass(eligible, GenerateDaySlots(), s.occupiedFor(TrainingDay, models.RoleAdvisor))
	assignedA, pendingA = PerformDisplacement(pendingA, assignedA, eval)
	for _, a := range assignedA {
		s.record(TrainingDay, models.RoleAdvisor, a, formatScore(a.Candidate.Training))
		s.flags[a.Candidate.Identity].training = true
	}

	assignedB, pendingB := AssignFirstPass(pendingA, GenerateDaySlots(), s.occupiedFor(TrainingDay, models.RoleMinister))
	assignedB, pendingB = PerformDisplacement(pendingB, assignedB, eval)
	for _, a := range assignedB {
		s.record(TrainingDay, models.RoleMinister, a, overflowValue(a.Candidate))
		s.flags[a.Candidate.Identity].training = true
	}

	for _, c := range pendingB {
		s.addWaiting(TrainingDay, c)
	}
}

// runSpilloverDay consolidates the per-day waiting lists: aggregation order
// is construction, research, training, deduplicated by identity keeping the
// first occurrence, then simple first-fit against the spillover minister
// grid. No displacement runs in this stage.
func (s *RunState) runSpilloverDay() {
	var aggregated []*models.Candidate
	seen := make(map[models.Identity]bool)
	seenDays := make(map[int]bool)
	for _, source := range []int{s.cfg.ConstructionKingDay, s.cfg.ResearchKingDay, TrainingDay} {
		if seenDays[source] {
			continue
		}
		seenDays[source] = true
		for _, entry := range s.waiting[source] {
			if seen[entry.Member] {
				continue
			}
			seen[entry.Member] = true
			if c, ok := s.byIdentity[entry.Member]; ok {
				aggregated = append(aggregated, c)
			}
		}
	}
	s.logger.Debug("spillover day pass",
		zap.Int("day", s.cfg.SpilloverDay()),
		zap.Int("aggregated", len(aggregated)))
	s.placeSpillover(aggregated)
}

// placeSpillover attempts first-fit placement of the given candidates in
// order. A candidate already holding both the construction and research
// assignments is not attempted; a successful placement marks both flags.
func (s *RunState) placeSpillover(list []*models.Candidate) {
	day := s.cfg.SpilloverDay()
	slots := GenerateDaySlots()
	occupied := s.occupiedFor(day, models.RoleMinister)

	for _, c := range list {
		flags := s.flags[c.Identity]
		if flags.construction && flags.research {
			continue
		}
		placed := false
		for _, slot := range slots {
			if occupied[slot.Start] {
				continue
			}
			if !IsAvailable(c, slot.Start, slot.End) {
				continue
			}
			occupied[slot.Start] = true
			s.record(day, models.RoleMinister, Assignment{Slot: slot, Candidate: c}, ministerValue(c))
			flags.construction = true
			flags.research = true
			placed = true
			break
		}
		if !placed {
			s.addWaiting(day, c)
		}
	}
}

// reconcile enforces the coverage invariant: every candidate ends the run
// assigned, waiting, or filtered out. An eligible candidate found in none of
// those sets is a defect in an earlier stage; it is logged and recovered by
// re-running the waiting-list and spillover logic, never surfaced as a
// failure.
func (s *RunState) reconcile() {
	accounted := make(map[models.Identity]bool)
	for _, a := range s.appointments {
		accounted[a.Member] = true
	}
	for _, entries := range s.waiting {
		for _, e := range entries {
			accounted[e.Member] = true
		}
	}

	var retry []*models.Candidate
	for _, c := range s.candidates {
		ministerOK := c.Construction+c.Research >= s.cfg.MinHours
		advisorOK := c.Training >= s.cfg.MinHours
		if !ministerOK && !advisorOK {
			s.filtered = append(s.filtered, *c)
			continue
		}
		if accounted[c.Identity] {
			continue
		}

		s.logger.Warn("candidate untracked after all stages",
			zap.String("member", c.Identity.String()))

		tracked := false
		if c.Construction >= s.cfg.MinHours {
			s.addWaiting(s.cfg.ConstructionKingDay, c)
			tracked = true
		}
		if c.Research >= s.cfg.MinHours {
			s.addWaiting(s.cfg.ResearchKingDay, c)
			tracked = true
		}
		if advisorOK {
			s.addWaiting(TrainingDay, c)
			tracked = true
		}
		if ministerOK {
			retry = append(retry, c)
			tracked = true
		}
		if !tracked {
			s.filtered = append(s.filtered, *c)
		}
	}

	if len(retry) > 0 {
		s.placeSpillover(retry)
	}
}

func (s *RunState) snapshot(started time.Time) *models.RunSnapshot {
	roleOrder := map[models.Role]int{models.RoleMinister: 0, models.RoleAdvisor: 1}
	sort.SliceStable(s.appointments, func(i, j int) bool {
		a, b := s.appointments[i], s.appointments[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.Role != b.Role {
			return roleOrder[a.Role] < roleOrder[b.Role]
		}
		return a.SlotStart < b.SlotStart
	})

	var waiting []models.WaitingEntry
	var days []int
	for day := range s.waiting {
		days = append(days, day)
	}
	sort.Ints(days)
	for _, day := range days {
		waiting = append(waiting, s.waiting[day]...)
	}

	candidates := make([]models.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		candidates = append(candidates, *c)
	}

	return &models.RunSnapshot{
		Config:       s.cfg,
		SpilloverDay: s.cfg.SpilloverDay(),
		Candidates:   candidates,
		Appointments: s.appointments,
		Waiting:      waiting,
		FilteredOut:  s.filtered,
		StartedAt:    started,
		FinishedAt:   time.Now().UTC(),
	}
}

func (s *RunState) record(day int, role models.Role, a Assignment, value string) {
	s.appointments = append(s.appointments, models.Appointment{
		Day:       day,
		Role:      role,
		SlotStart: a.Slot.Start,
		SlotEnd:   a.Slot.End,
		Member:    a.Candidate.Identity,
		Value:     value,
		TrueGold:  a.Candidate.TrueGold,
	})
}

// addWaiting appends a waiting entry unless the member already waits on that
// day; waiting lists are deduplicated by identity per day.
func (s *RunState) addWaiting(day int, c *models.Candidate) {
	for _, e := range s.waiting[day] {
		if e.Member == c.Identity {
			return
		}
	}
	s.waiting[day] = append(s.waiting[day], models.WaitingEntry{
		Day:          day,
		Member:       c.Identity,
		Construction: math.Round(c.Construction),
		Research:     math.Round(c.Research),
		Training:     math.Round(c.Training),
		TrueGold:     c.TrueGold,
		Availability: timeparse.RenderIntervals(c.Availability),
	})
}

func (s *RunState) occupiedFor(day int, role models.Role) map[int]bool {
	key := dayRole{day: day, role: role}
	if s.occupied[key] == nil {
		s.occupied[key] = make(map[int]bool)
	}
	return s.occupied[key]
}

func formatScore(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', -1, 64)
}

// ministerValue renders the "<construction> / <research>" composite shown for
// minister appointments; downstream rendering depends on this exact shape.
func ministerValue(c *models.Candidate) string {
	return formatScore(c.Construction) + " / " + formatScore(c.Research)
}

// overflowValue is the three-part composite used for training-day minister
// overflow appointments.
func overflowValue(c *models.Candidate) string {
	return formatScore(c.Construction) + " / " + formatScore(c.Research) + " / " + formatScore(c.Training)
}
