package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// RunStatus represents lifecycle phases for persisted scheduling runs.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// RunConfig is the per-run configuration supplied by the caller.
// King days come from the rotation set {1, 2, 5}; the member of that set not
// claimed by either king day becomes the spillover day.
type RunConfig struct {
	MinHours            float64 `json:"min_hours" validate:"gt=0"`
	ConstructionKingDay int     `json:"construction_king_day" validate:"oneof=1 2 5"`
	ResearchKingDay     int     `json:"research_king_day" validate:"oneof=1 2 5"`
}

// SpilloverDay returns the lowest rotation day not used by a king pass.
func (c RunConfig) SpilloverDay() int {
	for _, day := range [3]int{1, 2, 5} {
		if day != c.ConstructionKingDay && day != c.ResearchKingDay {
			return day
		}
	}
	return 5
}

// Diagnostic reports one skipped input record with a positional reference.
type Diagnostic struct {
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Diagnostic codes for the roster input taxonomy.
const (
	DiagShape = "INPUT_SHAPE"
	DiagValue = "VALUE_FORMAT"
)

// ScheduleRun is the persisted, versioned record of one completed run.
type ScheduleRun struct {
	ID        string         `db:"id" json:"id"`
	Version   int            `db:"version" json:"version"`
	Status    RunStatus      `db:"status" json:"status"`
	Config    types.JSONText `db:"config" json:"config"`
	Snapshot  types.JSONText `db:"snapshot" json:"snapshot"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// RunSnapshot is the complete, re-loadable description of a completed run:
// candidates before and after bonus-pool allocation, every appointment and
// waiting entry, the filtered-out set and the echoed configuration.
type RunSnapshot struct {
	Config        RunConfig      `json:"config"`
	SpilloverDay  int            `json:"spillover_day"`
	RawCandidates []Candidate    `json:"raw_candidates"`
	Candidates    []Candidate    `json:"candidates"`
	Appointments  []Appointment  `json:"appointments"`
	Waiting       []WaitingEntry `json:"waiting"`
	FilteredOut   []Candidate    `json:"filtered_out"`
	Diagnostics   []Diagnostic   `json:"diagnostics,omitempty"`
	StartedAt     time.Time      `json:"started_at"`
	FinishedAt    time.Time      `json:"finished_at"`
}

// AppointmentsFor returns the ordered appointment list for one (day, role)
// pair, sorted by slot start ascending.
func (s *RunSnapshot) AppointmentsFor(day int, role Role) []Appointment {
	var out []Appointment
	for _, appt := range s.Appointments {
		if appt.Day == day && appt.Role == role {
			out = append(out, appt)
		}
	}
	return out
}

// WaitingFor returns the waiting entries recorded for one day.
func (s *RunSnapshot) WaitingFor(day int) []WaitingEntry {
	var out []WaitingEntry
	for _, entry := range s.Waiting {
		if entry.Day == day {
			out = append(out, entry)
		}
	}
	return out
}
