package models

import (
	"fmt"
	"time"
)

// Identity uniquely names a roster member within one scheduling run.
// It is used directly as a map key; never concatenate the fields by hand.
type Identity struct {
	Alliance string `json:"alliance"`
	Name     string `json:"name"`
}

func (id Identity) String() string {
	return fmt.Sprintf("[%s] %s", id.Alliance, id.Name)
}

// Interval is a minute-of-day availability window. End never precedes Start
// once an interval reaches the scheduler: overnight ranges are split into two
// non-wrapping intervals during parsing.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (iv Interval) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", iv.Start/60, iv.Start%60, iv.End/60, iv.End%60)
}

// Candidate is the scheduling view of a roster member. Scores are the
// post-allocation values (general speedup pool already distributed); the
// scheduler treats candidates as read-only.
type Candidate struct {
	Identity
	Construction float64    `json:"construction"`
	Research     float64    `json:"research"`
	Training     float64    `json:"training"`
	TrueGold     float64    `json:"truegold"`
	Availability []Interval `json:"availability"`
}

// ResourceCategory names one of the three buff tracks a general speedup pool
// may be declared for.
type ResourceCategory string

const (
	CategoryConstruction ResourceCategory = "Construction"
	CategoryResearch     ResourceCategory = "Research"
	CategoryTraining     ResourceCategory = "Soldier Training"
)

// RosterMember is the persisted roster record, kept in its pre-allocation
// form so imports survive unchanged and scores are re-derived per run.
type RosterMember struct {
	ID           string    `db:"id" json:"id"`
	Alliance     string    `db:"alliance" json:"alliance"`
	Name         string    `db:"name" json:"name"`
	Speedup      float64   `db:"speedup" json:"speedup"`
	UsedFor      string    `db:"used_for" json:"used_for"`
	Construction float64   `db:"construction" json:"construction"`
	Research     float64   `db:"research" json:"research"`
	Training     float64   `db:"training" json:"training"`
	TrueGold     float64   `db:"truegold" json:"truegold"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	AllTimes     string    `db:"all_times" json:"all_times"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
