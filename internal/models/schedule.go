package models

// Role distinguishes the two appointment tracks: ministers cover the
// construction/research buffs, advisors cover soldier training.
type Role string

const (
	RoleMinister Role = "MINISTER"
	RoleAdvisor  Role = "ADVISOR"
)

// Slot is one immutable catalog entry of the daily grid: a 30-minute window
// whose first 10 minutes form the core presence window.
type Slot struct {
	Start   int `json:"start"`
	End     int `json:"end"`
	CoreEnd int `json:"core_end"`
}

// Appointment assigns one candidate to one slot for one (day, role) pair.
// Value is the role-specific formatted score summary rendered downstream;
// its format is part of the contract, not cosmetic.
type Appointment struct {
	Day       int      `json:"day"`
	Role      Role     `json:"role"`
	SlotStart int      `json:"slot_start"`
	SlotEnd   int      `json:"slot_end"`
	Member    Identity `json:"member"`
	Value     string   `json:"value"`
	TrueGold  float64  `json:"truegold"`
}

// WaitingEntry is a lightweight snapshot of a candidate that a day pass
// failed to place. Entries for the same member are deduplicated per day
// before presentation.
type WaitingEntry struct {
	Day          int      `json:"day"`
	Member       Identity `json:"member"`
	Construction float64  `json:"construction"`
	Research     float64  `json:"research"`
	Training     float64  `json:"training"`
	TrueGold     float64  `json:"truegold"`
	Availability string   `json:"availability"`
}
