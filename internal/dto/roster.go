package dto

// ImportRosterRequest carries a raw roster document for bulk import.
type ImportRosterRequest struct {
	Content string `json:"content" validate:"required"`
}

// ImportSummary reports the outcome of a roster import. Skipped lines are
// returned as diagnostics alongside the summary, never as a failure.
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// AddMemberRequest adds or replaces one roster member by explicit fields.
type AddMemberRequest struct {
	Alliance     string  `json:"alliance" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Speedup      float64 `json:"speedup" validate:"gte=0"`
	UsedFor      string  `json:"used_for"`
	Construction float64 `json:"construction" validate:"gte=0"`
	Research     float64 `json:"research" validate:"gte=0"`
	Training     float64 `json:"training" validate:"gte=0"`
	TrueGold     float64 `json:"truegold" validate:"gte=0"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	AllTimes     string  `json:"all_times"`
}
