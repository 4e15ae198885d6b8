package dto

import "time"

// TriggerRunRequest optionally overrides the configured run parameters.
// Zero values fall back to the server defaults.
type TriggerRunRequest struct {
	MinHours            float64 `json:"min_hours" validate:"gte=0,lte=24"`
	ConstructionKingDay int     `json:"construction_king_day" validate:"omitempty,oneof=1 2 5"`
	ResearchKingDay     int     `json:"research_king_day" validate:"omitempty,oneof=1 2 5"`
}

// RunSummary is the list-view projection of a schedule run.
type RunSummary struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
