package entities

import "time"

// RecommendationRun is one audit-log row describing a pipeline execution.
type RecommendationRun struct {
	ID              string    `json:"id" db:"id"`
	ResultID        string    `json:"result_id" db:"result_id"`
	GestationalWeek int       `json:"gestational_week" db:"gestational_week"`
	DocumentsUsed   int       `json:"documents_used" db:"documents_used"`
	ItemCount       int       `json:"item_count" db:"item_count"`
	Fallback        bool      `json:"fallback" db:"fallback"`
	LatencyMs       int64     `json:"latency_ms" db:"latency_ms"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
