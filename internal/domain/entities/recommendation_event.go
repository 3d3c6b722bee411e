package entities

import "time"

// RecommendationEventType enumerates pipeline outcome events.
type RecommendationEventType string

const (
	// EventRecommendationCreated is published after a successful pipeline run
	EventRecommendationCreated RecommendationEventType = "recommendation.created"

	// EventRecommendationFallback is published when the pipeline degraded
	EventRecommendationFallback RecommendationEventType = "recommendation.fallback"
)

// RecommendationEvent is published on the event bus after every pipeline run.
type RecommendationEvent struct {
	ID              string                  `json:"id"`
	Type            RecommendationEventType `json:"type"`
	ResultID        string                  `json:"result_id"`
	GestationalWeek int                     `json:"gestational_week"`
	ItemCount       int                     `json:"item_count"`
	CreatedAt       time.Time               `json:"created_at"`
}
