package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
	"github.com/bloomwell/maternity-ai/backend/internal/infrastructure/observability"
)

// Recommender runs the recommendation pipeline for one profile.
type Recommender interface {
	Recommend(ctx context.Context, profile, healthStatus map[string]any) *entities.RecommendationResult
}

// RecommendHandler handles the upstream server's recommendation requests.
type RecommendHandler struct {
	service Recommender
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(service Recommender) *RecommendHandler {
	return &RecommendHandler{service: service}
}

// Status handles GET /
func (h *RecommendHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "AI recommendation server is running",
	})
}

// Recommend handles POST /ai/recommend.
//
// Only request-shape validation surfaces as a non-200 response. Everything
// after validation responds HTTP 200: degraded pipeline runs return the
// fallback result and a panic returns an error-tagged result, so the caller
// always inspects the body.
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body == nil {
		respondWithValidationErrors(w, []fieldError{
			{Field: "body", Message: "request body must be a JSON object"},
		})
		return
	}

	profile, healthStatus, errs := validateRecommendRequest(body)
	if len(errs) > 0 {
		respondWithValidationErrors(w, errs)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger := observability.LoggerFromContext(r.Context())
			logger.Error().Interface("panic", rec).Msg("recommendation pipeline panicked")
			respondWithJSON(w, http.StatusOK, errorResult())
		}
	}()

	result := h.service.Recommend(r.Context(), profile, healthStatus)
	respondWithJSON(w, http.StatusOK, result)
}

// validateRecommendRequest checks the request shape and splits it into the
// profile and health-status maps the pipeline consumes. The dueDate field is
// normalized in place; an unparseable date becomes null rather than an error.
func validateRecommendRequest(body map[string]any) (map[string]any, map[string]any, []fieldError) {
	var errs []fieldError

	info := body
	if raw, ok := body["pregnancyInfo"]; ok {
		nested, ok := raw.(map[string]any)
		if !ok {
			errs = append(errs, fieldError{Field: "pregnancyInfo", Message: "must be an object"})
		} else {
			info = nested
		}
	}

	var healthStatus map[string]any
	if raw, ok := body["healthStatus"]; ok && raw != nil {
		nested, ok := raw.(map[string]any)
		if !ok {
			errs = append(errs, fieldError{Field: "healthStatus", Message: "must be an object"})
		} else {
			healthStatus = nested
		}
	}

	errs = append(errs, validateCount(info, "gestationalWeek", "gestational_week")...)
	errs = append(errs, validateCount(info, "miscarriageHistory", "miscarriage_history")...)

	if raw, ok := firstPresent(info, "isMultiplePregnancy", "is_multiple_pregnancy"); ok && raw != nil {
		if _, ok := raw.(bool); !ok {
			errs = append(errs, fieldError{Field: "isMultiplePregnancy", Message: "must be a boolean"})
		}
	}

	if healthStatus != nil {
		if raw, ok := firstPresent(healthStatus, "pregnancyComplications", "pregnancy_complications"); ok && raw != nil {
			if _, ok := raw.([]any); !ok {
				errs = append(errs, fieldError{Field: "pregnancyComplications", Message: "must be a list"})
			}
		}
	}

	if raw, ok := firstPresent(info, "dueDate", "due_date"); ok {
		info["dueDate"] = normalizeDueDate(raw)
	}

	return body, healthStatus, errs
}

func validateCount(m map[string]any, keys ...string) []fieldError {
	raw, ok := firstPresent(m, keys...)
	if !ok || raw == nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		if v < 0 {
			return []fieldError{{Field: keys[0], Message: "must not be negative"}}
		}
	case string:
		// The analyzer tolerates numeric strings; anything else is a shape error.
		if strings.TrimSpace(v) == "" {
			return []fieldError{{Field: keys[0], Message: "must be a number"}}
		}
		for _, r := range v {
			if r < '0' || r > '9' {
				return []fieldError{{Field: keys[0], Message: "must be a number"}}
			}
		}
	default:
		return []fieldError{{Field: keys[0], Message: "must be a number"}}
	}

	return nil
}

func firstPresent(m map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if value, ok := m[key]; ok {
			return value, true
		}
	}
	return nil, false
}

// normalizeDueDate accepts an ISO date string, a [year, month, day] array, or
// a YYYYMMDD integer. Anything unparseable yields nil.
func normalizeDueDate(raw any) any {
	switch v := raw.(type) {
	case string:
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed.Format("2006-01-02")
			}
		}
	case []any:
		if len(v) == 3 {
			year, okY := numberValue(v[0])
			month, okM := numberValue(v[1])
			day, okD := numberValue(v[2])
			if okY && okM && okD {
				return formatDate(year, month, day)
			}
		}
	case float64:
		encoded := int(v)
		if encoded >= 10000101 && encoded <= 99991231 {
			return formatDate(encoded/10000, (encoded/100)%100, encoded%100)
		}
	}
	return nil
}

func numberValue(raw any) (int, bool) {
	v, ok := raw.(float64)
	if !ok {
		return 0, false
	}
	return int(v), true
}

func formatDate(year, month, day int) any {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// errorResult is the body returned when the pipeline panics: an error-tagged
// identifier, zero items, HTTP 200.
func errorResult() *entities.RecommendationResult {
	return &entities.RecommendationResult{
		ResultID:     "error-" + uuid.New().String()[:8],
		ExpiresInSec: entities.ResultExpirySeconds,
		Items:        []entities.RecommendationItem{},
		Metadata: entities.ResultMetadata{
			Fallback: true,
		},
	}
}
