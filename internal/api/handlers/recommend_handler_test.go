package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
)

type stubRecommender struct {
	result *entities.RecommendationResult
	panics bool
}

func (s *stubRecommender) Recommend(ctx context.Context, profile, healthStatus map[string]any) *entities.RecommendationResult {
	if s.panics {
		panic("boom")
	}
	return s.result
}

func fallbackResult() *entities.RecommendationResult {
	return &entities.RecommendationResult{
		ResultID:     entities.FallbackResultID,
		ExpiresInSec: entities.ResultExpirySeconds,
		Items:        []entities.RecommendationItem{},
		Metadata:     entities.ResultMetadata{Fallback: true},
	}
}

func postRecommend(t *testing.T, handler *RecommendHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ai/recommend", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Recommend(rec, req)
	return rec
}

func TestStatus(t *testing.T) {
	handler := NewRecommendHandler(&stubRecommender{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.Status(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "AI recommendation server is running")
}

func TestRecommend_MalformedBodyReturns422(t *testing.T) {
	handler := NewRecommendHandler(&stubRecommender{result: fallbackResult()})

	rec := postRecommend(t, handler, "{not json")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string][]fieldError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["errors"])
}

func TestRecommend_NegativeWeekReturns422(t *testing.T) {
	handler := NewRecommendHandler(&stubRecommender{result: fallbackResult()})

	rec := postRecommend(t, handler, `{"pregnancyInfo": {"gestationalWeek": -3}}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "gestationalWeek")
}

func TestRecommend_WrongTypesReturn422(t *testing.T) {
	handler := NewRecommendHandler(&stubRecommender{result: fallbackResult()})

	cases := map[string]string{
		"bool week":          `{"pregnancyInfo": {"gestationalWeek": true}}`,
		"string flag":        `{"pregnancyInfo": {"isMultiplePregnancy": "yes"}}`,
		"object info":        `{"pregnancyInfo": "not an object"}`,
		"scalar complications": `{"healthStatus": {"pregnancyComplications": "PREECLAMPSIA"}}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := postRecommend(t, handler, body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestRecommend_FallbackBodyIs200(t *testing.T) {
	handler := NewRecommendHandler(&stubRecommender{result: fallbackResult()})

	rec := postRecommend(t, handler, `{"pregnancyInfo": {"gestationalWeek": 24}}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var result entities.RecommendationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, entities.FallbackResultID, result.ResultID)
	assert.Empty(t, result.Items)
}

func TestRecommend_PanicStillReturns200(t *testing.T) {
	handler := NewRecommendHandler(&stubRecommender{panics: true})

	rec := postRecommend(t, handler, `{"pregnancyInfo": {"gestationalWeek": 24}}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var result entities.RecommendationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, strings.HasPrefix(result.ResultID, "error-"))
	assert.Empty(t, result.Items)
}

func TestNormalizeDueDate(t *testing.T) {
	assert.Equal(t, "2026-03-15", normalizeDueDate("2026-03-15"))
	assert.Equal(t, "2026-03-15", normalizeDueDate([]any{float64(2026), float64(3), float64(15)}))
	assert.Equal(t, "2026-03-15", normalizeDueDate(float64(20260315)))
	assert.Nil(t, normalizeDueDate("언젠가"))
	assert.Nil(t, normalizeDueDate([]any{"2026", "03"}))
	assert.Nil(t, normalizeDueDate(float64(123)))
	assert.Nil(t, normalizeDueDate(float64(20261345)))
}
