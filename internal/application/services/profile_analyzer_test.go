package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze_CamelCaseFields(t *testing.T) {
	analyzer := NewProfileAnalyzer()

	record := analyzer.Analyze(
		map[string]any{
			"gestationalWeek":     float64(24),
			"isMultiplePregnancy": true,
			"miscarriageHistory":  float64(1),
		},
		map[string]any{
			"pregnancyComplications": []any{"PREECLAMPSIA"},
		},
	)

	assert.Equal(t, 24, record.GestationalWeek)
	assert.True(t, record.IsMultiplePregnancy)
	assert.Equal(t, 1, record.MiscarriageHistory)
	assert.Equal(t, []string{"임신중독증"}, record.RiskFactors)
}

func TestAnalyze_SnakeCaseAliases(t *testing.T) {
	analyzer := NewProfileAnalyzer()

	record := analyzer.Analyze(
		map[string]any{
			"gestational_week":      float64(12),
			"is_multiple_pregnancy": true,
			"miscarriage_history":   float64(2),
		},
		map[string]any{
			"pregnancy_complications": []any{"PRETERM_RISK"},
		},
	)

	assert.Equal(t, 12, record.GestationalWeek)
	assert.True(t, record.IsMultiplePregnancy)
	assert.Equal(t, 2, record.MiscarriageHistory)
	assert.Equal(t, []string{"조산위험"}, record.RiskFactors)
}

func TestAnalyze_NestedPregnancyInfo(t *testing.T) {
	analyzer := NewProfileAnalyzer()

	record := analyzer.Analyze(
		map[string]any{
			"pregnancyInfo": map[string]any{
				"gestationalWeek": float64(30),
			},
		},
		nil,
	)

	assert.Equal(t, 30, record.GestationalWeek)
	assert.False(t, record.IsMultiplePregnancy)
	assert.Empty(t, record.RiskFactors)
}

func TestAnalyze_ObjectComplications(t *testing.T) {
	analyzer := NewProfileAnalyzer()

	record := analyzer.Analyze(
		map[string]any{},
		map[string]any{
			"pregnancyComplications": []any{
				map[string]any{"pregnancyComplicationType": "PREECLAMPSIA"},
				map[string]any{"complication_type": "PRETERM_RISK"},
			},
		},
	)

	assert.Equal(t, []string{"임신중독증", "조산위험"}, record.RiskFactors)
}

func TestAnalyze_UnknownComplicationsDropped(t *testing.T) {
	analyzer := NewProfileAnalyzer()

	record := analyzer.Analyze(
		map[string]any{},
		map[string]any{
			"pregnancyComplications": []any{"GESTATIONAL_HICCUPS", "PREECLAMPSIA", float64(7)},
		},
	)

	assert.Equal(t, []string{"임신중독증"}, record.RiskFactors)
}

func TestAnalyze_MissingEverythingDefaults(t *testing.T) {
	analyzer := NewProfileAnalyzer()

	record := analyzer.Analyze(nil, nil)

	assert.Zero(t, record.GestationalWeek)
	assert.False(t, record.IsMultiplePregnancy)
	assert.Zero(t, record.MiscarriageHistory)
	assert.Empty(t, record.RiskFactors)
}

func TestAnalyze_NegativeValuesClamped(t *testing.T) {
	analyzer := NewProfileAnalyzer()

	record := analyzer.Analyze(
		map[string]any{
			"gestationalWeek":    float64(-3),
			"miscarriageHistory": float64(-1),
		},
		nil,
	)

	assert.Zero(t, record.GestationalWeek)
	assert.Zero(t, record.MiscarriageHistory)
}
