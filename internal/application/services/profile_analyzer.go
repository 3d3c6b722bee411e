package services

import (
	"strconv"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
)

// complicationLabels maps upstream complication codes to the risk-factor
// labels used in retrieval queries and prompts. Unknown codes are dropped.
var complicationLabels = map[string]string{
	"PREECLAMPSIA": "임신중독증",
	"PRETERM_RISK": "조산위험",
}

// ProfileAnalyzer converts the heterogeneous upstream profile payload into
// one canonical AnalysisRecord. The upstream server has shipped the same
// fields under camelCase and snake_case at different times, so every field is
// probed under both spellings.
type ProfileAnalyzer struct{}

// NewProfileAnalyzer creates a new profile analyzer.
func NewProfileAnalyzer() *ProfileAnalyzer {
	return &ProfileAnalyzer{}
}

// Analyze builds an AnalysisRecord from the raw profile and health-status
// maps. It never fails: missing or malformed fields default to zero values.
func (a *ProfileAnalyzer) Analyze(profile, healthStatus map[string]any) entities.AnalysisRecord {
	info := profile
	if nested, ok := profile["pregnancyInfo"].(map[string]any); ok {
		info = nested
	}
	if info == nil {
		info = map[string]any{}
	}

	record := entities.AnalysisRecord{
		GestationalWeek:     intField(info, "gestationalWeek", "gestational_week"),
		IsMultiplePregnancy: boolField(info, "isMultiplePregnancy", "is_multiple_pregnancy"),
		MiscarriageHistory:  intField(info, "miscarriageHistory", "miscarriage_history"),
		RiskFactors:         []string{},
	}
	if record.GestationalWeek < 0 {
		record.GestationalWeek = 0
	}
	if record.MiscarriageHistory < 0 {
		record.MiscarriageHistory = 0
	}

	for _, code := range complicationCodes(healthStatus) {
		if label, ok := complicationLabels[code]; ok {
			record.RiskFactors = append(record.RiskFactors, label)
		}
	}

	return record
}

// complicationCodes reads the complication list, accepting both bare string
// entries and objects carrying a complication-type field.
func complicationCodes(healthStatus map[string]any) []string {
	if healthStatus == nil {
		return nil
	}

	raw, ok := healthStatus["pregnancyComplications"]
	if !ok {
		raw = healthStatus["pregnancy_complications"]
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}

	codes := make([]string, 0, len(list))
	for _, entry := range list {
		switch v := entry.(type) {
		case string:
			codes = append(codes, v)
		case map[string]any:
			if code, ok := v["pregnancyComplicationType"].(string); ok {
				codes = append(codes, code)
			} else if code, ok := v["complication_type"].(string); ok {
				codes = append(codes, code)
			}
		}
	}
	return codes
}

func intField(m map[string]any, keys ...string) int {
	for _, key := range keys {
		value, ok := m[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case float64:
			return int(v)
		case int:
			return v
		case string:
			if parsed, err := strconv.Atoi(v); err == nil {
				return parsed
			}
		}
	}
	return 0
}

func boolField(m map[string]any, keys ...string) bool {
	for _, key := range keys {
		value, ok := m[key]
		if !ok || value == nil {
			continue
		}
		if v, ok := value.(bool); ok {
			return v
		}
	}
	return false
}
