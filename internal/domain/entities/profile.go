package entities

// AnalysisRecord is the canonical view of one maternity profile, derived once
// per request from the raw upstream payload. It is immutable once built.
type AnalysisRecord struct {
	GestationalWeek     int      `json:"gestational_week"`
	IsMultiplePregnancy bool     `json:"is_multiple_pregnancy"`
	MiscarriageHistory  int      `json:"miscarriage_history"`
	RiskFactors         []string `json:"risk_factors"`
}
