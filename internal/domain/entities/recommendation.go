package entities

// DefaultSumInsured is the coverage amount applied when the lookup tables
// have no entry for an (insurer, product) pair.
const DefaultSumInsured = 10_000_000

// DefaultMonthlyCost is the premium applied on a lookup miss.
const DefaultMonthlyCost = 30_000

// ResultExpirySeconds is the validity window advertised with every result.
const ResultExpirySeconds = 600

// FallbackResultID is the fixed identifier of the degraded empty result.
const FallbackResultID = "fallback"

// SpecialContract describes a rider recommended alongside a base product.
type SpecialContract struct {
	ContractName                 string   `json:"contract_name"`
	ContractDescription          string   `json:"contract_description"`
	ContractRecommendationReason string   `json:"contract_recommendation_reason"`
	KeyFeatures                  []string `json:"key_features"`
	PageNumber                   int      `json:"page_number"`
}

// EvidenceSource points at the policy text a recommendation is grounded on.
type EvidenceSource struct {
	PageNumber  int    `json:"page_number"`
	TextSnippet string `json:"text_snippet"`
}

// RecommendationItem is one normalized product recommendation.
type RecommendationItem struct {
	ItemID                        string            `json:"itemId"`
	InsuranceCompany              string            `json:"insurance_company"`
	ProductName                   string            `json:"product_name"`
	IsLongTerm                    bool              `json:"is_long_term"`
	SumInsured                    int               `json:"sum_insured"`
	MonthlyCost                   string            `json:"monthly_cost"`
	InsuranceRecommendationReason string            `json:"insurance_recommendation_reason"`
	SpecialContracts              []SpecialContract `json:"special_contracts"`
	EvidenceSources               []EvidenceSource  `json:"evidence_sources"`
}

// ResultMetadata records how a result was produced.
type ResultMetadata struct {
	DocumentsUsed   int  `json:"documents_used"`
	GestationalWeek int  `json:"gestational_week"`
	Fallback        bool `json:"fallback,omitempty"`
}

// RecommendationResult is the wire payload returned to the upstream server.
// Items holds at most three entries; a fallback result holds none.
type RecommendationResult struct {
	ResultID     string               `json:"resultId"`
	ExpiresInSec int                  `json:"expiresInSec"`
	Items        []RecommendationItem `json:"items"`
	Metadata     ResultMetadata       `json:"rag_metadata"`
}
