package services

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bloomwell/maternity-ai/backend/internal/adapters/pricing"
	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
	apperrors "github.com/bloomwell/maternity-ai/backend/pkg/errors"
)

// maxRecommendationItems caps the entries taken from the generative reply.
const maxRecommendationItems = 3

const (
	contractDescription = "약관 기반 맞춤 보장"
	contractKeyFeature  = "보장 범위 확인 완료"
)

// knownInsurers is the fixed list used to re-derive an insurer name when the
// model writes a product name into the insurer slot.
var knownInsurers = []string{
	"삼성화재",
	"현대해상",
	"DB손해보험",
	"KB손해보험",
	"메리츠화재",
	"한화손해보험",
	"흥국화재",
	"롯데손해보험",
	"MG손해보험",
}

// planNameKeywords commonly appear in long-form product (plan) names.
var planNameKeywords = []string{"무배당", "다이렉트", "해약환급금", "보험", "형", "보장"}

// riderNameKeywords commonly appear in rider / endorsement names.
var riderNameKeywords = []string{"특약", "특별약관", "진단비", "실손", "위로금", "입원의료비"}

// rawRecommendation is one untrusted per-item object from the model reply.
type rawRecommendation struct {
	InsuranceCompany string          `json:"insurance_company"`
	ProductName      string          `json:"product_name"`
	Reason           string          `json:"reason"`
	SpecialContracts json.RawMessage `json:"special_contracts"`
	Evidence         string          `json:"evidence"`
}

type rawReply struct {
	Recommendations []rawRecommendation `json:"recommendations"`
}

// ResponseNormalizer turns the model's free-text reply into the fixed output
// schema: JSON extraction and repair, field-swap correction, pricebook
// enrichment, rider and evidence normalization. It never propagates a failure
// to its caller; anything unusable yields an empty-items result.
type ResponseNormalizer struct {
	pricebook *pricing.PriceBook
}

// NewResponseNormalizer creates a normalizer backed by the given pricebook.
func NewResponseNormalizer(pricebook *pricing.PriceBook) *ResponseNormalizer {
	return &ResponseNormalizer{pricebook: pricebook}
}

// Normalize builds a RecommendationResult from the raw reply, the analysis
// record, and the passages that were supplied as generation context.
func (n *ResponseNormalizer) Normalize(raw string, record entities.AnalysisRecord, passages []entities.Passage) (result entities.RecommendationResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("response normalization panicked, returning empty result")
			result = emptyResult(record, len(passages))
		}
	}()

	reply, err := parseReply(raw)
	if err != nil {
		log.Debug().Err(err).Msg("model reply rejected")
		return emptyResult(record, len(passages))
	}

	recs := reply.Recommendations
	if len(recs) > maxRecommendationItems {
		recs = recs[:maxRecommendationItems]
	}

	items := make([]entities.RecommendationItem, 0, len(recs))
	for i, rec := range recs {
		passage := associatedPassage(passages, i)

		insurer := strings.TrimSpace(rec.InsuranceCompany)
		product := strings.TrimSpace(rec.ProductName)

		// The model sometimes writes the plan name into the insurer slot and
		// a rider name into the product slot; undo that before enrichment.
		if looksLikePlanName(insurer) && looksLikeRiderName(product) {
			planName := insurer
			if derived := extractInsurerName(planName); derived != "" {
				insurer = derived
			}
			product = planName
		}

		items = append(items, entities.RecommendationItem{
			ItemID:                        newShortID(),
			InsuranceCompany:              insurer,
			ProductName:                   product,
			IsLongTerm:                    true,
			SumInsured:                    n.pricebook.SumInsured(insurer, product),
			MonthlyCost:                   strconv.Itoa(n.pricebook.MonthlyCost(insurer, product)),
			InsuranceRecommendationReason: rec.Reason,
			SpecialContracts:              buildSpecialContracts(rec.SpecialContracts, record.GestationalWeek, passage.PageNumber),
			EvidenceSources: []entities.EvidenceSource{
				{
					PageNumber:  pageOrDefault(passage.PageNumber),
					TextSnippet: rec.Evidence,
				},
			},
		})
	}

	return entities.RecommendationResult{
		ResultID:     newShortID(),
		ExpiresInSec: entities.ResultExpirySeconds,
		Items:        items,
		Metadata: entities.ResultMetadata{
			DocumentsUsed:   len(passages),
			GestationalWeek: record.GestationalWeek,
		},
	}
}

// parseReply extracts the JSON block from the model reply and decodes it
// after repair. Failures carry the parse error type for the degrade log.
func parseReply(raw string) (rawReply, error) {
	block, ok := extractJSONObject(raw)
	if !ok {
		return rawReply{}, apperrors.NewParseError("no JSON object in model reply", nil)
	}

	var reply rawReply
	if err := json.Unmarshal([]byte(repairJSON(block)), &reply); err != nil {
		return rawReply{}, apperrors.NewParseError("model reply not parseable after repair", err)
	}

	return reply, nil
}

// extractJSONObject returns the substring from the first '{' to the last '}'.
// The greedy scan can mis-extract when prose contains extra braces; such
// replies fail the parse step and degrade to an empty result.
func extractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// repairJSON fixes the two malformations the model produces most often:
// CJK corner / curly quote glyphs and Python-cased literals.
func repairJSON(s string) string {
	replacer := strings.NewReplacer(
		"「", "'",
		"」", "'",
		"“", "'",
		"”", "'",
		"True", "true",
		"False", "false",
		"None", "null",
	)
	return replacer.Replace(s)
}

// associatedPassage pairs entry i with the passage at the same context
// position, falling back to the first passage.
func associatedPassage(passages []entities.Passage, i int) entities.Passage {
	if i < len(passages) {
		return passages[i]
	}
	if len(passages) > 0 {
		return passages[0]
	}
	return entities.Passage{PageNumber: 1}
}

func looksLikePlanName(s string) bool {
	if s == "" {
		return false
	}
	for _, keyword := range planNameKeywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return len([]rune(s)) >= 15
}

func looksLikeRiderName(s string) bool {
	if s == "" {
		return false
	}
	for _, keyword := range riderNameKeywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

// extractInsurerName scans text for a known insurer name, returning "" when
// none matches so the caller can keep the original string.
func extractInsurerName(text string) string {
	for _, name := range knownInsurers {
		if strings.Contains(text, name) {
			return name
		}
	}
	return ""
}

// buildSpecialContracts normalizes the riders field, which arrives as either
// a list or a single bare string, into SpecialContract descriptors.
func buildSpecialContracts(raw json.RawMessage, gestationalWeek, pageNumber int) []entities.SpecialContract {
	contracts := make([]entities.SpecialContract, 0, len(riderNames(raw)))
	for _, name := range riderNames(raw) {
		contracts = append(contracts, entities.SpecialContract{
			ContractName:                 name,
			ContractDescription:          contractDescription,
			ContractRecommendationReason: fmt.Sprintf("%d주차 맞춤 특약", gestationalWeek),
			KeyFeatures:                  []string{contractKeyFeature},
			PageNumber:                   pageOrDefault(pageNumber),
		})
	}
	return contracts
}

func riderNames(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		names := make([]string, 0, len(list))
		for _, entry := range list {
			if s, ok := entry.(string); ok {
				names = append(names, s)
			} else {
				names = append(names, fmt.Sprint(entry))
			}
		}
		return names
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}

	return nil
}

func pageOrDefault(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

func emptyResult(record entities.AnalysisRecord, documentsUsed int) entities.RecommendationResult {
	return entities.RecommendationResult{
		ResultID:     newShortID(),
		ExpiresInSec: entities.ResultExpirySeconds,
		Items:        []entities.RecommendationItem{},
		Metadata: entities.ResultMetadata{
			DocumentsUsed:   documentsUsed,
			GestationalWeek: record.GestationalWeek,
		},
	}
}

// newShortID returns the first 8 hex characters of a fresh UUID, matching the
// identifier format the upstream server expects.
func newShortID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:8]
}
