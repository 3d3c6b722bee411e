package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomwell/maternity-ai/backend/internal/adapters/pricing"
	"github.com/bloomwell/maternity-ai/backend/internal/api/handlers"
	"github.com/bloomwell/maternity-ai/backend/internal/application/services"
	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
	"github.com/bloomwell/maternity-ai/backend/pkg/config"
)

type fixedSearcher struct {
	passages []entities.Passage
}

func (s *fixedSearcher) Search(ctx context.Context, query string, limit int) ([]entities.Passage, error) {
	return s.passages, nil
}

type fixedGenerator struct {
	answer string
}

func (g *fixedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.answer, nil
}

func loadTestPriceBook(t *testing.T) *pricing.PriceBook {
	t.Helper()
	dir := t.TempDir()

	prices := `{
		"삼성화재": {"무배당 안심 보험(특약형)": 42000},
		"현대해상": {"굿앤굿 어린이보험": 38000}
	}`
	sums := `{
		"삼성화재": {"무배당 안심 보험(특약형)": 20000000},
		"현대해상": {"굿앤굿 어린이보험": 50000000}
	}`

	pricesPath := filepath.Join(dir, "prices.json")
	sumsPath := filepath.Join(dir, "sum_insured.json")
	require.NoError(t, os.WriteFile(pricesPath, []byte(prices), 0o644))
	require.NoError(t, os.WriteFile(sumsPath, []byte(sums), 0o644))

	book, err := pricing.Load(&config.PriceBookConfig{
		PricesPath:     pricesPath,
		SumInsuredPath: sumsPath,
	})
	require.NoError(t, err)
	return book
}

const generatorReply = `{"recommendations": [
	{"insurance_company": "삼성화재", "product_name": "무배당 안심 보험(특약형)",
	 "reason": "임신중독증 위험에 대한 보장", "special_contracts": ["임신중독증 진단비 특약"],
	 "evidence": "약관 제12조 인용"},
	{"insurance_company": "현대해상", "product_name": "굿앤굿 어린이보험",
	 "reason": "태아 및 산모 동시 보장", "special_contracts": ["저체중아 육아비용 특약"],
	 "evidence": "약관 제7조 인용"}
]}`

func TestRecommendEndToEnd(t *testing.T) {
	searcher := &fixedSearcher{passages: []entities.Passage{
		{Content: "임신중독증 보장 약관", ProductName: "무배당 안심 보험(특약형)", PageNumber: 12, SourceFile: "samsung.json"},
		{Content: "태아 보장 약관", ProductName: "굿앤굿 어린이보험", PageNumber: 7, SourceFile: "hyundai.json"},
	}}

	service := services.NewRecommendationService(
		services.NewProfileAnalyzer(),
		services.NewQueryBuilder(),
		services.NewResponseNormalizer(loadTestPriceBook(t)),
		searcher,
		&fixedGenerator{answer: generatorReply},
	)
	handler := handlers.NewRecommendHandler(service)

	body := `{
		"pregnancyInfo": {"gestationalWeek": 24, "isMultiplePregnancy": false, "dueDate": [2026, 12, 1]},
		"healthStatus": {"pregnancyComplications": ["PREECLAMPSIA"]}
	}`
	req := httptest.NewRequest(http.MethodPost, "/ai/recommend", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Recommend(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result entities.RecommendationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.NotEmpty(t, result.ResultID)
	assert.NotEqual(t, entities.FallbackResultID, result.ResultID)
	assert.Equal(t, entities.ResultExpirySeconds, result.ExpiresInSec)
	require.Len(t, result.Items, 2)

	first := result.Items[0]
	assert.Equal(t, "삼성화재", first.InsuranceCompany)
	assert.Equal(t, "무배당 안심 보험(특약형)", first.ProductName)
	assert.Equal(t, 20000000, first.SumInsured)
	assert.Equal(t, "42000", first.MonthlyCost)
	assert.True(t, first.IsLongTerm)

	second := result.Items[1]
	assert.Equal(t, "현대해상", second.InsuranceCompany)
	assert.Equal(t, 50000000, second.SumInsured)
	assert.Equal(t, "38000", second.MonthlyCost)

	for _, item := range result.Items {
		assert.NotEmpty(t, item.ItemID)
		require.NotEmpty(t, item.SpecialContracts)
		for _, contract := range item.SpecialContracts {
			assert.Equal(t, "24주차 맞춤 특약", contract.ContractRecommendationReason)
		}
		require.NotEmpty(t, item.EvidenceSources)
	}

	assert.Equal(t, 2, result.Metadata.DocumentsUsed)
	assert.Equal(t, 24, result.Metadata.GestationalWeek)
	assert.False(t, result.Metadata.Fallback)
}

func TestRecommendEndToEnd_WireFieldNames(t *testing.T) {
	service := services.NewRecommendationService(
		services.NewProfileAnalyzer(),
		services.NewQueryBuilder(),
		services.NewResponseNormalizer(loadTestPriceBook(t)),
		&fixedSearcher{passages: []entities.Passage{
			{Content: "약관", ProductName: "무배당 안심 보험(특약형)", PageNumber: 3},
		}},
		&fixedGenerator{answer: generatorReply},
	)
	handler := handlers.NewRecommendHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/ai/recommend",
		strings.NewReader(`{"pregnancyInfo": {"gestationalWeek": 24}}`))
	rec := httptest.NewRecorder()

	handler.Recommend(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wire))

	assert.Contains(t, wire, "resultId")
	assert.Contains(t, wire, "expiresInSec")
	assert.Contains(t, wire, "items")

	items := wire["items"].([]any)
	require.NotEmpty(t, items)
	item := items[0].(map[string]any)
	for _, key := range []string{
		"itemId", "insurance_company", "product_name", "is_long_term",
		"sum_insured", "monthly_cost", "insurance_recommendation_reason",
		"special_contracts", "evidence_sources",
	} {
		assert.Contains(t, item, key)
	}

	contracts := item["special_contracts"].([]any)
	require.NotEmpty(t, contracts)
	contract := contracts[0].(map[string]any)
	for _, key := range []string{
		"contract_name", "contract_description", "contract_recommendation_reason",
		"key_features", "page_number",
	} {
		assert.Contains(t, contract, key)
	}
}
