package services

import (
	"fmt"
	"strings"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
)

const (
	// maxContextPassages bounds the context block handed to the model.
	maxContextPassages = 8

	// maxPassageRunes truncates each passage before prompt assembly.
	maxPassageRunes = 800

	// maxQueryRiskFactors bounds the risk factors added to the search query.
	maxQueryRiskFactors = 2
)

// QueryBuilder assembles the retrieval query and the generation prompt from
// an AnalysisRecord. Pure string assembly, no failure modes.
type QueryBuilder struct{}

// NewQueryBuilder creates a new query builder.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// BuildSearchQuery produces the short retrieval query: fixed domain keywords
// plus the gestational week, a multiple-pregnancy marker, and up to two risk
// factors.
func (b *QueryBuilder) BuildSearchQuery(record entities.AnalysisRecord) string {
	parts := []string{"임신 보험", "태아 보장"}
	if record.GestationalWeek > 0 {
		parts = append(parts, fmt.Sprintf("%d주", record.GestationalWeek))
	}
	if record.IsMultiplePregnancy {
		parts = append(parts, "다태아 쌍둥이")
	}
	if len(record.RiskFactors) > maxQueryRiskFactors {
		parts = append(parts, record.RiskFactors[:maxQueryRiskFactors]...)
	} else {
		parts = append(parts, record.RiskFactors...)
	}
	return strings.Join(parts, " ")
}

// BuildPrompt produces the generation instruction: role framing, formatting
// and field-semantics rules, a literal output example, and a context block of
// up to eight passages truncated to 800 characters each.
func (b *QueryBuilder) BuildPrompt(record entities.AnalysisRecord, passages []entities.Passage) string {
	return fmt.Sprintf(`역할: 보험 전문 언더라이터
임신부 정보: %d주차, 위험요인(%s), 다태아(%t)

지침:
1. 제공된 [보험 약관 정보]만 근거로 가장 적합한 보험 상품 2-3개를 추천하라.
2. 반드시 JSON 형식으로만 답변하라. (설명 문장/코드블록/주석 금지)
3. evidence는 문맥에서 그대로 인용한 문장과 페이지를 포함하라.
4. 매우 중요:
   - insurance_company에는 "삼성화재"처럼 '보험사명'만 작성
   - product_name에는 "무배당 ... 보험(...)"처럼 '보험상품명'만 작성
   - 특약명은 special_contracts 배열에만 작성 (product_name에 특약명 쓰지 말 것)

[보험 약관 정보]
%s

출력 형식(반드시 이 키로만):
{
  "recommendations": [
    {
      "insurance_company": "보험사명",
      "product_name": "보험상품명",
      "monthly_cost": 30000,
      "reason": "주수와 위험요인을 고려한 구체적 추천 이유",
      "special_contracts": ["특약명1", "특약명2"],
      "evidence": "인용문... (page=숫자)"
    }
  ]
}`,
		record.GestationalWeek,
		strings.Join(record.RiskFactors, ", "),
		record.IsMultiplePregnancy,
		b.buildContext(passages),
	)
}

func (b *QueryBuilder) buildContext(passages []entities.Passage) string {
	if len(passages) > maxContextPassages {
		passages = passages[:maxContextPassages]
	}

	parts := make([]string, 0, len(passages))
	for i, passage := range passages {
		parts = append(parts, fmt.Sprintf(
			"[문서 %d] 상품:%s, 페이지:%d\n내용:%s",
			i+1, passage.ProductName, passage.PageNumber, truncateRunes(passage.Content, maxPassageRunes),
		))
	}
	return strings.Join(parts, "\n\n")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
