package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
)

func TestDocToPassage_AllFields(t *testing.T) {
	doc := map[string]interface{}{
		"content":      "유산 및 조산 관련 보장 내용",
		"product_name": "무배당 안심 보험(특약형)",
		"page_number":  float64(42),
		"source_file":  "clauses_samsung.json",
	}

	passage := docToPassage(doc)

	assert.Equal(t, entities.Passage{
		Content:     "유산 및 조산 관련 보장 내용",
		ProductName: "무배당 안심 보험(특약형)",
		PageNumber:  42,
		SourceFile:  "clauses_samsung.json",
	}, passage)
}

func TestDocToPassage_MissingAndMistypedFields(t *testing.T) {
	doc := map[string]interface{}{
		"content":     123,
		"page_number": "not a number",
	}

	passage := docToPassage(doc)

	assert.Equal(t, entities.Passage{}, passage)
}
