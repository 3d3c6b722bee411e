// Seeds local development data: pricebook lookup tables and a small set of
// policy-clause exports for the indexer.
package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/bloomwell/maternity-ai/backend/pkg/config"
)

type clauseExport struct {
	ProductName string   `json:"product_name"`
	Clauses     []clause `json:"clauses"`
}

type clause struct {
	Content    string `json:"content"`
	PageNumber int    `json:"page_number"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	premiums := map[string]map[string]int{
		"삼성화재": {"무배당 안심 보험(특약형)": 42000},
		"현대해상": {"굿앤굿 어린이보험": 38000},
		"KB손해보험": {"KB 희망플러스 자녀보험": 35000},
	}
	coverage := map[string]map[string]int{
		"삼성화재": {"무배당 안심 보험(특약형)": 20000000},
		"현대해상": {"굿앤굿 어린이보험": 50000000},
		"KB손해보험": {"KB 희망플러스 자녀보험": 30000000},
	}

	writeJSON(cfg.PriceBook.PricesPath, premiums)
	writeJSON(cfg.PriceBook.SumInsuredPath, coverage)

	clauses := []clauseExport{
		{
			ProductName: "무배당 안심 보험(특약형)",
			Clauses: []clause{
				{Content: "임신중독증(전자간증)으로 진단 확정된 경우 보험가입금액을 지급합니다.", PageNumber: 12},
				{Content: "임신 22주 이후 조산으로 출생한 신생아의 입원 의료비를 보장합니다.", PageNumber: 15},
			},
		},
		{
			ProductName: "굿앤굿 어린이보험",
			Clauses: []clause{
				{Content: "태아 상태에서 가입한 경우 출생 시점부터 선천성 질환을 보장합니다.", PageNumber: 7},
				{Content: "다태아(쌍둥이 이상) 임신의 경우 태아별로 보장이 적용됩니다.", PageNumber: 9},
			},
		},
	}

	if err := os.MkdirAll(cfg.Passages.DataDir, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", cfg.Passages.DataDir, err)
	}
	for _, export := range clauses {
		path := filepath.Join(cfg.Passages.DataDir, export.ProductName+".json")
		writeJSON(path, export)
	}

	log.Println("Seed data written")
}

func writeJSON(path string, value any) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
	log.Printf("Wrote %s", path)
}
