package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bloomwell/maternity-ai/backend/internal/adapters/search"
	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
	"github.com/bloomwell/maternity-ai/backend/internal/infrastructure/clients/typesense"
	"github.com/bloomwell/maternity-ai/backend/pkg/config"
)

// minClauseLength filters out boilerplate fragments (headings, page footers)
// that carry no usable policy text.
const minClauseLength = 20

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete the existing passage collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	_ = godotenv.Load()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Printf("Reindex failed: %v", err)
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Printf("Reindex complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Indexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset {
		if err := tsClient.DropCollection(ctx); err != nil {
			return err
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	passages, err := loadPassages(cfg.Passages.DataDir)
	if err != nil {
		return err
	}
	if len(passages) == 0 {
		log.Printf("No passages found under %s", cfg.Passages.DataDir)
		return nil
	}

	adapter := search.NewTypesenseAdapter(tsClient)

	indexed := 0
	for _, passage := range passages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := adapter.Index(ctx, passage); err != nil {
			log.Printf("Failed to index passage from %s page %d: %v", passage.SourceFile, passage.PageNumber, err)
			continue
		}
		indexed++
	}

	log.Printf("Indexed %d/%d passages", indexed, len(passages))
	return nil
}

// clauseFile is the on-disk shape of one policy-clause export: a product name
// plus its extracted clause texts.
type clauseFile struct {
	ProductName string `json:"product_name"`
	Clauses     []struct {
		Content    string `json:"content"`
		PageNumber int    `json:"page_number"`
	} `json:"clauses"`
}

// loadPassages reads every *.json clause export under dir. Clauses shorter
// than minClauseLength are skipped.
func loadPassages(dir string) ([]entities.Passage, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	var passages []entities.Passage
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		var file clauseFile
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("invalid clause file %s: %w", path, err)
		}

		for _, clause := range file.Clauses {
			content := strings.TrimSpace(clause.Content)
			if len([]rune(content)) < minClauseLength {
				continue
			}
			passages = append(passages, entities.Passage{
				Content:     content,
				ProductName: file.ProductName,
				PageNumber:  clause.PageNumber,
				SourceFile:  filepath.Base(path),
			})
		}
	}

	return passages, nil
}
