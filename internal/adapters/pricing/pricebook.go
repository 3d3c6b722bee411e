package pricing

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
	"github.com/bloomwell/maternity-ai/backend/pkg/config"
	apperrors "github.com/bloomwell/maternity-ai/backend/pkg/errors"
)

// PriceBook holds the two static lookup tables keyed by insurer then product:
// monthly premium and coverage amount. It is loaded once at startup and
// read-only afterwards, so concurrent reads need no locking.
type PriceBook struct {
	premiums map[string]map[string]int
	coverage map[string]map[string]int
}

// Load reads the premium and coverage tables from the configured JSON files.
// An absent file skips that table; a present but invalid file is a startup
// error rather than a silently partial pricebook.
func Load(cfg *config.PriceBookConfig) (*PriceBook, error) {
	book := &PriceBook{
		premiums: make(map[string]map[string]int),
		coverage: make(map[string]map[string]int),
	}

	if err := loadTable(cfg.PricesPath, book.premiums); err != nil {
		return nil, apperrors.NewInternalError("failed to load premium table", err)
	}
	if err := loadTable(cfg.SumInsuredPath, book.coverage); err != nil {
		return nil, apperrors.NewInternalError("failed to load coverage table", err)
	}

	return book, nil
}

func loadTable(path string, target map[string]map[string]int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var raw map[string]map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid table file %s: %w", path, err)
	}

	for insurer, products := range raw {
		if insurer == "" {
			return fmt.Errorf("invalid table file %s: empty insurer key", path)
		}
		for product, amount := range products {
			if amount < 0 {
				return fmt.Errorf("invalid table file %s: negative amount for %s / %s", path, insurer, product)
			}
			if target[insurer] == nil {
				target[insurer] = make(map[string]int)
			}
			target[insurer][product] = amount
		}
	}

	return nil
}

// MonthlyCost returns the monthly premium for an (insurer, product) pair,
// defaulting on a miss.
func (b *PriceBook) MonthlyCost(insurer, product string) int {
	if products, ok := b.premiums[insurer]; ok {
		if amount, ok := products[product]; ok {
			return amount
		}
	}
	return entities.DefaultMonthlyCost
}

// SumInsured returns the coverage amount for an (insurer, product) pair,
// defaulting on a miss.
func (b *PriceBook) SumInsured(insurer, product string) int {
	if products, ok := b.coverage[insurer]; ok {
		if amount, ok := products[product]; ok {
			return amount
		}
	}
	return entities.DefaultSumInsured
}

// Size returns the number of priced (insurer, product) pairs per table.
func (b *PriceBook) Size() (premiums int, coverage int) {
	for _, products := range b.premiums {
		premiums += len(products)
	}
	for _, products := range b.coverage {
		coverage += len(products)
	}
	return premiums, coverage
}
