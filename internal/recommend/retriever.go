package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/buildforge/buildforge-backend/pkg/db/models"
	"github.com/buildforge/buildforge-backend/pkg/enums"
	pkgerrors "github.com/buildforge/buildforge-backend/pkg/errors"
)

// allocationCategories maps allocator vocabulary onto catalog categories.
var allocationCategories = map[string]enums.ComponentCategory{
	"cpu":         enums.ComponentCategoryCPU,
	"gpu":         enums.ComponentCategoryGPU,
	"ram":         enums.ComponentCategoryRAM,
	"ssd":         enums.ComponentCategoryStorage,
	"psu":         enums.ComponentCategoryPowerSupply,
	"case":        enums.ComponentCategoryCase,
	"motherboard": enums.ComponentCategoryMotherboard,
	"cooler":      enums.ComponentCategoryCooler,
}

const (
	bandStart = 0.10
	bandMax   = 0.40
	bandStep  = 0.05
)

// Candidate is a catalog snapshot offered to the composer.
type Candidate struct {
	Name         string
	Manufacturer string
	Price        decimal.Decimal
}

// CandidateSet groups candidates by allocation key.
type CandidateSet map[string][]Candidate

type candidateLister interface {
	ListByCategoryPriceBand(ctx context.Context, category enums.ComponentCategory, min, max decimal.Decimal, limit int) ([]models.Component, error)
}

// Retriever selects price-banded candidates for each allocation key.
type Retriever struct {
	catalog       candidateLister
	minCandidates int
}

// NewRetriever constructs a retriever over the catalog.
func NewRetriever(catalog candidateLister, minCandidates int) (*Retriever, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog lister required")
	}
	if minCandidates <= 0 {
		minCandidates = 1
	}
	return &Retriever{catalog: catalog, minCandidates: minCandidates}, nil
}

// Retrieve returns candidates per allocation key. The price band starts
// narrow and widens until enough distinct candidates are found; the widest
// band's result is kept even when it stays short. Empty categories and
// non-positive targets yield empty candidate lists, never errors.
func (r *Retriever) Retrieve(ctx context.Context, budget float64, allocation BudgetAllocation) (CandidateSet, error) {
	set := CandidateSet{}

	for key, pct := range allocation {
		category, ok := allocationCategories[key]
		if !ok {
			continue
		}

		target := budget * pct / 100
		if target <= 0 {
			set[key] = nil
			continue
		}

		candidates, err := r.retrieveCategory(ctx, category, target)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("db: retrieve %s candidates", key))
		}
		set[key] = candidates
	}

	return set, nil
}

func (r *Retriever) retrieveCategory(ctx context.Context, category enums.ComponentCategory, target float64) ([]Candidate, error) {
	targetPrice := decimal.NewFromFloat(target)

	var best []Candidate
	for band := bandStart; band <= bandMax+1e-9; band += bandStep {
		spread := decimal.NewFromFloat(band)
		min := targetPrice.Mul(decimal.NewFromInt(1).Sub(spread))
		max := targetPrice.Mul(decimal.NewFromInt(1).Add(spread))
		if min.IsNegative() {
			min = decimal.Zero
		}

		rows, err := r.catalog.ListByCategoryPriceBand(ctx, category, min, max, r.minCandidates)
		if err != nil {
			return nil, err
		}

		candidates := dedupeCandidates(rows, r.minCandidates)
		if len(candidates) > len(best) {
			best = candidates
		}
		if len(best) >= r.minCandidates {
			break
		}
	}

	return best, nil
}

// dedupeCandidates drops rows whose normalized name was already seen, capping
// the result at limit.
func dedupeCandidates(rows []models.Component, limit int) []Candidate {
	seen := map[string]bool{}
	out := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		key := strings.ToLower(strings.TrimSpace(row.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Candidate{
			Name:         row.Name,
			Manufacturer: row.Manufacturer,
			Price:        row.Price,
		})
		if len(out) >= limit {
			break
		}
	}
	return out
}
