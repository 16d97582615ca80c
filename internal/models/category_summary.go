package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategorySummary contains aggregated transaction data by category
type CategorySummary struct {
	ID               uuid.UUID       `json:"id"`
	Title            string          `json:"title"`
	TransactionCount int64           `json:"transaction_count"`
	Income           decimal.Decimal `json:"income"`
	Outcome          decimal.Decimal `json:"outcome"`
}

// CategoryTypeTotal is one row of a per-category, per-type aggregate
type CategoryTypeTotal struct {
	CategoryID uuid.UUID
	Type       string
	Count      int64
	Total      decimal.Decimal
}

// SummarizeCategories returns one summary per category, in the given order.
// Categories without transactions get zero totals; totals for unknown
// categories are ignored. Totals are rounded to ValueScale like NewBalance.
func SummarizeCategories(categories []Category, totals []CategoryTypeTotal) []CategorySummary {
	summaries := make([]CategorySummary, len(categories))
	index := make(map[uuid.UUID]int, len(categories))

	for i, category := range categories {
		summaries[i] = CategorySummary{
			ID:      category.ID,
			Title:   category.Title,
			Income:  decimal.Zero,
			Outcome: decimal.Zero,
		}
		index[category.ID] = i
	}

	for _, t := range totals {
		i, ok := index[t.CategoryID]
		if !ok {
			continue
		}

		switch t.Type {
		case TransactionTypeIncome:
			summaries[i].Income = summaries[i].Income.Add(t.Total.Round(ValueScale))
		case TransactionTypeOutcome:
			summaries[i].Outcome = summaries[i].Outcome.Add(t.Total.Round(ValueScale))
		default:
			continue
		}
		summaries[i].TransactionCount += t.Count
	}

	return summaries
}
