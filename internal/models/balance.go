package models

import "github.com/shopspring/decimal"

// Balance holds the derived totals of the ledger. It is never persisted.
type Balance struct {
	Income  decimal.Decimal `json:"income"`
	Outcome decimal.Decimal `json:"outcome"`
	Total   decimal.Decimal `json:"total"`
}

// TypeTotal is one row of a per-type aggregate over transactions
type TypeTotal struct {
	Type  string
	Total decimal.Decimal
}

// NewBalance builds a balance from per-type totals. Unknown types are ignored.
// Totals are rounded to ValueScale since SQLite sums NUMERIC columns as floats.
func NewBalance(totals []TypeTotal) Balance {
	balance := Balance{
		Income:  decimal.Zero,
		Outcome: decimal.Zero,
	}

	for _, t := range totals {
		switch t.Type {
		case TransactionTypeIncome:
			balance.Income = balance.Income.Add(t.Total.Round(ValueScale))
		case TransactionTypeOutcome:
			balance.Outcome = balance.Outcome.Add(t.Total.Round(ValueScale))
		}
	}

	balance.Total = balance.Income.Sub(balance.Outcome)
	return balance
}

// BalanceOf computes the balance of an in-memory set of transactions
func BalanceOf(transactions []Transaction) Balance {
	balance := Balance{
		Income:  decimal.Zero,
		Outcome: decimal.Zero,
		Total:   decimal.Zero,
	}

	for i := range transactions {
		t := &transactions[i]
		switch {
		case t.IsIncome():
			balance.Income = balance.Income.Add(t.Value)
		case t.IsOutcome():
			balance.Outcome = balance.Outcome.Add(t.Value)
		default:
			continue
		}
		balance.Total = balance.Total.Add(t.SignedValue())
	}

	return balance
}

// Apply returns the balance after adding the given transactions
func (b Balance) Apply(transactions []Transaction) Balance {
	delta := BalanceOf(transactions)
	income := b.Income.Add(delta.Income)
	outcome := b.Outcome.Add(delta.Outcome)
	return Balance{
		Income:  income,
		Outcome: outcome,
		Total:   income.Sub(outcome),
	}
}

// CanAfford reports whether an outcome of value keeps the total non-negative
func (b Balance) CanAfford(value decimal.Decimal) bool {
	return value.LessThanOrEqual(b.Total)
}
