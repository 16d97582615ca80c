package services

import (
	"encoding/csv"
	"fmt"
	"io"

	"finledger/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

const (
	// a salary row is emitted every salaryInterval rows
	salaryInterval = 14
	// outcomes never take the running total below this
	minBalanceThreshold = 50
)

type samplePayee struct {
	title    string
	category string
	min, max float64
}

var samplePayees = []samplePayee{
	{"Supermarket", "Groceries", 15, 250},
	{"Farmers market", "Groceries", 10, 60},
	{"Coffee", "Food", 3, 8},
	{"Restaurant", "Food", 20, 120},
	{"Train ticket", "Transport", 10, 80},
	{"Fuel", "Transport", 30, 90},
	{"Electricity bill", "Utilities", 50, 180},
	{"Internet", "Utilities", 30, 60},
	{"Rent", "Housing", 600, 1200},
	{"Cinema", "Entertainment", 10, 30},
	{"Pharmacy", "Health", 5, 80},
	{"Bookstore", "Education", 10, 60},
}

// SampleGenerator produces realistic import rows for demos and load tests.
// The running total of the generated rows never becomes negative.
type SampleGenerator struct {
	faker *gofakeit.Faker
}

// NewSampleGenerator creates a generator. The same non-zero seed always yields
// the same rows; a zero seed is random.
func NewSampleGenerator(seed uint64) *SampleGenerator {
	return &SampleGenerator{faker: gofakeit.New(seed)}
}

// Rows generates n rows starting with a salary
func (g *SampleGenerator) Rows(n int) []ImportRow {
	rows := make([]ImportRow, 0, n)
	balance := decimal.Zero

	for i := 0; i < n; i++ {
		var row ImportRow
		if i%salaryInterval == 0 {
			row = g.income("Salary", "Salary", 2000, 8000)
		} else {
			row = g.outcome()
			if balance.Sub(row.Value).LessThan(decimal.NewFromInt(minBalanceThreshold)) {
				row = g.income("Freelance: "+g.faker.Company(), "Side income", 100, 1500)
			}
		}

		row.Line = i + 2
		if row.Type == models.TransactionTypeIncome {
			balance = balance.Add(row.Value)
		} else {
			balance = balance.Sub(row.Value)
		}
		rows = append(rows, row)
	}

	return rows
}

func (g *SampleGenerator) income(title, category string, min, max float64) ImportRow {
	return ImportRow{
		Title:    title,
		Type:     models.TransactionTypeIncome,
		Value:    g.amount(min, max),
		Category: category,
	}
}

func (g *SampleGenerator) outcome() ImportRow {
	payee := samplePayees[g.faker.Number(0, len(samplePayees)-1)]
	return ImportRow{
		Title:    payee.title,
		Type:     models.TransactionTypeOutcome,
		Value:    g.amount(payee.min, payee.max),
		Category: payee.category,
	}
}

func (g *SampleGenerator) amount(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(g.faker.Float64Range(min, max)).Round(models.ValueScale)
}

// WriteImportCSV writes rows in the import file format, header first
func WriteImportCSV(w io.Writer, rows []ImportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"title", "type", "value", "category"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range rows {
		record := []string{row.Title, row.Type, row.Value.StringFixed(2), row.Category}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
