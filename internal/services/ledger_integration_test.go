package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"finledger/internal/config"
	"finledger/internal/database"
	"finledger/internal/models"
	"finledger/internal/repositories"
	"finledger/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// LedgerIntegrationSuite runs the services against a real SQLite store
type LedgerIntegrationSuite struct {
	suite.Suite
	ctx             context.Context
	db              *database.DB
	categoryRepo    repositories.CategoryRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	balance         services.BalanceServiceInterface
	creator         services.TransactionServiceInterface
	importer        services.ImportServiceInterface
}

func TestLedgerIntegrationSuite(t *testing.T) {
	suite.Run(t, new(LedgerIntegrationSuite))
}

func (s *LedgerIntegrationSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = database.SetupTestDB(s.T())
	s.categoryRepo = repositories.NewCategoryRepository(s.db.DB)
	s.transactionRepo = repositories.NewTransactionRepository(s.db.DB)

	logger := discardLogger()
	metrics := services.NewPrometheusMetricsWith(prometheus.NewRegistry())
	lock := services.NewLedgerLock()
	resolver := services.NewCategoryResolver(s.categoryRepo, logger)

	s.balance = services.NewBalanceService(s.transactionRepo)
	s.creator = services.NewTransactionService(s.transactionRepo, s.balance, resolver, lock, metrics, logger)
	s.importer = services.NewImportService(
		config.ImportConfig{UploadDir: s.T().TempDir()},
		s.transactionRepo, s.balance, resolver, lock, metrics, logger,
	)
}

func (s *LedgerIntegrationSuite) create(title string, value int64, txType, category string) error {
	_, err := s.creator.Execute(s.ctx, services.CreateTransactionInput{
		Title:    title,
		Value:    decimal.NewFromInt(value),
		Type:     txType,
		Category: category,
	})
	return err
}

func (s *LedgerIntegrationSuite) createAmount(title, value, txType, category string) error {
	_, err := s.creator.Execute(s.ctx, services.CreateTransactionInput{
		Title:    title,
		Value:    decimal.RequireFromString(value),
		Type:     txType,
		Category: category,
	})
	return err
}

func (s *LedgerIntegrationSuite) categoryTitles() []string {
	categories, err := s.categoryRepo.List(s.ctx)
	s.Require().NoError(err)
	return models.CategoryTitles(categories)
}

func (s *LedgerIntegrationSuite) transactionCount() int64 {
	count, err := s.transactionRepo.Count(s.ctx)
	s.Require().NoError(err)
	return count
}

func (s *LedgerIntegrationSuite) total() decimal.Decimal {
	balance, err := s.balance.GetBalance(s.ctx)
	s.Require().NoError(err)
	return balance.Total
}

func (s *LedgerIntegrationSuite) TestOutcomeOnEmptyLedger_LeavesStoresUnchanged() {
	err := s.create("Groceries", 100, models.TransactionTypeOutcome, "Food")

	s.ErrorIs(err, services.ErrInsufficientBalance)
	s.Empty(s.categoryTitles())
	s.Zero(s.transactionCount())
}

func (s *LedgerIntegrationSuite) TestIncomeThenOutcome_ReusesCategory() {
	s.Require().NoError(s.create("Paycheck", 200, models.TransactionTypeIncome, "Salary"))
	s.True(decimal.NewFromInt(200).Equal(s.total()))
	s.Equal([]string{"Salary"}, s.categoryTitles())

	s.Require().NoError(s.create("Correction", 150, models.TransactionTypeOutcome, "Salary"))
	s.True(decimal.NewFromInt(50).Equal(s.total()))
	s.Equal([]string{"Salary"}, s.categoryTitles())
}

func (s *LedgerIntegrationSuite) TestFractionalAmounts_BalanceIsExact() {
	s.Require().NoError(s.createAmount("Refund", "0.10", models.TransactionTypeIncome, "Misc"))
	s.Require().NoError(s.createAmount("Refund", "0.20", models.TransactionTypeIncome, "Misc"))
	s.Equal("0.3", s.total().String())

	s.Require().NoError(s.createAmount("Invoice", "100.10", models.TransactionTypeIncome, "Work"))
	s.Require().NoError(s.createAmount("Invoice", "200.20", models.TransactionTypeIncome, "Work"))
	s.Require().NoError(s.createAmount("Laptop", "300.60", models.TransactionTypeOutcome, "Tech"))

	balance, err := s.balance.GetBalance(s.ctx)
	s.Require().NoError(err)
	s.True(balance.Total.IsZero(), "total %s", balance.Total)
	s.True(balance.Income.Sub(balance.Outcome).Equal(balance.Total))

	categories, err := s.categoryRepo.List(s.ctx)
	s.Require().NoError(err)
	totals, err := s.transactionRepo.GetTotalsByCategory(s.ctx)
	s.Require().NoError(err)
	for _, summary := range models.SummarizeCategories(categories, totals) {
		if summary.Title == "Work" {
			s.Equal("300.3", summary.Income.String())
		}
	}

	err = s.createAmount("Gum", "0.01", models.TransactionTypeOutcome, "Food")
	s.ErrorIs(err, services.ErrInsufficientBalance)
}

func (s *LedgerIntegrationSuite) TestSubCentValue_RejectedBeforeStorage() {
	err := s.createAmount("Interest", "0.001", models.TransactionTypeIncome, "Bank")

	s.ErrorIs(err, services.ErrInvalidTransaction)
	s.ErrorIs(err, models.ErrValuePrecision)
	s.Empty(s.categoryTitles())
	s.Zero(s.transactionCount())
}

func (s *LedgerIntegrationSuite) TestImport_CreatesOnlyMissingCategoriesAndSkipsBalanceCheck() {
	s.Require().NoError(s.create("Paycheck", 200, models.TransactionTypeIncome, "Salary"))
	s.Require().NoError(s.create("Correction", 150, models.TransactionTypeOutcome, "Salary"))

	views, err := s.importer.ImportFrom(s.ctx, services.ReaderSource(importHeader+
		"Rent,outcome,300,Housing\n"+
		"Bonus,income,500,Salary\n"))

	s.Require().NoError(err)
	s.Require().Len(views, 2)
	s.Equal("Rent", views[0].Title)
	s.Equal("Bonus", views[1].Title)
	s.Equal([]string{"Housing", "Salary"}, s.categoryTitles())
	s.Equal(int64(4), s.transactionCount())
	s.True(decimal.NewFromInt(250).Equal(s.total()), "total %s", s.total())
}

func (s *LedgerIntegrationSuite) TestImport_ReimportDuplicatesTransactionsOnly() {
	content := importHeader +
		"Rent,outcome,300,Housing\n" +
		"Bonus,income,500,Salary\n" +
		"Dinner,outcome,45,Food\n"

	_, err := s.importer.ImportFrom(s.ctx, services.ReaderSource(content))
	s.Require().NoError(err)
	s.Len(s.categoryTitles(), 3)

	_, err = s.importer.ImportFrom(s.ctx, services.ReaderSource(content))
	s.Require().NoError(err)
	s.Len(s.categoryTitles(), 3)
	s.Equal(int64(6), s.transactionCount())
}

func (s *LedgerIntegrationSuite) TestImport_PersistedInInputOrder() {
	_, err := s.importer.ImportFrom(s.ctx, services.ReaderSource(importHeader+
		"First,income,1,A\n"+
		"Second,income,2,B\n"+
		"Third,outcome,3,A\n"))
	s.Require().NoError(err)

	list, err := s.creator.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list.Transactions, 3)
	s.Equal("First", list.Transactions[0].Title)
	s.Equal("Second", list.Transactions[1].Title)
	s.Equal("Third", list.Transactions[2].Title)
	s.Equal("A", list.Transactions[2].Category.Title)
	s.True(decimal.Zero.Equal(list.Balance.Total))
}

func (s *LedgerIntegrationSuite) TestImport_MalformedRowWritesNothing() {
	_, err := s.importer.ImportFrom(s.ctx, services.ReaderSource(importHeader+
		"Rent,outcome,300,Housing\n"+
		"Bonus,income,,Salary\n"))

	s.ErrorIs(err, services.ErrMalformedRow)
	s.Empty(s.categoryTitles())
	s.Zero(s.transactionCount())
}

func (s *LedgerIntegrationSuite) TestConcurrentOutcomes_NeverOverdraw() {
	s.Require().NoError(s.create("Paycheck", 100, models.TransactionTypeIncome, "Salary"))

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.create("Coffee", 30, models.TransactionTypeOutcome, "Food")
		}()
	}
	wg.Wait()
	close(errs)

	succeeded, rejected := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, services.ErrInsufficientBalance):
			rejected++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}

	s.Equal(3, succeeded)
	s.Equal(workers-3, rejected)
	s.True(decimal.NewFromInt(10).Equal(s.total()))
	s.Equal([]string{"Food", "Salary"}, s.categoryTitles())
}
