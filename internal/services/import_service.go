package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"finledger/internal/config"
	"finledger/internal/dto"
	"finledger/internal/models"
	"finledger/internal/repositories"
)

var ErrInvalidImportFile = errors.New("import file must be a plain name inside the upload directory")

type importService struct {
	uploadDir        string
	enforceBalance   bool
	transactionRepo  repositories.TransactionRepositoryInterface
	balanceService   BalanceServiceInterface
	categoryResolver CategoryResolverInterface
	lock             *LedgerLock
	metrics          MetricsRecorderInterface
	logger           *slog.Logger
}

// NewImportService creates a new CSV import service
func NewImportService(
	cfg config.ImportConfig,
	transactionRepo repositories.TransactionRepositoryInterface,
	balanceService BalanceServiceInterface,
	categoryResolver CategoryResolverInterface,
	lock *LedgerLock,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) ImportServiceInterface {
	return &importService{
		uploadDir:        cfg.UploadDir,
		enforceBalance:   cfg.EnforceBalance,
		transactionRepo:  transactionRepo,
		balanceService:   balanceService,
		categoryResolver: categoryResolver,
		lock:             lock,
		metrics:          metrics,
		logger:           logger,
	}
}

// Execute imports the named file from the upload directory
func (s *importService) Execute(ctx context.Context, filename string) ([]dto.TransactionView, error) {
	if !filepath.IsLocal(filename) {
		return nil, ErrInvalidImportFile
	}
	return s.ImportFrom(ctx, FileSource(filepath.Join(s.uploadDir, filename)))
}

// ImportFrom parses every row of the source, then resolves categories in bulk and
// persists all transactions in one batch. Nothing is written when a row is invalid.
func (s *importService) ImportFrom(ctx context.Context, open SourceOpener) ([]dto.TransactionView, error) {
	startTime := time.Now()

	var rows []ImportRow
	for row, err := range ReadImportRows(ctx, open) {
		if err != nil {
			s.recordFailure(ctx, err)
			return nil, err
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		s.metrics.IncrementCounter(MetricImportCompleted, nil)
		return []dto.TransactionView{}, nil
	}

	transactions := newImportTransactions(rows)
	err := s.lock.WithLock(ctx, func(ctx context.Context) error {
		if s.enforceBalance {
			balance, err := s.balanceService.GetBalance(ctx)
			if err != nil {
				return err
			}
			if balance.Apply(transactions).Total.IsNegative() {
				return ErrInsufficientBalance
			}
		}

		categories, err := s.categoryResolver.ResolveMany(ctx, categoryTitles(rows))
		if err != nil {
			return err
		}

		for i := range transactions {
			category, ok := categories[rows[i].Category]
			if !ok {
				return fmt.Errorf("category %q was not resolved", rows[i].Category)
			}
			transactions[i].CategoryID = category.ID
			transactions[i].Category = &category
		}

		return s.transactionRepo.CreateBatch(ctx, transactions)
	})
	if err != nil {
		s.recordFailure(ctx, err)
		return nil, err
	}

	s.metrics.IncrementCounter(MetricImportCompleted, nil)
	s.metrics.RecordGauge(MetricImportRows, float64(len(rows)), nil)
	s.metrics.RecordProcessingTime(MetricImportDuration, time.Since(startTime))

	s.logger.InfoContext(ctx, "import completed",
		slog.Int("rows", len(rows)),
		slog.Duration("duration", time.Since(startTime)),
	)

	return dto.NewTransactionViews(transactions), nil
}

func (s *importService) recordFailure(ctx context.Context, err error) {
	reason := "error"
	attrs := []any{slog.String("error", err.Error())}

	var rowErr *RowError
	switch {
	case errors.As(err, &rowErr):
		reason = "malformed_row"
		attrs = append(attrs, slog.Int("line", rowErr.Line))
	case errors.Is(err, ErrInsufficientBalance):
		reason = "insufficient_balance"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		reason = "cancelled"
	}

	s.metrics.IncrementCounter(MetricImportFailed, map[string]string{"reason": reason})
	s.logger.WarnContext(ctx, "import failed", append(attrs, slog.String("reason", reason))...)
}

// newImportTransactions builds unsaved transactions for rows. Creation times step
// by one microsecond so ordering by created_at reproduces the file order.
func newImportTransactions(rows []ImportRow) []models.Transaction {
	base := time.Now().UTC().Truncate(time.Microsecond)
	transactions := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		createdAt := base.Add(time.Duration(i) * time.Microsecond)
		transactions = append(transactions, models.Transaction{
			Title:     row.Title,
			Value:     row.Value,
			Type:      row.Type,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		})
	}
	return transactions
}

func categoryTitles(rows []ImportRow) []string {
	titles := make([]string, 0, len(rows))
	for _, row := range rows {
		titles = append(titles, row.Category)
	}
	return titles
}
