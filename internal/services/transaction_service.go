package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"finledger/internal/dto"
	"finledger/internal/models"
	"finledger/internal/repositories"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance = errors.New("not enough balance to execute transaction")
	ErrInvalidTransaction  = errors.New("invalid transaction")
)

// CreateTransactionInput holds the fields of a transaction to create.
// Category is a title; it is created on first use.
type CreateTransactionInput struct {
	Title    string
	Value    decimal.Decimal
	Type     string
	Category string
}

// Normalize returns a copy with surrounding whitespace removed
func (in CreateTransactionInput) Normalize() CreateTransactionInput {
	return CreateTransactionInput{
		Title:    strings.TrimSpace(in.Title),
		Value:    in.Value,
		Type:     strings.TrimSpace(in.Type),
		Category: strings.TrimSpace(in.Category),
	}
}

// Validate reports the first invalid field wrapped in ErrInvalidTransaction
func (in CreateTransactionInput) Validate() error {
	switch {
	case in.Title == "":
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, models.ErrTitleRequired)
	case in.Category == "":
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, models.ErrCategoryRequired)
	case !models.IsValidTransactionType(in.Type):
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, models.ErrInvalidTransactionType)
	}
	if err := models.ValidateValue(in.Value); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}
	return nil
}

type transactionService struct {
	transactionRepo  repositories.TransactionRepositoryInterface
	balanceService   BalanceServiceInterface
	categoryResolver CategoryResolverInterface
	lock             *LedgerLock
	metrics          MetricsRecorderInterface
	logger           *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	balanceService BalanceServiceInterface,
	categoryResolver CategoryResolverInterface,
	lock *LedgerLock,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) TransactionServiceInterface {
	return &transactionService{
		transactionRepo:  transactionRepo,
		balanceService:   balanceService,
		categoryResolver: categoryResolver,
		lock:             lock,
		metrics:          metrics,
		logger:           logger,
	}
}

// Execute validates and persists one transaction. An outcome larger than the
// current total is rejected with ErrInsufficientBalance before anything is written.
func (s *transactionService) Execute(ctx context.Context, input CreateTransactionInput) (*dto.TransactionView, error) {
	startTime := time.Now()

	input = input.Normalize()
	if err := input.Validate(); err != nil {
		s.metrics.IncrementCounter(MetricTransactionRejected, map[string]string{"reason": "invalid"})
		return nil, err
	}

	var transaction *models.Transaction
	err := s.lock.WithLock(ctx, func(ctx context.Context) error {
		balance, err := s.balanceService.GetBalance(ctx)
		if err != nil {
			return err
		}

		if input.Type == models.TransactionTypeOutcome && !balance.CanAfford(input.Value) {
			s.logger.WarnContext(ctx, "transaction rejected",
				slog.String("reason", "insufficient_balance"),
				slog.String("value", input.Value.String()),
				slog.String("balance", balance.Total.String()),
			)
			return ErrInsufficientBalance
		}

		category, err := s.categoryResolver.ResolveOne(ctx, input.Category)
		if err != nil {
			return err
		}

		transaction = &models.Transaction{
			Title:      input.Title,
			Value:      input.Value,
			Type:       input.Type,
			CategoryID: category.ID,
			Category:   category,
		}
		return s.transactionRepo.Create(ctx, transaction)
	})
	if err != nil {
		reason := "error"
		if errors.Is(err, ErrInsufficientBalance) {
			reason = "insufficient_balance"
		}
		s.metrics.IncrementCounter(MetricTransactionRejected, map[string]string{"reason": reason})
		return nil, err
	}

	s.metrics.IncrementCounter(MetricTransactionCreated, map[string]string{"type": transaction.Type, "source": "api"})
	s.metrics.RecordProcessingTime(MetricTransactionDuration, time.Since(startTime))

	s.logger.InfoContext(ctx, "transaction created",
		slog.String("transaction_id", transaction.ID.String()),
		slog.String("type", transaction.Type),
		slog.String("value", transaction.Value.String()),
		slog.String("category", input.Category),
	)

	view := dto.NewTransactionView(transaction)
	return &view, nil
}

// List returns every transaction in creation order together with the balance
func (s *transactionService) List(ctx context.Context) (*dto.TransactionListResponse, error) {
	transactions, err := s.transactionRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	balance, err := s.balanceService.GetBalance(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.TransactionListResponse{
		Transactions: dto.NewTransactionViews(transactions),
		Balance:      balance,
	}, nil
}
