package services

import (
	"context"
	"time"

	"finledger/internal/dto"
	"finledger/internal/models"
)

// BalanceServiceInterface computes the derived ledger balance
type BalanceServiceInterface interface {
	GetBalance(ctx context.Context) (models.Balance, error)
}

// CategoryResolverInterface maps category titles to stored categories, creating missing ones
type CategoryResolverInterface interface {
	ResolveOne(ctx context.Context, title string) (*models.Category, error)
	ResolveMany(ctx context.Context, titles []string) (map[string]models.Category, error)
}

// CategoryServiceInterface reports stored categories with their transaction totals
type CategoryServiceInterface interface {
	ListSummaries(ctx context.Context) ([]models.CategorySummary, error)
}

// TransactionServiceInterface creates single transactions guarded by the balance check
type TransactionServiceInterface interface {
	Execute(ctx context.Context, input CreateTransactionInput) (*dto.TransactionView, error)
	List(ctx context.Context) (*dto.TransactionListResponse, error)
}

// ImportServiceInterface ingests CSV batches of transactions
type ImportServiceInterface interface {
	Execute(ctx context.Context, filename string) ([]dto.TransactionView, error)
	ImportFrom(ctx context.Context, open SourceOpener) ([]dto.TransactionView, error)
}

// MetricsRecorderInterface defines the contract for metrics recording
type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
