package repositories

import (
	"context"

	"finledger/internal/models"
)

// CategoryRepositoryInterface defines the contract for category repository operations
type CategoryRepositoryInterface interface {
	GetByTitle(ctx context.Context, title string) (*models.Category, error)
	FindByTitles(ctx context.Context, titles []string) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	// CreateBatch inserts all categories in one statement. Titles that already
	// exist are skipped, so callers must re-read to obtain the stored rows.
	CreateBatch(ctx context.Context, categories []models.Category) error
	List(ctx context.Context) ([]models.Category, error)
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	CreateBatch(ctx context.Context, transactions []models.Transaction) error
	GetAll(ctx context.Context) ([]models.Transaction, error)
	GetTotalsByType(ctx context.Context) ([]models.TypeTotal, error)
	GetTotalsByCategory(ctx context.Context) ([]models.CategoryTypeTotal, error)
	Count(ctx context.Context) (int64, error)
}
