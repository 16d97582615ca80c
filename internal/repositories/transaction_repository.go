package repositories

import (
	"context"
	"fmt"

	"finledger/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 500

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction. The category association is never written
// through the transaction; it must already exist.
func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// CreateBatch creates multiple transactions in a single database transaction
func (r *transactionRepository) CreateBatch(ctx context.Context, transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).CreateInBatches(&transactions, batchSize).Error; err != nil {
			return fmt.Errorf("failed to create batch transactions: %w", err)
		}
		return nil
	})
}

// GetAll retrieves every transaction with its category, oldest first
func (r *transactionRepository) GetAll(ctx context.Context) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}

// GetTotalsByType sums transaction values grouped by type
func (r *transactionRepository) GetTotalsByType(ctx context.Context) ([]models.TypeTotal, error) {
	var totals []models.TypeTotal
	if err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(value), 0) AS total").
		Group("type").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to get transaction totals: %w", err)
	}
	return totals, nil
}

// GetTotalsByCategory counts and sums transaction values grouped by category and type
func (r *transactionRepository) GetTotalsByCategory(ctx context.Context) ([]models.CategoryTypeTotal, error) {
	var totals []models.CategoryTypeTotal
	if err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("category_id, type, COUNT(*) AS count, COALESCE(SUM(value), 0) AS total").
		Group("category_id, type").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to get category totals: %w", err)
	}
	return totals, nil
}

// Count returns the number of stored transactions
func (r *transactionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}
