package services

import (
	"context"
	"fmt"

	"finledger/internal/models"
	"finledger/internal/repositories"
)

type categoryService struct {
	categoryRepo    repositories.CategoryRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
}

// NewCategoryService creates a new CategoryServiceInterface instance
func NewCategoryService(
	categoryRepo repositories.CategoryRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
) CategoryServiceInterface {
	return &categoryService{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
	}
}

// ListSummaries returns every category ordered by title with its income,
// outcome and transaction count. The two reads are not taken under the
// ledger lock, so a concurrent write may show up in only one of them.
func (s *categoryService) ListSummaries(ctx context.Context) ([]models.CategorySummary, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	totals, err := s.transactionRepo.GetTotalsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize categories: %w", err)
	}

	return models.SummarizeCategories(categories, totals), nil
}
