package services

import (
	"context"
	"fmt"

	"finledger/internal/models"
	"finledger/internal/repositories"
)

type balanceService struct {
	transactionRepo repositories.TransactionRepositoryInterface
}

// NewBalanceService creates a new balance service
func NewBalanceService(transactionRepo repositories.TransactionRepositoryInterface) BalanceServiceInterface {
	return &balanceService{
		transactionRepo: transactionRepo,
	}
}

// GetBalance aggregates every stored transaction into income, outcome and total.
// Nothing is cached; each call re-reads the store.
func (s *balanceService) GetBalance(ctx context.Context) (models.Balance, error) {
	totals, err := s.transactionRepo.GetTotalsByType(ctx)
	if err != nil {
		return models.Balance{}, fmt.Errorf("failed to calculate balance: %w", err)
	}
	return models.NewBalance(totals), nil
}
