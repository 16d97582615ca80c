package server

import (
	"log/slog"

	"finledger/internal/config"
	"finledger/internal/repositories"
	"finledger/internal/services"

	"gorm.io/gorm"
)

// Ledger groups the services behind the HTTP API and the CLI. Both share one
// LedgerLock so writes from either path are serialized within a process.
type Ledger struct {
	Balance      services.BalanceServiceInterface
	Categories   services.CategoryServiceInterface
	Transactions services.TransactionServiceInterface
	Import       services.ImportServiceInterface
}

// NewLedger wires repositories and services on top of db
func NewLedger(db *gorm.DB, cfg config.ImportConfig, metrics services.MetricsRecorderInterface, logger *slog.Logger) *Ledger {
	categoryRepo := repositories.NewCategoryRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)

	lock := services.NewLedgerLock()
	balanceService := services.NewBalanceService(transactionRepo)
	resolver := services.NewCategoryResolver(categoryRepo, logger)

	return &Ledger{
		Balance:      balanceService,
		Categories:   services.NewCategoryService(categoryRepo, transactionRepo),
		Transactions: services.NewTransactionService(transactionRepo, balanceService, resolver, lock, metrics, logger),
		Import:       services.NewImportService(cfg, transactionRepo, balanceService, resolver, lock, metrics, logger),
	}
}
