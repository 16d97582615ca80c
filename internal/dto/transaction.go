package dto

import (
	"time"

	"finledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest represents the body of a transaction creation request.
// Value is checked by the service since the validator cannot compare decimals.
type CreateTransactionRequest struct {
	Title    string          `json:"title" validate:"required,max=255"`
	Value    decimal.Decimal `json:"value"`
	Type     string          `json:"type" validate:"required,oneof=income outcome"`
	Category string          `json:"category" validate:"required,max=255"`
}

// CategoryView is the public representation of a category
type CategoryView struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransactionView is the public representation of a transaction. The category
// is embedded instead of being referenced by id.
type TransactionView struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Value     decimal.Decimal `json:"value"`
	Type      string          `json:"type"`
	Category  CategoryView    `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TransactionListResponse represents the response for listing transactions
type TransactionListResponse struct {
	Transactions []TransactionView `json:"transactions"`
	Balance      models.Balance    `json:"balance"`
}

// ImportResponse represents the response of a CSV import
type ImportResponse struct {
	Transactions []TransactionView `json:"transactions"`
	Count        int               `json:"count"`
}

// NewCategoryView converts a category model
func NewCategoryView(category *models.Category) CategoryView {
	return CategoryView{
		ID:        category.ID,
		Title:     category.Title,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

// NewTransactionView converts a transaction model. When the category was not
// loaded only its id is carried.
func NewTransactionView(transaction *models.Transaction) TransactionView {
	category := CategoryView{ID: transaction.CategoryID}
	if transaction.Category != nil {
		category = NewCategoryView(transaction.Category)
	}

	return TransactionView{
		ID:        transaction.ID,
		Title:     transaction.Title,
		Value:     transaction.Value,
		Type:      transaction.Type,
		Category:  category,
		CreatedAt: transaction.CreatedAt,
		UpdatedAt: transaction.UpdatedAt,
	}
}

// NewTransactionViews converts transactions preserving their order
func NewTransactionViews(transactions []models.Transaction) []TransactionView {
	views := make([]TransactionView, 0, len(transactions))
	for i := range transactions {
		views = append(views, NewTransactionView(&transactions[i]))
	}
	return views
}
