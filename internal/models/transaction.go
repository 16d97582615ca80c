package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeOutcome = "outcome"
)

// ValueScale is the number of decimal places stored for a transaction value
const ValueScale int32 = 2

// maxValue is the first value that no longer fits decimal(15,2)
var maxValue = decimal.New(1, 15-ValueScale)

var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidValue           = errors.New("transaction value must be positive")
	ErrTitleRequired          = errors.New("transaction title is required")
	ErrCategoryRequired       = errors.New("transaction category is required")
	ErrValuePrecision         = errors.New("transaction value must have at most 2 decimal places")
	ErrValueTooLarge          = errors.New("transaction value is too large")
)

// ValidateValue checks that value is positive and storable without rounding
func ValidateValue(value decimal.Decimal) error {
	switch {
	case !value.IsPositive():
		return ErrInvalidValue
	case !value.Equal(value.Truncate(ValueScale)):
		return ErrValuePrecision
	case value.GreaterThanOrEqual(maxValue):
		return ErrValueTooLarge
	}
	return nil
}

// Transaction represents a ledger entry
type Transaction struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Title      string          `gorm:"type:varchar(255);not null" json:"title"`
	Value      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"value"`
	Type       string          `gorm:"type:varchar(10);not null;index" json:"type"`
	CategoryID uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	CreatedAt  time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`

	// Associations
	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()

	// Set timestamps if not already set (for tests)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrTitleRequired
	}

	if !IsValidTransactionType(t.Type) {
		return ErrInvalidTransactionType
	}

	if err := ValidateValue(t.Value); err != nil {
		return err
	}

	if t.CategoryID == uuid.Nil && t.Category == nil {
		return ErrCategoryRequired
	}

	return nil
}

// IsIncome returns true if the transaction increases the balance
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// IsOutcome returns true if the transaction decreases the balance
func (t *Transaction) IsOutcome() bool {
	return t.Type == TransactionTypeOutcome
}

// SignedValue returns the value as it affects the balance
func (t *Transaction) SignedValue() decimal.Decimal {
	if t.IsOutcome() {
		return t.Value.Neg()
	}
	return t.Value
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// IsValidTransactionType checks if the transaction type is valid
func IsValidTransactionType(transactionType string) bool {
	switch transactionType {
	case TransactionTypeIncome, TransactionTypeOutcome:
		return true
	default:
		return false
	}
}
