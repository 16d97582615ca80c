package handlers

import (
	stderrors "errors"
	"net/http"

	"finledger/internal/dto"
	"finledger/internal/errors"
	"finledger/internal/models"
	"finledger/internal/services"

	"github.com/labstack/echo/v4"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
	balanceService     services.BalanceServiceInterface
}

// InvalidTransactionCode picks the error code for a rejected transaction input
func InvalidTransactionCode(err error) errors.ErrorCode {
	switch {
	case stderrors.Is(err, models.ErrInvalidValue),
		stderrors.Is(err, models.ErrValuePrecision),
		stderrors.Is(err, models.ErrValueTooLarge):
		return errors.TransactionInvalidValue
	case stderrors.Is(err, models.ErrCategoryRequired):
		return errors.CategoryTitleMissing
	case stderrors.Is(err, models.ErrTitleRequired):
		return errors.ValidationRequiredField
	default:
		return errors.ValidationGeneral
	}
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(
	transactionService services.TransactionServiceInterface,
	balanceService services.BalanceServiceInterface,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		balanceService:     balanceService,
	}
}

// CreateTransaction records a single income or outcome
// @Summary Create transaction
// @Description Create a transaction. Outcomes larger than the current balance are rejected. The category is created on first use.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionView "Created transaction"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001, VALIDATION_002, TRANSACTION_002 or CATEGORY_001 - Invalid request"
// @Failure 422 {object} errors.ErrorResponse "TRANSACTION_003 - Not enough balance"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req dto.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	transaction, err := h.transactionService.Execute(c.Request().Context(), services.CreateTransactionInput{
		Title:    req.Title,
		Value:    req.Value,
		Type:     req.Type,
		Category: req.Category,
	})
	if err != nil {
		switch {
		case stderrors.Is(err, services.ErrInvalidTransaction):
			return SendError(c, InvalidTransactionCode(err), errors.WithDetails(err.Error()))
		case stderrors.Is(err, services.ErrInsufficientBalance):
			return SendError(c, errors.TransactionInsufficientFunds, errors.WithMessage(err.Error()))
		default:
			return SendSystemError(c, err)
		}
	}

	return c.JSON(http.StatusCreated, transaction)
}

// ListTransactions returns every transaction together with the current balance
// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Success 200 {object} dto.TransactionListResponse "Transactions and balance"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	response, err := h.transactionService.List(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}
	return c.JSON(http.StatusOK, response)
}

// GetBalance returns the income, outcome and total of the ledger
// @Summary Get balance
// @Tags Transactions
// @Produce json
// @Success 200 {object} models.Balance "Current balance"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions/balance [get]
func (h *TransactionHandler) GetBalance(c echo.Context) error {
	balance, err := h.balanceService.GetBalance(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}
	return c.JSON(http.StatusOK, balance)
}
