package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"finledger/internal/config"
	"finledger/internal/dto"
	"finledger/internal/errors"
	"finledger/internal/services"

	"github.com/labstack/echo/v4"
)

const importFormField = "file"

// ImportHandler handles CSV uploads
type ImportHandler struct {
	importService  services.ImportServiceInterface
	uploadDir      string
	maxUploadBytes int64
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService services.ImportServiceInterface, cfg config.ImportConfig) *ImportHandler {
	return &ImportHandler{
		importService:  importService,
		uploadDir:      cfg.UploadDir,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// ImportTransactions stores the uploaded CSV under a random name, imports it and
// removes it afterwards
// @Summary Import transactions
// @Description Import a CSV file with the columns title, type, value, category. Missing categories are created.
// @Tags Transactions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 201 {object} dto.ImportResponse "Imported transactions"
// @Failure 400 {object} errors.ErrorResponse "IMPORT_001 - Malformed row or IMPORT_002 - Missing file"
// @Failure 413 {object} errors.ErrorResponse "IMPORT_003 - File too large"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions/import [post]
func (h *ImportHandler) ImportTransactions(c echo.Context) error {
	fileHeader, err := c.FormFile(importFormField)
	if err != nil {
		return SendError(c, errors.ImportFileMissing)
	}

	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		return SendError(c, errors.ImportFileTooLarge)
	}

	filename, err := saveUpload(fileHeader, h.uploadDir)
	if err != nil {
		return SendSystemError(c, err)
	}
	defer func() {
		if err := os.Remove(filepath.Join(h.uploadDir, filename)); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove uploaded file", "file", filename, "error", err)
		}
	}()

	transactions, err := h.importService.Execute(c.Request().Context(), filename)
	if err != nil {
		var rowErr *services.RowError
		switch {
		case stderrors.As(err, &rowErr):
			return SendError(c, errors.ImportMalformedRow, errors.WithDetails(rowErr.Error()))
		case stderrors.Is(err, services.ErrInsufficientBalance):
			return SendError(c, errors.TransactionInsufficientFunds, errors.WithMessage(err.Error()))
		case stderrors.Is(err, services.ErrInvalidImportFile):
			return SendError(c, errors.ImportInvalidFile)
		default:
			return SendSystemError(c, err)
		}
	}

	return c.JSON(http.StatusCreated, dto.ImportResponse{
		Transactions: transactions,
		Count:        len(transactions),
	})
}
