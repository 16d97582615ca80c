package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finledger/internal/dto"
	"finledger/internal/models"
	"finledger/internal/services"
	"finledger/internal/services/service_mocks"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TransactionHandlerTestSuite struct {
	suite.Suite
	echo                   *echo.Echo
	ctrl                   *gomock.Controller
	mockTransactionService *service_mocks.MockTransactionServiceInterface
	mockBalanceService     *service_mocks.MockBalanceServiceInterface
	handler                *TransactionHandler
}

func TestTransactionHandlerSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}

func (s *TransactionHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.echo.Validator = NewValidator()
	s.ctrl = gomock.NewController(s.T())
	s.mockTransactionService = service_mocks.NewMockTransactionServiceInterface(s.ctrl)
	s.mockBalanceService = service_mocks.NewMockBalanceServiceInterface(s.ctrl)
	s.handler = NewTransactionHandler(s.mockTransactionService, s.mockBalanceService)
}

func (s *TransactionHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *TransactionHandlerTestSuite) newJSONContext(method, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/transactions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return s.echo.NewContext(req, rec), rec
}

func (s *TransactionHandlerTestSuite) decodeError(rec *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func newTransactionView(title, txType string, value int64, category string) dto.TransactionView {
	now := time.Now().UTC()
	return dto.TransactionView{
		ID:    uuid.New(),
		Title: title,
		Value: decimal.NewFromInt(value),
		Type:  txType,
		Category: dto.CategoryView{
			ID:        uuid.New(),
			Title:     category,
			CreatedAt: now,
			UpdatedAt: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTransaction Tests

func (s *TransactionHandlerTestSuite) TestCreateTransaction_Success() {
	title := gofakeit.Sentence(3)
	view := newTransactionView(title, models.TransactionTypeIncome, 5000, "Salary")

	s.mockTransactionService.EXPECT().
		Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input services.CreateTransactionInput) (*dto.TransactionView, error) {
			s.Equal(title, input.Title)
			s.True(decimal.NewFromInt(5000).Equal(input.Value))
			s.Equal(models.TransactionTypeIncome, input.Type)
			s.Equal("Salary", input.Category)
			return &view, nil
		})

	body := fmt.Sprintf(`{"title":%q,"value":5000,"type":"income","category":"Salary"}`, title)
	c, rec := s.newJSONContext(http.MethodPost, body)

	s.Require().NoError(s.handler.CreateTransaction(c))
	s.Equal(http.StatusCreated, rec.Code)

	var resp dto.TransactionView
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(view.ID, resp.ID)
	s.Equal(title, resp.Title)
	s.True(decimal.NewFromInt(5000).Equal(resp.Value))
	s.Equal("Salary", resp.Category.Title)
	s.NotContains(rec.Body.String(), "category_id")
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_InvalidJSON() {
	c, rec := s.newJSONContext(http.MethodPost, `{"title":`)

	s.Require().NoError(s.handler.CreateTransaction(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_001", s.decodeError(rec).Error.Code)
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_ValidationFailure() {
	testCases := []struct {
		name  string
		body  string
		field string
	}{
		{"missing title", `{"value":10,"type":"income","category":"Food"}`, "title"},
		{"unknown type", `{"title":"x","value":10,"type":"transfer","category":"Food"}`, "type"},
		{"missing category", `{"title":"x","value":10,"type":"outcome"}`, "category"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			c, _ := s.newJSONContext(http.MethodPost, tc.body)

			err := s.handler.CreateTransaction(c)

			var validationErrs validator.ValidationErrors
			s.Require().ErrorAs(err, &validationErrs)
			s.Equal(tc.field, validationErrs[0].Field())
		})
	}
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_NonPositiveValue() {
	s.mockTransactionService.EXPECT().
		Execute(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: %w", services.ErrInvalidTransaction, models.ErrInvalidValue))

	c, rec := s.newJSONContext(http.MethodPost, `{"title":"Refund","value":0,"type":"income","category":"Misc"}`)

	s.Require().NoError(s.handler.CreateTransaction(c))
	s.Equal(http.StatusBadRequest, rec.Code)

	resp := s.decodeError(rec)
	s.Equal("TRANSACTION_002", resp.Error.Code)
	s.Require().Len(resp.Error.Details, 1)
	s.Contains(resp.Error.Details[0], models.ErrInvalidValue.Error())
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_InvalidInputCodes() {
	testCases := []struct {
		name  string
		body  string
		cause error
		code  string
	}{
		{"sub-cent value", `{"title":"Interest","value":"0.001","type":"income","category":"Bank"}`, models.ErrValuePrecision, "TRANSACTION_002"},
		{"value too large", `{"title":"Lottery","value":"10000000000000","type":"income","category":"Luck"}`, models.ErrValueTooLarge, "TRANSACTION_002"},
		{"blank category", `{"title":"Lunch","value":5,"type":"outcome","category":"  "}`, models.ErrCategoryRequired, "CATEGORY_001"},
		{"blank title", `{"title":"  ","value":5,"type":"outcome","category":"Food"}`, models.ErrTitleRequired, "VALIDATION_002"},
		{"cause without a dedicated code", `{"title":"Lunch","value":5,"type":"income","category":"Food"}`, models.ErrInvalidTransactionType, "VALIDATION_001"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.mockTransactionService.EXPECT().
				Execute(gomock.Any(), gomock.Any()).
				Return(nil, fmt.Errorf("%w: %w", services.ErrInvalidTransaction, tc.cause))

			c, rec := s.newJSONContext(http.MethodPost, tc.body)

			s.Require().NoError(s.handler.CreateTransaction(c))
			s.Equal(http.StatusBadRequest, rec.Code)
			s.Equal(tc.code, s.decodeError(rec).Error.Code)
		})
	}
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_InsufficientBalance() {
	s.mockTransactionService.EXPECT().
		Execute(gomock.Any(), gomock.Any()).
		Return(nil, services.ErrInsufficientBalance)

	c, rec := s.newJSONContext(http.MethodPost, `{"title":"Rent","value":1500,"type":"outcome","category":"Housing"}`)

	s.Require().NoError(s.handler.CreateTransaction(c))
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	resp := s.decodeError(rec)
	s.Equal("TRANSACTION_003", resp.Error.Code)
	s.Equal(services.ErrInsufficientBalance.Error(), resp.Error.Message)
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_ServiceError() {
	s.mockTransactionService.EXPECT().
		Execute(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("failed to create transaction: connection reset"))

	c, rec := s.newJSONContext(http.MethodPost, `{"title":"Rent","value":10,"type":"outcome","category":"Housing"}`)
	c.Set(TraceIDContextKey, "trace-1")

	s.Require().NoError(s.handler.CreateTransaction(c))
	s.Equal(http.StatusInternalServerError, rec.Code)

	resp := s.decodeError(rec)
	s.Equal("SYSTEM_001", resp.Error.Code)
	s.Equal("trace-1", resp.Error.TraceID)
	s.NotContains(rec.Body.String(), "connection reset")
}

// ListTransactions Tests

func (s *TransactionHandlerTestSuite) TestListTransactions_Success() {
	response := &dto.TransactionListResponse{
		Transactions: []dto.TransactionView{
			newTransactionView("Salary", models.TransactionTypeIncome, 5000, "Salary"),
			newTransactionView("Rent", models.TransactionTypeOutcome, 1500, "Housing"),
		},
		Balance: models.Balance{
			Income:  decimal.NewFromInt(5000),
			Outcome: decimal.NewFromInt(1500),
			Total:   decimal.NewFromInt(3500),
		},
	}
	s.mockTransactionService.EXPECT().List(gomock.Any()).Return(response, nil)

	c, rec := s.newJSONContext(http.MethodGet, "")

	s.Require().NoError(s.handler.ListTransactions(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.TransactionListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Len(resp.Transactions, 2)
	s.Equal("Salary", resp.Transactions[0].Title)
	s.Equal("Rent", resp.Transactions[1].Title)
	s.True(decimal.NewFromInt(3500).Equal(resp.Balance.Total))
}

func (s *TransactionHandlerTestSuite) TestListTransactions_EmptyLedger() {
	s.mockTransactionService.EXPECT().List(gomock.Any()).Return(&dto.TransactionListResponse{
		Transactions: []dto.TransactionView{},
		Balance:      models.NewBalance(nil),
	}, nil)

	c, rec := s.newJSONContext(http.MethodGet, "")

	s.Require().NoError(s.handler.ListTransactions(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"transactions":[]`)
}

func (s *TransactionHandlerTestSuite) TestListTransactions_ServiceError() {
	s.mockTransactionService.EXPECT().List(gomock.Any()).Return(nil, fmt.Errorf("db down"))

	c, rec := s.newJSONContext(http.MethodGet, "")

	s.Require().NoError(s.handler.ListTransactions(c))
	s.Equal(http.StatusInternalServerError, rec.Code)
}

// GetBalance Tests

func (s *TransactionHandlerTestSuite) TestGetBalance_Success() {
	s.mockBalanceService.EXPECT().GetBalance(gomock.Any()).Return(models.Balance{
		Income:  decimal.NewFromInt(100),
		Outcome: decimal.NewFromInt(30),
		Total:   decimal.NewFromInt(70),
	}, nil)

	c, rec := s.newJSONContext(http.MethodGet, "")

	s.Require().NoError(s.handler.GetBalance(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp models.Balance
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(decimal.NewFromInt(70).Equal(resp.Total))
}

func (s *TransactionHandlerTestSuite) TestGetBalance_ServiceError() {
	s.mockBalanceService.EXPECT().GetBalance(gomock.Any()).Return(models.Balance{}, fmt.Errorf("db down"))

	c, rec := s.newJSONContext(http.MethodGet, "")

	s.Require().NoError(s.handler.GetBalance(c))
	s.Equal(http.StatusInternalServerError, rec.Code)
}
