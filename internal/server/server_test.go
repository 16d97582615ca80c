package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finledger/internal/config"
	"finledger/internal/database"
	"finledger/internal/dto"
	"finledger/internal/errors"
	"finledger/internal/middleware"
	"finledger/internal/models"
	"finledger/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ServerTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	cfg := &config.Config{
		Server: config.ServerConfig{CORSAllowOrigins: []string{"*"}},
		Import: config.ImportConfig{
			UploadDir:      s.T().TempDir(),
			MaxUploadBytes: 1 << 20,
		},
		Security: config.SecurityConfig{RateLimitPerSecond: 1000, RateLimitBurst: 1000},
	}

	db := database.SetupTestDB(s.T())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := services.NewPrometheusMetricsWith(prometheus.NewRegistry())

	s.echo = New(s.T().Context(), cfg, NewLedger(db.DB, cfg.Import, metrics, logger), db)
}

func (s *ServerTestSuite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return s.do(req)
}

func (s *ServerTestSuite) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *ServerTestSuite) upload(content string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "import.csv")
	s.Require().NoError(err)
	_, err = part.Write([]byte(content))
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/transactions/import", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return s.do(req)
}

func (s *ServerTestSuite) decodeError(rec *httptest.ResponseRecorder) errors.ErrorResponse {
	var resp errors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *ServerTestSuite) balance() models.Balance {
	rec := s.get("/transactions/balance")
	s.Require().Equal(http.StatusOK, rec.Code)

	var balance models.Balance
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &balance))
	return balance
}

func (s *ServerTestSuite) TestCreateAndListTransactions() {
	rec := s.postJSON("/transactions", `{"title":"April salary","value":3000,"type":"income","category":"Salary"}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var created dto.TransactionView
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	s.Equal("April salary", created.Title)
	s.Equal("Salary", created.Category.Title)

	rec = s.postJSON("/transactions", `{"title":"Groceries","value":"120.50","type":"outcome","category":"Food"}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.get("/transactions")
	s.Require().Equal(http.StatusOK, rec.Code)

	var list dto.TransactionListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &list))
	s.Require().Len(list.Transactions, 2)
	s.Equal("April salary", list.Transactions[0].Title)
	s.Equal("Groceries", list.Transactions[1].Title)
	s.True(decimal.RequireFromString("2879.50").Equal(list.Balance.Total))
	s.True(list.Balance.Total.Equal(s.balance().Total))
}

func (s *ServerTestSuite) TestCreateTransaction_InsufficientBalance() {
	s.Require().Equal(http.StatusCreated, s.postJSON("/transactions", `{"title":"Gift","value":50,"type":"income","category":"Others"}`).Code)

	rec := s.postJSON("/transactions", `{"title":"Laptop","value":900,"type":"outcome","category":"Tech"}`)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("TRANSACTION_003", s.decodeError(rec).Error.Code)

	s.True(decimal.NewFromInt(50).Equal(s.balance().Total))
}

func (s *ServerTestSuite) TestCreateTransaction_ValueBeyondStorageScale() {
	rec := s.postJSON("/transactions", `{"title":"Interest","value":"0.001","type":"income","category":"Bank"}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	resp := s.decodeError(rec)
	s.Equal("TRANSACTION_002", resp.Error.Code)
	s.Require().NotEmpty(resp.Error.Details)
	s.Contains(resp.Error.Details[0], "at most 2 decimal places")
	s.True(s.balance().Total.IsZero())
}

func (s *ServerTestSuite) TestCreateTransaction_BlankCategory() {
	rec := s.postJSON("/transactions", `{"title":"Lunch","value":5,"type":"income","category":"   "}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("CATEGORY_001", s.decodeError(rec).Error.Code)
}

func (s *ServerTestSuite) TestCreateTransaction_ValidationError() {
	rec := s.postJSON("/transactions", `{"title":"","value":10,"type":"loan","category":"Food"}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	resp := s.decodeError(rec)
	s.Equal("VALIDATION_001", resp.Error.Code)
	s.NotEmpty(resp.Error.Details)
	s.NotEmpty(rec.Header().Get(middleware.TraceIDHeader))
	s.Equal(rec.Header().Get(middleware.TraceIDHeader), resp.Error.TraceID)
}

func (s *ServerTestSuite) TestImportTransactions() {
	csv := "title, type, value, category\n" +
		"Loan, income, 1500, Others\n" +
		"Website Hosting, outcome, 50, Others\n" +
		"Ice cream, outcome, 3, Food\n"

	rec := s.upload(csv)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.ImportResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(3, resp.Count)
	s.Equal("Loan", resp.Transactions[0].Title)
	s.Equal(resp.Transactions[0].Category.ID, resp.Transactions[1].Category.ID)

	s.True(decimal.NewFromInt(1447).Equal(s.balance().Total))
}

func (s *ServerTestSuite) TestImportTransactions_MalformedRow() {
	rec := s.upload("title, type, value, category\nLoan, income, abc, Others\n")

	s.Equal(http.StatusBadRequest, rec.Code)
	resp := s.decodeError(rec)
	s.Equal("IMPORT_001", resp.Error.Code)
	s.Equal([]string{`line 2: invalid value "abc"`}, resp.Error.Details)
	s.True(s.balance().Total.IsZero())
}

func (s *ServerTestSuite) TestListCategories() {
	s.Require().Equal(http.StatusCreated, s.upload("title, type, value, category\nLoan, income, 1500, Others\nIce cream, outcome, 3, Food\nCake, outcome, 7, Food\n").Code)

	rec := s.get("/categories")
	s.Require().Equal(http.StatusOK, rec.Code)

	var summaries []models.CategorySummary
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &summaries))
	s.Require().Len(summaries, 2)
	s.Equal("Food", summaries[0].Title)
	s.Equal(int64(2), summaries[0].TransactionCount)
	s.True(decimal.NewFromInt(10).Equal(summaries[0].Outcome))
	s.Equal("Others", summaries[1].Title)
	s.True(decimal.NewFromInt(1500).Equal(summaries[1].Income))
}

func (s *ServerTestSuite) TestUnknownRoute() {
	rec := s.get("/accounts")

	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("SYSTEM_007", s.decodeError(rec).Error.Code)
}

func (s *ServerTestSuite) TestHealthAndMetrics() {
	rec := s.get("/health")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = s.get("/metrics")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "go_goroutines")
}
