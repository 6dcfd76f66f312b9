package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "khatabook/internal/errors"
	"khatabook/internal/models"
	"khatabook/internal/pagination"
	"khatabook/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	listTransactionsFn    func(userID string) ([]models.Transaction, error)
	getUserTransactionsFn func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getTransactionByIDFn  func(userID, transactionID string) (*models.Transaction, error)
	createTransactionFn   func(userID string, in services.TransactionInput) (*models.Transaction, error)
	bulkCreateFn          func(userID string, inputs []services.TransactionInput) (int, error)
	updateTransactionFn   func(userID, transactionID string, upd services.TransactionUpdate) (*models.Transaction, error)
	deleteTransactionFn   func(userID, transactionID string) error
}

func (m *mockTransactionService) ListTransactions(userID string) ([]models.Transaction, error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(userID)
	}
	return []models.Transaction{}, nil
}

func (m *mockTransactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) CreateTransaction(userID string, in services.TransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) BulkCreate(userID string, inputs []services.TransactionInput) (int, error) {
	if m.bulkCreateFn != nil {
		return m.bulkCreateFn(userID, inputs)
	}
	return len(inputs), nil
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID string, upd services.TransactionUpdate) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, upd)
	}
	return &models.Transaction{Base: models.Base{ID: transactionID}}, nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID("user-1"))
	auth.GET("/transactions", handler.ListTransactions)
	auth.POST("/transactions", handler.CreateTransaction)
	auth.POST("/transactions/bulk", handler.BulkCreateTransactions)
	auth.GET("/transactions/:id", handler.GetTransactionByID)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.TransactionInput
		txSvc := &mockTransactionService{
			createTransactionFn: func(userID string, in services.TransactionInput) (*models.Transaction, error) {
				got = in
				return &models.Transaction{
					Base:   models.Base{ID: "txn-1"},
					UserID: userID,
					Type:   in.Type,
					Amount: in.Amount,
				}, nil
			},
		}
		audit := &mockAuditService{}
		handler := NewTransactionHandler(txSvc, audit)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"date":"2024-03-05","type":"pay","amount":"42.50","category":"Food","debit_account":"cash"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Amount.Equal(decimal.RequireFromString("42.5")) {
			t.Errorf("expected amount 42.5, got %s", got.Amount)
		}
		if !got.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected parsed date, got %v", got.Date)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_TRANSACTION" {
			t.Errorf("expected CREATE_TRANSACTION audit entry, got %v", audit.actions)
		}
	})

	t.Run("accepts numeric amount", func(t *testing.T) {
		var got decimal.Decimal
		txSvc := &mockTransactionService{
			createTransactionFn: func(_ string, in services.TransactionInput) (*models.Transaction, error) {
				got = in.Amount
				return &models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"date":"2024-03-05","type":"receive","amount":1500}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Equal(decimal.NewFromInt(1500)) {
			t.Errorf("expected 1500, got %s", got)
		}
	})

	t.Run("returns 400 on missing date", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"type":"pay","amount":10}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on missing amount", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"date":"2024-03-05","type":"pay"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"date":"2024-03-05","type":"gift","amount":10}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad date", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"date":"05/03/2024","type":"pay","amount":10}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/transactions", handler.CreateTransaction)

		rec := doRequest(r, "POST", "/transactions", `{"date":"2024-03-05","type":"pay","amount":10}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	t.Run("returns all without page", func(t *testing.T) {
		txSvc := &mockTransactionService{
			listTransactionsFn: func(_ string) ([]models.Transaction, error) {
				return []models.Transaction{{Base: models.Base{ID: "a"}}, {Base: models.Base{ID: "b"}}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		txns := parseJSON(t, rec)["transactions"].([]interface{})
		if len(txns) != 2 {
			t.Errorf("expected 2 transactions, got %d", len(txns))
		}
	})

	t.Run("paginates and filters with page", func(t *testing.T) {
		var gotPage pagination.PageRequest
		var gotFilter services.TransactionFilter
		txSvc := &mockTransactionService{
			getUserTransactionsFn: func(_ string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotPage = page
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, page.Page, 20, 0)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions?page=2&from_date=2024-01-01&type=pay&account=cash", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPage.Page != 2 {
			t.Errorf("expected page 2, got %d", gotPage.Page)
		}
		if gotFilter.FromDate == nil || gotFilter.Type == nil || *gotFilter.Type != "pay" {
			t.Errorf("expected from_date and type filters, got %+v", gotFilter)
		}
		if gotFilter.Account == nil || *gotFilter.Account != "cash" {
			t.Errorf("expected account filter, got %+v", gotFilter.Account)
		}
	})

	t.Run("returns 400 on bad from_date", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions?page=1&from_date=yesterday", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_BulkCreate(t *testing.T) {
	t.Run("coerces legacy entries", func(t *testing.T) {
		var got []services.TransactionInput
		txSvc := &mockTransactionService{
			bulkCreateFn: func(_ string, inputs []services.TransactionInput) (int, error) {
				got = inputs
				return len(inputs), nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions/bulk",
			`{"transactions":[{"amount":"abc","description":"tea"},{"date":"2023-01-02","amount":7}]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["created"].(float64) != 2 {
			t.Error("expected created count 2")
		}
		if !got[0].Amount.IsZero() {
			t.Errorf("expected non-numeric amount coerced to 0, got %s", got[0].Amount)
		}
		if !got[0].Date.IsZero() {
			t.Errorf("expected missing date left for the service to default, got %v", got[0].Date)
		}
		if got[1].Date.IsZero() {
			t.Error("expected second date parsed")
		}
	})

	t.Run("returns 400 on empty list", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions/bulk", `{"transactions":[]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransactionByID(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getTransactionByIDFn: func(_, _ string) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/missing", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("passes only supplied fields", func(t *testing.T) {
		var got services.TransactionUpdate
		var gotID string
		txSvc := &mockTransactionService{
			updateTransactionFn: func(_, id string, upd services.TransactionUpdate) (*models.Transaction, error) {
				gotID = id
				got = upd
				return &models.Transaction{Base: models.Base{ID: id}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/transactions/txn-9", `{"amount":"12.25","category":"Bills"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != "txn-9" {
			t.Errorf("expected txn-9, got %s", gotID)
		}
		if got.Amount == nil || !got.Amount.Equal(decimal.RequireFromString("12.25")) {
			t.Errorf("expected amount 12.25, got %v", got.Amount)
		}
		if got.Category == nil || *got.Category != "Bills" {
			t.Errorf("expected category Bills, got %v", got.Category)
		}
		if got.Date != nil || got.Type != nil || got.Description != nil {
			t.Errorf("expected omitted fields nil, got %+v", got)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		txSvc := &mockTransactionService{
			updateTransactionFn: func(_, _ string, _ services.TransactionUpdate) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/transactions/missing", `{"description":"x"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, audit))

		rec := doRequest(r, "DELETE", "/transactions/txn-1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "DELETE_TRANSACTION" {
			t.Errorf("expected DELETE_TRANSACTION audit entry, got %v", audit.actions)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(_, _ string) error {
				return apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/transactions/missing", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
