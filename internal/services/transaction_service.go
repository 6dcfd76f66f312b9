package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "khatabook/internal/errors"
	"khatabook/internal/ledger"
	"khatabook/internal/models"
	"khatabook/internal/pagination"
)

// transactionService handles transaction storage. Every query is scoped to
// one user.
type transactionService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db, now: time.Now}
}

// calendarDay returns UTC midnight of t's calendar date, the form dates are
// stored in.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// normalizeType lower-cases a submitted type and rejects unknown flows.
func normalizeType(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "type is required")
	}
	flow := ledger.ClassifyFlow(strings.TrimSpace(raw))
	if !flow.Valid() {
		return "", apperrors.ErrInvalidTransactionType
	}
	return flow.String(), nil
}

// importType normalises a known type and keeps an unknown one as written.
func importType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ledger.FlowOutgoing.String()
	}
	if flow := ledger.ClassifyFlow(raw); flow.Valid() {
		return flow.String()
	}
	return raw
}

// defaultCategory labels uncategorised transfers "Transfer" and everything
// else "Other".
func defaultCategory(category, txnType string) string {
	category = strings.TrimSpace(category)
	if category != "" {
		return category
	}
	if txnType == ledger.FlowTransfer.String() {
		return "Transfer"
	}
	return ledger.DefaultCategory
}

// ListTransactions returns all of a user's transactions, newest first.
func (s *transactionService) ListTransactions(userID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetUserTransactions retrieves a paginated, filtered list of transactions for a user.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", calendarDay(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", calendarDay(*f.ToDate))
	}
	if f.Type != nil {
		q = q.Where("type = ?", strings.ToLower(*f.Type))
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.Account != nil {
		q = q.Where("debit_account = ? OR credit_account = ?", *f.Account, *f.Account)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// CreateTransaction stores one transaction. Date and type are required.
func (s *transactionService) CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error) {
	if in.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	txnType, err := normalizeType(in.Type)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:        userID,
		Date:          calendarDay(in.Date),
		Category:      defaultCategory(in.Category, txnType),
		Description:   strings.TrimSpace(in.Description),
		Amount:        in.Amount,
		DebitAccount:  strings.TrimSpace(in.DebitAccount),
		CreditAccount: strings.TrimSpace(in.CreditAccount),
		Type:          txnType,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// BulkCreate imports legacy entries in one database transaction. Missing
// dates become today and missing types become pay. Unknown types are kept
// verbatim and count toward no total. Either every entry is stored or none
// is.
func (s *transactionService) BulkCreate(userID string, inputs []TransactionInput) (int, error) {
	if len(inputs) == 0 {
		return 0, nil
	}

	rows := make([]models.Transaction, 0, len(inputs))
	today := calendarDay(s.now())
	for _, in := range inputs {
		date := today
		if !in.Date.IsZero() {
			date = calendarDay(in.Date)
		}
		txnType := importType(in.Type)
		rows = append(rows, models.Transaction{
			UserID:        userID,
			Date:          date,
			Category:      defaultCategory(in.Category, txnType),
			Description:   strings.TrimSpace(in.Description),
			Amount:        in.Amount,
			DebitAccount:  strings.TrimSpace(in.DebitAccount),
			CreditAccount: strings.TrimSpace(in.CreditAccount),
			Type:          txnType,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&rows, 100).Error
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(rows), nil
}

// UpdateTransaction applies the non-nil fields of upd and returns the stored
// result.
func (s *transactionService) UpdateTransaction(userID, transactionID string, upd TransactionUpdate) (*models.Transaction, error) {
	existing, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	txnType := existing.Type
	if upd.Type != nil {
		t, err := normalizeType(*upd.Type)
		if err != nil {
			return nil, err
		}
		txnType = t
		fields["type"] = t
	}
	if upd.Date != nil {
		if upd.Date.IsZero() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
		}
		fields["date"] = calendarDay(*upd.Date)
	}
	if upd.Category != nil {
		fields["category"] = defaultCategory(*upd.Category, txnType)
	}
	if upd.Description != nil {
		fields["description"] = strings.TrimSpace(*upd.Description)
	}
	if upd.Amount != nil {
		fields["amount"] = *upd.Amount
	}
	if upd.DebitAccount != nil {
		fields["debit_account"] = strings.TrimSpace(*upd.DebitAccount)
	}
	if upd.CreditAccount != nil {
		fields["credit_account"] = strings.TrimSpace(*upd.CreditAccount)
	}

	if len(fields) > 0 {
		if err := s.db.Model(&models.Transaction{}).
			Where("id = ? AND user_id = ?", transactionID, userID).
			Updates(fields).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction removes a transaction owned by the user.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	res := s.db.Where("id = ? AND user_id = ?", transactionID, userID).Delete(&models.Transaction{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}
