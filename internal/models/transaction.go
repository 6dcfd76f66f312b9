package models

import (
	"time"

	"khatabook/internal/ledger"

	"github.com/shopspring/decimal"
)

// Transaction is one stored pay, receive or transfer entry. DebitAccount and
// CreditAccount hold free-form account references, not foreign keys.
type Transaction struct {
	Base
	UserID        string          `gorm:"size:36;not null;index" json:"user_id"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	Category      string          `gorm:"size:100;default:'Other'" json:"category"`
	Description   string          `gorm:"size:500" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	DebitAccount  string          `gorm:"size:100" json:"debit_account"`
	CreditAccount string          `gorm:"size:100" json:"credit_account"`
	Type          string          `gorm:"size:20;not null" json:"type"`
}

// Ledger converts the row into the ledger's view of a transaction. Dates are
// stored as UTC midnight of the calendar day; the day is moved to midnight in
// loc so date filters compare against the user's calendar.
func (t Transaction) Ledger(loc *time.Location) ledger.Transaction {
	var date time.Time
	if !t.Date.IsZero() {
		y, m, d := t.Date.UTC().Date()
		date = time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	return ledger.Transaction{
		ID:          t.ID,
		Date:        date,
		Category:    t.Category,
		Description: t.Description,
		Amount:      t.Amount,
		DebitRef:    t.DebitAccount,
		CreditRef:   t.CreditAccount,
		Type:        t.Type,
		CreatedAt:   t.CreatedAt,
	}
}

// LedgerTransactions converts a slice of rows, preserving order.
func LedgerTransactions(rows []Transaction, loc *time.Location) []ledger.Transaction {
	out := make([]ledger.Transaction, len(rows))
	for i, r := range rows {
		out[i] = r.Ledger(loc)
	}
	return out
}
