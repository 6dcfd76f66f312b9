package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is reported for transactions that carry no category.
const DefaultCategory = "Other"

// Transaction is the read-only view of a stored transaction the ledger
// aggregates over. DebitRef and CreditRef are free-form account references,
// not foreign keys. A zero Date means the stored date was missing or
// unparseable.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DebitRef    string          `json:"debit_account"`
	CreditRef   string          `json:"credit_account"`
	Type        string          `json:"type"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Flow classifies the transaction's type string.
func (t Transaction) Flow() FlowType {
	return ClassifyFlow(t.Type)
}

// CategoryOrDefault returns the category label used for grouping.
func (t Transaction) CategoryOrDefault() string {
	if t.Category == "" {
		return DefaultCategory
	}
	return t.Category
}

// HasDate reports whether the transaction carries a usable date.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}
