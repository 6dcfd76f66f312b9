package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"khatabook/internal/identity"
	"khatabook/internal/ledger"
	"khatabook/internal/models"
	"khatabook/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	FindOrCreateGoogleUser(id *identity.Identity) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// AccountServicer manages a user's chart of accounts. The registry is
// rebuilt from stored overrides on every call and persisted after every
// successful mutation.
type AccountServicer interface {
	GetRegistry(ctx context.Context, userID string) (*ledger.Registry, error)
	ListAccounts(userID string, visibleOnly bool) ([]ledger.Account, error)
	UpsertAccount(userID string, in ledger.AccountInput) (*ledger.Account, error)
	DeleteAccount(userID, accountID string) error
	ReorderAccounts(userID string, ids []string) ([]ledger.Account, error)
}

// CategoryServicer manages a user's pay and receive category lists.
type CategoryServicer interface {
	GetCategories(userID string) (ledger.Categories, error)
	AddCategory(userID string, side ledger.FlowType, label string) (ledger.Categories, error)
	RenameCategory(userID string, side ledger.FlowType, index int, label string) (ledger.Categories, error)
	DeleteCategory(userID string, side ledger.FlowType, index int) (ledger.Categories, error)
}

// TransactionInput holds the fields of a new transaction.
type TransactionInput struct {
	Date          time.Time
	Category      string
	Description   string
	Amount        decimal.Decimal
	DebitAccount  string
	CreditAccount string
	Type          string
}

// TransactionUpdate holds the fields of a partial update. Nil fields keep
// their stored value.
type TransactionUpdate struct {
	Date          *time.Time
	Category      *string
	Description   *string
	Amount        *decimal.Decimal
	DebitAccount  *string
	CreditAccount *string
	Type          *string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *string
	Category *string
	Account  *string
}

// TransactionServicer is the storage collaborator for transactions. Every
// call is scoped to one user.
type TransactionServicer interface {
	ListTransactions(userID string) ([]models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error)
	BulkCreate(userID string, inputs []TransactionInput) (int, error)
	UpdateTransaction(userID, transactionID string, upd TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// ReportServicer derives dashboards and reports from a fresh snapshot of a
// user's transactions and settings.
type ReportServicer interface {
	Dashboard(ctx context.Context, userID string) (*ledger.Dashboard, error)
	NetWorth(ctx context.Context, userID string) (decimal.Decimal, error)
	AccountBalances(ctx context.Context, userID string) ([]ledger.AccountBalance, error)
	Run(ctx context.Context, userID string, criteria ledger.Criteria) (*ledger.Report, error)
	ExpenseSummary(ctx context.Context, userID string, window *ledger.DateRange) (*ledger.FlowSummary, error)
	IncomeSummary(ctx context.Context, userID string, window *ledger.DateRange) (*ledger.FlowSummary, error)
	CategoryExpenses(ctx context.Context, userID string, window *ledger.DateRange) ([]ledger.CategoryAmount, error)
	AccountReport(ctx context.Context, userID string, window *ledger.DateRange) ([]ledger.AccountRow, error)
	MonthlyTrend(ctx context.Context, userID string, window *ledger.DateRange) ([]ledger.MonthRow, error)
	DetailedTransactions(ctx context.Context, userID string, window *ledger.DateRange) ([]ledger.DetailRow, error)
}

// TemplateServicer stores named report configurations.
type TemplateServicer interface {
	ListTemplates(userID string) ([]models.ReportTemplate, error)
	CreateTemplate(userID, name string, criteria ledger.Criteria, views models.ReportViews) (*models.ReportTemplate, error)
	DeleteTemplate(userID, templateID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
