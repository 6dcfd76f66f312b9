package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "khatabook/internal/errors"
	"khatabook/internal/ledger"
	"khatabook/internal/models"
)

// reportService derives every view from a fresh snapshot. Nothing is cached
// between calls.
type reportService struct {
	db       *gorm.DB
	accounts AccountServicer
	loc      *time.Location
	now      func() time.Time
}

// NewReportService creates a new ReportServicer. Dates and presets are
// evaluated in loc.
func NewReportService(db *gorm.DB, accounts AccountServicer, loc *time.Location) ReportServicer {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{db: db, accounts: accounts, loc: loc, now: time.Now}
}

type snapshot struct {
	txns []ledger.Transaction
	reg  *ledger.Registry
	now  time.Time
}

// snapshot loads the user's transactions (newest first) and registry
// concurrently.
func (s *reportService) snapshot(ctx context.Context, userID string) (*snapshot, error) {
	var (
		rows []models.Transaction
		reg  *ledger.Registry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.db.WithContext(gctx).
			Where("user_id = ?", userID).
			Order("date DESC, created_at DESC").
			Find(&rows).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		reg, err = s.accounts.GetRegistry(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &snapshot{
		txns: models.LedgerTransactions(rows, s.loc),
		reg:  reg,
		now:  s.now().In(s.loc),
	}, nil
}

// window narrows the snapshot to an optional date range.
func (snap *snapshot) window(r *ledger.DateRange) []ledger.Transaction {
	if r == nil {
		return snap.txns
	}
	return ledger.Filter(snap.txns, ledger.Criteria{DateRange: r}, snap.reg, snap.now)
}

// Dashboard returns totals, visible account balances, net worth and the most
// recent transactions.
func (s *reportService) Dashboard(ctx context.Context, userID string) (*ledger.Dashboard, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	dashboard := ledger.BuildDashboard(snap.txns, snap.reg)
	return &dashboard, nil
}

// NetWorth returns the sum of every account balance.
func (s *reportService) NetWorth(ctx context.Context, userID string) (decimal.Decimal, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.NetWorth(snap.txns, snap.reg), nil
}

// AccountBalances returns every account, hidden ones included, with its
// inflow, outflow and balance.
func (s *reportService) AccountBalances(ctx context.Context, userID string) ([]ledger.AccountBalance, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals := ledger.AccountTotals(snap.txns, snap.reg)
	accounts := snap.reg.Accounts()
	out := make([]ledger.AccountBalance, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, ledger.AccountBalance{Account: a, AccountSummary: totals[a.ID]})
	}
	return out, nil
}

// Run executes a custom report.
func (s *reportService) Run(ctx context.Context, userID string, criteria ledger.Criteria) (*ledger.Report, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	report := ledger.BuildReport(snap.txns, criteria, snap.reg, snap.now)
	return &report, nil
}

func (s *reportService) ExpenseSummary(ctx context.Context, userID string, window *ledger.DateRange) (*ledger.FlowSummary, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := ledger.ExpenseSummary(snap.window(window))
	return &summary, nil
}

func (s *reportService) IncomeSummary(ctx context.Context, userID string, window *ledger.DateRange) (*ledger.FlowSummary, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := ledger.IncomeSummary(snap.window(window))
	return &summary, nil
}

func (s *reportService) CategoryExpenses(ctx context.Context, userID string, window *ledger.DateRange) ([]ledger.CategoryAmount, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ledger.CategoryExpenses(snap.window(window)), nil
}

// AccountReport reports flows inside the window; current balances always
// cover the whole history.
func (s *reportService) AccountReport(ctx context.Context, userID string, window *ledger.DateRange) ([]ledger.AccountRow, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ledger.AccountReport(snap.window(window), snap.txns, snap.reg), nil
}

func (s *reportService) MonthlyTrend(ctx context.Context, userID string, window *ledger.DateRange) ([]ledger.MonthRow, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ledger.MonthlyTrend(snap.window(window)), nil
}

func (s *reportService) DetailedTransactions(ctx context.Context, userID string, window *ledger.DateRange) ([]ledger.DetailRow, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ledger.DetailedTransactions(snap.window(window), snap.reg), nil
}
