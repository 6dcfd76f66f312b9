package services

import (
	"context"
	"testing"
	"time"

	"khatabook/internal/ledger"
	"khatabook/internal/models"
	"khatabook/internal/testutil"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestReportService(db *gorm.DB, now time.Time) *reportService {
	return &reportService{
		db:       db,
		accounts: NewAccountService(db),
		loc:      time.UTC,
		now:      func() time.Time { return now },
	}
}

func seedReportData(t *testing.T, db *gorm.DB, userID string) {
	t.Helper()
	testutil.CreateTestTransaction(t, db, userID, models.Transaction{
		Type: "receive", Category: "Salary", Amount: decimal.RequireFromString("1000"),
		CreditAccount: "bank1", Date: testutil.Day(2024, time.February, 1),
	})
	testutil.CreateTestTransaction(t, db, userID, models.Transaction{
		Type: "pay", Category: "Food", Amount: decimal.RequireFromString("120"),
		DebitAccount: "Cash Balance", Date: testutil.Day(2024, time.March, 5),
	})
	testutil.CreateTestTransaction(t, db, userID, models.Transaction{
		Type: "transfer", Category: "Transfer", Amount: decimal.RequireFromString("300"),
		DebitAccount: "bank1", CreditAccount: "cash", Date: testutil.Day(2024, time.March, 2),
	})
}

func TestReportDashboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	seedReportData(t, db, user.ID)
	svc := newTestReportService(db, time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC))

	dashboard, err := svc.Dashboard(context.Background(), user.ID)
	testutil.AssertNoError(t, err)

	if !dashboard.Totals.Incoming.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("expected incoming 1000, got %s", dashboard.Totals.Incoming)
	}
	if !dashboard.NetWorth.Equal(decimal.RequireFromString("880")) {
		t.Errorf("expected net worth 880, got %s", dashboard.NetWorth)
	}
	if len(dashboard.Recent) != 3 || dashboard.Recent[0].Category != "Food" {
		t.Errorf("expected newest transaction first, got %+v", dashboard.Recent)
	}
	for _, a := range dashboard.Accounts {
		if a.ID == "cash" && !a.Balance.Equal(decimal.RequireFromString("180")) {
			t.Errorf("expected cash balance 180, got %s", a.Balance)
		}
	}
}

func TestReportNetWorthAndBalances(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	seedReportData(t, db, user.ID)
	opening := decimal.RequireFromString("50")
	testutil.CreateTestSettings(t, db, user.ID, []ledger.AccountOverride{
		{ID: "advance", Visible: boolPtr(false), OpeningBalance: &opening},
	}, nil)
	svc := newTestReportService(db, time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC))

	worth, err := svc.NetWorth(context.Background(), user.ID)
	testutil.AssertNoError(t, err)
	if !worth.Equal(decimal.RequireFromString("930")) {
		t.Errorf("expected net worth 930, got %s", worth)
	}

	balances, err := svc.AccountBalances(context.Background(), user.ID)
	testutil.AssertNoError(t, err)
	if len(balances) != 6 {
		t.Fatalf("expected hidden accounts included, got %d", len(balances))
	}
}

func TestReportPresets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	seedReportData(t, db, user.ID)
	svc := newTestReportService(db, time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()
	thisMonth := &ledger.DateRange{Preset: ledger.PresetThisMonth}

	income, err := svc.IncomeSummary(ctx, user.ID, thisMonth)
	testutil.AssertNoError(t, err)
	if !income.Total.IsZero() {
		t.Errorf("expected no income in March, got %s", income.Total)
	}

	expenses, err := svc.ExpenseSummary(ctx, user.ID, nil)
	testutil.AssertNoError(t, err)
	if !expenses.Total.Equal(decimal.RequireFromString("120")) {
		t.Errorf("expected expenses 120, got %s", expenses.Total)
	}

	categories, err := svc.CategoryExpenses(ctx, user.ID, nil)
	testutil.AssertNoError(t, err)
	if len(categories) != 1 || categories[0].Category != "Food" {
		t.Errorf("unexpected category expenses: %+v", categories)
	}

	rows, err := svc.AccountReport(ctx, user.ID, thisMonth)
	testutil.AssertNoError(t, err)
	for _, r := range rows {
		if r.AccountID == "bank1" {
			if !r.Inflow.IsZero() {
				t.Errorf("expected no bank1 inflow in March, got %s", r.Inflow)
			}
			if !r.CurrentBalance.Equal(decimal.RequireFromString("700")) {
				t.Errorf("expected bank1 balance 700, got %s", r.CurrentBalance)
			}
		}
	}

	trend, err := svc.MonthlyTrend(ctx, user.ID, nil)
	testutil.AssertNoError(t, err)
	if len(trend) != 2 || trend[0].Month != "2024-02" {
		t.Errorf("unexpected trend: %+v", trend)
	}

	details, err := svc.DetailedTransactions(ctx, user.ID, thisMonth)
	testutil.AssertNoError(t, err)
	if len(details) != 2 {
		t.Fatalf("expected 2 March rows, got %d", len(details))
	}
	if details[0].FromAccount != "Cash Balance" {
		t.Errorf("expected display name, got %s", details[0].FromAccount)
	}
}

func TestReportRun(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	seedReportData(t, db, user.ID)
	svc := newTestReportService(db, time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC))

	report, err := svc.Run(context.Background(), user.ID, ledger.Criteria{
		AccountGroups: []ledger.AccountGroup{ledger.GroupBanks},
	})
	testutil.AssertNoError(t, err)
	if report.Count != 2 {
		t.Errorf("expected 2 bank transactions, got %d", report.Count)
	}
}
