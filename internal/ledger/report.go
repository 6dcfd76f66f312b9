package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RecentLimit is how many transactions the dashboard lists.
const RecentLimit = 15

// Placeholder stands in for absent text in the detailed transaction view.
const Placeholder = "-"

// CategoryAmount is one row of a single-sided category breakdown.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// FlowSummary is the expense or income summary report.
type FlowSummary struct {
	Total     decimal.Decimal  `json:"total"`
	Breakdown []CategoryAmount `json:"breakdown"`
}

// AccountRow is one line of the account-wise report.
type AccountRow struct {
	AccountID      string          `json:"account_id"`
	AccountName    string          `json:"account_name"`
	AccountIcon    string          `json:"account_icon"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Inflow         decimal.Decimal `json:"inflow"`
	Outflow        decimal.Decimal `json:"outflow"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// MonthRow is one line of the monthly trend.
type MonthRow struct {
	Month    string          `json:"month"`
	Outgoing decimal.Decimal `json:"outgoing"`
	Incoming decimal.Decimal `json:"incoming"`
	Net      decimal.Decimal `json:"net"`
}

// DetailRow is one transaction with its account references resolved to
// display names.
type DetailRow struct {
	ID          string          `json:"id"`
	Date        *time.Time      `json:"date"`
	Type        FlowType        `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
}

// AccountBalance pairs an account with its derived ledger entry.
type AccountBalance struct {
	Account
	AccountSummary
}

// Dashboard is the landing page view.
type Dashboard struct {
	Totals   Totals           `json:"totals"`
	Accounts []AccountBalance `json:"accounts"`
	NetWorth decimal.Decimal  `json:"net_worth"`
	Recent   []Transaction    `json:"recent"`
}

// Report is the result of a custom report run.
type Report struct {
	Criteria     Criteria        `json:"criteria"`
	Count        int             `json:"count"`
	Totals       Totals          `json:"totals"`
	Categories   []CategoryRow   `json:"categories"`
	Accounts     []AccountRow    `json:"accounts"`
	MonthlyTrend []MonthRow      `json:"monthly_trend"`
	Transactions []DetailRow     `json:"transactions"`
	NetWorth     decimal.Decimal `json:"net_worth"`
}

// CategoryRow is one line of the two-sided category table.
type CategoryRow struct {
	Category string `json:"category"`
	CategoryTotal
}

// ExpenseSummary totals outgoing transactions and breaks them down by
// category, largest first.
func ExpenseSummary(txns []Transaction) FlowSummary {
	return flowSummary(txns, FlowOutgoing)
}

// IncomeSummary is ExpenseSummary for incoming transactions.
func IncomeSummary(txns []Transaction) FlowSummary {
	return flowSummary(txns, FlowIncoming)
}

func flowSummary(txns []Transaction, side FlowType) FlowSummary {
	totals := ComputeTotals(txns)
	total := totals.Outgoing
	if side == FlowIncoming {
		total = totals.Incoming
	}
	return FlowSummary{Total: total, Breakdown: sideBreakdown(txns, side)}
}

// CategoryExpenses lists spending per category, largest first.
func CategoryExpenses(txns []Transaction) []CategoryAmount {
	return sideBreakdown(txns, FlowOutgoing)
}

func sideBreakdown(txns []Transaction, side FlowType) []CategoryAmount {
	totals := CategoryTotals(txns, side)
	out := make([]CategoryAmount, 0, len(totals))
	for cat, ct := range totals {
		out = append(out, CategoryAmount{Category: cat, Amount: ct.Total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// CategoryTable is the unfiltered two-sided category breakdown, sorted by
// label.
func CategoryTable(txns []Transaction) []CategoryRow {
	totals := CategoryTotals(txns, FlowUnrecognized)
	out := make([]CategoryRow, 0, len(totals))
	for cat, ct := range totals {
		out = append(out, CategoryRow{Category: cat, CategoryTotal: ct})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// AccountReport lists every account in registry order with the flows of the
// selected transactions. CurrentBalance is always derived from all
// transactions, regardless of the selection.
func AccountReport(selected, all []Transaction, reg *Registry) []AccountRow {
	window := AccountTotals(selected, reg)
	current := AccountTotals(all, reg)

	out := make([]AccountRow, 0, len(reg.accounts))
	for _, a := range reg.accounts {
		w := window[a.ID]
		out = append(out, AccountRow{
			AccountID:      a.ID,
			AccountName:    reg.DisplayName(a.ID),
			AccountIcon:    reg.Icon(a.ID),
			OpeningBalance: a.OpeningBalance,
			Inflow:         w.Inflow,
			Outflow:        w.Outflow,
			CurrentBalance: current[a.ID].Balance,
		})
	}
	return out
}

// MonthlyTrend lists monthly totals oldest first.
func MonthlyTrend(txns []Transaction) []MonthRow {
	months := MonthlyTotals(txns)
	out := make([]MonthRow, 0, len(months))
	for key, mt := range months {
		out = append(out, MonthRow{
			Month:    key,
			Outgoing: mt.Outgoing,
			Incoming: mt.Incoming,
			Net:      mt.Incoming.Sub(mt.Outgoing),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// DetailedTransactions resolves every transaction for display, newest first.
// Undated transactions sort last.
func DetailedTransactions(txns []Transaction, reg *Registry) []DetailRow {
	out := make([]DetailRow, 0, len(txns))
	for _, t := range txns {
		debitID, creditID := reg.ResolveSides(t)
		row := DetailRow{
			ID:          t.ID,
			Type:        t.Flow(),
			Category:    t.CategoryOrDefault(),
			Description: orPlaceholder(t.Description),
			FromAccount: Placeholder,
			ToAccount:   Placeholder,
			Amount:      t.Amount,
		}
		if t.HasDate() {
			d := t.Date
			row.Date = &d
		}
		if debitID != "" {
			row.FromAccount = reg.DisplayName(debitID)
		}
		if creditID != "" {
			row.ToAccount = reg.DisplayName(creditID)
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Date, out[j].Date
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})
	return out
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// BuildDashboard derives the landing page from the full transaction set. The
// input is expected newest first; the first RecentLimit entries are listed.
func BuildDashboard(txns []Transaction, reg *Registry) Dashboard {
	balances := AccountTotals(txns, reg)

	accounts := make([]AccountBalance, 0, len(reg.accounts))
	for _, a := range reg.Visible() {
		accounts = append(accounts, AccountBalance{Account: a, AccountSummary: balances[a.ID]})
	}

	recent := txns
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}

	return Dashboard{
		Totals:   ComputeTotals(txns),
		Accounts: accounts,
		NetWorth: netWorthOf(balances),
		Recent:   append([]Transaction(nil), recent...),
	}
}

// BuildReport filters the full transaction set and derives every report
// view from the selection.
func BuildReport(all []Transaction, c Criteria, reg *Registry, now time.Time) Report {
	selected := Filter(all, c, reg, now)
	return Report{
		Criteria:     c,
		Count:        len(selected),
		Totals:       ComputeTotals(selected),
		Categories:   CategoryTable(selected),
		Accounts:     AccountReport(selected, all, reg),
		MonthlyTrend: MonthlyTrend(selected),
		Transactions: DetailedTransactions(selected, reg),
		NetWorth:     NetWorth(all, reg),
	}
}
