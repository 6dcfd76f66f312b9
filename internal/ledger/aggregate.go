package ledger

import (
	"github.com/shopspring/decimal"
)

// Totals are the economic totals of a transaction set. Transfers count
// towards neither side.
type Totals struct {
	Outgoing decimal.Decimal `json:"outgoing"`
	Incoming decimal.Decimal `json:"incoming"`
	Net      decimal.Decimal `json:"net"`
}

// CategoryTotal is the per-category split of amounts.
type CategoryTotal struct {
	Outgoing decimal.Decimal `json:"outgoing"`
	Incoming decimal.Decimal `json:"incoming"`
	Total    decimal.Decimal `json:"total"`
}

// AccountSummary is the derived ledger entry of one account.
type AccountSummary struct {
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Balance decimal.Decimal `json:"balance"`
}

// MonthTotal is the per-month split of amounts.
type MonthTotal struct {
	Outgoing decimal.Decimal `json:"outgoing"`
	Incoming decimal.Decimal `json:"incoming"`
}

// MonthKeyLayout formats the keys of MonthlyTotals.
const MonthKeyLayout = "2006-01"

// ComputeTotals sums outgoing and incoming amounts.
func ComputeTotals(txns []Transaction) Totals {
	out, in := decimal.Zero, decimal.Zero
	for _, t := range txns {
		switch t.Flow() {
		case FlowOutgoing:
			out = out.Add(t.Amount)
		case FlowIncoming:
			in = in.Add(t.Amount)
		}
	}
	return Totals{Outgoing: out, Incoming: in, Net: in.Sub(out)}
}

// CategoryTotals groups amounts by category. With side set to FlowOutgoing or
// FlowIncoming only categories with a nonzero amount on that side are kept
// and the other side is reported as zero. Any other side returns every
// category unfiltered.
func CategoryTotals(txns []Transaction, side FlowType) map[string]CategoryTotal {
	acc := make(map[string]*CategoryTotal)
	for _, t := range txns {
		flow := t.Flow()
		if flow != FlowOutgoing && flow != FlowIncoming {
			continue
		}
		key := t.CategoryOrDefault()
		ct, ok := acc[key]
		if !ok {
			ct = &CategoryTotal{Outgoing: decimal.Zero, Incoming: decimal.Zero, Total: decimal.Zero}
			acc[key] = ct
		}
		if flow == FlowOutgoing {
			ct.Outgoing = ct.Outgoing.Add(t.Amount)
		} else {
			ct.Incoming = ct.Incoming.Add(t.Amount)
		}
		ct.Total = ct.Total.Add(t.Amount)
	}

	out := make(map[string]CategoryTotal, len(acc))
	for key, ct := range acc {
		switch side {
		case FlowOutgoing:
			if ct.Outgoing.IsZero() {
				continue
			}
			out[key] = CategoryTotal{Outgoing: ct.Outgoing, Incoming: decimal.Zero, Total: ct.Outgoing}
		case FlowIncoming:
			if ct.Incoming.IsZero() {
				continue
			}
			out[key] = CategoryTotal{Outgoing: decimal.Zero, Incoming: ct.Incoming, Total: ct.Incoming}
		default:
			out[key] = *ct
		}
	}
	return out
}

// AccountTotals folds every transaction into the account it resolves to.
// Every known account is present in the result, starting from its opening
// balance. Sides that do not resolve to a known account are skipped.
func AccountTotals(txns []Transaction, reg *Registry) map[string]AccountSummary {
	acc := make(map[string]*AccountSummary, len(reg.accounts))
	for _, a := range reg.accounts {
		acc[a.ID] = &AccountSummary{
			Inflow:  decimal.Zero,
			Outflow: decimal.Zero,
			Balance: a.OpeningBalance,
		}
	}

	for _, t := range txns {
		debitID, creditID := reg.ResolveSides(t)
		debit := acc[debitID]
		credit := acc[creditID]

		switch t.Flow() {
		case FlowOutgoing:
			if debit != nil {
				debit.Outflow = debit.Outflow.Add(t.Amount)
				debit.Balance = debit.Balance.Sub(t.Amount)
			}
		case FlowIncoming:
			if credit != nil {
				credit.Inflow = credit.Inflow.Add(t.Amount)
				credit.Balance = credit.Balance.Add(t.Amount)
			}
		case FlowTransfer:
			if debit != nil {
				debit.Balance = debit.Balance.Sub(t.Amount)
			}
			if credit != nil {
				credit.Balance = credit.Balance.Add(t.Amount)
			}
		}
	}

	out := make(map[string]AccountSummary, len(acc))
	for id, s := range acc {
		out[id] = *s
	}
	return out
}

// MonthlyTotals groups outgoing and incoming amounts by calendar month of the
// transaction date. Undated transactions are skipped.
func MonthlyTotals(txns []Transaction) map[string]MonthTotal {
	out := make(map[string]MonthTotal)
	for _, t := range txns {
		if !t.HasDate() {
			continue
		}
		flow := t.Flow()
		if flow != FlowOutgoing && flow != FlowIncoming {
			continue
		}
		key := t.Date.Format(MonthKeyLayout)
		mt, ok := out[key]
		if !ok {
			mt = MonthTotal{Outgoing: decimal.Zero, Incoming: decimal.Zero}
		}
		if flow == FlowOutgoing {
			mt.Outgoing = mt.Outgoing.Add(t.Amount)
		} else {
			mt.Incoming = mt.Incoming.Add(t.Amount)
		}
		out[key] = mt
	}
	return out
}

// NetWorth is the sum of every account balance, hidden accounts included.
func NetWorth(txns []Transaction, reg *Registry) decimal.Decimal {
	return netWorthOf(AccountTotals(txns, reg))
}

func netWorthOf(balances map[string]AccountSummary) decimal.Decimal {
	values := make([]decimal.Decimal, 0, len(balances))
	for _, s := range balances {
		values = append(values, s.Balance)
	}
	return sum(values...)
}
