package ledger

import (
	"strings"
	"time"
)

// DatePreset names a report date window.
type DatePreset string

const (
	PresetToday     DatePreset = "today"
	PresetThisMonth DatePreset = "thisMonth"
	PresetLastMonth DatePreset = "lastMonth"
	PresetCustom    DatePreset = "custom"
)

// Valid reports whether p is a known preset.
func (p DatePreset) Valid() bool {
	switch p {
	case PresetToday, PresetThisMonth, PresetLastMonth, PresetCustom:
		return true
	}
	return false
}

// DateRange selects transactions by date. From and To are only read for
// PresetCustom and name calendar days; a nil bound leaves that side open.
type DateRange struct {
	Preset DatePreset `json:"preset"`
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
}

// Bounds returns the inclusive window of the range relative to now, in now's
// location. Custom bounds keep their calendar date whatever zone they were
// parsed in. A nil result means that side is unbounded.
func (r DateRange) Bounds(now time.Time) (from, to *time.Time) {
	loc := now.Location()
	switch r.Preset {
	case PresetToday:
		start := startOfDay(now)
		end := endOfDay(now)
		return &start, &end
	case PresetThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
		return &start, &end
	case PresetLastMonth:
		thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		start := thisMonth.AddDate(0, -1, 0)
		end := thisMonth.Add(-time.Nanosecond)
		return &start, &end
	case PresetCustom:
		if r.From != nil {
			start := sameDayIn(*r.From, loc)
			from = &start
		}
		if r.To != nil {
			end := endOfDay(sameDayIn(*r.To, loc))
			to = &end
		}
		return from, to
	}
	return nil, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sameDayIn returns midnight in loc of t's calendar date as written. Custom
// bounds are calendar days, so they are never shifted across zones.
func sameDayIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// AccountGroup is a heuristic bucket of accounts used by report filters.
type AccountGroup string

const (
	GroupCash        AccountGroup = "cash"
	GroupBanks       AccountGroup = "banks"
	GroupInvestments AccountGroup = "investments"
	GroupLiabilities AccountGroup = "liabilities"
)

// Valid reports whether g is a known group.
func (g AccountGroup) Valid() bool {
	switch g {
	case GroupCash, GroupBanks, GroupInvestments, GroupLiabilities:
		return true
	}
	return false
}

var investmentWords = []string{"mutual", "mf", "stock", "share", "investment"}
var liabilityWords = []string{"loan", "debt", "liability"}

// GroupAccounts buckets every registry account by id and name keywords. An
// account may land in several groups or in none.
func GroupAccounts(reg *Registry) map[AccountGroup][]string {
	groups := map[AccountGroup][]string{
		GroupCash:        {},
		GroupBanks:       {},
		GroupInvestments: {},
		GroupLiabilities: {},
	}
	for _, a := range reg.accounts {
		name := strings.ToLower(a.Name)
		if a.ID == "cash" || strings.Contains(name, "cash") {
			groups[GroupCash] = append(groups[GroupCash], a.ID)
		}
		if strings.HasPrefix(a.ID, "bank") || strings.Contains(name, "bank") {
			groups[GroupBanks] = append(groups[GroupBanks], a.ID)
		}
		if containsAny(name, investmentWords) {
			groups[GroupInvestments] = append(groups[GroupInvestments], a.ID)
		}
		if a.ID == "udhari" || containsAny(name, liabilityWords) {
			groups[GroupLiabilities] = append(groups[GroupLiabilities], a.ID)
		}
	}
	return groups
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Criteria narrows a transaction set. Dimensions combine with AND, values
// within one dimension with OR. An empty dimension passes everything.
type Criteria struct {
	DateRange     *DateRange     `json:"date_range,omitempty"`
	FlowTypes     []FlowType     `json:"types,omitempty"`
	AccountGroups []AccountGroup `json:"account_groups,omitempty"`
	Categories    []string       `json:"categories,omitempty"`
}

// Filter returns the transactions matching c, in input order. Undated
// transactions never pass a bounded date range. A group selection that
// resolves to no accounts at all passes everything.
func Filter(txns []Transaction, c Criteria, reg *Registry, now time.Time) []Transaction {
	var from, to *time.Time
	if c.DateRange != nil {
		from, to = c.DateRange.Bounds(now)
	}

	flows := make(map[FlowType]bool, len(c.FlowTypes))
	for _, f := range c.FlowTypes {
		flows[f] = true
	}

	accounts := make(map[string]bool)
	if len(c.AccountGroups) > 0 {
		groups := GroupAccounts(reg)
		for _, g := range c.AccountGroups {
			for _, id := range groups[g] {
				accounts[id] = true
			}
		}
	}

	categories := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		categories[cat] = true
	}

	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if from != nil || to != nil {
			if !t.HasDate() {
				continue
			}
			if from != nil && t.Date.Before(*from) {
				continue
			}
			if to != nil && t.Date.After(*to) {
				continue
			}
		}
		if len(flows) > 0 && !flows[t.Flow()] {
			continue
		}
		if len(accounts) > 0 {
			debitID, creditID := reg.ResolveSides(t)
			if !accounts[debitID] && !accounts[creditID] {
				continue
			}
		}
		if len(categories) > 0 && !categories[t.CategoryOrDefault()] {
			continue
		}
		out = append(out, t)
	}
	return out
}
