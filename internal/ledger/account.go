// Package ledger is the aggregation core of the service: account and
// category registries, reference resolution, report filters, and the pure
// functions that derive totals, balances and net worth from a flat list of
// transactions.
//
// Nothing in this package performs I/O. Callers load a snapshot of
// transactions and settings, build a Registry, and pass both explicitly.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultIcon is used for accounts that never had an icon set.
const DefaultIcon = "💼"

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDefaultAccount  = errors.New("default accounts cannot be deleted")
	ErrInvalidAccount  = errors.New("account name is required")
)

// Account is one entry of the chart of accounts.
type Account struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Icon           string          `json:"icon"`
	Visible        bool            `json:"visible"`
	Order          int             `json:"order"`
	IsDefault      bool            `json:"is_default"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// AccountOverride is the persisted form of a customised or user-created
// account. Nil fields fall back to the default definition.
type AccountOverride struct {
	ID             string           `json:"id"`
	Name           *string          `json:"name,omitempty"`
	Icon           *string          `json:"icon,omitempty"`
	Visible        *bool            `json:"visible,omitempty"`
	Order          *int             `json:"order,omitempty"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
}

// AccountInput carries the fields of an upsert. ID may be empty to create a
// new account.
type AccountInput struct {
	ID             string
	Name           *string
	Icon           *string
	Visible        *bool
	OpeningBalance *decimal.Decimal
}

var defaultAccounts = []Account{
	{ID: "bank1", Name: "Bank Balance 01", Icon: "🏦", Visible: true, Order: 0, IsDefault: true},
	{ID: "bank2", Name: "Bank Balance 02", Icon: "🏦", Visible: true, Order: 1, IsDefault: true},
	{ID: "bank3", Name: "Bank Balance 03", Icon: "🏦", Visible: true, Order: 2, IsDefault: true},
	{ID: "cash", Name: "Cash Balance", Icon: "💵", Visible: true, Order: 3, IsDefault: true},
	{ID: "udhari", Name: "Udhaari", Icon: "📒", Visible: true, Order: 4, IsDefault: true},
	{ID: "advance", Name: "Advance", Icon: "💰", Visible: true, Order: 5, IsDefault: true},
}

// legacyNames maps display names written by older clients to account ids.
var legacyNames = map[string]string{
	"Bank Balance 01": "bank1",
	"Bank Balance 02": "bank2",
	"Bank Balance 03": "bank3",
	"Cash Balance":    "cash",
	"Udhaari":         "udhari",
	"Advance":         "advance",
}

// DefaultAccounts returns a copy of the fixed default accounts.
func DefaultAccounts() []Account {
	out := make([]Account, len(defaultAccounts))
	for i, a := range defaultAccounts {
		a.OpeningBalance = decimal.Zero
		out[i] = a
	}
	return out
}

func defaultAccount(id string) (Account, bool) {
	for _, a := range defaultAccounts {
		if a.ID == id {
			a.OpeningBalance = decimal.Zero
			return a, true
		}
	}
	return Account{}, false
}

// Registry is an ordered, de-duplicated chart of accounts. It is a value
// owned by one request; it is not safe for concurrent mutation.
type Registry struct {
	accounts []Account
	now      func() time.Time
}

// NewRegistry merges the default accounts with stored overrides. Stored
// fields win over defaults; ids that are not defaults are admitted as user
// accounts with missing fields filled in.
func NewRegistry(overrides []AccountOverride) *Registry {
	byID := make(map[string]*Account, len(defaultAccounts)+len(overrides))
	seq := make([]string, 0, len(defaultAccounts)+len(overrides))

	for _, a := range DefaultAccounts() {
		acc := a
		byID[acc.ID] = &acc
		seq = append(seq, acc.ID)
	}

	for _, o := range overrides {
		if o.ID == "" {
			continue
		}
		if existing, ok := byID[o.ID]; ok {
			applyOverride(existing, o)
			continue
		}
		acc := Account{
			ID:             o.ID,
			Name:           o.ID,
			Icon:           DefaultIcon,
			Visible:        true,
			Order:          len(byID),
			OpeningBalance: decimal.Zero,
		}
		applyOverride(&acc, o)
		if acc.Name == "" {
			acc.Name = acc.ID
		}
		if acc.Icon == "" {
			acc.Icon = DefaultIcon
		}
		byID[acc.ID] = &acc
		seq = append(seq, acc.ID)
	}

	accounts := make([]Account, 0, len(seq))
	for _, id := range seq {
		accounts = append(accounts, *byID[id])
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Order < accounts[j].Order
	})

	return &Registry{accounts: accounts, now: time.Now}
}

func applyOverride(acc *Account, o AccountOverride) {
	if o.Name != nil {
		acc.Name = *o.Name
	}
	if o.Icon != nil {
		acc.Icon = *o.Icon
	}
	if o.Visible != nil {
		acc.Visible = *o.Visible
	}
	if o.Order != nil {
		acc.Order = *o.Order
	}
	if o.OpeningBalance != nil {
		acc.OpeningBalance = *o.OpeningBalance
	}
}

// Accounts returns every account ordered by Order.
func (r *Registry) Accounts() []Account {
	out := make([]Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// Visible returns the accounts shown in pickers.
func (r *Registry) Visible() []Account {
	out := make([]Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		if a.Visible {
			out = append(out, a)
		}
	}
	return out
}

// Get looks an account up by id.
func (r *Registry) Get(id string) (Account, bool) {
	if i := r.index(id); i >= 0 {
		return r.accounts[i], true
	}
	return Account{}, false
}

func (r *Registry) index(id string) int {
	for i := range r.accounts {
		if r.accounts[i].ID == id {
			return i
		}
	}
	return -1
}

// Upsert updates an existing account or creates a user account. Blank names
// are ignored on update and rejected on create.
func (r *Registry) Upsert(in AccountInput) (Account, error) {
	if i := r.index(in.ID); in.ID != "" && i >= 0 {
		acc := &r.accounts[i]
		if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
			acc.Name = strings.TrimSpace(*in.Name)
		}
		if in.Icon != nil && strings.TrimSpace(*in.Icon) != "" {
			acc.Icon = strings.TrimSpace(*in.Icon)
		}
		if in.Visible != nil {
			acc.Visible = *in.Visible
		}
		if in.OpeningBalance != nil {
			acc.OpeningBalance = *in.OpeningBalance
		}
		return *acc, nil
	}

	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return Account{}, ErrInvalidAccount
	}

	id := in.ID
	if id == "" {
		id = r.newAccountID()
	}
	acc := Account{
		ID:             id,
		Name:           strings.TrimSpace(*in.Name),
		Icon:           DefaultIcon,
		Visible:        true,
		Order:          len(r.accounts),
		OpeningBalance: decimal.Zero,
	}
	if in.Icon != nil && strings.TrimSpace(*in.Icon) != "" {
		acc.Icon = strings.TrimSpace(*in.Icon)
	}
	if in.Visible != nil {
		acc.Visible = *in.Visible
	}
	if in.OpeningBalance != nil {
		acc.OpeningBalance = *in.OpeningBalance
	}
	r.accounts = append(r.accounts, acc)
	return acc, nil
}

func (r *Registry) newAccountID() string {
	base := fmt.Sprintf("account_%d", r.now().UnixMilli())
	id := base
	for n := 1; r.index(id) >= 0; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	return id
}

// Delete removes a user account and renumbers the remaining accounts so
// their orders stay contiguous from zero. Default accounts are never removed.
func (r *Registry) Delete(id string) error {
	i := r.index(id)
	if i < 0 {
		return ErrAccountNotFound
	}
	if r.accounts[i].IsDefault {
		return ErrDefaultAccount
	}
	r.accounts = append(r.accounts[:i], r.accounts[i+1:]...)
	r.renumber()
	return nil
}

// Reorder moves the listed accounts to the front in the given order. Unknown
// ids are ignored; unlisted accounts keep their relative order after them.
func (r *Registry) Reorder(ids []string) {
	seen := make(map[string]bool, len(ids))
	out := make([]Account, 0, len(r.accounts))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if i := r.index(id); i >= 0 {
			out = append(out, r.accounts[i])
			seen[id] = true
		}
	}
	for _, a := range r.accounts {
		if !seen[a.ID] {
			out = append(out, a)
		}
	}
	r.accounts = out
	r.renumber()
}

func (r *Registry) renumber() {
	for i := range r.accounts {
		r.accounts[i].Order = i
	}
}

// ResolveRef turns a transaction's account reference into an account id.
// Exact id matches win over name matches, which win over the legacy display
// name table. Anything else is echoed back unchanged. An empty reference
// resolves to the empty string.
func (r *Registry) ResolveRef(ref string) string {
	if ref == "" {
		return ""
	}
	if r.index(ref) >= 0 {
		return ref
	}
	for _, a := range r.accounts {
		if a.Name == ref {
			return a.ID
		}
	}
	if id, ok := legacyNames[ref]; ok {
		return id
	}
	return ref
}

// ResolveSides resolves both account references of a transaction.
func (r *Registry) ResolveSides(t Transaction) (debitID, creditID string) {
	return r.ResolveRef(t.DebitRef), r.ResolveRef(t.CreditRef)
}

// DisplayName returns the account name, or the id itself for accounts that
// no longer exist.
func (r *Registry) DisplayName(id string) string {
	if a, ok := r.Get(id); ok && a.Name != "" {
		return a.Name
	}
	return id
}

// Icon returns the account icon or DefaultIcon.
func (r *Registry) Icon(id string) string {
	if a, ok := r.Get(id); ok && a.Icon != "" {
		return a.Icon
	}
	return DefaultIcon
}

// Overrides returns the records that need persisting: every user account and
// every default account that differs from its definition.
func (r *Registry) Overrides() []AccountOverride {
	out := make([]AccountOverride, 0, len(r.accounts))
	for _, a := range r.accounts {
		if def, ok := defaultAccount(a.ID); ok && a.IsDefault && sameAccount(a, def) {
			continue
		}
		name, icon, visible, order, opening := a.Name, a.Icon, a.Visible, a.Order, a.OpeningBalance
		out = append(out, AccountOverride{
			ID:             a.ID,
			Name:           &name,
			Icon:           &icon,
			Visible:        &visible,
			Order:          &order,
			OpeningBalance: &opening,
		})
	}
	return out
}

func sameAccount(a, b Account) bool {
	return a.Name == b.Name &&
		a.Icon == b.Icon &&
		a.Visible == b.Visible &&
		a.Order == b.Order &&
		a.OpeningBalance.Equal(b.OpeningBalance)
}
