package ledger

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidCategory   = errors.New("category label is required")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrCategoryIndex     = errors.New("category index out of range")
	ErrInvalidSide       = errors.New("category side must be pay or receive")
)

var (
	defaultOutgoing = []string{"Food", "Transport", "Bills", "Shopping", "Other"}
	defaultIncoming = []string{"Salary", "Business", "Refund", "Gift", "Other"}
)

// Categories holds the two independent label lists: one for outgoing (pay)
// transactions and one for incoming (receive) transactions.
type Categories struct {
	Outgoing []string `json:"pay"`
	Incoming []string `json:"receive"`
}

// DefaultCategories returns fresh copies of the default label lists.
func DefaultCategories() Categories {
	return Categories{
		Outgoing: append([]string(nil), defaultOutgoing...),
		Incoming: append([]string(nil), defaultIncoming...),
	}
}

// NormalizeCategories substitutes the default list for each side that is
// empty. The sides fall back independently.
func NormalizeCategories(stored Categories) Categories {
	out := Categories{
		Outgoing: append([]string(nil), stored.Outgoing...),
		Incoming: append([]string(nil), stored.Incoming...),
	}
	if len(out.Outgoing) == 0 {
		out.Outgoing = append([]string(nil), defaultOutgoing...)
	}
	if len(out.Incoming) == 0 {
		out.Incoming = append([]string(nil), defaultIncoming...)
	}
	return out
}

func (c *Categories) side(side FlowType) (*[]string, error) {
	switch side {
	case FlowOutgoing:
		return &c.Outgoing, nil
	case FlowIncoming:
		return &c.Incoming, nil
	}
	return nil, ErrInvalidSide
}

// List returns the labels of one side.
func (c Categories) List(side FlowType) ([]string, error) {
	list, err := c.side(side)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), (*list)...), nil
}

// Add appends a trimmed label. Blank labels and exact duplicates are
// rejected and leave the list untouched.
func (c *Categories) Add(side FlowType, label string) error {
	list, err := c.side(side)
	if err != nil {
		return err
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return ErrInvalidCategory
	}
	if contains(*list, label) {
		return ErrDuplicateCategory
	}
	*list = append(*list, label)
	return nil
}

// Rename replaces the label at index.
func (c *Categories) Rename(side FlowType, index int, label string) error {
	list, err := c.side(side)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*list) {
		return ErrCategoryIndex
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return ErrInvalidCategory
	}
	for i, existing := range *list {
		if i != index && existing == label {
			return ErrDuplicateCategory
		}
	}
	(*list)[index] = label
	return nil
}

// Delete removes the label at index. Transactions carrying the label keep it.
func (c *Categories) Delete(side FlowType, index int) error {
	list, err := c.side(side)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*list) {
		return ErrCategoryIndex
	}
	*list = append((*list)[:index], (*list)[index+1:]...)
	return nil
}

// Labels returns the sorted union of both sides.
func (c Categories) Labels() []string {
	set := make(map[string]struct{}, len(c.Outgoing)+len(c.Incoming))
	for _, l := range c.Outgoing {
		set[l] = struct{}{}
	}
	for _, l := range c.Incoming {
		set[l] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
