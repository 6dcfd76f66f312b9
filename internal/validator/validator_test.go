package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Type   string   `validate:"omitempty,flow_type"`
	Side   string   `validate:"omitempty,category_side"`
	Preset string   `validate:"omitempty,date_preset"`
	Groups []string `validate:"omitempty,dive,account_group"`
}

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	for tag, fn := range map[string]validator.Func{
		"flow_type":     validateFlowType,
		"category_side": validateCategorySide,
		"date_preset":   validateDatePreset,
		"account_group": validateAccountGroup,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			t.Fatalf("register %s: %v", tag, err)
		}
	}
	return v
}

func TestValidators(t *testing.T) {
	v := newValidate(t)

	tests := []struct {
		name  string
		in    sample
		valid bool
	}{
		{"empty", sample{}, true},
		{"pay", sample{Type: "pay"}, true},
		{"mixed_case_transfer", sample{Type: "Transfer"}, true},
		{"legacy_expense", sample{Type: "expense"}, false},
		{"receive_side", sample{Side: "receive"}, true},
		{"transfer_side", sample{Side: "transfer"}, false},
		{"this_month", sample{Preset: "thisMonth"}, true},
		{"yesterday", sample{Preset: "yesterday"}, false},
		{"groups", sample{Groups: []string{"cash", "banks", "investments", "liabilities"}}, true},
		{"unknown_group", sample{Groups: []string{"cash", "crypto"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
