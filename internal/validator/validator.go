// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"khatabook/internal/ledger"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("flow_type", validateFlowType)
		_ = v.RegisterValidation("category_side", validateCategorySide)
		_ = v.RegisterValidation("date_preset", validateDatePreset)
		_ = v.RegisterValidation("account_group", validateAccountGroup)
	}
}

// validateFlowType accepts pay, receive and transfer in any letter case.
func validateFlowType(fl validator.FieldLevel) bool {
	return ledger.ClassifyFlow(fl.Field().String()).Valid()
}

func validateCategorySide(fl validator.FieldLevel) bool {
	switch ledger.FlowType(fl.Field().String()) {
	case ledger.FlowOutgoing, ledger.FlowIncoming:
		return true
	}
	return false
}

func validateDatePreset(fl validator.FieldLevel) bool {
	return ledger.DatePreset(fl.Field().String()).Valid()
}

func validateAccountGroup(fl validator.FieldLevel) bool {
	return ledger.AccountGroup(fl.Field().String()).Valid()
}
