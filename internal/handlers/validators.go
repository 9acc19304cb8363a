package handlers

import (
	"fmt"

	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerValidators adds the custom binding tags used by the request DTOs.
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("currency", validateCurrency)
}

// validateCurrency accepts codes from the supported currency set.
func validateCurrency(fl validator.FieldLevel) bool {
	return domain.IsSupportedCurrency(fl.Field().String())
}
