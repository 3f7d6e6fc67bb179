package validator

import (
	"strings"

	"jobboard_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules wires the domain enums into validation tags.
func registerCustomRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"is-user-role":          validateUserRole,
		"is-job-type":           validateJobType,
		"is-application-status": validateApplicationStatus,
		"iso4217-lower":         validateCurrencyCode,
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // emptiness is the job of 'required'
	}
	switch models.UserRole(value) {
	case models.UserRoleEmployer, models.UserRoleTalent:
		return true
	}
	return false
}

func validateJobType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch value {
	case "full_time", "part_time", "contract", "internship":
		return true
	}
	return false
}

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ApplicationStatus(value).Valid()
}

// validateCurrencyCode accepts the lowercase three-letter codes the payment
// gateway expects ("usd", "eur", ...).
func validateCurrencyCode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if len(value) != 3 {
		return false
	}
	return value == strings.ToLower(value)
}
