// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("country_code", validateCountryCode)
	validate.RegisterValidation("checklist_item_id", validateChecklistItemID)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// IsValidChecklistItemID validates an item id taken from a URL path, where
// struct tags cannot reach.
func IsValidChecklistItemID(id string) bool {
	return validate.Var(id, "checklist_item_id") == nil
}

// Country codes are ISO 3166-1 alpha-2, upper case.
func validateCountryCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if code == "" {
		return true
	}
	matched, _ := regexp.MatchString("^[A-Z]{2}$", code)
	return matched
}

// Checklist item ids are area-prefixed snake_case, e.g. hull_osmosis.
func validateChecklistItemID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if len(id) < 3 || len(id) > 80 {
		return false
	}
	matched, _ := regexp.MatchString("^[a-z0-9]+(_[a-z0-9]+)+$", id)
	return matched
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "len":
		return e.Field() + " must be exactly " + e.Param() + " characters"
	case "country_code":
		return "Country code must be a two-letter ISO code"
	case "checklist_item_id":
		return "Checklist item id must be area-prefixed snake_case"
	default:
		return e.Field() + " is invalid"
	}
}
