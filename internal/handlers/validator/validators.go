package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationRule struct {
	Rule func(v *validator.Validate)
}

// Validator is a wrapper around the actual validator
// It sets up the rule set for a request shape and rewrites the field errors
// into messages fit for an API reply
type Validator struct {
	validator *validator.Validate
	rules     []ValidationRule
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return &Validator{validator: v}
}

func (v *Validator) Register(rules ...ValidationRule) {
	for _, validationRule := range rules {
		validationRule.Rule(v.validator)
	}
	v.rules = rules
}

func (v *Validator) Struct(s any) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		messages = append(messages, messageFor(fieldError))
	}
	return errors.New(strings.Join(messages, "; "))
}

// jsonFieldName reports fields under their wire name so the message matches
// what the caller actually sent.
func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}

func messageFor(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required", "entity_ref":
		return fmt.Sprintf("%s is required", fieldError.Field())
	case "uuid":
		return fmt.Sprintf("%s must be a valid uuid", fieldError.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid url", fieldError.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fieldError.Field(), fieldError.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fieldError.Field(), fieldError.Param())
	case "not_blank":
		return fmt.Sprintf("%s must not be blank", fieldError.Field())
	case "username":
		return fmt.Sprintf("%s may only contain letters, digits, dots, dashes and underscores", fieldError.Field())
	default:
		return fmt.Sprintf("%s is not valid", fieldError.Field())
	}
}
