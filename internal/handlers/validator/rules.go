package validator

import "github.com/go-playground/validator/v10"

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewProfileValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("username", usernameValidator),
		},
	}
}

func NewProjectValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("not_blank", notBlankValidator),
		},
		{
			Rule: registerFn("entity_ref", entityRefValidator),
		},
	}
}

func NewEndorsementValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("entity_ref", entityRefValidator),
		},
	}
}
