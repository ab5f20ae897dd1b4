package services

import "github.com/go-playground/validator/v10"

// validate checks values with the same rules gin applies to binding tags
var validate = validator.New()

func isEmail(value string) bool {
	return validate.Var(value, "required,email") == nil
}
