package validate

import (
	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("luhn", func(fl validator.FieldLevel) bool {
		return IsLuna(NormalizeCard(fl.Field().String()))
	})
	return val
}

// Struct checks the `validate` tags of s. Besides the built-in tags it knows
// "luhn" for card numbers.
func Struct(s any) error {
	return v.Struct(s)
}
