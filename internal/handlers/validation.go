package handlers

import (
	"reflect"
	"strings"

	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
)

// newValidator reports fields by their JSON name and knows the "password" rule.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return services.PasswordProblem(fl.Field().String()) == ""
	})
	return v
}
