package dto

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StructValidator проверяет теги validate у тел запросов при Bind.
// Имена полей в ошибках берутся из json тегов.
type StructValidator struct {
	validate *validator.Validate
}

// NewStructValidator создает валидатор тел запросов.
func NewStructValidator() *StructValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &StructValidator{validate: v}
}

// Validate реализует fiber.StructValidator.
func (v *StructValidator) Validate(out any) error {
	if err := v.validate.Struct(out); err != nil {
		return fmt.Errorf("request validation: %w", err)
	}
	return nil
}
