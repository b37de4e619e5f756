package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"tablehouse/auth"
	"tablehouse/auth-svc/internal/domain"

	"github.com/go-playground/validator/v10"
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateRegistration expects name and email already normalized.
func validateRegistration(req domain.RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			switch fe.Tag() {
			case "required":
				return fmt.Errorf("%w: %s is required", auth.ErrValidation, fe.Field())
			case "min":
				return fmt.Errorf("%w: %s must be at least %s characters", auth.ErrValidation, fe.Field(), fe.Param())
			case "max":
				return fmt.Errorf("%w: %s must be at most %s characters", auth.ErrValidation, fe.Field(), fe.Param())
			}
			return fmt.Errorf("%w: %s is invalid", auth.ErrValidation, fe.Field())
		}
		return fmt.Errorf("%w: %v", auth.ErrValidation, err)
	}
	if len(req.Password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", auth.ErrValidation, maxPasswordBytes)
	}
	return nil
}
