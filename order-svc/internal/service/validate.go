package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"tablehouse/order-svc/internal/domain"

	"github.com/go-playground/validator/v10"
)

const (
	MaxOrderLines   = 50
	MaxLineQuantity = 99
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// checkStruct maps the first tag failure to ErrValidation.
func checkStruct(value interface{}) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return validationError("%v", err)
	}
	return validationError("%s", describeFieldError(fieldErrs[0]))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "oneof":
		return field + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		if fe.Kind() == reflect.String {
			return field + " must be at most " + fe.Param() + " characters"
		}
		return field + " must be at most " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice {
			return field + " must contain at least " + fe.Param() + " item"
		}
		return field + " must be at least " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "gte":
		if fe.Param() == "0" {
			return field + " must not be negative"
		}
		return field + " must be at least " + fe.Param()
	default:
		return field + " is invalid"
	}
}

func validateMenuItem(item *domain.MenuItem) error {
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	return checkStruct(item)
}

func validateLines(lines []domain.LineRequest) error {
	return checkStruct(struct {
		Items []domain.LineRequest `json:"items" validate:"required,min=1,dive"`
	}{lines})
}

// validateCheckout normalizes the request in place.
func validateCheckout(req *domain.CreateOrderRequest) error {
	req.Customer.Name = strings.TrimSpace(req.Customer.Name)
	req.Customer.Email = strings.TrimSpace(req.Customer.Email)
	req.Customer.Phone = strings.TrimSpace(req.Customer.Phone)
	req.SpecialInstructions = strings.TrimSpace(req.SpecialInstructions)

	if req.OrderType != domain.OrderTypeDelivery {
		req.DeliveryAddress = nil
	} else if addr := req.DeliveryAddress; addr != nil {
		addr.Street = strings.TrimSpace(addr.Street)
		addr.City = strings.TrimSpace(addr.City)
		addr.State = strings.TrimSpace(addr.State)
		addr.ZipCode = strings.TrimSpace(addr.ZipCode)
	}
	return checkStruct(req)
}
