package domain

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

var zipCodeRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Field errors are reported under the JSON name of the field.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		return d.InexactFloat64()
	}, decimal.Decimal{})

	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "zipcode", func(fl validator.FieldLevel) bool {
		return zipCodeRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "emaildomain", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		at := strings.LastIndexByte(s, '@')
		return at >= 0 && strings.Contains(s[at+1:], ".")
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Errorf("register validation %q: %w", tag, err))
	}
}

// messages maps "<field>.<tag>" or "<field>" to a user-facing message.
type messages map[string]string

func (m messages) message(field string, fe validator.FieldError) string {
	if msg, ok := m[field+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := m[field]; ok {
		return msg
	}
	return formatFieldError(fe)
}

// fieldErrors converts the result of validate.Struct. The validator
// stops at the first failing tag of a field, so every field gets at
// most one message.
func (m messages) fieldErrors(err error) FieldErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return nil
	}
	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = m.message(fe.Field(), fe)
	}
	return fields
}

// check validates a single value and records a message under field.
func (m messages) check(fields FieldErrors, field string, value any, tag string) {
	var verrs validator.ValidationErrors
	if errors.As(validate.Var(value, tag), &verrs) && len(verrs) != 0 {
		fields[field] = m.message(field, verrs[0])
	}
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required"
	case "email", "emaildomain":
		return "Invalid email format"
	case "gte":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("Validation failed on %s", fe.Tag())
	}
}

func validationError(fields FieldErrors) error {
	if len(fields) == 0 {
		return nil
	}
	return NewValidationError(fields)
}
