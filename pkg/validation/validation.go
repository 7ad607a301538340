package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "trsync/pkg/domain-errors"
	s "trsync/pkg/string"
)

// identifier is a registry reference format exposed as a validator tag.
type identifier struct {
	pattern *regexp.Regexp
	message string
}

// identifiers are matched against the normalized form: digits only for trn
// and ukprn, compact upper case for nino.
var identifiers = map[string]identifier{
	"trn":   {regexp.MustCompile(`^\d{7}$`), "must be a 7 digit trn"},
	"ukprn": {regexp.MustCompile(`^\d{8}$`), "must be an 8 digit ukprn"},
	"nino":  {regexp.MustCompile(`^[A-Z]{2}\d{6}[A-D]$`), "must be a valid national insurance number"},
}

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	for tag, id := range identifiers {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return id.pattern.MatchString(fl.Field().String())
		})
	}
	return v
}

// Validate checks req's struct tags. The first failing field is reported as
// a validation error naming that field.
func Validate(req any) error {
	err := defaultValidator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "invalid request body")
	}
	fe := fieldErrs[0]
	field := fieldName(fe)
	return dErrors.Invalid(field, describe(field, fe))
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		name = fe.StructField()
	}
	return s.ToSnakeCase(name)
}

func describe(field string, fe validator.FieldError) string {
	if field == "" {
		return "invalid request body"
	}
	if id, ok := identifiers[fe.ActualTag()]; ok {
		return field + " " + id.message
	}
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid uuid", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", field, s.ToSnakeCase(fe.Param()))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
