package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/frahmantamala/legal-practice/internal"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct checks `validate` tags on a request DTO and reports failures by json field name.
func ValidateStruct(s interface{}) *apperrors.AppError {
	err := structValidator.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewInternalError("failed to validate request", err)
	}

	out := make([]apperrors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		message, code := describe(fe)
		out = append(out, apperrors.ValidationError{
			Field:   fe.Field(),
			Message: message,
			Code:    string(code),
		})
	}
	return apperrors.NewValidationErrors(out)
}

func describe(fe validator.FieldError) (string, apperrors.ErrorCode) {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field), apperrors.ErrCodeRequired
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field), apperrors.ErrCodeInvalidFormat
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param()), apperrors.ErrCodeTooShort
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param()), apperrors.ErrCodeInvalidValue
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param()), apperrors.ErrCodeTooLong
		}
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param()), apperrors.ErrCodeInvalidValue
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")), apperrors.ErrCodeInvalidValue
	case "gt", "gte":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param()), apperrors.ErrCodeInvalidValue
	case "e164":
		return fmt.Sprintf("%s must be a valid phone number", field), apperrors.ErrCodeInvalidFormat
	case "dive":
		return fmt.Sprintf("%s contains an invalid entry", field), apperrors.ErrCodeInvalidValue
	default:
		return fmt.Sprintf("%s is invalid", field), apperrors.ErrCodeInvalidValue
	}
}
