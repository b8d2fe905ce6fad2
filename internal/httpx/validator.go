package httpx

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate    *validator.Validate
	isbn13Regex = regexp.MustCompile(`^\d{13}$`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("isbn13", validateISBN13)
}

func validateISBN13(fl validator.FieldLevel) bool {
	return isbn13Regex.MatchString(fl.Field().String())
}

// ValidateStruct runs struct tag validation and returns one ErrorDetail per
// failing field, named after its json tag when present.
func ValidateStruct(s any) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ErrorDetail{{Field: "", Message: err.Error()}}
	}

	details := make([]ErrorDetail, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s", field, param)
		case "gte", "lte":
			message = fmt.Sprintf("%s must be between 1 and 5", field)
		case "isbn13":
			message = fmt.Sprintf("%s must be a 13 digit ISBN", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		details = append(details, ErrorDetail{
			Field:   strings.ToLower(field[:1]) + field[1:],
			Message: message,
		})
	}
	return details
}
