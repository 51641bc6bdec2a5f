package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// SetupValidator installs the shop rules on gin's binding validator
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidations(v)
	}
}

// RegisterValidations teaches v the request conventions of the API:
// errors name the JSON field, decimals compare as numbers, and the
// sku and coupon_code tags accept the characters the catalog and coupon
// codes allow. Codes are checked before upper-casing, so either case
// passes.
func RegisterValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("sku", codeValidator("-_."))
	_ = v.RegisterValidation("coupon_code", codeValidator("-_"))
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
	}
	return name
}

// decimalValue lets numeric tags such as gte=0 apply to decimal fields
func decimalValue(field reflect.Value) any {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return f
}

// codeValidator accepts letters, digits and the given punctuation,
// ignoring surrounding whitespace
func codeValidator(punctuation string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		code := strings.TrimSpace(fl.Field().String())
		if code == "" {
			return false
		}
		for _, r := range code {
			alnum := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
			if !alnum && !strings.ContainsRune(punctuation, r) {
				return false
			}
		}
		return true
	}
}

// FormatValidationErrors converts a binding error into the error envelope.
// Errors that are not field validations (malformed JSON) yield no details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, e := range fieldErrs {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError aborts the request with a 400 validation envelope
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func getValidationMessage(e validator.FieldError) string {
	unit := ""
	if e.Kind() == reflect.String {
		unit = " characters"
	}

	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Must be at least " + e.Param() + unit
	case "max":
		return "Must be at most " + e.Param() + unit
	case "len":
		return "Must be exactly " + e.Param() + " characters"
	case "ne":
		return "Must not be " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "url", "http_url":
		return "Invalid URL format"
	case "uuid":
		return "Invalid UUID format"
	case "sku":
		return "May only contain letters, digits, dashes, underscores and dots"
	case "coupon_code":
		return "May only contain letters, digits, dashes and underscores"
	default:
		return "Invalid value"
	}
}
