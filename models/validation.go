package models

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError describes one rejected field of a request
type FieldError struct {
	Field         string `json:"field"`
	RejectedValue any    `json:"rejectedValue"`
	Message       string `json:"message"`
}

// ValidationError is returned when a request fails validation
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(fmt.Sprintf("models: register notblank: %v", err))
	}
	for tag, fn := range map[string]validator.Func{
		"positive":  decimalPositive,
		"intdigits": decimalIntDigits,
		"scale":     decimalScale,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("models: register %s: %v", tag, err))
		}
	}

	return v
}

// MaxPriceIntDigits and MaxPriceScale match the numeric(12,2) price column
const (
	MaxPriceIntDigits = 10
	MaxPriceScale     = 2
)

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	return d, ok
}

func decimalPositive(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && d.Sign() > 0
}

// decimalIntDigits bounds the digits left of the decimal point
func decimalIntDigits(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	n, err := strconv.Atoi(fl.Param())
	if !ok || err != nil {
		return false
	}
	return d.Abs().LessThan(decimal.New(1, int32(n)))
}

// decimalScale bounds the digits right of the decimal point, ignoring trailing zeros
func decimalScale(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	n, err := strconv.Atoi(fl.Param())
	if !ok || err != nil {
		return false
	}
	return d.Equal(d.Truncate(int32(n)))
}

// Validate checks the request and returns a *ValidationError listing every rejected field
func (r CreateProductRequest) Validate() error {
	return toValidationError(validate.Struct(r))
}

// Validate checks the batch size and every product in it
func (r BatchCreateProductRequest) Validate() error {
	return toValidationError(validate.Struct(r))
}

// Validate checks the fields present on the request
func (r UpdateProductRequest) Validate() error {
	return toValidationError(validate.Struct(r))
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:         fieldPath(fe),
			RejectedValue: rejectedValue(fe.Value()),
			Message:       fieldMessage(fe),
		})
	}
	return out
}

// fieldPath is the JSON path of the field below the validated struct, e.g. products[1].price
func fieldPath(fe validator.FieldError) string {
	_, path, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Field()
	}
	return path
}

func rejectedValue(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		return rv.Elem().Interface()
	}
	return v
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		switch fe.Tag() {
		case "notblank":
			return "Name cannot be empty"
		case "max":
			return "Name cannot exceed 255 characters"
		}
	case "description":
		return "Description cannot exceed 1000 characters"
	case "price":
		switch fe.Tag() {
		case "intdigits":
			return fmt.Sprintf("Product price cannot exceed %s digits before the decimal point", fe.Param())
		case "scale":
			return fmt.Sprintf("Product price cannot have more than %s decimal places", fe.Param())
		}
		return "Product price must be positive"
	case "stockQuantity":
		return "Stock quantity must be zero or positive"
	case "minStockLevel":
		return "Minimum stock level must be zero or positive"
	case "products":
		if fe.Tag() == "max" {
			return fmt.Sprintf("A batch cannot contain more than %s products", fe.Param())
		}
		return "Products list cannot be empty"
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}
