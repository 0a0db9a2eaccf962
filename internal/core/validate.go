package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidPeriod   = errors.New("invalid budget period")
	ErrUnknownCategory = errors.New("unknown category")
	ErrDuplicateBudget = errors.New("budget already exists for category")
	ErrDescriptionLong = errors.New("description too long")
)

// ValidationError is a rejected input. Message is safe to show to the user.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Money and Date validate through their underlying values so the
	// standard gt/required tags apply to them.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if m, ok := field.Interface().(Money); ok {
			return m.Cents
		}
		return nil
	}, Money{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(Date); ok {
			return d.Time
		}
		return nil
	}, Date{})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateTransaction checks a normalized input against the field rules and
// the category catalog. The category must exist and match the transaction type.
func ValidateTransaction(in TransactionInput, catalog Catalog) error {
	if err := validate.Struct(in); err != nil {
		return translate(err)
	}
	cat, ok := catalog.Lookup(in.Category)
	if !ok {
		return &ValidationError{Field: "category", Message: "Please choose a valid category", Err: ErrUnknownCategory}
	}
	if cat.Type != in.Type {
		return &ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("%s is not an %s category", cat.Name, in.Type),
			Err:     ErrUnknownCategory,
		}
	}
	return nil
}

// ValidateBudget checks a normalized input. Budgets track spending, so the
// category must be an expense category with no budget yet.
func ValidateBudget(in BudgetInput, catalog Catalog, existing []Budget) error {
	if err := validate.Struct(in); err != nil {
		return translate(err)
	}
	cat, ok := catalog.Lookup(in.Category)
	if !ok || cat.Type != Expense {
		return &ValidationError{Field: "category", Message: "Please choose a valid expense category", Err: ErrUnknownCategory}
	}
	for _, b := range existing {
		if b.Category == in.Category {
			return &ValidationError{Field: "category", Message: "Budget already exists for this category", Err: ErrDuplicateBudget}
		}
	}
	return nil
}

// translate turns the first field failure into a user-facing ValidationError.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Field()

	switch {
	case fe.Tag() == "required":
		return &ValidationError{Field: field, Message: "Please fill in all fields", Err: ErrMissingField}
	case field == "amount":
		return &ValidationError{Field: field, Message: "Please enter a valid amount", Err: ErrInvalidAmount}
	case field == "limit":
		return &ValidationError{Field: field, Message: "Please enter a valid budget limit", Err: ErrInvalidAmount}
	case field == "type":
		return &ValidationError{Field: field, Message: "Type must be income or expense", Err: ErrInvalidType}
	case field == "period":
		return &ValidationError{Field: field, Message: "Period must be weekly, monthly or yearly", Err: ErrInvalidPeriod}
	case field == "description" && fe.Tag() == "max":
		return &ValidationError{Field: field, Message: "Description too long (max 200 characters)", Err: ErrDescriptionLong}
	default:
		return &ValidationError{Field: field, Message: fmt.Sprintf("Invalid value for %s", field), Err: err}
	}
}
