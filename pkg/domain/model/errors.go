package model

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	DuplicateEmail ErrorKind = iota + 1
	FieldValidationError
	InvalidPrice
	InvalidStock
	CustomerNotFound
	ProductNotFound
	EmptyProductList
)

var kindNames = map[ErrorKind]string{
	DuplicateEmail:       "DuplicateEmail",
	FieldValidationError: "FieldValidationError",
	InvalidPrice:         "InvalidPrice",
	InvalidStock:         "InvalidStock",
	CustomerNotFound:     "CustomerNotFound",
	ProductNotFound:      "ProductNotFound",
	EmptyProductList:     "EmptyProductList",
}

var defaultMessages = map[ErrorKind]string{
	DuplicateEmail:       "email already exists",
	FieldValidationError: "invalid field value",
	InvalidPrice:         "price must be positive",
	InvalidStock:         "stock cannot be negative",
	CustomerNotFound:     "invalid customer id",
	ProductNotFound:      "invalid product ids",
	EmptyProductList:     "at least one product is required",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

var (
	ErrDuplicateEmail   = &Error{Kind: DuplicateEmail}
	ErrFieldValidation  = &Error{Kind: FieldValidationError}
	ErrInvalidPrice     = &Error{Kind: InvalidPrice}
	ErrInvalidStock     = &Error{Kind: InvalidStock}
	ErrCustomerNotFound = &Error{Kind: CustomerNotFound}
	ErrProductNotFound  = &Error{Kind: ProductNotFound}
	ErrEmptyProductList = &Error{Kind: EmptyProductList}
	ErrOrderNotFound    = errors.New("order not found")
)

// Error is a business rule violation. Kind is the machine readable part,
// Detail the message shown to callers.
type Error struct {
	Kind   ErrorKind
	Field  string
	Detail string
}

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func NewFieldError(field, format string, args ...any) *Error {
	return &Error{Kind: FieldValidationError, Field: field, Detail: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return defaultMessages[e.Kind]
}

// Is matches any *Error of the same kind, so the sentinels above work with
// errors.Is regardless of the detail attached.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf reports the business error kind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
