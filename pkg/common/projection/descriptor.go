// Package projection implements the read side of the CRM: descriptor-driven
// filters, ordering and cursor paging shared by every entity collection.
package projection

import "errors"

var ErrInvalidFilter = errors.New("invalid filter")

type Kind int

const (
	String Kind = iota
	Decimal
	Int
	Time
	ID
)

type Operator string

const (
	Exact       Operator = "exact"
	IContains   Operator = "icontains"
	IStartsWith Operator = "istartswith"
	GT          Operator = "gt"
	GTE         Operator = "gte"
	LT          Operator = "lt"
	LTE         Operator = "lte"
)

var (
	TextOperators  = []Operator{Exact, IContains, IStartsWith}
	RangeOperators = []Operator{Exact, GT, GTE, LT, LTE}
)

// Field describes one filterable attribute of T. Value must return the Go
// type matching Kind: string, decimal.Decimal, int, time.Time or uuid.UUID.
type Field[T any] struct {
	Name      string
	Kind      Kind
	Operators []Operator
	Sortable  bool
	Value     func(T) any
}

func (f Field[T]) allows(op Operator) bool {
	for _, allowed := range f.Operators {
		if allowed == op {
			return true
		}
	}
	return false
}

type Descriptor[T any] struct {
	Entity       string
	Fields       []Field[T]
	DefaultOrder []Sort
	// Key breaks ordering ties so that offsets stay stable between pages.
	Key func(T) string
}

func (d Descriptor[T]) Field(name string) (Field[T], bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}
