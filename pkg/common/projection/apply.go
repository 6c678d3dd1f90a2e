package projection

import (
	"cmp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Apply evaluates f against an in-memory collection. It is the reference
// semantics that SQL-backed stores reproduce.
func Apply[T any](d Descriptor[T], items []T, f Filter) Page[T] {
	matched := make([]T, 0, len(items))
	for _, item := range items {
		if matches(d, item, f.Conditions) {
			matched = append(matched, item)
		}
	}

	order := f.OrderOrDefault(d.DefaultOrder)
	sort.SliceStable(matched, func(i, j int) bool {
		for _, s := range order {
			field, ok := d.Field(s.Field)
			if !ok {
				continue
			}
			c := compare(field.Kind, field.Value(matched[i]), field.Value(matched[j]))
			if c == 0 {
				continue
			}
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
		if d.Key != nil {
			return d.Key(matched[i]) < d.Key(matched[j])
		}
		return false
	})

	total := len(matched)
	start := min(max(f.Offset, 0), total)
	end := min(start+f.First, total)
	return NewPage(matched[start:end], start, total)
}

func matches[T any](d Descriptor[T], item T, conditions []Condition) bool {
	for _, cond := range conditions {
		field, ok := d.Field(cond.Field)
		if !ok {
			return false
		}
		if !match(field.Kind, cond.Operator, field.Value(item), cond.Value) {
			return false
		}
	}
	return true
}

func match(kind Kind, op Operator, actual, expected any) bool {
	switch op {
	case IContains:
		return strings.Contains(strings.ToLower(toString(actual)), strings.ToLower(toString(expected)))
	case IStartsWith:
		return strings.HasPrefix(strings.ToLower(toString(actual)), strings.ToLower(toString(expected)))
	}

	c := compare(kind, actual, expected)
	switch op {
	case GT:
		return c > 0
	case GTE:
		return c >= 0
	case LT:
		return c < 0
	case LTE:
		return c <= 0
	default:
		return c == 0
	}
}

func compare(kind Kind, a, b any) int {
	switch kind {
	case Decimal:
		return a.(decimal.Decimal).Cmp(b.(decimal.Decimal))
	case Int:
		return cmp.Compare(a.(int), b.(int))
	case Time:
		return a.(time.Time).Compare(b.(time.Time))
	case ID:
		return strings.Compare(a.(uuid.UUID).String(), b.(uuid.UUID).String())
	default:
		return strings.Compare(toString(a), toString(b))
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case uuid.UUID:
		return s.String()
	default:
		return ""
	}
}
