package projection

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxOffset bounds cursor offsets so that offset arithmetic cannot overflow.
	MaxOffset = 1 << 31

	paramFirst   = "first"
	paramAfter   = "after"
	paramOrderBy = "order_by"
	lookupSep    = "__"
)

type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

type Sort struct {
	Field string
	Desc  bool
}

type Filter struct {
	Conditions []Condition
	Sort       []Sort
	First      int
	Offset     int
}

// OrderOrDefault returns the requested ordering, or the descriptor default
// when none was requested.
func (f Filter) OrderOrDefault(defaults []Sort) []Sort {
	if len(f.Sort) > 0 {
		return f.Sort
	}
	return defaults
}

// Parse builds a Filter from flat request parameters. Keys are either
// reserved paging keys (first, after, order_by) or "field" / "field__op".
func Parse[T any](d Descriptor[T], params map[string]string) (Filter, error) {
	filter := Filter{First: DefaultPageSize}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := params[key]
		switch key {
		case paramFirst:
			first, err := strconv.Atoi(raw)
			if err != nil || first < 0 {
				return Filter{}, errors.Wrapf(ErrInvalidFilter, "first must be a non-negative integer, got %q", raw)
			}
			filter.First = min(first, MaxPageSize)
		case paramAfter:
			offset, err := DecodeCursor(raw)
			if err != nil {
				return Filter{}, err
			}
			if offset >= MaxOffset {
				return Filter{}, errors.Wrapf(ErrInvalidFilter, "cursor %q is out of range", raw)
			}
			filter.Offset = offset + 1
		case paramOrderBy:
			sorts, err := parseOrder(d, raw)
			if err != nil {
				return Filter{}, err
			}
			filter.Sort = sorts
		default:
			cond, err := parseCondition(d, key, raw)
			if err != nil {
				return Filter{}, err
			}
			filter.Conditions = append(filter.Conditions, cond)
		}
	}
	return filter, nil
}

func parseOrder[T any](d Descriptor[T], raw string) ([]Sort, error) {
	var sorts []Sort
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		s := Sort{Field: part}
		if strings.HasPrefix(part, "-") {
			s = Sort{Field: part[1:], Desc: true}
		}
		f, ok := d.Field(s.Field)
		if !ok || !f.Sortable {
			return nil, errors.Wrapf(ErrInvalidFilter, "%s cannot be ordered by %q", d.Entity, s.Field)
		}
		sorts = append(sorts, s)
	}
	return sorts, nil
}

func parseCondition[T any](d Descriptor[T], key, raw string) (Condition, error) {
	name, op := key, Exact
	if i := strings.LastIndex(key, lookupSep); i >= 0 {
		name, op = key[:i], Operator(key[i+len(lookupSep):])
	}

	f, ok := d.Field(name)
	if !ok {
		return Condition{}, errors.Wrapf(ErrInvalidFilter, "%s has no filterable field %q", d.Entity, name)
	}
	if !f.allows(op) {
		return Condition{}, errors.Wrapf(ErrInvalidFilter, "operator %q is not supported for %s.%s", op, d.Entity, name)
	}

	value, err := parseValue(f.Kind, raw)
	if err != nil {
		return Condition{}, errors.Wrapf(ErrInvalidFilter, "%s.%s: %v", d.Entity, name, err)
	}
	return Condition{Field: name, Operator: op, Value: value}, nil
}

func parseValue(kind Kind, raw string) (any, error) {
	switch kind {
	case Decimal:
		return decimal.NewFromString(raw)
	case Int:
		return strconv.Atoi(raw)
	case Time:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t.UTC(), nil
		}
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, errors.Errorf("%q is neither RFC 3339 nor YYYY-MM-DD", raw)
		}
		return t, nil
	case ID:
		return uuid.Parse(raw)
	default:
		return raw, nil
	}
}
