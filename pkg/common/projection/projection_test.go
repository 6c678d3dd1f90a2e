package projection

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id    string
	name  string
	price decimal.Decimal
	at    time.Time
}

var items = Descriptor[item]{
	Entity: "item",
	Fields: []Field[item]{
		{Name: "name", Kind: String, Operators: TextOperators, Sortable: true, Value: func(i item) any { return i.name }},
		{Name: "price", Kind: Decimal, Operators: RangeOperators, Sortable: true, Value: func(i item) any { return i.price }},
		{Name: "at", Kind: Time, Operators: RangeOperators, Value: func(i item) any { return i.at }},
	},
	DefaultOrder: []Sort{{Field: "name"}},
	Key:          func(i item) string { return i.id },
}

func fixtures() []item {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []item{
		{id: "1", name: "Laptop", price: decimal.RequireFromString("999.99"), at: day},
		{id: "2", name: "Mouse", price: decimal.RequireFromString("49.99"), at: day.AddDate(0, 0, 1)},
		{id: "3", name: "Mousepad", price: decimal.RequireFromString("9.99"), at: day.AddDate(0, 0, 2)},
		{id: "4", name: "Monitor", price: decimal.RequireFromString("49.99"), at: day.AddDate(0, 0, 3)},
	}
}

func names(p Page[item]) []string {
	var result []string
	for _, n := range p.Nodes() {
		result = append(result, n.name)
	}
	return result
}

func TestCursorRoundTrip(t *testing.T) {
	assert.Equal(t, "YXJyYXljb25uZWN0aW9uOjA=", EncodeCursor(0))

	offset, err := DecodeCursor(EncodeCursor(41))
	require.NoError(t, err)
	assert.Equal(t, 41, offset)

	for _, bad := range []string{"!!", "b3RoZXI6MQ==", EncodeCursor(-1)} {
		_, err := DecodeCursor(bad)
		assert.ErrorIs(t, err, ErrInvalidFilter, bad)
	}
}

func TestParse(t *testing.T) {
	f, err := Parse(items, map[string]string{
		"name__icontains": "mouse",
		"price__lt":       "50",
		"first":           "500",
		"after":           EncodeCursor(1),
		"order_by":        "-price,name",
	})
	require.NoError(t, err)

	assert.Equal(t, MaxPageSize, f.First)
	assert.Equal(t, 2, f.Offset)
	assert.Equal(t, []Sort{{Field: "price", Desc: true}, {Field: "name"}}, f.Sort)
	require.Len(t, f.Conditions, 2)
	assert.Equal(t, Condition{Field: "name", Operator: IContains, Value: "mouse"}, f.Conditions[0])
	assert.True(t, decimal.NewFromInt(50).Equal(f.Conditions[1].Value.(decimal.Decimal)))
}

func TestParseDefaults(t *testing.T) {
	f, err := Parse(items, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, f.First)
	assert.Zero(t, f.Offset)
	assert.Empty(t, f.Conditions)
}

func TestParseRejects(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown field":      {"colour": "red"},
		"unsupported op":     {"price__icontains": "9"},
		"bad decimal":        {"price__gt": "cheap"},
		"bad time":           {"at__gte": "yesterday"},
		"negative first":     {"first": "-1"},
		"unsortable field":   {"order_by": "at"},
		"malformed cursor":   {"after": "nope"},
		"operator on string": {"name__gt": "a"},
	}
	for name, params := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(items, params)
			assert.ErrorIs(t, err, ErrInvalidFilter)
		})
	}
}

func TestApplyFiltersAndOrders(t *testing.T) {
	f, err := Parse(items, map[string]string{"name__istartswith": "MO", "order_by": "price"})
	require.NoError(t, err)

	page := Apply(items, fixtures(), f)
	assert.Equal(t, []string{"Mousepad", "Mouse", "Monitor"}, names(page))
	assert.Equal(t, 3, page.TotalCount)
}

func TestApplyBreaksTiesByKey(t *testing.T) {
	f, err := Parse(items, map[string]string{"price": "49.99", "order_by": "price"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Mouse", "Monitor"}, names(Apply(items, fixtures(), f)))
}

func TestApplyTimeRange(t *testing.T) {
	f, err := Parse(items, map[string]string{"at__gte": "2024-01-02", "at__lt": "2024-01-04T00:00:00Z"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Mouse", "Mousepad"}, names(Apply(items, fixtures(), f)))
}

func TestApplyPaging(t *testing.T) {
	f, err := Parse(items, map[string]string{"first": "2"})
	require.NoError(t, err)

	first := Apply(items, fixtures(), f)
	assert.Equal(t, []string{"Laptop", "Monitor"}, names(first))
	assert.True(t, first.PageInfo.HasNextPage)
	assert.False(t, first.PageInfo.HasPreviousPage)
	assert.Equal(t, EncodeCursor(0), first.PageInfo.StartCursor)

	f, err = Parse(items, map[string]string{"first": "2", "after": first.PageInfo.EndCursor})
	require.NoError(t, err)

	second := Apply(items, fixtures(), f)
	assert.Equal(t, []string{"Mouse", "Mousepad"}, names(second))
	assert.False(t, second.PageInfo.HasNextPage)
	assert.True(t, second.PageInfo.HasPreviousPage)
	assert.Equal(t, EncodeCursor(3), second.PageInfo.EndCursor)
	assert.Equal(t, 4, second.TotalCount)

	f.Offset = 10
	empty := Apply(items, fixtures(), f)
	assert.Empty(t, empty.Edges)
	assert.Equal(t, 4, empty.TotalCount)
}

func TestParseRejectsOverflowingCursor(t *testing.T) {
	for _, offset := range []int{math.MaxInt, MaxOffset} {
		_, err := Parse(items, map[string]string{"after": EncodeCursor(offset)})
		assert.ErrorIs(t, err, ErrInvalidFilter, offset)
	}

	f, err := Parse(items, map[string]string{"after": EncodeCursor(MaxOffset - 1)})
	require.NoError(t, err)
	page := Apply(items, fixtures(), f)
	assert.Empty(t, page.Edges)
	assert.Equal(t, 4, page.TotalCount)
}

func TestApplyClampsNegativeOffset(t *testing.T) {
	page := Apply(items, fixtures(), Filter{First: 2, Offset: math.MinInt})
	assert.Equal(t, []string{"Laptop", "Monitor"}, names(page))
	assert.False(t, page.PageInfo.HasPreviousPage)
	assert.Equal(t, EncodeCursor(0), page.PageInfo.StartCursor)
}
