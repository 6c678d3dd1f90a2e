package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"crm/pkg/common/projection"
)

type Product struct {
	ID        uuid.UUID
	Name      string
	Price     decimal.Decimal
	Stock     int
	CreatedAt time.Time
}

type ProductRepository interface {
	NextID() (uuid.UUID, error)
	Create(ctx context.Context, product *Product) error
	Find(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindMany returns the products that exist among ids; unknown ids are
	// simply absent from the result.
	FindMany(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	List(ctx context.Context, filter projection.Filter) (projection.Page[Product], error)
}

var ProductFields = projection.Descriptor[Product]{
	Entity: "product",
	Fields: []projection.Field[Product]{
		{Name: "name", Kind: projection.String, Operators: projection.TextOperators, Sortable: true, Value: func(p Product) any { return p.Name }},
		{Name: "price", Kind: projection.Decimal, Operators: projection.RangeOperators, Sortable: true, Value: func(p Product) any { return p.Price }},
		{Name: "stock", Kind: projection.Int, Operators: projection.RangeOperators, Sortable: true, Value: func(p Product) any { return p.Stock }},
		{Name: "created_at", Kind: projection.Time, Operators: projection.RangeOperators, Sortable: true, Value: func(p Product) any { return p.CreatedAt }},
	},
	DefaultOrder: []projection.Sort{{Field: "created_at"}},
	Key:          func(p Product) string { return p.ID.String() },
}
