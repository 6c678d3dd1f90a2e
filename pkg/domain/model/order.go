package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"crm/pkg/common/projection"
)

type Order struct {
	ID          uuid.UUID
	Customer    Customer
	Products    []Product
	OrderDate   time.Time
	TotalAmount decimal.Decimal
}

func (o Order) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(o.Products))
	for _, p := range o.Products {
		ids = append(ids, p.ID)
	}
	return ids
}

type OrderRepository interface {
	NextID() (uuid.UUID, error)
	// Create stores the order together with its product associations.
	Create(ctx context.Context, order *Order) error
	Find(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, filter projection.Filter) (projection.Page[Order], error)
}

var OrderFields = projection.Descriptor[Order]{
	Entity: "order",
	Fields: []projection.Field[Order]{
		{Name: "customer_id", Kind: projection.ID, Operators: []projection.Operator{projection.Exact}, Value: func(o Order) any { return o.Customer.ID }},
		{Name: "customer_name", Kind: projection.String, Operators: projection.TextOperators, Sortable: true, Value: func(o Order) any { return o.Customer.Name }},
		{Name: "total_amount", Kind: projection.Decimal, Operators: projection.RangeOperators, Sortable: true, Value: func(o Order) any { return o.TotalAmount }},
		{Name: "order_date", Kind: projection.Time, Operators: projection.RangeOperators, Sortable: true, Value: func(o Order) any { return o.OrderDate }},
	},
	DefaultOrder: []projection.Sort{{Field: "order_date", Desc: true}},
	Key:          func(o Order) string { return o.ID.String() },
}
