package model

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crm/pkg/common/projection"
)

type Customer struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

type CustomerRepository interface {
	NextID() (uuid.UUID, error)
	// Create returns ErrDuplicateEmail when the store's unique index rejects the email.
	Create(ctx context.Context, customer *Customer) error
	Find(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	List(ctx context.Context, filter projection.Filter) (projection.Page[Customer], error)
}

var CustomerFields = projection.Descriptor[Customer]{
	Entity: "customer",
	Fields: []projection.Field[Customer]{
		{Name: "name", Kind: projection.String, Operators: projection.TextOperators, Sortable: true, Value: func(c Customer) any { return c.Name }},
		{Name: "email", Kind: projection.String, Operators: projection.TextOperators, Sortable: true, Value: func(c Customer) any { return c.Email }},
		{Name: "phone", Kind: projection.String, Operators: projection.TextOperators, Value: func(c Customer) any { return c.Phone }},
		{Name: "created_at", Kind: projection.Time, Operators: projection.RangeOperators, Sortable: true, Value: func(c Customer) any { return c.CreatedAt }},
	},
	DefaultOrder: []projection.Sort{{Field: "created_at"}},
	Key:          func(c Customer) string { return c.ID.String() },
}
