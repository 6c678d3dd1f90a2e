package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"crm/pkg/common/projection"
	"crm/pkg/domain/model"
)

type customerRepository struct {
	tx *transaction
}

func (r *customerRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *customerRepository) Create(_ context.Context, customer *model.Customer) error {
	if _, exists := r.tx.customer(customer.ID); exists {
		return errors.Wrapf(ErrDuplicateID, "customer %s", customer.ID)
	}
	if _, taken := r.tx.customerIDByEmail(customer.Email); taken {
		return model.ErrDuplicateEmail
	}
	r.tx.staged.customers[customer.ID] = *customer
	r.tx.staged.emails[customer.Email] = customer.ID
	return nil
}

func (r *customerRepository) Find(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.tx.customer(id)
	if !ok {
		return nil, model.ErrCustomerNotFound
	}
	return &c, nil
}

func (r *customerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	id, ok := r.tx.customerIDByEmail(email)
	if !ok {
		return nil, model.ErrCustomerNotFound
	}
	return r.Find(ctx, id)
}

func (r *customerRepository) List(_ context.Context, filter projection.Filter) (projection.Page[model.Customer], error) {
	items := allOf(r.tx.committed.customers, r.tx.staged.customers)
	return projection.Apply(model.CustomerFields, items, filter), nil
}

type productRepository struct {
	tx *transaction
}

func (r *productRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *productRepository) Create(_ context.Context, product *model.Product) error {
	if _, exists := r.tx.product(product.ID); exists {
		return errors.Wrapf(ErrDuplicateID, "product %s", product.ID)
	}
	r.tx.staged.products[product.ID] = *product
	return nil
}

func (r *productRepository) Find(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.tx.product(id)
	if !ok {
		return nil, model.ErrProductNotFound
	}
	return &p, nil
}

func (r *productRepository) FindMany(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	result := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.tx.product(id); ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *productRepository) List(_ context.Context, filter projection.Filter) (projection.Page[model.Product], error) {
	items := allOf(r.tx.committed.products, r.tx.staged.products)
	return projection.Apply(model.ProductFields, items, filter), nil
}

type orderRepository struct {
	tx *transaction
}

func (r *orderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

// Create enforces the same foreign keys as the relational schema.
func (r *orderRepository) Create(_ context.Context, order *model.Order) error {
	if _, exists := r.tx.order(order.ID); exists {
		return errors.Wrapf(ErrDuplicateID, "order %s", order.ID)
	}
	if _, ok := r.tx.customer(order.Customer.ID); !ok {
		return model.ErrCustomerNotFound
	}
	ids := order.ProductIDs()
	for _, id := range ids {
		if _, ok := r.tx.product(id); !ok {
			return model.ErrProductNotFound
		}
	}
	r.tx.staged.orders[order.ID] = orderRecord{
		ID:          order.ID,
		CustomerID:  order.Customer.ID,
		ProductIDs:  ids,
		OrderDate:   order.OrderDate,
		TotalAmount: order.TotalAmount,
	}
	return nil
}

func (r *orderRepository) Find(_ context.Context, id uuid.UUID) (*model.Order, error) {
	record, ok := r.tx.order(id)
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	order := r.tx.hydrate(record)
	return &order, nil
}

func (r *orderRepository) List(_ context.Context, filter projection.Filter) (projection.Page[model.Order], error) {
	records := allOf(r.tx.committed.orders, r.tx.staged.orders)
	items := make([]model.Order, 0, len(records))
	for _, record := range records {
		items = append(items, r.tx.hydrate(record))
	}
	return projection.Apply(model.OrderFields, items, filter), nil
}
