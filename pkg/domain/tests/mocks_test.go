package tests

import (
	"context"

	"github.com/google/uuid"

	"crm/pkg/common/projection"
	"crm/pkg/domain/model"
	"crm/pkg/domain/service"
)

var _ model.CustomerRepository = &mockCustomerRepository{}

type mockCustomerRepository struct {
	store map[uuid.UUID]*model.Customer
	// blindPreCheck makes FindByEmail miss, as if a concurrent request
	// inserted the same email after the pre-check ran.
	blindPreCheck bool
}

func newMockCustomerRepository() *mockCustomerRepository {
	return &mockCustomerRepository{store: make(map[uuid.UUID]*model.Customer)}
}

func (m *mockCustomerRepository) NextID() (uuid.UUID, error) { return uuid.New(), nil }

func (m *mockCustomerRepository) Create(_ context.Context, customer *model.Customer) error {
	for _, c := range m.store {
		if c.Email == customer.Email {
			return model.ErrDuplicateEmail
		}
	}
	clone := *customer
	m.store[customer.ID] = &clone
	return nil
}

func (m *mockCustomerRepository) Find(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	if c, ok := m.store[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, model.ErrCustomerNotFound
}

func (m *mockCustomerRepository) FindByEmail(_ context.Context, email string) (*model.Customer, error) {
	if m.blindPreCheck {
		return nil, model.ErrCustomerNotFound
	}
	for _, c := range m.store {
		if c.Email == email {
			clone := *c
			return &clone, nil
		}
	}
	return nil, model.ErrCustomerNotFound
}

func (m *mockCustomerRepository) List(_ context.Context, filter projection.Filter) (projection.Page[model.Customer], error) {
	items := make([]model.Customer, 0, len(m.store))
	for _, c := range m.store {
		items = append(items, *c)
	}
	return projection.Apply(model.CustomerFields, items, filter), nil
}

var _ model.ProductRepository = &mockProductRepository{}

type mockProductRepository struct {
	store map[uuid.UUID]*model.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{store: make(map[uuid.UUID]*model.Product)}
}

func (m *mockProductRepository) NextID() (uuid.UUID, error) { return uuid.New(), nil }

func (m *mockProductRepository) Create(_ context.Context, product *model.Product) error {
	clone := *product
	m.store[product.ID] = &clone
	return nil
}

func (m *mockProductRepository) Find(_ context.Context, id uuid.UUID) (*model.Product, error) {
	if p, ok := m.store[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, model.ErrProductNotFound
}

func (m *mockProductRepository) FindMany(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var result []model.Product
	for _, id := range ids {
		if p, ok := m.store[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProductRepository) List(_ context.Context, filter projection.Filter) (projection.Page[model.Product], error) {
	items := make([]model.Product, 0, len(m.store))
	for _, p := range m.store {
		items = append(items, *p)
	}
	return projection.Apply(model.ProductFields, items, filter), nil
}

var _ model.OrderRepository = &mockOrderRepository{}

type mockOrderRepository struct {
	store map[uuid.UUID]*model.Order
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{store: make(map[uuid.UUID]*model.Order)}
}

func (m *mockOrderRepository) NextID() (uuid.UUID, error) { return uuid.NewRandom() }

func (m *mockOrderRepository) Create(_ context.Context, order *model.Order) error {
	clone := *order
	m.store[order.ID] = &clone
	return nil
}

func (m *mockOrderRepository) Find(_ context.Context, id uuid.UUID) (*model.Order, error) {
	if o, ok := m.store[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, model.ErrOrderNotFound
}

func (m *mockOrderRepository) List(_ context.Context, filter projection.Filter) (projection.Page[model.Order], error) {
	items := make([]model.Order, 0, len(m.store))
	for _, o := range m.store {
		items = append(items, *o)
	}
	return projection.Apply(model.OrderFields, items, filter), nil
}

var _ service.EventDispatcher = &mockEventDispatcher{}

type mockEventDispatcher struct {
	events []service.Event
}

func (m *mockEventDispatcher) Dispatch(event service.Event) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventDispatcher) Reset() {
	m.events = nil
}
