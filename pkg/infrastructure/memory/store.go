// Package memory is a transactional in-memory entity store. A unit of work
// holds the store lock from start to commit, so units of work are serialized
// and each one sees a consistent snapshot.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"crm/pkg/domain/model"
)

var ErrDuplicateID = errors.New("entity with this id already exists")

type orderRecord struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	ProductIDs  []uuid.UUID
	OrderDate   time.Time
	TotalAmount decimal.Decimal
}

type tables struct {
	customers map[uuid.UUID]model.Customer
	// emails is the unique index over customers.
	emails   map[string]uuid.UUID
	products map[uuid.UUID]model.Product
	orders   map[uuid.UUID]orderRecord
}

func newTables() tables {
	return tables{
		customers: make(map[uuid.UUID]model.Customer),
		emails:    make(map[string]uuid.UUID),
		products:  make(map[uuid.UUID]model.Product),
		orders:    make(map[uuid.UUID]orderRecord),
	}
}

type Store struct {
	mu        sync.Mutex
	committed tables
}

var _ model.UnitOfWork = &Store{}

func NewStore() *Store {
	return &Store{committed: newTables()}
}

func (s *Store) Execute(ctx context.Context, fn func(provider model.RepositoryProvider) error) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{committed: &s.committed, staged: newTables()}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type transaction struct {
	committed *tables
	staged    tables
}

func (tx *transaction) CustomerRepository() model.CustomerRepository {
	return &customerRepository{tx: tx}
}

func (tx *transaction) ProductRepository() model.ProductRepository {
	return &productRepository{tx: tx}
}

func (tx *transaction) OrderRepository() model.OrderRepository {
	return &orderRepository{tx: tx}
}

func (tx *transaction) commit() {
	for id, c := range tx.staged.customers {
		tx.committed.customers[id] = c
	}
	for email, id := range tx.staged.emails {
		tx.committed.emails[email] = id
	}
	for id, p := range tx.staged.products {
		tx.committed.products[id] = p
	}
	for id, o := range tx.staged.orders {
		tx.committed.orders[id] = o
	}
}

func (tx *transaction) customer(id uuid.UUID) (model.Customer, bool) {
	if c, ok := tx.staged.customers[id]; ok {
		return c, true
	}
	c, ok := tx.committed.customers[id]
	return c, ok
}

func (tx *transaction) customerIDByEmail(email string) (uuid.UUID, bool) {
	if id, ok := tx.staged.emails[email]; ok {
		return id, true
	}
	id, ok := tx.committed.emails[email]
	return id, ok
}

func (tx *transaction) product(id uuid.UUID) (model.Product, bool) {
	if p, ok := tx.staged.products[id]; ok {
		return p, true
	}
	p, ok := tx.committed.products[id]
	return p, ok
}

func (tx *transaction) order(id uuid.UUID) (orderRecord, bool) {
	if o, ok := tx.staged.orders[id]; ok {
		return o, true
	}
	o, ok := tx.committed.orders[id]
	return o, ok
}

func (tx *transaction) hydrate(record orderRecord) model.Order {
	customer, _ := tx.customer(record.CustomerID)
	products := make([]model.Product, 0, len(record.ProductIDs))
	for _, id := range record.ProductIDs {
		if p, ok := tx.product(id); ok {
			products = append(products, p)
		}
	}
	return model.Order{
		ID:          record.ID,
		Customer:    customer,
		Products:    products,
		OrderDate:   record.OrderDate,
		TotalAmount: record.TotalAmount,
	}
}

func allOf[K comparable, V any](committed, staged map[K]V) []V {
	result := make([]V, 0, len(committed)+len(staged))
	for k, v := range committed {
		if _, shadowed := staged[k]; !shadowed {
			result = append(result, v)
		}
	}
	for _, v := range staged {
		result = append(result, v)
	}
	return result
}
