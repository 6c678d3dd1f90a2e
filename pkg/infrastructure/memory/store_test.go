package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm/pkg/common/projection"
	"crm/pkg/domain/model"
)

func newCustomer(email string) *model.Customer {
	return &model.Customer{ID: uuid.New(), Name: "Customer", Email: email, CreatedAt: time.Now().UTC()}
}

func TestExecuteCommitsOnSuccess(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	customer := newCustomer("a@example.com")

	err := store.Execute(ctx, func(p model.RepositoryProvider) error {
		return p.CustomerRepository().Create(ctx, customer)
	})
	require.NoError(t, err)

	err = store.Execute(ctx, func(p model.RepositoryProvider) error {
		found, err := p.CustomerRepository().FindByEmail(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, customer.ID, found.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestExecuteDiscardsOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Execute(ctx, func(p model.RepositoryProvider) error {
		require.NoError(t, p.CustomerRepository().Create(ctx, newCustomer("a@example.com")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = store.Execute(ctx, func(p model.RepositoryProvider) error {
		_, err := p.CustomerRepository().FindByEmail(ctx, "a@example.com")
		assert.ErrorIs(t, err, model.ErrCustomerNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestExecuteRejectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewStore().Execute(ctx, func(model.RepositoryProvider) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestCustomerEmailIsUnique(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.Execute(ctx, func(p model.RepositoryProvider) error {
		repo := p.CustomerRepository()
		require.NoError(t, repo.Create(ctx, newCustomer("a@example.com")))
		return repo.Create(ctx, newCustomer("a@example.com"))
	})
	assert.ErrorIs(t, err, model.ErrDuplicateEmail)

	err = store.Execute(ctx, func(p model.RepositoryProvider) error {
		return p.CustomerRepository().Create(ctx, newCustomer("A@example.com"))
	})
	assert.NoError(t, err, "emails are compared exactly")
}

func TestConcurrentCreatesKeepOneCustomerPerEmail(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		dupes     int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Execute(ctx, func(p model.RepositoryProvider) error {
				return p.CustomerRepository().Create(ctx, newCustomer("race@example.com"))
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, model.ErrDuplicateEmail) {
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, dupes)
}

func TestOrderCreateEnforcesReferences(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	customer := newCustomer("a@example.com")
	product := model.Product{ID: uuid.New(), Name: "Mouse", Price: decimal.RequireFromString("49.99"), Stock: 5}

	require.NoError(t, store.Execute(ctx, func(p model.RepositoryProvider) error {
		if err := p.CustomerRepository().Create(ctx, customer); err != nil {
			return err
		}
		return p.ProductRepository().Create(ctx, &product)
	}))

	err := store.Execute(ctx, func(p model.RepositoryProvider) error {
		return p.OrderRepository().Create(ctx, &model.Order{
			ID:       uuid.New(),
			Customer: *customer,
			Products: []model.Product{product, {ID: uuid.New()}},
		})
	})
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	orderID := uuid.New()
	require.NoError(t, store.Execute(ctx, func(p model.RepositoryProvider) error {
		return p.OrderRepository().Create(ctx, &model.Order{
			ID:          orderID,
			Customer:    *customer,
			Products:    []model.Product{product},
			OrderDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			TotalAmount: product.Price,
		})
	}))

	require.NoError(t, store.Execute(ctx, func(p model.RepositoryProvider) error {
		order, err := p.OrderRepository().Find(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, customer.Email, order.Customer.Email)
		assert.Equal(t, []uuid.UUID{product.ID}, order.ProductIDs())
		return nil
	}))
}

func TestFindManySkipsMissingProducts(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	product := model.Product{ID: uuid.New(), Name: "Laptop", Price: decimal.RequireFromString("999.99")}

	require.NoError(t, store.Execute(ctx, func(p model.RepositoryProvider) error {
		return p.ProductRepository().Create(ctx, &product)
	}))
	require.NoError(t, store.Execute(ctx, func(p model.RepositoryProvider) error {
		found, err := p.ProductRepository().FindMany(ctx, []uuid.UUID{product.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, product.ID, found[0].ID)
		return nil
	}))
}

func TestListSeesStagedAndCommittedRows(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Execute(ctx, func(p model.RepositoryProvider) error {
		return p.CustomerRepository().Create(ctx, newCustomer("committed@example.com"))
	}))
	require.NoError(t, store.Execute(ctx, func(p model.RepositoryProvider) error {
		repo := p.CustomerRepository()
		for i := 0; i < 2; i++ {
			require.NoError(t, repo.Create(ctx, newCustomer(fmt.Sprintf("staged%d@example.com", i))))
		}
		page, err := repo.List(ctx, projection.Filter{First: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, page.TotalCount)
		return nil
	}))
}
