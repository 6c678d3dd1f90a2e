package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm/pkg/domain/model"
	"crm/pkg/domain/service"
)

func setupCustomers(t *testing.T) (service.CustomerService, *mockCustomerRepository, *mockEventDispatcher) {
	t.Helper()
	repo := newMockCustomerRepository()
	dispatcher := &mockEventDispatcher{}
	return service.NewCustomerService(repo, dispatcher), repo, dispatcher
}

func TestCreateCustomer(t *testing.T) {
	customerService, repo, dispatcher := setupCustomers(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		customer, err := customerService.CreateCustomer(ctx, "Alice", "alice@example.com", "+1234567890")

		require.NoError(t, err)
		require.NotNil(t, customer)
		assert.Equal(t, "Alice", customer.Name)
		assert.Equal(t, "alice@example.com", customer.Email)
		assert.Equal(t, "+1234567890", customer.Phone)
		assert.False(t, customer.CreatedAt.IsZero())

		saved, err := repo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, customer.ID, saved.ID)

		require.Len(t, dispatcher.events, 1)
		event, ok := dispatcher.events[0].(model.CustomerCreated)
		require.True(t, ok)
		assert.Equal(t, customer.ID, event.CustomerID)
	})

	t.Run("Fail on email taken", func(t *testing.T) {
		dispatcher.Reset()
		_, err := customerService.CreateCustomer(ctx, "Bob", "alice@example.com", "")

		assert.ErrorIs(t, err, model.ErrDuplicateEmail)
		assert.Contains(t, err.Error(), "alice@example.com already exists")
		assert.Len(t, repo.store, 1)
		assert.Empty(t, dispatcher.events)
	})

	t.Run("Phone is optional", func(t *testing.T) {
		customer, err := customerService.CreateCustomer(ctx, "Carol", "carol@example.com", "")
		require.NoError(t, err)
		assert.Empty(t, customer.Phone)
	})

	t.Run("Dashed phone format", func(t *testing.T) {
		_, err := customerService.CreateCustomer(ctx, "Bob", "bob@example.com", "123-456-7890")
		require.NoError(t, err)
	})
}

func TestCreateCustomer_FieldValidation(t *testing.T) {
	tests := []struct {
		name      string
		custName  string
		email     string
		phone     string
		wantField string
	}{
		{name: "blank name", custName: "  ", email: "a@example.com", wantField: "name"},
		{name: "blank email", custName: "A", email: "", wantField: "email"},
		{name: "malformed email", custName: "A", email: "not-an-email", wantField: "email"},
		{name: "display name in email", custName: "A", email: "A <a@example.com>", wantField: "email"},
		{name: "email without domain dot", custName: "A", email: "a@localhost", wantField: "email"},
		{name: "letters in phone", custName: "A", email: "a@example.com", phone: "call-me", wantField: "phone"},
		{name: "short phone", custName: "A", email: "a@example.com", phone: "12345", wantField: "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customerService, repo, dispatcher := setupCustomers(t)

			_, err := customerService.CreateCustomer(context.Background(), tt.custName, tt.email, tt.phone)

			require.ErrorIs(t, err, model.ErrFieldValidation)
			var modelErr *model.Error
			require.ErrorAs(t, err, &modelErr)
			assert.Equal(t, tt.wantField, modelErr.Field)
			assert.Empty(t, repo.store)
			assert.Empty(t, dispatcher.events)
		})
	}
}

func TestCreateCustomer_StoreConstraintIsFinalAuthority(t *testing.T) {
	customerService, repo, dispatcher := setupCustomers(t)
	ctx := context.Background()

	_, err := customerService.CreateCustomer(ctx, "Alice", "alice@example.com", "")
	require.NoError(t, err)
	dispatcher.Reset()

	repo.blindPreCheck = true
	_, err = customerService.CreateCustomer(ctx, "Mallory", "alice@example.com", "")

	assert.ErrorIs(t, err, model.ErrDuplicateEmail)
	kind, ok := model.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, model.DuplicateEmail, kind)
	assert.Equal(t, "email alice@example.com already exists", err.Error())
	assert.Len(t, repo.store, 1)
	assert.Empty(t, dispatcher.events)
}
