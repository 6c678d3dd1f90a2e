package model

import "context"

// RepositoryProvider is the transaction scope handed to mutation operations.
// Every repository it returns reads and writes through the same transaction.
type RepositoryProvider interface {
	CustomerRepository() CustomerRepository
	ProductRepository() ProductRepository
	OrderRepository() OrderRepository
}

// UnitOfWork commits the writes made through the provider when fn returns
// nil and discards all of them otherwise.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(provider RepositoryProvider) error) error
}
