package service

import (
	"context"

	"crm/pkg/common/projection"
	"crm/pkg/domain/model"
)

// QueryService exposes the read projections. Params are flat filter
// parameters as accepted by projection.Parse.
type QueryService interface {
	AllCustomers(ctx context.Context, params map[string]string) (projection.Page[model.Customer], error)
	AllProducts(ctx context.Context, params map[string]string) (projection.Page[model.Product], error)
	AllOrders(ctx context.Context, params map[string]string) (projection.Page[model.Order], error)
}

func NewQueryService(uow model.UnitOfWork) QueryService {
	return &queryService{uow: uow}
}

type queryService struct {
	uow model.UnitOfWork
}

func (s *queryService) AllCustomers(ctx context.Context, params map[string]string) (projection.Page[model.Customer], error) {
	return list(ctx, s.uow, model.CustomerFields, params, func(p model.RepositoryProvider) lister[model.Customer] {
		return p.CustomerRepository()
	})
}

func (s *queryService) AllProducts(ctx context.Context, params map[string]string) (projection.Page[model.Product], error) {
	return list(ctx, s.uow, model.ProductFields, params, func(p model.RepositoryProvider) lister[model.Product] {
		return p.ProductRepository()
	})
}

func (s *queryService) AllOrders(ctx context.Context, params map[string]string) (projection.Page[model.Order], error) {
	return list(ctx, s.uow, model.OrderFields, params, func(p model.RepositoryProvider) lister[model.Order] {
		return p.OrderRepository()
	})
}

type lister[T any] interface {
	List(ctx context.Context, filter projection.Filter) (projection.Page[T], error)
}

func list[T any](
	ctx context.Context,
	uow model.UnitOfWork,
	descriptor projection.Descriptor[T],
	params map[string]string,
	repo func(model.RepositoryProvider) lister[T],
) (projection.Page[T], error) {
	filter, err := projection.Parse(descriptor, params)
	if err != nil {
		return projection.Page[T]{}, err
	}

	var page projection.Page[T]
	err = uow.Execute(ctx, func(provider model.RepositoryProvider) error {
		var listErr error
		page, listErr = repo(provider).List(ctx, filter)
		return listErr
	})
	return page, err
}
