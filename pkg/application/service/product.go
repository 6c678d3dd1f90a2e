package service

import (
	"context"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"crm/pkg/domain/model"
	"crm/pkg/domain/service"
)

type ProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock int
}

type ProductService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error)
}

func NewProductService(uow model.UnitOfWork, dispatcher service.EventDispatcher) ProductService {
	return &productService{uow: uow, dispatcher: dispatcher}
}

type productService struct {
	uow        model.UnitOfWork
	dispatcher service.EventDispatcher
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error) {
	product, err := execute(ctx, s.uow, s.dispatcher, func(provider model.RepositoryProvider, events service.EventDispatcher) (*model.Product, error) {
		return service.NewProductService(provider.ProductRepository(), events).
			CreateProduct(ctx, input.Name, input.Price, input.Stock)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"productId": product.ID, "price": product.Price.String()}).Info("product created")
	return product, nil
}
