package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"crm/pkg/domain/model"
)

type ProductService interface {
	CreateProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (*model.Product, error)
}

func NewProductService(repo model.ProductRepository, dispatcher EventDispatcher) ProductService {
	return &productService{repo: repo, dispatcher: dispatcher}
}

type productService struct {
	repo       model.ProductRepository
	dispatcher EventDispatcher
}

func (s *productService) CreateProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (*model.Product, error) {
	product := &model.Product{
		Name:  strings.TrimSpace(name),
		Price: price,
		Stock: stock,
	}
	if err := ValidateProduct(product); err != nil {
		return nil, err
	}

	productID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}
	product.ID = productID
	product.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.ProductCreated{ProductID: productID, Name: product.Name, Price: product.Price})
	return product, nil
}
