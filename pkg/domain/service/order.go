package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crm/pkg/domain/model"
)

type OrderService interface {
	// CreateOrder stores an order whose total is the sum of the resolved
	// product prices at this moment. A nil orderDate means now.
	CreateOrder(ctx context.Context, customerID uuid.UUID, productIDs []uuid.UUID, orderDate *time.Time) (*model.Order, error)
}

func NewOrderService(
	customers model.CustomerRepository,
	products model.ProductRepository,
	orders model.OrderRepository,
	dispatcher EventDispatcher,
) OrderService {
	return &orderService{
		customers:  customers,
		products:   products,
		orders:     orders,
		dispatcher: dispatcher,
	}
}

type orderService struct {
	customers  model.CustomerRepository
	products   model.ProductRepository
	orders     model.OrderRepository
	dispatcher EventDispatcher
}

func (s *orderService) CreateOrder(ctx context.Context, customerID uuid.UUID, productIDs []uuid.UUID, orderDate *time.Time) (*model.Order, error) {
	customer, products, err := ResolveOrderReferences(ctx, s.customers, s.products, customerID, productIDs)
	if err != nil {
		return nil, err
	}

	total := TotalAmount(products)
	if err := ValidateTotalAmount(total); err != nil {
		return nil, err
	}

	orderID, err := s.orders.NextID()
	if err != nil {
		return nil, err
	}

	date := time.Now().UTC()
	if orderDate != nil {
		date = orderDate.UTC()
	}

	order := &model.Order{
		ID:          orderID,
		Customer:    *customer,
		Products:    products,
		OrderDate:   date,
		TotalAmount: total,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.OrderCreated{
		OrderID:     orderID,
		CustomerID:  customer.ID,
		ProductIDs:  order.ProductIDs(),
		TotalAmount: order.TotalAmount,
	})
	return order, nil
}
