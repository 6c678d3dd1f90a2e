package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"crm/pkg/domain/model"
	"crm/pkg/domain/service"
)

type OrderInput struct {
	CustomerID uuid.UUID
	ProductIDs []uuid.UUID
	OrderDate  *time.Time
}

type OrderService interface {
	CreateOrder(ctx context.Context, input OrderInput) (*model.Order, error)
}

func NewOrderService(uow model.UnitOfWork, dispatcher service.EventDispatcher) OrderService {
	return &orderService{uow: uow, dispatcher: dispatcher}
}

type orderService struct {
	uow        model.UnitOfWork
	dispatcher service.EventDispatcher
}

func (s *orderService) CreateOrder(ctx context.Context, input OrderInput) (*model.Order, error) {
	order, err := execute(ctx, s.uow, s.dispatcher, func(provider model.RepositoryProvider, events service.EventDispatcher) (*model.Order, error) {
		return service.NewOrderService(
			provider.CustomerRepository(),
			provider.ProductRepository(),
			provider.OrderRepository(),
			events,
		).CreateOrder(ctx, input.CustomerID, input.ProductIDs, input.OrderDate)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"orderId":     order.ID,
		"customerId":  order.Customer.ID,
		"totalAmount": order.TotalAmount.String(),
	}).Info("order created")
	return order, nil
}
