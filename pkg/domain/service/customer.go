package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"crm/pkg/domain/model"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, name, email, phone string) (*model.Customer, error)
}

func NewCustomerService(repo model.CustomerRepository, dispatcher EventDispatcher) CustomerService {
	return &customerService{
		repo:       repo,
		dispatcher: dispatcher,
	}
}

type customerService struct {
	repo       model.CustomerRepository
	dispatcher EventDispatcher
}

func (s *customerService) CreateCustomer(ctx context.Context, name, email, phone string) (*model.Customer, error) {
	customer := &model.Customer{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Phone: strings.TrimSpace(phone),
	}

	if err := ValidateCustomer(ctx, s.repo, customer); err != nil {
		return nil, err
	}

	customerID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}
	customer.ID = customerID
	customer.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, customer); err != nil {
		// A concurrent request won the race past the pre-check.
		if errors.Is(err, model.ErrDuplicateEmail) {
			return nil, duplicateEmail(customer.Email)
		}
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.CustomerCreated{
		CustomerID: customer.ID,
		Name:       customer.Name,
		Email:      customer.Email,
	})

	return customer, nil
}
