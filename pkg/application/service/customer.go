package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"crm/pkg/domain/model"
	"crm/pkg/domain/service"
)

const CustomerCreatedMessage = "Customer created successfully"

type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

type CreateCustomerResult struct {
	Customer model.Customer
	Message  string
}

// EntryError is the failure of one bulk entry, identified by its zero-based
// position in the request.
type EntryError struct {
	Index int
	Err   error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("entry %d: %s", e.Index, e.Err)
}

func (e EntryError) Unwrap() error { return e.Err }

type BulkCreateCustomersResult struct {
	Customers []model.Customer
	Errors    []EntryError
}

func (r BulkCreateCustomersResult) Messages() []string {
	messages := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		messages = append(messages, e.Error())
	}
	return messages
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, input CustomerInput) (*CreateCustomerResult, error)
	// BulkCreateCustomers commits every entry that is valid on its own. Each
	// entry runs in a separate unit of work, so a failing entry never undoes
	// the others and the whole call never fails.
	BulkCreateCustomers(ctx context.Context, inputs []CustomerInput) BulkCreateCustomersResult
}

func NewCustomerService(uow model.UnitOfWork, dispatcher service.EventDispatcher) CustomerService {
	return &customerService{
		uow:        uow,
		dispatcher: dispatcher,
	}
}

type customerService struct {
	uow        model.UnitOfWork
	dispatcher service.EventDispatcher
}

func (s *customerService) CreateCustomer(ctx context.Context, input CustomerInput) (*CreateCustomerResult, error) {
	customer, err := s.create(ctx, input)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"customerId": customer.ID, "email": customer.Email}).Info("customer created")
	return &CreateCustomerResult{Customer: *customer, Message: CustomerCreatedMessage}, nil
}

func (s *customerService) BulkCreateCustomers(ctx context.Context, inputs []CustomerInput) BulkCreateCustomersResult {
	result := BulkCreateCustomersResult{
		Customers: make([]model.Customer, 0, len(inputs)),
	}

	for i, input := range inputs {
		customer, err := s.create(ctx, input)
		if err != nil {
			log.WithFields(log.Fields{"index": i, "email": input.Email}).WithError(err).Warn("bulk customer entry rejected")
			result.Errors = append(result.Errors, EntryError{Index: i, Err: err})
			continue
		}
		result.Customers = append(result.Customers, *customer)
	}

	log.WithFields(log.Fields{
		"requested": len(inputs),
		"created":   len(result.Customers),
		"failed":    len(result.Errors),
	}).Info("bulk customer creation finished")
	return result
}

func (s *customerService) create(ctx context.Context, input CustomerInput) (*model.Customer, error) {
	return execute(ctx, s.uow, s.dispatcher, func(provider model.RepositoryProvider, events service.EventDispatcher) (*model.Customer, error) {
		return service.NewCustomerService(provider.CustomerRepository(), events).
			CreateCustomer(ctx, input.Name, input.Email, input.Phone)
	})
}
