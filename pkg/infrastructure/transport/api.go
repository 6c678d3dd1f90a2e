package transport

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"crm/pkg/application/service"
	"crm/pkg/common/projection"
	"crm/pkg/domain/model"
)

// API holds the application services behind both the HTTP and gRPC surfaces.
// Every operation takes a JSON request body and returns a JSON-ready value.
type API struct {
	customers service.CustomerService
	products  service.ProductService
	orders    service.OrderService
	queries   service.QueryService
}

func NewAPI(
	customers service.CustomerService,
	products service.ProductService,
	orders service.OrderService,
	queries service.QueryService,
) *API {
	return &API{
		customers: customers,
		products:  products,
		orders:    orders,
		queries:   queries,
	}
}

// requestError marks input that could not be decoded at all.
type requestError struct {
	cause error
}

func (e *requestError) Error() string { return "malformed request: " + e.cause.Error() }

func (e *requestError) Unwrap() error { return e.cause }

func decode(body []byte, v any) error {
	if len(body) == 0 {
		body = []byte("{}")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &requestError{cause: err}
	}
	return nil
}

func (a *API) CreateCustomer(ctx context.Context, body []byte) (any, error) {
	var req customerRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	result, err := a.customers.CreateCustomer(ctx, req.toInput())
	if err != nil {
		return nil, err
	}
	return createCustomerResponse{Customer: newCustomerResponse(result.Customer), Message: result.Message}, nil
}

func (a *API) BulkCreateCustomers(ctx context.Context, body []byte) (any, error) {
	var req bulkCustomersRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	inputs := make([]service.CustomerInput, 0, len(req.Input))
	for _, r := range req.Input {
		inputs = append(inputs, r.toInput())
	}

	result := a.customers.BulkCreateCustomers(ctx, inputs)
	customers := make([]customerResponse, 0, len(result.Customers))
	for _, c := range result.Customers {
		customers = append(customers, newCustomerResponse(c))
	}
	return bulkCustomersResponse{Customers: customers, Errors: result.Messages()}, nil
}

func (a *API) CreateProduct(ctx context.Context, body []byte) (any, error) {
	var req productRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	product, err := a.products.CreateProduct(ctx, service.ProductInput{Name: req.Name, Price: req.Price, Stock: req.Stock})
	if err != nil {
		return nil, err
	}
	return productEnvelope{Product: newProductResponse(*product)}, nil
}

func (a *API) CreateOrder(ctx context.Context, body []byte) (any, error) {
	var req orderRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	input, err := req.toInput()
	if err != nil {
		return nil, err
	}
	order, err := a.orders.CreateOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	return orderEnvelope{Order: newOrderResponse(*order)}, nil
}

func (a *API) AllCustomers(ctx context.Context, params map[string]string) (any, error) {
	page, err := a.queries.AllCustomers(ctx, params)
	if err != nil {
		return nil, err
	}
	return newPageResponse(page, newCustomerResponse), nil
}

func (a *API) AllProducts(ctx context.Context, params map[string]string) (any, error) {
	page, err := a.queries.AllProducts(ctx, params)
	if err != nil {
		return nil, err
	}
	return newPageResponse(page, newProductResponse), nil
}

func (a *API) AllOrders(ctx context.Context, params map[string]string) (any, error) {
	page, err := a.queries.AllOrders(ctx, params)
	if err != nil {
		return nil, err
	}
	return newPageResponse(page, newOrderResponse), nil
}

// describe classifies err for the wire. The boolean is false for failures
// that are not the caller's fault.
func describe(err error) (errorBody, bool) {
	if kind, ok := model.KindOf(err); ok {
		return errorBody{Kind: kind.String(), Message: err.Error()}, true
	}
	var reqErr *requestError
	if errors.As(err, &reqErr) || errors.Is(err, projection.ErrInvalidFilter) {
		return errorBody{Kind: "BadRequest", Message: err.Error()}, true
	}
	return errorBody{Kind: "InternalError", Message: "internal error"}, false
}
