package transport

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"crm/pkg/application/service"
	"crm/pkg/common/projection"
	"crm/pkg/domain/model"
)

type customerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (r customerRequest) toInput() service.CustomerInput {
	return service.CustomerInput{Name: r.Name, Email: r.Email, Phone: r.Phone}
}

type bulkCustomersRequest struct {
	Input []customerRequest `json:"input"`
}

type productRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

type orderRequest struct {
	CustomerID string     `json:"customerId"`
	ProductIDs []string   `json:"productIds"`
	OrderDate  *time.Time `json:"orderDate"`
}

// toInput parses the identifiers. An id that is not a UUID cannot name an
// existing record, so it is reported with the matching not-found kind.
func (r orderRequest) toInput() (service.OrderInput, error) {
	customerID, err := uuid.Parse(r.CustomerID)
	if err != nil {
		return service.OrderInput{}, model.NewError(model.CustomerNotFound, "customer %s does not exist", r.CustomerID)
	}

	productIDs := make([]uuid.UUID, 0, len(r.ProductIDs))
	var invalid []string
	for _, raw := range r.ProductIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			invalid = append(invalid, raw)
			continue
		}
		productIDs = append(productIDs, id)
	}
	if len(invalid) > 0 {
		return service.OrderInput{}, model.NewError(model.ProductNotFound, "products do not exist: %s", strings.Join(invalid, ", "))
	}

	return service.OrderInput{CustomerID: customerID, ProductIDs: productIDs, OrderDate: r.OrderDate}, nil
}

type customerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

func newCustomerResponse(c model.Customer) customerResponse {
	return customerResponse{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone, CreatedAt: c.CreatedAt}
}

type productResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"createdAt"`
}

func newProductResponse(p model.Product) productResponse {
	return productResponse{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock, CreatedAt: p.CreatedAt}
}

type orderResponse struct {
	ID          uuid.UUID         `json:"id"`
	Customer    customerResponse  `json:"customer"`
	Products    []productResponse `json:"products"`
	OrderDate   time.Time         `json:"orderDate"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
}

func newOrderResponse(o model.Order) orderResponse {
	products := make([]productResponse, 0, len(o.Products))
	for _, p := range o.Products {
		products = append(products, newProductResponse(p))
	}
	return orderResponse{
		ID:          o.ID,
		Customer:    newCustomerResponse(o.Customer),
		Products:    products,
		OrderDate:   o.OrderDate,
		TotalAmount: o.TotalAmount,
	}
}

type createCustomerResponse struct {
	Customer customerResponse `json:"customer"`
	Message  string           `json:"message"`
}

type bulkCustomersResponse struct {
	Customers []customerResponse `json:"customers"`
	Errors    []string           `json:"errors"`
}

type productEnvelope struct {
	Product productResponse `json:"product"`
}

type orderEnvelope struct {
	Order orderResponse `json:"order"`
}

type edgeResponse[T any] struct {
	Cursor string `json:"cursor"`
	Node   T      `json:"node"`
}

type pageInfoResponse struct {
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
	StartCursor     string `json:"startCursor,omitempty"`
	EndCursor       string `json:"endCursor,omitempty"`
}

type pageResponse[T any] struct {
	Edges      []edgeResponse[T] `json:"edges"`
	PageInfo   pageInfoResponse  `json:"pageInfo"`
	TotalCount int               `json:"totalCount"`
}

func newPageResponse[M, T any](page projection.Page[M], convert func(M) T) pageResponse[T] {
	edges := make([]edgeResponse[T], 0, len(page.Edges))
	for _, e := range page.Edges {
		edges = append(edges, edgeResponse[T]{Cursor: e.Cursor, Node: convert(e.Node)})
	}
	return pageResponse[T]{
		Edges: edges,
		PageInfo: pageInfoResponse{
			HasNextPage:     page.PageInfo.HasNextPage,
			HasPreviousPage: page.PageInfo.HasPreviousPage,
			StartCursor:     page.PageInfo.StartCursor,
			EndCursor:       page.PageInfo.EndCursor,
		},
		TotalCount: page.TotalCount,
	}
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}
