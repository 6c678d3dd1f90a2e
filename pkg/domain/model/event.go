package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CustomerCreated struct {
	CustomerID uuid.UUID `json:"customerId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
}

func (e CustomerCreated) Type() string { return "CustomerCreated" }

func (e CustomerCreated) Key() string { return e.CustomerID.String() }

type ProductCreated struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

func (e ProductCreated) Type() string { return "ProductCreated" }

func (e ProductCreated) Key() string { return e.ProductID.String() }

type OrderCreated struct {
	OrderID     uuid.UUID       `json:"orderId"`
	CustomerID  uuid.UUID       `json:"customerId"`
	ProductIDs  []uuid.UUID     `json:"productIds"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (e OrderCreated) Type() string { return "OrderCreated" }

func (e OrderCreated) Key() string { return e.OrderID.String() }
