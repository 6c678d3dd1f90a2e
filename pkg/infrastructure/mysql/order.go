package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"crm/pkg/common/projection"
	"crm/pkg/domain/model"
)

const orderColumns = `o.order_id, o.order_date, o.total_amount,
	c.customer_id, c.name AS customer_name, c.email AS customer_email,
	c.phone AS customer_phone, c.created_at AS customer_created_at`

const orderFrom = " FROM customer_order o JOIN customer c ON c.customer_id = o.customer_id"

var orderList = listQuery{
	selectColumns: orderColumns,
	from:          orderFrom,
	columns: map[string]string{
		"customer_id":   "o.customer_id",
		"customer_name": "c.name",
		"total_amount":  "o.total_amount",
		"order_date":    "o.order_date",
	},
	key: "o.order_id",
}

type sqlxOrder struct {
	ID                uuid.UUID       `db:"order_id"`
	OrderDate         time.Time       `db:"order_date"`
	TotalAmount       decimal.Decimal `db:"total_amount"`
	CustomerID        uuid.UUID       `db:"customer_id"`
	CustomerName      string          `db:"customer_name"`
	CustomerEmail     string          `db:"customer_email"`
	CustomerPhone     sql.NullString  `db:"customer_phone"`
	CustomerCreatedAt time.Time       `db:"customer_created_at"`
}

type sqlxOrderProduct struct {
	OrderID  uuid.UUID `db:"order_id"`
	Position int       `db:"position"`
	sqlxProduct
}

type orderRepository struct {
	q sqlx.ExtContext
}

func (r *orderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO customer_order (order_id, customer_id, order_date, total_amount) VALUES (?, ?, ?, ?)`,
		order.ID, order.Customer.ID, order.OrderDate, order.TotalAmount,
	)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}

	if len(order.Products) == 0 {
		return nil
	}
	links := make([]map[string]any, 0, len(order.Products))
	for i, p := range order.Products {
		links = append(links, map[string]any{
			"order_id":   order.ID,
			"product_id": p.ID,
			"position":   i,
		})
	}
	_, err = sqlx.NamedExecContext(ctx, r.q,
		`INSERT INTO order_product (order_id, product_id, position) VALUES (:order_id, :product_id, :position)`,
		links,
	)
	return errors.Wrap(err, "insert order products")
}

func (r *orderRepository) Find(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var row sqlxOrder
	err := sqlx.GetContext(ctx, r.q, &row, "SELECT "+orderColumns+orderFrom+" WHERE o.order_id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select order")
	}

	orders, err := r.hydrate(ctx, []sqlxOrder{row})
	if err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *orderRepository) List(ctx context.Context, filter projection.Filter) (projection.Page[model.Order], error) {
	rows, total, err := selectPage[sqlxOrder](ctx, r.q, orderList, filter, model.OrderFields.DefaultOrder)
	if err != nil {
		return projection.Page[model.Order]{}, errors.Wrap(err, "list orders")
	}
	orders, err := r.hydrate(ctx, rows)
	if err != nil {
		return projection.Page[model.Order]{}, err
	}
	return projection.NewPage(orders, filter.Offset, total), nil
}

// hydrate attaches the associated products to each order row in one query.
func (r *orderRepository) hydrate(ctx context.Context, rows []sqlxOrder) ([]model.Order, error) {
	orders := make([]model.Order, 0, len(rows))
	if len(rows) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID.String())
	}
	query, args, err := sqlx.In(
		`SELECT op.order_id, op.position, `+productColumns+`
		FROM order_product op JOIN product p ON p.product_id = op.product_id
		WHERE op.order_id IN (?)
		ORDER BY op.order_id, op.position`,
		ids,
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var links []sqlxOrderProduct
	if err := sqlx.SelectContext(ctx, r.q, &links, r.q.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "select order products")
	}

	products := make(map[uuid.UUID][]model.Product, len(rows))
	for _, link := range links {
		products[link.OrderID] = append(products[link.OrderID], link.toModel())
	}

	for _, row := range rows {
		orders = append(orders, model.Order{
			ID: row.ID,
			Customer: model.Customer{
				ID:        row.CustomerID,
				Name:      row.CustomerName,
				Email:     row.CustomerEmail,
				Phone:     row.CustomerPhone.String,
				CreatedAt: row.CustomerCreatedAt.UTC(),
			},
			Products:    products[row.ID],
			OrderDate:   row.OrderDate.UTC(),
			TotalAmount: row.TotalAmount,
		})
	}
	return orders, nil
}
