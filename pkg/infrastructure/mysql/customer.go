package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"crm/pkg/common/projection"
	"crm/pkg/domain/model"
)

const customerColumns = "c.customer_id, c.name, c.email, c.phone, c.created_at"

var customerList = listQuery{
	selectColumns: customerColumns,
	from:          " FROM customer c",
	columns: map[string]string{
		"name":       "c.name",
		"email":      "c.email",
		"phone":      "c.phone",
		"created_at": "c.created_at",
	},
	key: "c.customer_id",
}

type sqlxCustomer struct {
	ID        uuid.UUID      `db:"customer_id"`
	Name      string         `db:"name"`
	Email     string         `db:"email"`
	Phone     sql.NullString `db:"phone"`
	CreatedAt time.Time      `db:"created_at"`
}

func (c sqlxCustomer) toModel() model.Customer {
	return model.Customer{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone.String,
		CreatedAt: c.CreatedAt.UTC(),
	}
}

type customerRepository struct {
	q sqlx.ExtContext
}

func (r *customerRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO customer (customer_id, name, email, phone, created_at) VALUES (?, ?, ?, ?, ?)`,
		customer.ID, customer.Name, customer.Email, nullString(customer.Phone), customer.CreatedAt,
	)
	if isDuplicateEntry(err, customerEmailIndex) {
		return model.ErrDuplicateEmail
	}
	return errors.Wrap(err, "insert customer")
}

func (r *customerRepository) Find(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return r.findOne(ctx, "SELECT "+customerColumns+" FROM customer c WHERE c.customer_id = ?", id)
}

func (r *customerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return r.findOne(ctx, "SELECT "+customerColumns+" FROM customer c WHERE c.email = ?", email)
}

func (r *customerRepository) List(ctx context.Context, filter projection.Filter) (projection.Page[model.Customer], error) {
	rows, total, err := selectPage[sqlxCustomer](ctx, r.q, customerList, filter, model.CustomerFields.DefaultOrder)
	if err != nil {
		return projection.Page[model.Customer]{}, errors.Wrap(err, "list customers")
	}
	customers := make([]model.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, row.toModel())
	}
	return projection.NewPage(customers, filter.Offset, total), nil
}

func (r *customerRepository) findOne(ctx context.Context, query string, arg any) (*model.Customer, error) {
	var row sqlxCustomer
	err := sqlx.GetContext(ctx, r.q, &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCustomerNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select customer")
	}
	customer := row.toModel()
	return &customer, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
