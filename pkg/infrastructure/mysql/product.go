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

const productColumns = "p.product_id, p.name, p.price, p.stock, p.created_at"

var productList = listQuery{
	selectColumns: productColumns,
	from:          " FROM product p",
	columns: map[string]string{
		"name":       "p.name",
		"price":      "p.price",
		"stock":      "p.stock",
		"created_at": "p.created_at",
	},
	key: "p.product_id",
}

type sqlxProduct struct {
	ID        uuid.UUID       `db:"product_id"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	Stock     int             `db:"stock"`
	CreatedAt time.Time       `db:"created_at"`
}

func (p sqlxProduct) toModel() model.Product {
	return model.Product{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt.UTC(),
	}
}

type productRepository struct {
	q sqlx.ExtContext
}

func (r *productRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO product (product_id, name, price, stock, created_at) VALUES (?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.Price, product.Stock, product.CreatedAt,
	)
	return errors.Wrap(err, "insert product")
}

func (r *productRepository) Find(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var row sqlxProduct
	err := sqlx.GetContext(ctx, r.q, &row, "SELECT "+productColumns+" FROM product p WHERE p.product_id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select product")
	}
	product := row.toModel()
	return &product, nil
}

func (r *productRepository) FindMany(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In("SELECT "+productColumns+" FROM product p WHERE p.product_id IN (?)", idStrings(ids))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var rows []sqlxProduct
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "select products")
	}

	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
	}
	return products, nil
}

func (r *productRepository) List(ctx context.Context, filter projection.Filter) (projection.Page[model.Product], error) {
	rows, total, err := selectPage[sqlxProduct](ctx, r.q, productList, filter, model.ProductFields.DefaultOrder)
	if err != nil {
		return projection.Page[model.Product]{}, errors.Wrap(err, "list products")
	}
	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
	}
	return projection.NewPage(products, filter.Offset, total), nil
}

func idStrings(ids []uuid.UUID) []string {
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		result = append(result, id.String())
	}
	return result
}
