package mysql

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"crm/pkg/domain/model"
)

func NewUnitOfWork(db *sqlx.DB) model.UnitOfWork {
	return &unitOfWork{db: db}
}

type unitOfWork struct {
	db *sqlx.DB
}

func (u *unitOfWork) Execute(ctx context.Context, fn func(provider model.RepositoryProvider) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&repositoryProvider{q: tx}); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			log.WithError(rollbackErr).Error("failed to rollback transaction")
		}
		return err
	}

	return errors.Wrap(tx.Commit(), "commit transaction")
}

type repositoryProvider struct {
	q sqlx.ExtContext
}

func (p *repositoryProvider) CustomerRepository() model.CustomerRepository {
	return &customerRepository{q: p.q}
}

func (p *repositoryProvider) ProductRepository() model.ProductRepository {
	return &productRepository{q: p.q}
}

func (p *repositoryProvider) OrderRepository() model.OrderRepository {
	return &orderRepository{q: p.q}
}
