package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	"crm/pkg/domain/model"
	"crm/pkg/infrastructure/memory"
	"crm/pkg/infrastructure/mysql"
)

// openStorage returns the configured unit of work and a function releasing it.
func openStorage(ctx context.Context, c *config) (model.UnitOfWork, func(), error) {
	if c.Storage == storageMemory {
		log.Warn("using in-memory storage, data is lost on exit")
		return memory.NewStore(), func() {}, nil
	}

	db, err := mysql.Open(ctx, c.mysql())
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Error("failed to close database")
		}
	}
	return mysql.NewUnitOfWork(db), closeDB, nil
}
