package main

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"crm/pkg/infrastructure/mysql"
)

func runMigrate(ctx *cli.Context) error {
	c, err := parseEnv()
	if err != nil {
		return err
	}
	if c.Storage != storageMySQL {
		return errors.Errorf("migrations apply to %s storage only", storageMySQL)
	}

	db, err := mysql.Open(ctx.Context, c.mysql())
	if err != nil {
		return err
	}
	defer db.Close()

	return mysql.Migrate(db)
}
