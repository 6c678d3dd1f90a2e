package mysql

import (
	"context"
	"embed"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Config struct {
	User               string
	Password           string
	Host               string
	Name               string
	MaxConnections     int
	ConnectionLifetime time.Duration
}

func (c Config) DSN() string {
	cfg := mysqldriver.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Host
	cfg.DBName = c.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	// migrations are applied file by file
	cfg.MultiStatements = true
	return cfg.FormatDSN()
}

func Open(ctx context.Context, c Config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "mysql", c.DSN())
	if err != nil {
		return nil, errors.Wrapf(err, "connect to mysql at %s", c.Host)
	}
	if c.MaxConnections > 0 {
		db.SetMaxOpenConns(c.MaxConnections)
		db.SetMaxIdleConns(c.MaxConnections)
	}
	if c.ConnectionLifetime > 0 {
		db.SetConnMaxLifetime(c.ConnectionLifetime)
	}
	return db, nil
}

// Migrate applies the embedded schema migrations. It closes db when done.
func Migrate(db *sqlx.DB) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return errors.Wrap(err, "open embedded migrations")
	}

	driver, err := migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	if err != nil {
		return errors.Wrap(err, "create migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, "mysql", driver)
	if err != nil {
		return errors.Wrap(err, "create migrator")
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("database schema is up to date")
			return nil
		}
		return errors.Wrap(err, "apply migrations")
	}

	version, _, err := m.Version()
	if err != nil {
		return errors.Wrap(err, "read schema version")
	}
	log.WithField("version", version).Info("database schema migrated")
	return nil
}
