package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"crm/pkg/infrastructure/mysql"
)

const appID = "crm"

const (
	storageMySQL  = "mysql"
	storageMemory = "memory"
)

type config struct {
	ServeHTTPAddress string `envconfig:"serve_http_address" default:":8080"`
	ServeGRPCAddress string `envconfig:"serve_grpc_address" default:":8081"`
	Storage          string `envconfig:"storage" default:"mysql"`
	LogLevel         string `envconfig:"log_level" default:"info"`

	DBUser               string        `envconfig:"db_user" default:"crm"`
	DBPassword           string        `envconfig:"db_password"`
	DBHost               string        `envconfig:"db_host" default:"localhost:3306"`
	DBName               string        `envconfig:"db_name" default:"crm"`
	DBMaxConnections     int           `envconfig:"db_max_connections" default:"10"`
	DBConnectionLifetime time.Duration `envconfig:"db_connection_lifetime" default:"5m"`

	KafkaBrokers []string `envconfig:"kafka_brokers"`
	KafkaTopic   string   `envconfig:"kafka_topic" default:"crm-events"`
}

func parseEnv() (*config, error) {
	c := new(config)
	if err := envconfig.Process(appID, c); err != nil {
		return nil, errors.Wrap(err, "failed to parse env")
	}
	if c.Storage != storageMySQL && c.Storage != storageMemory {
		return nil, errors.Errorf("unknown storage %q, expected %s or %s", c.Storage, storageMySQL, storageMemory)
	}
	return c, nil
}

func (c *config) mysql() mysql.Config {
	return mysql.Config{
		User:               c.DBUser,
		Password:           c.DBPassword,
		Host:               c.DBHost,
		Name:               c.DBName,
		MaxConnections:     c.DBMaxConnections,
		ConnectionLifetime: c.DBConnectionLifetime,
	}
}
