package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	app := &cli.App{
		Name:  appID,
		Usage: "customers, products and orders",
		Before: func(*cli.Context) error {
			c, err := parseEnv()
			if err != nil {
				return err
			}
			level, err := log.ParseLevel(c.LogLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "service",
				Usage:  "serve the HTTP and gRPC APIs",
				Action: runService,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations",
				Action: runMigrate,
			},
			{
				Name:   "seed",
				Usage:  "load sample customers and products",
				Action: runSeed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("crm failed")
	}
}
