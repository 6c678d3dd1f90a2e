package main

import (
	"context"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"crm/pkg/application/service"
	"crm/pkg/domain/model"
	"crm/pkg/infrastructure/event"
)

var seedCustomers = []service.CustomerInput{
	{Name: "Alice", Email: "alice@example.com", Phone: "+1234567890"},
	{Name: "Bob", Email: "bob@example.com", Phone: "123-456-7890"},
}

var seedProducts = []service.ProductInput{
	{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10},
	{Name: "Mouse", Price: decimal.RequireFromString("49.99"), Stock: 50},
}

func runSeed(cliCtx *cli.Context) error {
	c, err := parseEnv()
	if err != nil {
		return err
	}

	uow, closeStorage, err := openStorage(cliCtx.Context, c)
	if err != nil {
		return err
	}
	defer closeStorage()

	return seed(cliCtx.Context, uow)
}

// seed creates the sample customers, skipping ones that already exist, and
// the sample products when the catalogue is empty.
func seed(ctx context.Context, uow model.UnitOfWork) error {
	dispatcher := event.NewLogDispatcher()

	result := service.NewCustomerService(uow, dispatcher).BulkCreateCustomers(ctx, seedCustomers)
	for _, e := range result.Errors {
		log.WithError(e).Info("seed customer skipped")
	}

	products, err := service.NewQueryService(uow).AllProducts(ctx, map[string]string{"first": "1"})
	if err != nil {
		return err
	}
	if products.TotalCount > 0 {
		log.WithField("products", products.TotalCount).Info("catalogue is not empty, products not seeded")
		return nil
	}

	productService := service.NewProductService(uow, dispatcher)
	for _, input := range seedProducts {
		if _, err := productService.CreateProduct(ctx, input); err != nil {
			return err
		}
	}
	log.WithField("products", len(seedProducts)).Info("products seeded")
	return nil
}
