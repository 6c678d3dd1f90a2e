package transport

import (
	"testing"

	"crm/pkg/application/service"
	"crm/pkg/infrastructure/event"
	"crm/pkg/infrastructure/memory"
)

func setup(t *testing.T) *API {
	t.Helper()

	store := memory.NewStore()
	dispatcher := event.NewLogDispatcher()
	return NewAPI(
		service.NewCustomerService(store, dispatcher),
		service.NewProductService(store, dispatcher),
		service.NewOrderService(store, dispatcher),
		service.NewQueryService(store),
	)
}
