package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"crm/pkg/domain/model"
	"crm/pkg/domain/service"
)

// eventBuffer holds events raised inside a unit of work until it commits.
type eventBuffer struct {
	events []service.Event
}

func (b *eventBuffer) Dispatch(event service.Event) error {
	b.events = append(b.events, event)
	return nil
}

// execute runs action in its own unit of work and publishes the events it
// raised once the unit of work has committed.
func execute[T any](
	ctx context.Context,
	uow model.UnitOfWork,
	dispatcher service.EventDispatcher,
	action func(provider model.RepositoryProvider, events service.EventDispatcher) (T, error),
) (T, error) {
	buffer := &eventBuffer{}
	var result T
	err := uow.Execute(ctx, func(provider model.RepositoryProvider) error {
		var err error
		result, err = action(provider, buffer)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}

	dispatchEvents(dispatcher, buffer.events)
	return result, nil
}

func dispatchEvents(dispatcher service.EventDispatcher, events []service.Event) {
	for _, event := range events {
		if err := dispatcher.Dispatch(event); err != nil {
			log.WithError(err).WithField("event", event.Type()).Error("failed to dispatch event")
		}
	}
}
