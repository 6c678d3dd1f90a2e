package event

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm/pkg/domain/model"
)

type mockWriter struct {
	messages []kafka.Message
	err      error
}

func (w *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestKafkaDispatcherPublishesJSON(t *testing.T) {
	writer := &mockWriter{}
	dispatcher := NewKafkaDispatcher(writer)

	id := uuid.New()
	err := dispatcher.Dispatch(model.CustomerCreated{CustomerID: id, Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, id.String(), string(msg.Key))
	assert.Equal(t, []kafka.Header{{Key: "type", Value: []byte("CustomerCreated")}}, msg.Headers)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, id.String(), payload["customerId"])
	assert.Equal(t, "alice@example.com", payload["email"])
}

func TestKafkaDispatcherWrapsWriteError(t *testing.T) {
	writer := &mockWriter{err: errors.New("broker down")}
	dispatcher := NewKafkaDispatcher(writer)

	err := dispatcher.Dispatch(model.OrderCreated{OrderID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish OrderCreated")
	assert.Contains(t, err.Error(), "broker down")
}

func TestLogDispatcher(t *testing.T) {
	assert.NoError(t, NewLogDispatcher().Dispatch(model.ProductCreated{ProductID: uuid.New(), Name: "Mouse"}))
}

type unkeyedEvent struct{}

func (unkeyedEvent) Type() string { return "Unkeyed" }

func TestKafkaDispatcherKeysByEntity(t *testing.T) {
	writer := &mockWriter{}
	dispatcher := NewKafkaDispatcher(writer)

	first, second := uuid.New(), uuid.New()
	require.NoError(t, dispatcher.Dispatch(model.OrderCreated{OrderID: first}))
	require.NoError(t, dispatcher.Dispatch(model.OrderCreated{OrderID: second}))
	require.NoError(t, dispatcher.Dispatch(unkeyedEvent{}))

	require.Len(t, writer.messages, 3)
	assert.Equal(t, first.String(), string(writer.messages[0].Key))
	assert.Equal(t, second.String(), string(writer.messages[1].Key))
	assert.Equal(t, "Unkeyed", string(writer.messages[2].Key))
}

func TestKafkaWriterFlushesSingleMessages(t *testing.T) {
	writer := NewKafkaWriter([]string{"k1:9092"}, "crm-events")
	defer writer.Close()

	assert.Equal(t, "crm-events", writer.Topic)
	assert.Equal(t, 1, writer.BatchSize)
	assert.Equal(t, batchTimeout, writer.BatchTimeout)
	assert.False(t, writer.Async)
}
