package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"crm/pkg/domain/service"
)

const (
	publishTimeout = 5 * time.Second
	// single-message writes flush without waiting for a batch
	batchTimeout = 10 * time.Millisecond
)

// NewLogDispatcher returns a dispatcher that only records events in the log.
func NewLogDispatcher() service.EventDispatcher {
	return &logDispatcher{}
}

type logDispatcher struct{}

func (d *logDispatcher) Dispatch(event service.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrapf(err, "marshal %s", event.Type())
	}
	log.WithFields(log.Fields{"event": event.Type(), "payload": string(payload)}).Info("event dispatched")
	return nil
}

// MessageWriter is the part of kafka.Writer used for publishing.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

var _ MessageWriter = (*kafka.Writer)(nil)

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              1,
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
	}
}

// keyed events name the entity they belong to. Messages of one entity share
// a partition.
type keyed interface {
	Key() string
}

// NewKafkaDispatcher publishes every event as a JSON message keyed by its
// entity id, or by its type when it has none. The event type is carried in
// the "type" header.
func NewKafkaDispatcher(writer MessageWriter) service.EventDispatcher {
	return &kafkaDispatcher{writer: writer}
}

type kafkaDispatcher struct {
	writer MessageWriter
}

func (d *kafkaDispatcher) Dispatch(event service.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrapf(err, "marshal %s", event.Type())
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	key := event.Type()
	if k, ok := event.(keyed); ok {
		key = k.Key()
	}

	err = d.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   payload,
		Headers: []kafka.Header{{Key: "type", Value: []byte(event.Type())}},
	})
	return errors.Wrapf(err, "publish %s", event.Type())
}
