package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaNotifier publishes events as JSON messages keyed by account id, so
// events for one account stay ordered within a partition.
type KafkaNotifier struct {
	writer messageWriter
}

// NewKafkaNotifier wraps a kafka writer whose topic is already configured.
func NewKafkaNotifier(writer *kafka.Writer) *KafkaNotifier {
	return &KafkaNotifier{writer: writer}
}

// Send encodes and publishes the event.
func (n *KafkaNotifier) Send(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.AccountID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(event.Kind)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish event %s: %w", event.ID, err)
	}
	return nil
}
