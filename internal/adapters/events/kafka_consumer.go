package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConsumer fetches without committing; the offset advances only through
// an explicit Commit after the handler's durable write. That ordering is the
// at-least-once contract the coordinator is built around.
type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID string, topics []string) (*KafkaConsumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka consumer requires at least one broker")
	}
	if groupID == "" {
		return nil, fmt.Errorf("kafka consumer requires group id")
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("kafka consumer requires at least one topic")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: topics,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
	})
	return &KafkaConsumer{reader: reader}, nil
}

func (c *KafkaConsumer) Fetch(ctx context.Context, wait time.Duration) (Message, bool, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	msg, err := c.reader.FetchMessage(fetchCtx)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return Message{}, false, nil
		case errors.Is(err, context.Canceled):
			return Message{}, false, ctx.Err()
		default:
			return Message{}, false, err
		}
	}
	return Message{Topic: msg.Topic, Key: msg.Key, Payload: msg.Value, raw: msg, committable: true}, true, nil
}

func (c *KafkaConsumer) Commit(ctx context.Context, msg Message) error {
	if !msg.committable {
		return nil
	}
	raw, ok := msg.raw.(kafka.Message)
	if !ok {
		return nil
	}
	return c.reader.CommitMessages(ctx, raw)
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
