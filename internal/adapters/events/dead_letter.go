package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ordermesh/logistics-service/internal/contracts"
	"github.com/ordermesh/logistics-service/internal/ports"
)

// PublisherDeadLetterSink wraps poisoned messages in a DLQ record and hands
// them to the publisher under a dedicated topic.
type PublisherDeadLetterSink struct {
	publisher ports.EventPublisher
	topic     string
}

func NewPublisherDeadLetterSink(publisher ports.EventPublisher, topic string) *PublisherDeadLetterSink {
	if topic == "" {
		topic = "logistics.dlq"
	}
	return &PublisherDeadLetterSink{publisher: publisher, topic: topic}
}

func (s *PublisherDeadLetterSink) DeadLetter(ctx context.Context, sourceTopic string, payload []byte, errSummary string, attempts int) error {
	now := time.Now().UTC()
	record := contracts.DLQRecord{
		SourceTopic:  sourceTopic,
		Payload:      json.RawMessage(payload),
		ErrorSummary: errSummary,
		Attempts:     attempts,
		FirstSeenAt:  now,
		LastErrorAt:  now,
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, s.topic, raw, sourceTopic)
}

// LoggingDeadLetterSink is the no-broker fallback; it keeps the record in the
// logs instead of dropping it silently.
type LoggingDeadLetterSink struct {
	logger *slog.Logger
}

func NewLoggingDeadLetterSink(logger *slog.Logger) *LoggingDeadLetterSink {
	return &LoggingDeadLetterSink{logger: logger}
}

func (s *LoggingDeadLetterSink) DeadLetter(ctx context.Context, sourceTopic string, payload []byte, errSummary string, attempts int) error {
	s.logger.ErrorContext(ctx, "dead-lettered message",
		"module", "events.dead_letter",
		"layer", "adapter",
		"operation", "dead_letter",
		"outcome", "dead_lettered",
		"source_topic", sourceTopic,
		"attempts", attempts,
		"error_summary", errSummary,
		"payload_bytes", len(payload),
	)
	return nil
}

var (
	_ ports.DeadLetterSink = (*PublisherDeadLetterSink)(nil)
	_ ports.DeadLetterSink = (*LoggingDeadLetterSink)(nil)
)
