package ports

import "context"

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}

// DeadLetterSink receives messages that exhausted their delivery attempts or
// failed validation so they stop blocking the partition.
type DeadLetterSink interface {
	DeadLetter(ctx context.Context, sourceTopic string, payload []byte, errSummary string, attempts int) error
}
