package events

import (
	"context"
	"time"
)

// NoopConsumer stands in when no broker is configured.
type NoopConsumer struct{}

func NewNoopConsumer() *NoopConsumer {
	return &NoopConsumer{}
}

func (c *NoopConsumer) Fetch(ctx context.Context, wait time.Duration) (Message, bool, error) {
	if !sleepCtx(ctx, wait) {
		return Message{}, false, ctx.Err()
	}
	return Message{}, false, nil
}

func (c *NoopConsumer) Commit(context.Context, Message) error {
	return nil
}
