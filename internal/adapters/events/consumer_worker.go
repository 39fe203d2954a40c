package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ordermesh/logistics-service/internal/application"
	"github.com/ordermesh/logistics-service/internal/domain"
	"github.com/ordermesh/logistics-service/internal/ports"
)

type Message struct {
	Topic   string
	Key     []byte
	Payload []byte

	raw         any
	committable bool
}

type Consumer interface {
	Fetch(ctx context.Context, wait time.Duration) (Message, bool, error)
	Commit(ctx context.Context, msg Message) error
}

type ConsumerWorkerConfig struct {
	OrderPaidTopic      string
	FetchWait           time.Duration
	MaxDeliveryAttempts int
	RetryBackoff        time.Duration
}

// ConsumerWorker runs the consume -> deduplicate -> persist -> acknowledge
// cycle. Each loop handles one message to completion before fetching the
// next; the commit happens only after the service reports a durable write.
// Every loop owns its consumer exclusively: offsets for a loop's in-flight
// message are never committed by another loop.
type ConsumerWorker struct {
	logger    *slog.Logger
	consumers []Consumer
	service   *application.Service
	dlq       ports.DeadLetterSink
	cfg       ConsumerWorkerConfig
}

func NewConsumerWorker(logger *slog.Logger, consumers []Consumer, service *application.Service, dlq ports.DeadLetterSink, cfg ConsumerWorkerConfig) *ConsumerWorker {
	if cfg.FetchWait <= 0 {
		cfg.FetchWait = 2 * time.Second
	}
	if cfg.MaxDeliveryAttempts <= 0 {
		cfg.MaxDeliveryAttempts = 5
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.OrderPaidTopic == "" {
		cfg.OrderPaidTopic = domain.EventOrderPaid
	}
	return &ConsumerWorker{logger: logger, consumers: consumers, service: service, dlq: dlq, cfg: cfg}
}

func (w *ConsumerWorker) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, consumer := range w.consumers {
		wg.Add(1)
		go func(c Consumer) {
			defer wg.Done()
			w.runLoop(ctx, c)
		}(consumer)
	}
	wg.Wait()
	return ctx.Err()
}

func (w *ConsumerWorker) runLoop(ctx context.Context, consumer Consumer) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		msg, ok, err := consumer.Fetch(ctx, w.cfg.FetchWait)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.logger.ErrorContext(ctx, "broker fetch failed",
				"module", "events.consumer_worker",
				"layer", "adapter",
				"operation", "fetch",
				"outcome", "failure",
				"error", err,
			)
			if !sleepCtx(ctx, w.cfg.RetryBackoff) {
				return
			}
			continue
		}
		if !ok {
			continue
		}
		w.processMessage(ctx, consumer, msg)
	}
}

// processMessage drives one message through bounded retries. Outcomes:
// success commits; a validation failure dead-letters immediately and commits;
// a transient failure retries up to MaxDeliveryAttempts and then
// dead-letters. The offset is never committed ahead of the durable write, so
// a crash mid-cycle redelivers and the order_id check absorbs the duplicate.
func (w *ConsumerWorker) processMessage(ctx context.Context, consumer Consumer, msg Message) {
	var lastErr error
	for attempt := 1; attempt <= w.cfg.MaxDeliveryAttempts; attempt++ {
		err := w.dispatch(ctx, msg)
		if err == nil {
			w.commit(ctx, consumer, msg)
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			w.deadLetter(ctx, consumer, msg, err, attempt)
			return
		}
		lastErr = err
		w.logger.WarnContext(ctx, "message processing failed",
			"module", "events.consumer_worker",
			"layer", "adapter",
			"operation", "dispatch",
			"outcome", "retry",
			"topic", msg.Topic,
			"attempt", attempt,
			"error", err,
		)
		if !sleepCtx(ctx, w.cfg.RetryBackoff) {
			return
		}
	}
	w.deadLetter(ctx, consumer, msg, lastErr, w.cfg.MaxDeliveryAttempts)
}

func (w *ConsumerWorker) dispatch(ctx context.Context, msg Message) error {
	switch msg.Topic {
	case w.cfg.OrderPaidTopic:
		return w.service.HandleOrderPaid(ctx, msg.Payload)
	default:
		w.logger.WarnContext(ctx, "unexpected topic, skipping",
			"module", "events.consumer_worker",
			"layer", "adapter",
			"operation", "dispatch",
			"outcome", "skipped",
			"topic", msg.Topic,
		)
		return nil
	}
}

func (w *ConsumerWorker) deadLetter(ctx context.Context, consumer Consumer, msg Message, cause error, attempts int) {
	summary := "unknown failure"
	if cause != nil {
		summary = cause.Error()
	}
	if w.dlq != nil {
		if err := w.dlq.DeadLetter(ctx, msg.Topic, msg.Payload, summary, attempts); err != nil {
			// Keep the offset so the message comes back after restart rather
			// than vanishing.
			w.logger.ErrorContext(ctx, "dead-letter publish failed, withholding commit",
				"module", "events.consumer_worker",
				"layer", "adapter",
				"operation", "dead_letter",
				"outcome", "failure",
				"topic", msg.Topic,
				"error", err,
			)
			return
		}
	}
	w.logger.ErrorContext(ctx, "message dead-lettered",
		"module", "events.consumer_worker",
		"layer", "adapter",
		"operation", "dead_letter",
		"outcome", "dead_lettered",
		"topic", msg.Topic,
		"attempts", attempts,
		"error", summary,
	)
	w.commit(ctx, consumer, msg)
}

func (w *ConsumerWorker) commit(ctx context.Context, consumer Consumer, msg Message) {
	if err := consumer.Commit(ctx, msg); err != nil {
		// Redelivery after a failed commit is expected and idempotent.
		w.logger.WarnContext(ctx, "offset commit failed",
			"module", "events.consumer_worker",
			"layer", "adapter",
			"operation", "commit",
			"outcome", "failure",
			"topic", msg.Topic,
			"error", err,
		)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
