package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-rates-pipeline/internal/domain"
	"github.com/LavaJover/shvark-rates-pipeline/internal/infrastructure/metrics"
)

// ErrSubscriptionClosed is returned by Run when the subscription ends while
// the consumer is still meant to be running.
var ErrSubscriptionClosed = errors.New("subscription closed")

const ackTimeout = 5 * time.Second

// Consumer hands every message of one topic to its handler, one at a time
// and in the order the subscription delivers them.
type Consumer struct {
	subscriber domain.SubscriberPort
	topic      string
	groupID    string
	handler    domain.MessageHandler
	logger     *slog.Logger
	metrics    *metrics.PipelineMetrics
}

func NewConsumer(
	subscriber domain.SubscriberPort,
	topic, groupID string,
	handler domain.MessageHandler,
	logger *slog.Logger,
	m *metrics.PipelineMetrics,
) *Consumer {
	return &Consumer{
		subscriber: subscriber,
		topic:      topic,
		groupID:    groupID,
		handler:    handler,
		logger:     logger.With("topic", topic, "group_id", groupID),
		metrics:    m,
	}
}

// Run blocks until ctx is done, returning nil, or until the subscription
// fails, returning ErrSubscriptionClosed. A received message is always
// handled and acked, even when ctx is cancelled meanwhile; messages never
// received stay uncommitted.
func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.subscriber.Subscribe(ctx, c.topic, c.groupID)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.topic, err)
	}
	c.logger.Info("Listening for messages")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stopping consumer")
			return nil
		case m, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					c.logger.Info("Stopping consumer")
					return nil
				}
				c.logger.Error("Subscription closed unexpectedly")
				return fmt.Errorf("%s: %w", c.topic, ErrSubscriptionClosed)
			}
			c.dispatch(context.WithoutCancel(ctx), m)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, m domain.Message) {
	c.metrics.RecordConsumed(c.topic)
	out := c.handler.Handle(ctx, m.Value)
	if !out.OK() {
		// already logged by the handler
		c.logger.Debug("message handling failed", "stage", out.Stage, "error", out.Err)
	}

	ackCtx, cancel := context.WithTimeout(ctx, ackTimeout)
	defer cancel()
	if err := m.Ack(ackCtx); err != nil {
		c.logger.Warn("Failed to commit message offset", "error", err)
	}
}
