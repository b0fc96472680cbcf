package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-rates-pipeline/internal/domain"
	"github.com/LavaJover/shvark-rates-pipeline/internal/infrastructure/metrics"
)

// MessageProducer publishes free-form text messages.
type MessageProducer struct {
	publisher domain.PublisherPort
	logger    *slog.Logger
	metrics   *metrics.PipelineMetrics
}

func NewMessageProducer(publisher domain.PublisherPort, logger *slog.Logger, m *metrics.PipelineMetrics) *MessageProducer {
	return &MessageProducer{publisher: publisher, logger: logger, metrics: m}
}

func (p *MessageProducer) SendMessage(ctx context.Context, topic, content string) domain.Outcome {
	if err := p.publisher.Publish(ctx, topic, domain.Message{Value: []byte(content)}); err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrPublish, err)
		p.metrics.RecordPublish(topic, metrics.ResultFailed)
		p.logger.Error("Error sending message", "topic", topic, "error", err)
		return domain.Failed(domain.StagePublish, err)
	}
	p.metrics.RecordPublish(topic, metrics.ResultSuccess)
	p.logger.Debug("Message sent", "topic", topic, "bytes", len(content))
	return domain.Succeeded(domain.StagePublish, "")
}

// MessageLogger is the tunnel topic handler; it only logs what it receives.
type MessageLogger struct {
	logger *slog.Logger
}

func NewMessageLogger(logger *slog.Logger) *MessageLogger {
	return &MessageLogger{logger: logger}
}

func (l *MessageLogger) Handle(_ context.Context, payload []byte) domain.Outcome {
	l.logger.Info("Message receive : " + string(payload))
	return domain.Succeeded(domain.StageConsume, "")
}
