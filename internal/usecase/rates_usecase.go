package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-rates-pipeline/internal/domain"
	"github.com/LavaJover/shvark-rates-pipeline/internal/infrastructure/metrics"
	"github.com/jaevor/go-nanoid"
)

// RatesUsecase runs one fetch, enrich and publish cycle per call. It holds no
// per-cycle state, so concurrent calls are safe.
type RatesUsecase struct {
	fetcher   domain.RateFetcher
	enricher  *Enricher
	publisher domain.PublisherPort
	topic     string
	logger    *slog.Logger
	metrics   *metrics.PipelineMetrics
	cycleID   func() string
}

func NewRatesUsecase(
	fetcher domain.RateFetcher,
	enricher *Enricher,
	publisher domain.PublisherPort,
	topic string,
	logger *slog.Logger,
	m *metrics.PipelineMetrics,
) (*RatesUsecase, error) {
	if topic == "" {
		return nil, errors.New("rates usecase: topic is required")
	}
	cycleID, err := nanoid.Standard(12)
	if err != nil {
		return nil, fmt.Errorf("rates usecase: cycle id generator: %w", err)
	}
	if enricher == nil {
		enricher = NewEnricher(nil)
	}
	return &RatesUsecase{
		fetcher:   fetcher,
		enricher:  enricher,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
		metrics:   m,
		cycleID:   cycleID,
	}, nil
}

func (u *RatesUsecase) Topic() string {
	return u.topic
}

// FetchAndPublish never returns an error; failures are logged and reported
// through the Outcome.
func (u *RatesUsecase) FetchAndPublish(ctx context.Context) domain.Outcome {
	started := time.Now()
	defer u.metrics.ObserveStage("rates_cycle", started)

	id := u.cycleID()
	log := u.logger.With("cycle_id", id)
	log.Info("Fetching exchange rates from API")

	body, err := u.fetcher.Fetch(ctx)
	if err != nil {
		u.metrics.RecordFetch(fetchResult(err))
		log.Error("Error fetching exchange rates", "error", err)
		return domain.Failed(domain.StageFetch, err)
	}

	enriched, err := u.enricher.Enrich(body)
	if err != nil {
		u.metrics.RecordFetch(fetchResult(err))
		log.Error("Error parsing exchange rates", "error", err, "body_bytes", len(body))
		return domain.Failed(domain.StageEnrich, err)
	}
	u.metrics.RecordFetch(metrics.ResultSuccess)

	if err := u.publisher.Publish(ctx, u.topic, domain.Message{Value: enriched}); err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrPublish, err)
		u.metrics.RecordPublish(u.topic, metrics.ResultFailed)
		log.Error("Error publishing exchange rates", "topic", u.topic, "error", err)
		return domain.Failed(domain.StagePublish, err)
	}
	u.metrics.RecordPublish(u.topic, metrics.ResultSuccess)

	attrs := []any{"topic", u.topic}
	if p, err := domain.ParseRatePayload(enriched); err == nil {
		attrs = append(attrs, "base", p.Base, "rates", len(p.Rates))
	}
	log.Info("Exchange rates published to Kafka topic", attrs...)
	return domain.Succeeded(domain.StagePublish, id)
}

func fetchResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrBadStatus):
		return metrics.ResultBadStatus
	case errors.Is(err, domain.ErrEmptyBody):
		return metrics.ResultEmptyBody
	case errors.Is(err, domain.ErrParse):
		return metrics.ResultParseError
	default:
		return metrics.ResultFailed
	}
}
