package setup

import (
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-rates-pipeline/internal/config"
	"github.com/LavaJover/shvark-rates-pipeline/internal/infrastructure/elastic"
	providers "github.com/LavaJover/shvark-rates-pipeline/internal/infrastructure/exchange_providers"
	"github.com/LavaJover/shvark-rates-pipeline/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-rates-pipeline/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Common is what both processes build first.
type Common struct {
	Config   *config.PipelineConfig
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.PipelineMetrics
}

type ProducerDependencies struct {
	Common
	Fetcher   *providers.FeedProvider
	Publisher *kafka.KafkaPublisher
}

type IndexerDependencies struct {
	Common
	Subscriber *kafka.KafkaSubscriber
	Store      *elastic.Client
}

func newCommon(cfg *config.PipelineConfig, logger *slog.Logger) Common {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return Common{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Metrics:  metrics.NewPipelineMetrics(reg),
	}
}

// InitializeProducer builds the single Kafka writer shared by every publish
// of the process.
func InitializeProducer(cfg *config.PipelineConfig, logger *slog.Logger) (*ProducerDependencies, error) {
	pub, err := kafka.NewKafkaPublisher(kafka.WriterConfig{Brokers: cfg.Kafka.Brokers})
	if err != nil {
		return nil, fmt.Errorf("kafka publisher: %w", err)
	}
	return &ProducerDependencies{
		Common:    newCommon(cfg, logger),
		Fetcher:   providers.NewFeedProvider(cfg.Feed.URL, cfg.Feed.Timeout),
		Publisher: pub,
	}, nil
}

func (d *ProducerDependencies) Close() error {
	if d.Publisher == nil {
		return nil
	}
	return d.Publisher.Close()
}

func InitializeIndexer(cfg *config.PipelineConfig, logger *slog.Logger) (*IndexerDependencies, error) {
	sub, err := kafka.NewKafkaSubscriber(cfg.Kafka.Brokers, logger)
	if err != nil {
		return nil, fmt.Errorf("kafka subscriber: %w", err)
	}
	store, err := elastic.NewClient(cfg.Elasticsearch.URL, nil)
	if err != nil {
		return nil, err
	}
	return &IndexerDependencies{
		Common:     newCommon(cfg, logger),
		Subscriber: sub,
		Store:      store,
	}, nil
}
