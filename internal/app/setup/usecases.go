package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-rates-pipeline/internal/domain"
	"github.com/LavaJover/shvark-rates-pipeline/internal/usecase"
)

type ProducerUsecases struct {
	Rates  *usecase.RatesUsecase
	Tunnel *usecase.MessageProducer
}

func InitializeProducerUsecases(deps *ProducerDependencies) (*ProducerUsecases, error) {
	rates, err := usecase.NewRatesUsecase(
		deps.Fetcher,
		usecase.NewEnricher(nil),
		deps.Publisher,
		deps.Config.Kafka.Topic,
		deps.Logger,
		deps.Metrics,
	)
	if err != nil {
		return nil, fmt.Errorf("rates usecase: %w", err)
	}
	return &ProducerUsecases{
		Rates:  rates,
		Tunnel: usecase.NewMessageProducer(deps.Publisher, deps.Logger, deps.Metrics),
	}, nil
}

// IndexerConsumers holds one dispatch loop per subscribed topic.
type IndexerConsumers struct {
	Rates  *usecase.Consumer
	Tunnel *usecase.Consumer
}

func InitializeIndexerConsumers(deps *IndexerDependencies) *IndexerConsumers {
	kcfg := deps.Config.Kafka
	index := domain.ExchangeRatesIndex.WithName(deps.Config.Elasticsearch.Index)

	indexer := usecase.NewIndexerUsecase(deps.Store, index, deps.Logger, deps.Metrics)
	tunnel := usecase.NewMessageLogger(deps.Logger)

	return &IndexerConsumers{
		Rates:  usecase.NewConsumer(deps.Subscriber, kcfg.Topic, kcfg.GroupID, indexer, deps.Logger, deps.Metrics),
		Tunnel: usecase.NewConsumer(deps.Subscriber, kcfg.TunnelTopic, kcfg.TunnelGroupID, tunnel, deps.Logger, deps.Metrics),
	}
}
