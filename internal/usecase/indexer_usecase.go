package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-rates-pipeline/internal/domain"
	"github.com/LavaJover/shvark-rates-pipeline/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

// IndexProvisioner makes sure the target index exists. It probes on every
// call and keeps no memory of earlier results.
type IndexProvisioner struct {
	store   domain.DocumentStore
	index   domain.IndexDescriptor
	logger  *slog.Logger
	metrics *metrics.PipelineMetrics
}

func NewIndexProvisioner(store domain.DocumentStore, index domain.IndexDescriptor, logger *slog.Logger, m *metrics.PipelineMetrics) *IndexProvisioner {
	return &IndexProvisioner{store: store, index: index, logger: logger, metrics: m}
}

// EnsureIndex treats any probe error as a missing index and creates it with
// the fixed mapping. Failures are logged as warnings only.
func (p *IndexProvisioner) EnsureIndex(ctx context.Context) domain.Outcome {
	started := time.Now()
	defer p.metrics.ObserveStage("index_provision", started)

	probeErr := p.store.IndexExists(ctx, p.index.Name)
	if probeErr == nil {
		p.metrics.RecordProvision(p.index.Name, metrics.ResultExists)
		p.logger.Debug("Elasticsearch index exists", "index", p.index.Name)
		return domain.Succeeded(domain.StageProvision, p.index.Name)
	}

	body, err := p.index.MappingBody()
	if err == nil {
		err = p.store.CreateIndex(ctx, p.index.Name, body)
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrProvision, err)
		p.metrics.RecordProvision(p.index.Name, metrics.ResultFailed)
		p.logger.Warn("Could not create/check Elasticsearch index",
			"index", p.index.Name, "probe_error", probeErr.Error(), "error", err)
		return domain.Failed(domain.StageProvision, err)
	}

	p.metrics.RecordProvision(p.index.Name, metrics.ResultCreated)
	p.logger.Info("Created Elasticsearch index", "index", p.index.Name, "probe_error", probeErr.Error())
	return domain.Succeeded(domain.StageProvision, p.index.Name)
}

// DocumentWriter stores each payload as a new document under a fresh random
// ID, so duplicate payloads produce duplicate documents.
type DocumentWriter struct {
	store   domain.DocumentStore
	index   string
	newID   func() string
	logger  *slog.Logger
	metrics *metrics.PipelineMetrics
}

func NewDocumentWriter(store domain.DocumentStore, index string, logger *slog.Logger, m *metrics.PipelineMetrics) *DocumentWriter {
	return &DocumentWriter{store: store, index: index, newID: uuid.NewString, logger: logger, metrics: m}
}

func (w *DocumentWriter) Write(ctx context.Context, payload []byte) domain.Outcome {
	started := time.Now()
	defer w.metrics.ObserveStage("document_write", started)

	id := w.newID()
	if err := w.store.PutDocument(ctx, w.index, id, payload); err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrWrite, err)
		w.metrics.RecordDocument(w.index, metrics.ResultFailed)
		w.logger.Error("Error storing data in Elasticsearch", "index", w.index, "document_id", id, "error", err)
		return domain.Failed(domain.StageWrite, err)
	}

	w.metrics.RecordDocument(w.index, metrics.ResultSuccess)
	w.logger.Info("Exchange rate data stored in Elasticsearch with ID: "+id, "index", w.index, "document_id", id)
	return domain.Succeeded(domain.StageWrite, id)
}

// IndexerUsecase is the handler behind the rates topic: provision the index,
// then write the payload whatever provisioning returned.
type IndexerUsecase struct {
	provisioner *IndexProvisioner
	writer      *DocumentWriter
	logger      *slog.Logger
}

func NewIndexerUsecase(store domain.DocumentStore, index domain.IndexDescriptor, logger *slog.Logger, m *metrics.PipelineMetrics) *IndexerUsecase {
	return &IndexerUsecase{
		provisioner: NewIndexProvisioner(store, index, logger, m),
		writer:      NewDocumentWriter(store, index.Name, logger, m),
		logger:      logger,
	}
}

func (u *IndexerUsecase) Handle(ctx context.Context, payload []byte) domain.Outcome {
	u.logger.Info("Consuming exchange rate data for Elasticsearch", "bytes", len(payload))
	u.provisioner.EnsureIndex(ctx)
	return u.writer.Write(ctx, payload)
}
