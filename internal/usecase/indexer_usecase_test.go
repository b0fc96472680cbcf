package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/LavaJover/shvark-rates-pipeline/internal/domain"
		"github.com/LavaJover/shvark-rates-pipeline/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-rates-pipeline/internal/testutil/logtest"
	"github.com/LavaJover/shvark-rates-pipeline/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const indexName = domain.ExchangeRatesIndexName

type IndexerUsecaseTestSuite struct {
	suite.Suite
	store   *MockDocumentStore
	logs    *logtest.Recorder
	metrics *metrics.PipelineMetrics
	uc      *usecase.IndexerUsecase
}

func (s *IndexerUsecaseTestSuite) SetupTest() {
	s.store = new(MockDocumentStore)
	s.logs = logtest.NewRecorder()
	s.metrics = metrics.NewPipelineMetrics(prometheus.NewRegistry())
	s.uc = usecase.NewIndexerUsecase(s.store, domain.ExchangeRatesIndex, s.logs.Logger(), s.metrics)
}

func TestIndexerUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(IndexerUsecaseTestSuite))
}

func (s *IndexerUsecaseTestSuite) documentIDs() []string {
	var ids []string
	for _, call := range s.store.Calls {
		if call.Method == "PutDocument" {
			ids = append(ids, call.Arguments.String(2))
		}
	}
	return ids
}

func (s *IndexerUsecaseTestSuite) TestHandle_IndexExists() {
	payload := []byte(`{"base":"USD","rates":{"EUR":0.85}}`)
	s.store.On("IndexExists", mock.Anything, indexName).Return(nil).Once()
	s.store.On("PutDocument", mock.Anything, indexName, mock.AnythingOfType("string"), payload).Return(nil).Once()

	out := s.uc.Handle(context.Background(), payload)

	s.True(out.OK())
	s.Equal(domain.StageWrite, out.Stage)
	s.store.AssertNumberOfCalls(s.T(), "IndexExists", 1)
	s.store.AssertNotCalled(s.T(), "CreateIndex", mock.Anything, mock.Anything, mock.Anything)
	s.store.AssertNumberOfCalls(s.T(), "PutDocument", 1)
	s.Equal([]string{out.Ref}, s.documentIDs())

	info := s.logs.Records(slog.LevelInfo)
	s.Require().Len(info, 2)
	s.Contains(info[0].Message, "Consuming exchange rate data for Elasticsearch")
	s.Contains(info[1].Message, "Exchange rate data stored in Elasticsearch with ID:")
	s.Equal(out.Ref, info[1].Attrs["document_id"])

	s.Equal(1.0, testutil.ToFloat64(s.metrics.IndexProvisionTotal.WithLabelValues(indexName, metrics.ResultExists)))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.DocumentsTotal.WithLabelValues(indexName, metrics.ResultSuccess)))
}

func (s *IndexerUsecaseTestSuite) TestHandle_CreatesIndexWhenProbeFails() {
	mapping, err := domain.ExchangeRatesIndex.MappingBody()
	s.Require().NoError(err)

	s.store.On("IndexExists", mock.Anything, indexName).Return(errors.New("Index not found")).Once()
	s.store.On("CreateIndex", mock.Anything, indexName, mapping).Return(nil).Once()
	s.store.On("PutDocument", mock.Anything, indexName, mock.AnythingOfType("string"), []byte("{}")).Return(nil).Once()

	out := s.uc.Handle(context.Background(), []byte("{}"))

	s.True(out.OK())
	s.store.AssertExpectations(s.T())
	s.store.AssertNumberOfCalls(s.T(), "CreateIndex", 1)
	s.True(s.logs.Has(slog.LevelInfo, "Created Elasticsearch index"))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.IndexProvisionTotal.WithLabelValues(indexName, metrics.ResultCreated)))

	// create happens before the write
	var order []string
	for _, c := range s.store.Calls {
		order = append(order, c.Method)
	}
	s.Equal([]string{"IndexExists", "CreateIndex", "PutDocument"}, order)
}

func (s *IndexerUsecaseTestSuite) TestHandle_ProvisionFailureDoesNotAbortWrite() {
	s.store.On("IndexExists", mock.Anything, indexName).Return(errors.New("Index not found")).Once()
	s.store.On("CreateIndex", mock.Anything, indexName, mock.Anything).Return(errors.New("Creation failed")).Once()
	s.store.On("PutDocument", mock.Anything, indexName, mock.Anything, mock.Anything).Return(errors.New("Storage failed")).Once()

	out := s.uc.Handle(context.Background(), []byte("{}"))

	s.False(out.OK())
	s.Equal(domain.StageWrite, out.Stage)
	s.True(errors.Is(out.Err, domain.ErrWrite))
	s.store.AssertNumberOfCalls(s.T(), "IndexExists", 1)
	s.store.AssertNumberOfCalls(s.T(), "PutDocument", 1)
	s.True(s.logs.Has(slog.LevelWarn, "Could not create/check Elasticsearch index"))
	s.True(s.logs.Has(slog.LevelError, "Error storing data in Elasticsearch"))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.IndexProvisionTotal.WithLabelValues(indexName, metrics.ResultFailed)))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.DocumentsTotal.WithLabelValues(indexName, metrics.ResultFailed)))
}

func (s *IndexerUsecaseTestSuite) TestHandle_StoreErrorIsLogged() {
	s.store.On("IndexExists", mock.Anything, indexName).Return(errors.New("Elasticsearch error")).Once()
	s.store.On("CreateIndex", mock.Anything, indexName, mock.Anything).Return(errors.New("Storage error")).Once()
	s.store.On("PutDocument", mock.Anything, indexName, mock.Anything, mock.Anything).Return(errors.New("Storage error")).Once()

	s.NotPanics(func() { s.uc.Handle(context.Background(), []byte("{}")) })
	s.Equal(1, s.logs.Count(slog.LevelError))
	s.Equal(1, s.logs.Count(slog.LevelWarn))
}

func (s *IndexerUsecaseTestSuite) TestHandle_ProbesOnEveryMessage() {
	s.store.On("IndexExists", mock.Anything, indexName).Return(nil)
	s.store.On("PutDocument", mock.Anything, indexName, mock.Anything, mock.Anything).Return(nil)

	for i := 0; i < 3; i++ {
		s.uc.Handle(context.Background(), []byte(`{"base":"USD"}`))
	}

	s.store.AssertNumberOfCalls(s.T(), "IndexExists", 3)
	s.store.AssertNumberOfCalls(s.T(), "PutDocument", 3)
}

func (s *IndexerUsecaseTestSuite) TestHandle_DuplicatePayloadsGetDistinctIDs() {
	payload := []byte(`{"base":"USD","rates":{"EUR":0.85}}`)
	s.store.On("IndexExists", mock.Anything, indexName).Return(nil)
	s.store.On("PutDocument", mock.Anything, indexName, mock.Anything, payload).Return(nil)

	first := s.uc.Handle(context.Background(), payload)
	second := s.uc.Handle(context.Background(), payload)

	ids := s.documentIDs()
	s.Require().Len(ids, 2)
	s.NotEqual(ids[0], ids[1])
	s.Equal([]string{first.Ref, second.Ref}, ids)
}

func (s *IndexerUsecaseTestSuite) TestHandle_ComplexPayloadIsStoredVerbatim() {
	payload := []byte(`{"timestamp":"2024-01-01T12:00:00.000Z","base":"USD","date":"2024-01-01","rates":{"EUR":0.85,"GBP":0.75,"JPY":110.0,"CAD":1.25}}`)
	s.store.On("IndexExists", mock.Anything, indexName).Return(nil)
	s.store.On("PutDocument", mock.Anything, indexName, mock.Anything, payload).Return(nil).Once()

	s.True(s.uc.Handle(context.Background(), payload).OK())
	s.store.AssertExpectations(s.T())
}

func TestIndexProvisioner_CustomIndexName(t *testing.T) {
	store := new(MockDocumentStore)
	store.On("IndexExists", mock.Anything, "rates-v2").Return(errors.New("not found")).Once()
	store.On("CreateIndex", mock.Anything, "rates-v2", mock.Anything).Return(nil).Once()

	p := usecase.NewIndexProvisioner(store, domain.ExchangeRatesIndex.WithName("rates-v2"), slog.Default(), nil)
	out := p.EnsureIndex(context.Background())

	if !out.OK() || out.Ref != "rates-v2" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	store.AssertExpectations(t)
}
