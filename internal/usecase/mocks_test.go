package usecase_test

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-rates-pipeline/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockRateFetcher struct {
	mock.Mock
}

func (m *MockRateFetcher) Fetch(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	body, _ := args.Get(0).([]byte)
	return body, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	args := m.Called(ctx, topic, msgs)
	return args.Error(0)
}

// PublishedValues returns the value of every message passed to Publish.
func (m *MockPublisher) PublishedValues() []string {
	var out []string
	for _, call := range m.Calls {
		if call.Method != "Publish" {
			continue
		}
		for _, msg := range call.Arguments.Get(2).([]domain.Message) {
			out = append(out, string(msg.Value))
		}
	}
	return out
}

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) IndexExists(ctx context.Context, index string) error {
	return m.Called(ctx, index).Error(0)
}

func (m *MockDocumentStore) CreateIndex(ctx context.Context, index string, body []byte) error {
	return m.Called(ctx, index, body).Error(0)
}

func (m *MockDocumentStore) PutDocument(ctx context.Context, index, id string, body []byte) error {
	return m.Called(ctx, index, id, body).Error(0)
}

// fakeSubscriber serves a prepared channel for any topic.
type fakeSubscriber struct {
	mu     sync.Mutex
	ch     chan domain.Message
	err    error
	topics []string
	groups []string
}

func (f *fakeSubscriber) Subscribe(_ context.Context, topic, groupID string) (<-chan domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	f.groups = append(f.groups, groupID)
	if f.err != nil {
		return nil, f.err
	}
	return f.ch, nil
}

type recordingHandler struct {
	mu       sync.Mutex
	payloads []string
	outcome  domain.Outcome
}

func (h *recordingHandler) Handle(_ context.Context, payload []byte) domain.Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.payloads = append(h.payloads, string(payload))
	return h.outcome
}

func (h *recordingHandler) Payloads() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.payloads...)
}
