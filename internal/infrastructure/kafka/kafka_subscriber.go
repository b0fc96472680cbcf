package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/LavaJover/shvark-rates-pipeline/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

type KafkaSubscriber struct {
	brokers []string
	logger  *slog.Logger
}

func NewKafkaSubscriber(brokers []string, logger *slog.Logger) (*KafkaSubscriber, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka subscriber: no brokers configured")
	}
	return &KafkaSubscriber{brokers: brokers, logger: logger}, nil
}

// Subscribe joins groupID on topic and streams messages until ctx is done or
// the reader fails, then closes the channel. Offsets are committed only when
// a delivered message is acked; the reader stays open until the message in
// flight has been acked.
func (k *KafkaSubscriber) Subscribe(ctx context.Context, topic, groupID string) (<-chan domain.Message, error) {
	if topic == "" {
		return nil, errors.New("kafka subscriber: topic is required")
	}
	if groupID == "" {
		return nil, errors.New("kafka subscriber: group id is required")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: k.brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	log := k.logger.With("topic", topic, "group_id", groupID)

	out := make(chan domain.Message)
	go func() {
		var inflight sync.WaitGroup
		defer func() {
			close(out)
			inflight.Wait()
			if err := reader.Close(); err != nil {
				log.Warn("kafka reader close failed", "error", err)
			}
		}()

		for {
			m, err := reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Error("kafka reader stopped", "error", err)
				}
				return
			}

			inflight.Add(1)
			msg := toDomainMessage(m, commitOnce(reader, m, inflight.Done))
			select {
			case out <- msg:
			case <-ctx.Done():
				// never delivered, left uncommitted for redelivery
				inflight.Done()
				return
			}
		}
	}()
	return out, nil
}

type committer interface {
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// commitOnce commits m on the first call and reports completion through done.
func commitOnce(c committer, m kafkago.Message, done func()) func(context.Context) error {
	var (
		once sync.Once
		err  error
	)
	return func(ctx context.Context) error {
		once.Do(func() {
			defer done()
			err = c.CommitMessages(ctx, m)
		})
		return err
	}
}

func toDomainMessage(m kafkago.Message, ack func(context.Context) error) domain.Message {
	return domain.Message{Key: m.Key, Value: m.Value, Topic: m.Topic, AckFunc: ack}
}
