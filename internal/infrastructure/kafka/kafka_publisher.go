package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-rates-pipeline/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

type WriterConfig struct {
	Brokers []string
	// BatchTimeout bounds how long a single publish waits for a batch to
	// fill. Zero uses 10ms.
	BatchTimeout time.Duration
}

// KafkaPublisher is a process-wide writer. The topic is set per message so
// one writer serves every topic the process publishes to.
type KafkaPublisher struct {
	writer *kafkago.Writer
}

func NewKafkaPublisher(cfg WriterConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka publisher: no brokers configured")
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}

	return &KafkaPublisher{
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(cfg.Brokers...),
			Balancer:               &kafkago.LeastBytes{},
			RequiredAcks:           kafkago.RequireOne,
			BatchTimeout:           batchTimeout,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

func (k *KafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return k.writer.WriteMessages(ctx, toKafkaMessages(topic, time.Now(), msgs)...)
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

func toKafkaMessages(topic string, ts time.Time, msgs []domain.Message) []kafkago.Message {
	km := make([]kafkago.Message, 0, len(msgs))
	for _, m := range msgs {
		t := topic
		if m.Topic != "" {
			t = m.Topic
		}
		km = append(km, kafkago.Message{
			Topic: t,
			Key:   m.Key,
			Value: m.Value,
			Time:  ts,
		})
	}
	return km
}
