package domain

import "context"

type Message struct {
	Key   []byte
	Value []byte
	Topic string
	// AckFunc commits the message back to the broker. Nil for transports
	// without acknowledgement.
	AckFunc func(ctx context.Context) error
}

// Ack marks the message as processed. It must be called only after the
// handler has returned.
func (m Message) Ack(ctx context.Context) error {
	if m.AckFunc == nil {
		return nil
	}
	return m.AckFunc(ctx)
}

type PublisherPort interface {
	Publish(ctx context.Context, topic string, msgs ...Message) error
}

// SubscriberPort streams messages of one topic. Delivered messages are not
// committed until acked, so anything unacked is redelivered to the group.
type SubscriberPort interface {
	Subscribe(ctx context.Context, topic, groupID string) (<-chan Message, error)
}

// MessageHandler processes one consumed payload. Implementations fail soft:
// errors are reported through the returned Outcome, never by panicking.
type MessageHandler interface {
	Handle(ctx context.Context, payload []byte) Outcome
}
