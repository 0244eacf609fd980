package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrHandlerRequired is returned when Consume is called with a nil handler.
var ErrHandlerRequired = errors.New("pkgmessage: handler is required")

// Messaging is a broker client that can publish and consume.
type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

// Publisher publishes messages to a topic or subject.
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer consumes from a topic or subject until ctx is done or the broker
// connection fails.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message. With auto-ack on, a nil return acks
// and an error nacks.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is the payload handed to Publish.
type OutgoingMessage struct {
	Body    []byte
	Headers map[string]string
	// Key is the Kafka partition key.
	Key []byte
	// OrderingKey is the Pub/Sub ordering key.
	OrderingKey string
}

// PublishResult carries what the broker reported back, when anything.
type PublishResult struct {
	MessageID string
	Topic     string
	Timestamp time.Time
}

// Message is a received message.
type Message interface {
	ID() string
	Source() string
	Body() []byte
	Header(key string) string
	Headers() map[string]string
	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}
