package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"cloud.google.com/go/pubsub/v2"
	"google.golang.org/api/option"
)

var (
	ErrPubSubProjectIDRequired = errors.New("pkgmessage: pubsub project id is required")
	ErrPubSubTopicRequired     = errors.New("pkgmessage: pubsub topic is required")
)

// PubSubConfig configures the Google Pub/Sub driver.
type PubSubConfig struct {
	ProjectID string
	// ClientOptions carry credentials or an emulator endpoint.
	ClientOptions []option.ClientOption
}

// PubSub is a messaging implementation backed by Google Pub/Sub. Headers map
// to message attributes.
type PubSub struct {
	client *pubsub.Client

	mu         sync.Mutex
	publishers map[string]*pubsub.Publisher
	closed     bool
}

// NewPubSub creates a Pub/Sub client for cfg.ProjectID.
func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	if cfg.ProjectID == "" {
		return nil, ErrPubSubProjectIDRequired
	}

	c, err := pubsub.NewClient(ctx, cfg.ProjectID, cfg.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("pkgmessage: pubsub new client: %w", err)
	}

	return &PubSub{client: c, publishers: make(map[string]*pubsub.Publisher)}, nil
}

// Close flushes publishers and closes the client.
func (p *PubSub) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	pubs := p.publishers
	p.publishers = nil
	p.mu.Unlock()

	for _, pub := range pubs {
		pub.Stop()
	}
	return p.client.Close()
}

func (p *PubSub) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrPubSubTopicRequired
	}

	pub, err := p.publisher(destination, msg.OrderingKey != "")
	if err != nil {
		return PublishResult{}, err
	}

	id, err := pub.Publish(ctx, &pubsub.Message{
		Data:        msg.Body,
		Attributes:  msg.Headers,
		OrderingKey: msg.OrderingKey,
	}).Get(ctx)
	if err != nil {
		return PublishResult{}, fmt.Errorf("pkgmessage: pubsub publish: %w", err)
	}

	return PublishResult{MessageID: id, Topic: destination}, nil
}

// Consume receives from the subscription named by WithGroup, or from a
// subscription named source when no group is given.
func (p *PubSub) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if source == "" {
		return ErrPubSubTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	if p.isClosed() {
		return io.ErrClosedPipe
	}
	co := newConsumeOptions(opts...)

	subscription := source
	if co.group != "" {
		subscription = co.group
	}

	sub := p.client.Subscriber(subscription)
	sub.ReceiveSettings.NumGoroutines = co.concurrency
	sub.ReceiveSettings.MaxOutstandingMessages = co.maxInFlight

	return sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		if err := dispatch(ctx, DriverGooglePubSub, handler, pubsubDelivery(source, m), co.autoAck); err != nil {
			slog.WarnContext(ctx, "pkgmessage: pubsub handler failed", "subscription", subscription, "error", err)
		}
	})
}

func pubsubDelivery(topic string, m *pubsub.Message) *delivery {
	headers := m.Attributes
	if headers == nil {
		headers = map[string]string{}
	}

	return &delivery{
		id:      m.ID,
		source:  topic,
		body:    m.Data,
		headers: headers,
		ack: func(context.Context) error {
			m.Ack()
			return nil
		},
		nack: func(context.Context) error {
			m.Nack()
			return nil
		},
	}
}

func (p *PubSub) publisher(topic string, ordered bool) (*pubsub.Publisher, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, io.ErrClosedPipe
	}
	if pub, ok := p.publishers[topic]; ok {
		return pub, nil
	}

	pub := p.client.Publisher(topic)
	pub.EnableMessageOrdering = ordered
	p.publishers[topic] = pub
	return pub, nil
}

func (p *PubSub) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
