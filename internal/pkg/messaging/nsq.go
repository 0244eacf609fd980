package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

var (
	ErrNSQTopicRequired         = errors.New("pkgmessage: nsq topic is required")
	ErrNSQChannelRequired       = errors.New("pkgmessage: nsq channel is required")
	ErrNSQProducerAddrRequired  = errors.New("pkgmessage: nsq producer address is required")
	ErrNSQConsumerAddrsRequired = errors.New("pkgmessage: nsq consumer nsqd/lookupd addresses are required")
)

// NSQConfig configures the NSQ driver.
type NSQConfig struct {
	// ProducerAddr is the nsqd TCP address used for publishing.
	ProducerAddr string
	// ConsumerLookupdAddrs takes precedence over ConsumerNSQDAddrs.
	ConsumerLookupdAddrs []string
	ConsumerNSQDAddrs    []string
}

// NSQ is a messaging implementation backed by go-nsq.
type NSQ struct {
	producer *nsq.Producer
	lookupds []string
	nsqds    []string

	mu        sync.Mutex
	consumers []*nsq.Consumer
	closed    bool
}

// nsqFrame carries headers next to the payload since NSQ messages are opaque
// bytes. Body is base64 in JSON.
type nsqFrame struct {
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body"`
}

func encodeNSQ(msg OutgoingMessage) ([]byte, error) {
	return json.Marshal(nsqFrame{Headers: msg.Headers, Body: msg.Body})
}

// decodeNSQ unwraps a frame. Bodies that are not frames (published by other
// producers) are returned as is with no headers.
func decodeNSQ(raw []byte) (body []byte, headers map[string]string) {
	var f nsqFrame
	if err := json.Unmarshal(raw, &f); err != nil || f.Body == nil {
		return raw, map[string]string{}
	}
	if f.Headers == nil {
		f.Headers = map[string]string{}
	}
	return f.Body, f.Headers
}

// NewNSQ constructs an NSQ client. The producer is optional for
// consume-only processes.
func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	n := &NSQ{
		lookupds: append([]string(nil), cfg.ConsumerLookupdAddrs...),
		nsqds:    append([]string(nil), cfg.ConsumerNSQDAddrs...),
	}

	if cfg.ProducerAddr != "" {
		p, err := nsq.NewProducer(cfg.ProducerAddr, nsq.NewConfig())
		if err != nil {
			return nil, fmt.Errorf("pkgmessage: nsq new producer: %w", err)
		}
		p.SetLoggerLevel(nsq.LogLevelError)
		n.producer = p
	}

	return n, nil
}

// Close stops all consumers and the producer.
func (n *NSQ) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	consumers := n.consumers
	n.consumers = nil
	n.mu.Unlock()

	for _, c := range consumers {
		c.Stop()
		<-c.StopChan
	}
	if n.producer != nil {
		n.producer.Stop()
	}
	return nil
}

func (n *NSQ) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrNSQTopicRequired
	}
	if n.producer == nil {
		return PublishResult{}, ErrNSQProducerAddrRequired
	}

	frame, err := encodeNSQ(msg)
	if err != nil {
		return PublishResult{}, fmt.Errorf("pkgmessage: nsq encode: %w", err)
	}
	if err := n.producer.Publish(destination, frame); err != nil {
		return PublishResult{}, fmt.Errorf("pkgmessage: nsq publish: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

// Consume reads source on the WithGroup channel until ctx is done.
func (n *NSQ) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if source == "" {
		return ErrNSQTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	if len(n.lookupds) == 0 && len(n.nsqds) == 0 {
		return ErrNSQConsumerAddrsRequired
	}
	co := newConsumeOptions(opts...)
	if co.group == "" {
		return ErrNSQChannelRequired
	}

	cfg := nsq.NewConfig()
	cfg.MaxInFlight = co.maxInFlight
	consumer, err := nsq.NewConsumer(source, co.group, cfg)
	if err != nil {
		return fmt.Errorf("pkgmessage: nsq new consumer: %w", err)
	}
	consumer.SetLoggerLevel(nsq.LogLevelError)
	consumer.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		m.DisableAutoResponse()
		if err := dispatch(ctx, DriverNSQ, handler, nsqDelivery(source, m), co.autoAck); err != nil {
			slog.WarnContext(ctx, "pkgmessage: nsq handler failed", "topic", source, "error", err)
		}
		return nil
	}), co.concurrency)

	if err := n.track(consumer); err != nil {
		consumer.Stop()
		return err
	}

	if len(n.lookupds) > 0 {
		err = consumer.ConnectToNSQLookupds(n.lookupds)
	} else {
		err = consumer.ConnectToNSQDs(n.nsqds)
	}
	if err != nil {
		consumer.Stop()
		<-consumer.StopChan
		return fmt.Errorf("pkgmessage: nsq connect: %w", err)
	}

	select {
	case <-ctx.Done():
		consumer.Stop()
		<-consumer.StopChan
		return ctx.Err()
	case <-consumer.StopChan:
		return nil
	}
}

func nsqDelivery(topic string, m *nsq.Message) *delivery {
	body, headers := decodeNSQ(m.Body)
	return &delivery{
		id:      string(m.ID[:]),
		source:  topic,
		body:    body,
		headers: headers,
		ack: func(context.Context) error {
			m.Finish()
			return nil
		},
		nack: func(context.Context) error {
			m.Requeue(-1)
			return nil
		},
	}
}

func (n *NSQ) track(c *nsq.Consumer) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return io.ErrClosedPipe
	}
	n.consumers = append(n.consumers, c)
	return nil
}
