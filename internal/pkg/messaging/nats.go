package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

var (
	ErrNATSSubjectRequired = errors.New("pkgmessage: nats subject is required")
	ErrNATSURLRequired     = errors.New("pkgmessage: nats url is required")
)

// NATSConfig configures the NATS driver.
type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS is a messaging implementation backed by core NATS. Delivery is
// at-most-once, so Ack and Nack are no-ops.
type NATS struct {
	conn *nats.Conn

	mu     sync.Mutex
	closed bool
}

// NewNATS connects to cfg.URL.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("pkgmessage: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Close drains subscriptions and closes the connection.
func (n *NATS) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true

	err := n.conn.Drain()
	n.conn.Close()
	return err
}

func (n *NATS) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrNATSSubjectRequired
	}

	nm := nats.NewMsg(destination)
	nm.Data = msg.Body
	for key, value := range msg.Headers {
		nm.Header.Set(key, value)
	}

	if err := n.conn.PublishMsg(nm); err != nil {
		return PublishResult{}, fmt.Errorf("pkgmessage: nats publish: %w", err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return PublishResult{}, fmt.Errorf("pkgmessage: nats flush: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

// Consume subscribes to source in the WithGroup queue group (or a plain
// subscription when no group is set) and blocks until ctx is done.
func (n *NATS) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if source == "" {
		return ErrNATSSubjectRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	co := newConsumeOptions(opts...)

	msgs := make(chan *nats.Msg, co.maxInFlight)
	sub, err := n.conn.QueueSubscribe(source, co.group, func(m *nats.Msg) {
		select {
		case msgs <- m:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("pkgmessage: nats subscribe: %w", err)
	}

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case m := <-msgs:
					if err := dispatch(ctx, DriverNATS, handler, natsDelivery(m), co.autoAck); err != nil {
						slog.WarnContext(ctx, "pkgmessage: nats handler failed", "subject", source, "error", err)
					}
				}
			}
		})
	}

	<-ctx.Done()
	uerr := sub.Unsubscribe()
	if errors.Is(uerr, nats.ErrConnectionClosed) || errors.Is(uerr, nats.ErrBadSubscription) {
		uerr = nil
	}
	wg.Wait()

	return errors.Join(ctx.Err(), uerr)
}

func natsDelivery(m *nats.Msg) *delivery {
	headers := make(map[string]string, len(m.Header))
	for key := range m.Header {
		headers[key] = m.Header.Get(key)
	}

	return &delivery{
		id:      m.Header.Get(nats.MsgIdHdr),
		source:  m.Subject,
		body:    m.Data,
		headers: headers,
		ack:     noopAck,
		nack:    noopAck,
	}
}
