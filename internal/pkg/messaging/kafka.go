package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

var (
	ErrKafkaTopicRequired   = errors.New("pkgmessage: kafka topic is required")
	ErrKafkaBrokersRequired = errors.New("pkgmessage: kafka brokers are required")
	ErrKafkaGroupRequired   = errors.New("pkgmessage: kafka consumer group is required")
)

// KafkaConfig configures the Kafka driver.
type KafkaConfig struct {
	Brokers []string
	// Dialer is optional; set it for TLS or SASL.
	Dialer *kafka.Dialer
}

// Kafka is a messaging implementation backed by kafka-go. Writers are cached
// per topic; one reader is opened per Consume call.
type Kafka struct {
	brokers []string
	dialer  *kafka.Dialer

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	readers map[*kafka.Reader]struct{}
	closed  bool
}

// NewKafka constructs a Kafka messaging client. No connection is made until
// the first publish or consume.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	return &Kafka{
		brokers: append([]string(nil), cfg.Brokers...),
		dialer:  cfg.Dialer,
		writers: make(map[string]*kafka.Writer),
		readers: make(map[*kafka.Reader]struct{}),
	}, nil
}

// Close shuts down all readers and writers.
func (k *Kafka) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	writers, readers := k.writers, k.readers
	k.writers, k.readers = nil, nil
	k.mu.Unlock()

	var err error
	for r := range readers {
		err = errors.Join(err, r.Close())
	}
	for _, w := range writers {
		err = errors.Join(err, w.Close())
	}
	return err
}

func (k *Kafka) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrKafkaTopicRequired
	}

	w, err := k.writer(destination)
	if err != nil {
		return PublishResult{}, err
	}

	km := kafka.Message{Key: msg.Key, Value: msg.Body, Time: time.Now()}
	for key, value := range msg.Headers {
		km.Headers = append(km.Headers, kafka.Header{Key: key, Value: []byte(value)})
	}

	if err := w.WriteMessages(ctx, km); err != nil {
		return PublishResult{}, fmt.Errorf("pkgmessage: kafka publish: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: km.Time}, nil
}

// Consume reads source with the consumer group from WithGroup. Offsets are
// committed on Ack; Nack leaves the offset uncommitted.
func (k *Kafka) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if source == "" {
		return ErrKafkaTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	co := newConsumeOptions(opts...)
	if co.group == "" {
		return ErrKafkaGroupRequired
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.brokers,
		GroupID:  co.group,
		Topic:    source,
		MaxBytes: 10e6,
		Dialer:   k.dialer,
	})
	if err := k.track(reader); err != nil {
		return errors.Join(err, reader.Close())
	}
	defer k.untrack(reader)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgs := make(chan kafka.Message)
	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for m := range msgs {
				d := kafkaDelivery(reader, source, m)
				if err := dispatch(ctx, DriverKafka, handler, d, co.autoAck); err != nil {
					slog.WarnContext(ctx, "pkgmessage: kafka handler failed", "topic", source, "offset", m.Offset, "error", err)
				}
			}
		})
	}

	fetchErr := fetchKafka(ctx, reader, msgs)
	close(msgs)
	wg.Wait()

	if errors.Is(fetchErr, context.Canceled) || errors.Is(fetchErr, context.DeadlineExceeded) || errors.Is(fetchErr, io.EOF) {
		return ctx.Err()
	}
	return fmt.Errorf("pkgmessage: kafka consume: %w", fetchErr)
}

func fetchKafka(ctx context.Context, reader *kafka.Reader, out chan<- kafka.Message) error {
	for {
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			return err
		}
		select {
		case out <- m:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func kafkaDelivery(reader *kafka.Reader, topic string, m kafka.Message) *delivery {
	headers := make(map[string]string, len(m.Headers))
	for _, h := range m.Headers {
		headers[h.Key] = string(h.Value)
	}

	return &delivery{
		id:      strconv.Itoa(m.Partition) + ":" + strconv.FormatInt(m.Offset, 10),
		source:  topic,
		body:    m.Value,
		headers: headers,
		ack: func(ctx context.Context) error {
			return reader.CommitMessages(ctx, m)
		},
		nack: noopAck,
	}
}

func (k *Kafka) writer(topic string) (*kafka.Writer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil, io.ErrClosedPipe
	}
	if w, ok := k.writers[topic]; ok {
		return w, nil
	}

	transport := &kafka.Transport{}
	if k.dialer != nil {
		transport.TLS = k.dialer.TLS
		transport.SASL = k.dialer.SASLMechanism
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(k.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		Transport:              transport,
	}
	k.writers[topic] = w
	return w, nil
}

func (k *Kafka) track(r *kafka.Reader) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return io.ErrClosedPipe
	}
	k.readers[r] = struct{}{}
	return nil
}

func (k *Kafka) untrack(r *kafka.Reader) {
	k.mu.Lock()
	_, owned := k.readers[r]
	delete(k.readers, r)
	k.mu.Unlock()

	if owned {
		if err := r.Close(); err != nil {
			slog.Warn("pkgmessage: kafka reader close", "error", err)
		}
	}
}
