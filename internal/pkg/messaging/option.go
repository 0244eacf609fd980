package messaging

type consumeOptions struct {
	group       string
	concurrency int
	maxInFlight int
	autoAck     bool
}

// ConsumeOption configures Consume.
type ConsumeOption func(*consumeOptions)

func newConsumeOptions(opts ...ConsumeOption) consumeOptions {
	co := consumeOptions{concurrency: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&co)
		}
	}
	if co.concurrency <= 0 {
		co.concurrency = 1
	}
	if co.maxInFlight < co.concurrency {
		co.maxInFlight = co.concurrency
	}
	return co
}

// WithGroup names the consumer so that instances sharing the name split the
// stream: the Kafka consumer group, the NSQ channel, the NATS queue group or
// the Pub/Sub subscription.
func WithGroup(group string) ConsumeOption {
	return func(o *consumeOptions) { o.group = group }
}

// WithConcurrency sets how many handler goroutines process messages.
func WithConcurrency(n int) ConsumeOption {
	return func(o *consumeOptions) { o.concurrency = n }
}

// WithMaxInFlight limits unacknowledged messages (NSQ, Pub/Sub).
func WithMaxInFlight(n int) ConsumeOption {
	return func(o *consumeOptions) { o.maxInFlight = n }
}

// WithAutoAck acks after a nil handler return and nacks after an error,
// unless the handler already responded.
func WithAutoAck(autoAck bool) ConsumeOption {
	return func(o *consumeOptions) { o.autoAck = autoAck }
}
