package messaging

import (
	"context"
	"errors"
	"testing"
)

type ackCounter struct {
	acks, nacks int
}

func (c *ackCounter) delivery() *delivery {
	return &delivery{
		id:      "1",
		source:  "otp_issued",
		body:    []byte(`{}`),
		headers: map[string]string{"cID": "abc"},
		ack:     func(context.Context) error { c.acks++; return nil },
		nack:    func(context.Context) error { c.nacks++; return nil },
	}
}

func TestDispatch_AutoAck(t *testing.T) {
	tests := []struct {
		name      string
		handler   Handler
		autoAck   bool
		wantErr   bool
		wantAcks  int
		wantNacks int
	}{
		{
			name:     "success acks",
			handler:  func(context.Context, Message) error { return nil },
			autoAck:  true,
			wantAcks: 1,
		},
		{
			name:      "error nacks",
			handler:   func(context.Context, Message) error { return errors.New("retry later") },
			autoAck:   true,
			wantErr:   true,
			wantNacks: 1,
		},
		{
			name:      "panic nacks",
			handler:   func(context.Context, Message) error { panic("boom") },
			autoAck:   true,
			wantErr:   true,
			wantNacks: 1,
		},
		{
			name:    "manual mode leaves message alone",
			handler: func(context.Context, Message) error { return nil },
		},
		{
			name: "handler response wins",
			handler: func(ctx context.Context, msg Message) error {
				if err := msg.Nack(ctx); err != nil {
					return err
				}
				return nil
			},
			autoAck:   true,
			wantNacks: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			var c ackCounter
			d := c.delivery()

			// Act
			err := dispatch(context.Background(), "test", tt.handler, d, tt.autoAck)

			// Assert
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if c.acks != tt.wantAcks || c.nacks != tt.wantNacks {
				t.Fatalf("acks=%d nacks=%d, want %d/%d", c.acks, c.nacks, tt.wantAcks, tt.wantNacks)
			}
		})
	}
}

func TestDelivery_RespondsOnce(t *testing.T) {
	var c ackCounter
	d := c.delivery()

	_ = d.Ack(context.Background())
	_ = d.Nack(context.Background())
	_ = d.Ack(context.Background())

	if c.acks != 1 || c.nacks != 0 {
		t.Fatalf("acks=%d nacks=%d", c.acks, c.nacks)
	}
	if d.Header("cID") != "abc" || d.Header("missing") != "" {
		t.Fatalf("unexpected headers %v", d.Headers())
	}
}

func TestNSQFrame(t *testing.T) {
	raw, err := encodeNSQ(OutgoingMessage{Body: []byte(`{"event_id":"e1"}`), Headers: map[string]string{"cID": "c1"}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	body, headers := decodeNSQ(raw)
	if string(body) != `{"event_id":"e1"}` || headers["cID"] != "c1" {
		t.Fatalf("decoded body=%s headers=%v", body, headers)
	}

	body, headers = decodeNSQ([]byte("plain text"))
	if string(body) != "plain text" || len(headers) != 0 {
		t.Fatalf("foreign body=%s headers=%v", body, headers)
	}
}

func TestNewConsumeOptions_Defaults(t *testing.T) {
	co := newConsumeOptions(WithGroup("notification"), WithConcurrency(0), nil)

	if co.group != "notification" || co.concurrency != 1 || co.maxInFlight != 1 || co.autoAck {
		t.Fatalf("unexpected options %+v", co)
	}

	co = newConsumeOptions(WithConcurrency(8), WithMaxInFlight(2))
	if co.maxInFlight != 8 {
		t.Fatalf("maxInFlight = %d, want raised to concurrency", co.maxInFlight)
	}
}

func TestNewFromDriver(t *testing.T) {
	if _, err := NewFromDriver(context.Background(), "rabbitmq", FactoryOptions{}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("err = %v", err)
	}
	if _, err := NewFromDriver(context.Background(), "kafka", FactoryOptions{}); !errors.Is(err, ErrKafkaBrokersRequired) {
		t.Fatalf("err = %v", err)
	}
	if _, err := NewFromDriver(context.Background(), " NATS ", FactoryOptions{}); !errors.Is(err, ErrNATSURLRequired) {
		t.Fatalf("err = %v", err)
	}

	m, err := NewFromDriver(context.Background(), "nsq", FactoryOptions{})
	if err != nil {
		t.Fatalf("nsq without producer: %v", err)
	}
	if _, err := m.Publish(context.Background(), "t", OutgoingMessage{}); !errors.Is(err, ErrNSQProducerAddrRequired) {
		t.Fatalf("publish err = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
