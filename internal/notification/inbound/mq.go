package inbound

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/paydota/internal/pkg/config"
	"github.com/shandysiswandi/paydota/internal/pkg/goroutine"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/shandysiswandi/paydota/internal/pkg/messaging"
	"github.com/shandysiswandi/paydota/internal/pkg/uid"
	"github.com/shandysiswandi/paydota/internal/shared/event"
)

type consumer struct {
	name    string
	topic   string // destination the publisher sends to
	handler messaging.Handler
}

func consumers(h *MQHandler) []consumer {
	return []consumer{
		{
			name:    event.OTPIssuedConsumerNotification,
			topic:   event.OTPIssuedDestination,
			handler: h.OTPIssuedNotification,
		},
		{
			name:    event.OTPVerifiedConsumerNotification,
			topic:   event.OTPVerifiedDestination,
			handler: h.OTPVerifiedNotification,
		},
	}
}

// RegisterMQConsumer starts one goroutine per enabled consumer. The consumer
// name doubles as the NSQ channel, NATS queue group, Kafka group and Pub/Sub
// subscription.
func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Consumer,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")
	concurrency := max(cfg.GetInt("modules.notification.consumer_concurrency"), 1)

	for _, c := range consumers(mqHandler) {
		if !lo.Contains(enableConsumerNames, c.name) {
			continue
		}

		routine.Go(ctx, "consumer."+c.name, func(pCtx context.Context) error {
			slog.InfoContext(ctx, "Running job for handling consumer", "consumer", c.name, "topic", c.topic)
			return messenger.Consume(pCtx,
				c.topic,
				c.handler,
				messaging.WithGroup(c.name),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(concurrency),
				messaging.WithMaxInFlight(concurrency),
			)
		})
	}
}
