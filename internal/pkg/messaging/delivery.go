package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/paydota/internal/pkg/stacktrace"
)

type ackFunc func(ctx context.Context) error

func noopAck(context.Context) error { return nil }

// delivery is the single Message implementation shared by all drivers. Only
// the first Ack or Nack reaches the broker.
type delivery struct {
	id      string
	source  string
	body    []byte
	headers map[string]string
	ack     ackFunc
	nack    ackFunc

	mu        sync.Mutex
	responded bool
}

func (d *delivery) ID() string                 { return d.id }
func (d *delivery) Source() string             { return d.source }
func (d *delivery) Body() []byte               { return d.body }
func (d *delivery) Headers() map[string]string { return d.headers }
func (d *delivery) Header(key string) string   { return d.headers[key] }

func (d *delivery) Ack(ctx context.Context) error  { return d.respond(ctx, d.ack) }
func (d *delivery) Nack(ctx context.Context) error { return d.respond(ctx, d.nack) }

func (d *delivery) respond(ctx context.Context, fn ackFunc) error {
	d.mu.Lock()
	if d.responded {
		d.mu.Unlock()
		return nil
	}
	d.responded = true
	d.mu.Unlock()

	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (d *delivery) hasResponded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.responded
}

// dispatch runs handler with panic recovery and, when autoAck is set and the
// handler did not respond itself, acks on success and nacks on error. The
// handler error is returned for logging by the driver.
func dispatch(ctx context.Context, driver string, handler Handler, d *delivery, autoAck bool) error {
	herr := callHandler(ctx, driver, handler, d)

	if !autoAck || d.hasResponded() {
		return herr
	}

	var rerr error
	if herr == nil {
		rerr = d.Ack(ctx)
	} else {
		rerr = d.Nack(ctx)
	}
	if rerr != nil {
		slog.ErrorContext(ctx, "pkgmessage: respond to broker failed", "driver", driver, "source", d.source, "error", rerr)
	}
	return herr
}

func callHandler(ctx context.Context, driver string, handler Handler, d *delivery) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}
		stack := debug.Stack()
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", paths)
		} else {
			slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", string(stack))
		}
		err = fmt.Errorf("pkgmessage: panic in %s handler: %v", driver, rvr)
	}()

	return handler(ctx, d)
}
