// Package goroutine runs background jobs (broker consumers, the OTP sweeper)
// under a shared concurrency cap with panic recovery, and lets the app wait
// for all of them at shutdown.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/paydota/internal/pkg/stacktrace"
	"go.uber.org/atomic"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager gets a
// non-positive limit.
const DefaultMaxGoroutine int = 100

// Manager runs named jobs with a concurrency limit and collects their errors.
type Manager struct {
	wg      sync.WaitGroup
	sema    chan struct{}
	running atomic.Int64

	mu   sync.Mutex
	errs []error

	// stateMu is held for reading from the closed check until wg.Add, so
	// Wait can never race with a late Go.
	stateMu sync.RWMutex
	closed  bool
}

// NewManager creates a Manager allowing at most maxGoroutine concurrent jobs.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go starts f in a new goroutine. It reports false when the manager is
// closed or at capacity, in which case f never runs.
func (g *Manager) Go(ctx context.Context, name string, f func(ctx context.Context) error) bool {
	if g == nil {
		return false
	}

	g.stateMu.RLock()
	defer g.stateMu.RUnlock()

	if g.closed {
		slog.WarnContext(ctx, "goroutine manager is closed, job skipped", "job", name)
		return false
	}

	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "maximum goroutine limit reached, job skipped", "job", name)
		return false
	}

	g.wg.Add(1)
	g.running.Inc()
	go g.run(ctx, name, f)

	return true
}

func (g *Manager) run(ctx context.Context, name string, f func(ctx context.Context) error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic occurred in goroutine", "job", name, "because", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic occurred in goroutine", "job", name, "because", rvr, "stack", string(stack))
			}
			g.appendErr(fmt.Errorf("goroutine %s panicked: %v", name, rvr))
		}

		g.running.Dec()
		<-g.sema
		g.wg.Done()
	}()

	if err := ctx.Err(); err != nil {
		slog.WarnContext(ctx, "goroutine canceled before start", "job", name, "because", err)
		return
	}

	if err := f(ctx); err != nil && !errors.Is(err, context.Canceled) {
		g.appendErr(fmt.Errorf("goroutine %s: %w", name, err))
	}
}

func (g *Manager) appendErr(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// Running reports how many jobs are currently executing.
func (g *Manager) Running() int64 {
	if g == nil {
		return 0
	}
	return g.running.Load()
}

// Wait closes the manager to new jobs, blocks until every started job
// returns and joins their errors. Context cancellation is not an error.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.stateMu.Lock()
	g.closed = true
	g.stateMu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
