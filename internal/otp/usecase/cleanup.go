package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/paydota/internal/otp/entity"
)

// Cleanup removes expired and used records and returns how many went. Each
// key from the snapshot is re-checked under its lock, so a code re-issued
// meanwhile is left alone.
func (s *Usecase) Cleanup(ctx context.Context) int {
	ctx, span := s.startSpan(ctx, "Cleanup")
	defer span.End()

	now := s.clock.Now()
	removed := 0
	for _, key := range s.store.Keys() {
		s.store.Apply(key, func(rec *entity.Record) entity.Mutation {
			if rec == nil || !rec.Sweepable(now) {
				return entity.MutationNone
			}
			removed++
			return entity.MutationDelete
		})
	}

	if removed > 0 {
		slog.InfoContext(ctx, "otp sweep removed records", "count", removed)
		s.sweptCounter.Add(ctx, int64(removed))
	}

	return removed
}

// Start launches the periodic sweep. Calling it again while running is a
// no-op.
func (s *Usecase) Start(ctx context.Context) {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	if !s.sweeping.CompareAndSwap(false, true) {
		return
	}

	// The job context is never cancelled, so the manager always runs the job
	// and done is always closed. Stop ends the loop through sweepCtx.
	jobCtx := context.WithoutCancel(ctx)
	sweepCtx, cancel := context.WithCancel(jobCtx)
	done := make(chan struct{})
	s.sweepCancel = cancel
	s.sweepDone = done

	run := func(context.Context) error {
		defer close(done)
		s.sweepLoop(sweepCtx)
		return nil
	}

	if s.goroutine == nil {
		go func() { _ = run(jobCtx) }()
		return
	}
	if !s.goroutine.Go(jobCtx, "otp.sweeper", run) {
		slog.ErrorContext(ctx, "failed to start otp sweeper")
		cancel()
		close(done)
		s.sweeping.Store(false)
	}
}

// Stop halts the sweep and waits for an in-flight pass to finish. Safe to
// call when not running.
func (s *Usecase) Stop() {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	if !s.sweeping.CompareAndSwap(true, false) {
		return
	}

	s.sweepCancel()
	<-s.sweepDone
	s.sweepCancel = nil
	s.sweepDone = nil
}

// Running reports whether the sweeper is active.
func (s *Usecase) Running() bool {
	return s.sweeping.Load()
}

func (s *Usecase) sweepLoop(ctx context.Context) {
	tick := s.sweepTrigger
	if tick == nil {
		ticker := time.NewTicker(SweepInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	slog.InfoContext(ctx, "otp sweeper started", "interval", SweepInterval.String())
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "otp sweeper stopped")
			return
		case <-tick:
			s.Cleanup(ctx)
		}
	}
}
