package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cycle     *Cycle
	interval  time.Duration
	serialize bool
	cron      *cron.Cron
	entryID   cron.EntryID
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	cycleMu   sync.Mutex
}

// NewScheduler runs cycle every interval. With serialize set, at most one
// cycle (scheduled or manual) runs at a time.
func NewScheduler(cycle *Cycle, interval time.Duration, serialize bool) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	logger := cronLogger{}

	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	return &Scheduler{
		cycle:     cycle,
		interval:  interval,
		serialize: serialize,
		cron:      c,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start registers the interval job, starts cron and kicks off the first
// cycle immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("invalid scheduler interval: %s", s.interval)
	}

	id, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.runCycle)
	if err != nil {
		return fmt.Errorf("failed to schedule ingestion cycle: %w", err)
	}
	s.entryID = id

	s.cron.Start()

	// The wrapped job shares the skip-if-running guard with scheduled runs.
	startup := s.cron.Entry(id).WrappedJob
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		startup.Run()
	}()

	slog.Info("Scheduler started", "interval", s.interval, "serialize_cycles", s.serialize)

	return nil
}

// Stop cancels in-flight cycles and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	slog.Info("Scheduler stopped")
}

// Trigger starts a cycle in the background and returns its task id without
// waiting. It may overlap a scheduled cycle unless cycles are serialized.
func (s *Scheduler) Trigger() string {
	task := NewIngestCycleTask(s.cycle)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Manual task panicked", "type", string(task.GetType()), "id", task.GetID(), "error", fmt.Errorf("panic: %v", r))
			}
		}()
		s.executeTask(task)
	}()

	slog.Info("Manual ingestion cycle triggered", "task_id", task.GetID())

	return task.GetID()
}

func (s *Scheduler) runCycle() {
	s.executeTask(NewIngestCycleTask(s.cycle))
}

func (s *Scheduler) executeTask(task TaskInterface) {
	if s.serialize {
		s.cycleMu.Lock()
		defer s.cycleMu.Unlock()
	}

	if s.ctx.Err() != nil {
		slog.Debug("Scheduler stopped, skipping task", "type", string(task.GetType()), "id", task.GetID())
		return
	}

	task.Start()

	if err := task.Execute(s.ctx); err != nil {
		slog.Error("Task execution failed", "type", string(task.GetType()), "id", task.GetID(), "duration", task.GetDuration(), "error", err)
	}
}

// cronLogger routes cron's internal logging to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
