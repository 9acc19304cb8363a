package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrSchedulerStarted is returned when Start is called twice.
var ErrSchedulerStarted = errors.New("scheduler already started")

// ScheduledTask is a job run on a fixed cadence.
type ScheduledTask struct {
	Name       string
	Interval   time.Duration
	RunOnStart bool
	Run        func(ctx context.Context) error
}

// Scheduler runs a set of tasks until stopped. Task errors are logged and do
// not stop the other tasks.
type Scheduler struct {
	BaseService
	tasks []ScheduledTask

	mu     sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewScheduler creates a scheduler for tasks. Nothing runs until Start.
func NewScheduler(logger *slog.Logger, tasks ...ScheduledTask) *Scheduler {
	return &Scheduler{
		BaseService: BaseService{Logger: logger},
		tasks:       tasks,
	}
}

// Start launches one goroutine per task. The tasks stop when ctx is done or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	for _, task := range s.tasks {
		if task.Interval <= 0 {
			return fmt.Errorf("task %q: interval must be positive", task.Name)
		}
		if task.Run == nil {
			return fmt.Errorf("task %q: run func is required", task.Name)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.group != nil {
		return ErrSchedulerStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(ctx)
	for _, task := range s.tasks {
		group.Go(func() error {
			s.loop(groupCtx, task)
			return nil
		})
	}
	s.cancel = cancel
	s.group = group
	return nil
}

func (s *Scheduler) loop(ctx context.Context, task ScheduledTask) {
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	if task.RunOnStart {
		s.runOnce(ctx, task)
	}
	for {
		select {
		case <-ctx.Done():
			s.LogDebug(ctx, "Scheduled task stopped", slog.String("task", task.Name))
			return
		case <-ticker.C:
			s.runOnce(ctx, task)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, task ScheduledTask) {
	if ctx.Err() != nil {
		return
	}
	if err := task.Run(ctx); err != nil {
		s.LogError(ctx, err, "Scheduled task failed", slog.String("task", task.Name))
	}
}

// Stop cancels every task and waits for the running ones to return. It is
// safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, group := s.cancel, s.group
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	_ = group.Wait()
}
