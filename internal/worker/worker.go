package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"blog-publisher/internal/infra/logger"
	"blog-publisher/internal/usecase"
)

// ScheduleWorker triggers one publish run per day at a fixed UTC hour.
// A run that fails is reported and forgotten; the next attempt is the
// next day's trigger.
type ScheduleWorker struct {
	publishUsecase usecase.PublishPostUsecase
	publishHour    int
	runTimeout     time.Duration
	logger         *slog.Logger
	now            func() time.Time
	stopChan       chan struct{}

	runMu      sync.Mutex // serializes publish runs
	stateMu    sync.RWMutex
	lastResult *usecase.PublishResult
}

func NewScheduleWorker(
	publishUsecase usecase.PublishPostUsecase,
	publishHour int,
	runTimeout time.Duration,
	log *slog.Logger,
) *ScheduleWorker {
	return &ScheduleWorker{
		publishUsecase: publishUsecase,
		publishHour:    publishHour,
		runTimeout:     runTimeout,
		logger:         log,
		now:            time.Now,
		stopChan:       make(chan struct{}),
	}
}

func (w *ScheduleWorker) Start() {
	w.logger.Info("Starting ScheduleWorker", "publish_hour_utc", w.publishHour)
	go w.run()
}

func (w *ScheduleWorker) Stop() {
	w.logger.Info("Stopping ScheduleWorker")
	close(w.stopChan)
}

func (w *ScheduleWorker) run() {
	for {
		wait := time.Until(w.NextRun(w.now()))
		w.logger.Info("Next publish run scheduled", "in", wait.Round(time.Second).String())

		timer := time.NewTimer(wait)
		select {
		case <-w.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			w.RunOnce("schedule")
		}
	}
}

// RunOnce executes one publish run under the configured timeout. Runs
// are serialized so a manual trigger cannot overlap the scheduled one.
func (w *ScheduleWorker) RunOnce(trigger string) *usecase.PublishResult {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), w.runTimeout)
	defer cancel()

	ctx = logger.WithRunID(ctx, uuid.NewString())
	ctx = logger.WithTrigger(ctx, trigger)

	result := w.publishUsecase.Execute(ctx, usecase.PublishInput{Trigger: trigger})
	if !result.Success {
		w.logger.Error("Publish run failed", "day", result.Day, "error", result.Error)
	}

	w.stateMu.Lock()
	w.lastResult = result
	w.stateMu.Unlock()
	return result
}

// LastResult returns the outcome of the most recent run, or nil when
// no run has happened yet.
func (w *ScheduleWorker) LastResult() *usecase.PublishResult {
	w.stateMu.RLock()
	defer w.stateMu.RUnlock()
	return w.lastResult
}

// NextRun returns the next publish instant strictly after now: today at
// the publish hour if that is still ahead, otherwise tomorrow.
func (w *ScheduleWorker) NextRun(now time.Time) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), w.publishHour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
