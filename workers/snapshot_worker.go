// workers/snapshot_worker.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"rise-platform/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SnapshotSource produces the reports a snapshot captures.
type SnapshotSource interface {
	Dashboard(ctx context.Context) (*services.DashboardSummary, error)
	Overview(ctx context.Context) (*services.Overview, error)
}

// Snapshot is the document written to object storage.
type Snapshot struct {
	TakenAt   time.Time                  `json:"takenAt"`
	Dashboard *services.DashboardSummary `json:"dashboard"`
	Overview  *services.Overview         `json:"overview"`
}

// SnapshotWorker periodically exports the dashboard and overview reports.
// A failed run is logged and skipped; the next tick tries again.
type SnapshotWorker struct {
	source   SnapshotSource
	objects  services.ObjectStore
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	sched    gocron.Scheduler
	stopOnce sync.Once
}

func NewSnapshotWorker(source SnapshotSource, objects services.ObjectStore, interval time.Duration, logger *zap.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		source:   source,
		objects:  objects,
		interval: interval,
		logger:   logger.Named("snapshot_worker"),
		now:      time.Now,
	}
}

// Start schedules the export and stops the scheduler once ctx is done.
func (w *SnapshotWorker) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			if _, err := w.RunOnce(ctx); err != nil {
				w.logger.Error("snapshot failed", zap.Error(err))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("schedule snapshot job: %w", err)
	}

	w.sched = sched
	sched.Start()
	w.logger.Info("snapshot worker started", zap.Duration("interval", w.interval))

	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}

// Stop shuts the scheduler down. It is safe to call more than once.
func (w *SnapshotWorker) Stop() {
	if w.sched == nil {
		return
	}
	w.stopOnce.Do(func() {
		if err := w.sched.Shutdown(); err != nil {
			w.logger.Warn("snapshot scheduler shutdown", zap.Error(err))
		}
	})
}

// RunOnce takes one snapshot and returns the URL it was stored at.
func (w *SnapshotWorker) RunOnce(ctx context.Context) (string, error) {
	takenAt := w.now().UTC()

	dashboard, err := w.source.Dashboard(ctx)
	if err != nil {
		return "", err
	}
	overview, err := w.source.Overview(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(Snapshot{TakenAt: takenAt, Dashboard: dashboard, Overview: overview})
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := SnapshotKey(takenAt)
	url, err := w.objects.Put(ctx, key, bytes.NewReader(body), "application/json")
	if err != nil {
		return "", err
	}
	w.logger.Info("snapshot stored", zap.String("key", key), zap.String("url", url))
	return url, nil
}

// SnapshotKey returns snapshots/<YYYY-MM-DD>/<uuid>.json for the UTC day of t.
func SnapshotKey(t time.Time) string {
	return fmt.Sprintf("snapshots/%s/%s.json", t.UTC().Format(time.DateOnly), uuid.NewString())
}
