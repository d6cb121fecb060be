// workers/snapshot_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"climber/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

const (
	LatestSnapshotKey = "leaderboard/latest.json"
	snapshotPrefix    = "leaderboard/"
)

// SnapshotStore receives rendered leaderboard snapshots.
type SnapshotStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
}

// Snapshot is the document written to object storage.
type Snapshot struct {
	GeneratedAt time.Time                   `json:"generated_at"`
	Entries     []services.LeaderboardEntry `json:"entries"`
}

// LeaderboardSnapshotWorker periodically publishes the leaderboard to object storage.
type LeaderboardSnapshotWorker struct {
	leaderboard *services.LeaderboardService
	store       SnapshotStore
	interval    time.Duration
	now         func() time.Time
	log         zerolog.Logger

	scheduler gocron.Scheduler
}

func NewLeaderboardSnapshotWorker(leaderboard *services.LeaderboardService, store SnapshotStore, interval time.Duration, logger zerolog.Logger) *LeaderboardSnapshotWorker {
	return &LeaderboardSnapshotWorker{
		leaderboard: leaderboard,
		store:       store,
		interval:    interval,
		now:         time.Now,
		log:         logger.With().Str("component", "snapshot").Logger(),
	}
}

// Start schedules the export job and returns once the scheduler runs.
func (w *LeaderboardSnapshotWorker) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			if err := w.RunOnce(ctx); err != nil {
				w.log.Error().Err(err).Msg("[SNAPSHOT] ❌ export failed")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule snapshot job: %w", err)
	}

	w.scheduler = sched
	sched.Start()
	w.log.Info().Dur("interval", w.interval).Msg("[SNAPSHOT] 🔁 leaderboard snapshots scheduled")
	return nil
}

func (w *LeaderboardSnapshotWorker) Stop() error {
	if w.scheduler == nil {
		return nil
	}
	w.log.Info().Msg("[SNAPSHOT] ⏹️ stopping")
	return w.scheduler.Shutdown()
}

// RunOnce renders the current leaderboard and uploads it twice: as the latest
// snapshot and under a timestamped key.
func (w *LeaderboardSnapshotWorker) RunOnce(ctx context.Context) error {
	board, err := w.leaderboard.Leaderboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to build leaderboard: %w", err)
	}

	snap := Snapshot{GeneratedAt: w.now().UTC(), Entries: board}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	keys := []string{
		LatestSnapshotKey,
		snapshotPrefix + snap.GeneratedAt.Format(time.RFC3339) + ".json",
	}
	for _, key := range keys {
		if err := w.store.Put(ctx, key, "application/json", data); err != nil {
			return err
		}
	}

	w.log.Info().Int("players", len(board)).Str("key", keys[1]).Msg("[SNAPSHOT] ✅ leaderboard exported")
	return nil
}
