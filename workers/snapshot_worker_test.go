package workers

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"climber/models"
	"climber/rating"
	"climber/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (s *memoryStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[key] = data
	return nil
}

func (s *memoryStore) get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

func newLeaderboard(t *testing.T) *services.LeaderboardService {
	t.Helper()
	db, err := models.Open(models.DriverSQLite, filepath.Join(t.TempDir(), "ladder.db"), false)
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	ctx := context.Background()
	ps := services.NewPlayerService(db, rating.DefaultModel(), zerolog.Nop())
	rs := services.NewResultService(db, rating.DefaultModel(), zerolog.Nop())
	a, err := ps.CreatePlayer(ctx, "Jeppe")
	require.NoError(t, err)
	b, err := ps.CreatePlayer(ctx, "Mads")
	require.NoError(t, err)
	_, err = rs.SubmitResult(ctx, services.Submission{
		PlayerOne: "1", PlayerTwo: "2", ScoreOne: "10", ScoreTwo: "7",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), a.ID)
	require.Equal(t, int64(2), b.ID)

	return services.NewLeaderboardService(db)
}

func TestRunOnceUploadsSnapshots(t *testing.T) {
	store := &memoryStore{}
	w := NewLeaderboardSnapshotWorker(newLeaderboard(t), store, time.Minute, zerolog.Nop())
	w.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	require.NoError(t, w.RunOnce(context.Background()))

	latest, ok := store.get(LatestSnapshotKey)
	require.True(t, ok)
	stamped, ok := store.get("leaderboard/2024-05-06T07:08:09Z.json")
	require.True(t, ok)
	assert.Equal(t, latest, stamped)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(latest, &snap))
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, "Jeppe", snap.Entries[0].Name)
	assert.Equal(t, 1, snap.Entries[0].Position)
}

func TestRunOnceReportsStoreErrors(t *testing.T) {
	store := &memoryStore{err: errors.New("bucket gone")}
	w := NewLeaderboardSnapshotWorker(newLeaderboard(t), store, time.Minute, zerolog.Nop())

	err := w.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
}

func TestStartRunsImmediately(t *testing.T) {
	store := &memoryStore{}
	w := NewLeaderboardSnapshotWorker(newLeaderboard(t), store, time.Hour, zerolog.Nop())

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.Eventually(t, func() bool {
		_, ok := store.get(LatestSnapshotKey)
		return ok
	}, 5*time.Second, 20*time.Millisecond)
}
