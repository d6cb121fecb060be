package services

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"climber/models"
	"climber/rating"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := models.Open(models.DriverSQLite, filepath.Join(t.TempDir(), "ladder.db"), false)
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestServices(t *testing.T) (*gorm.DB, *PlayerService, *ResultService) {
	t.Helper()
	db := newTestDB(t)
	model := rating.DefaultModel()
	return db, NewPlayerService(db, model, zerolog.Nop()), NewResultService(db, model, zerolog.Nop())
}

func mustCreate(t *testing.T, ps *PlayerService, name string) *models.Player {
	t.Helper()
	p, err := ps.CreatePlayer(context.Background(), name)
	require.NoError(t, err)
	return p
}

func reload(t *testing.T, db *gorm.DB, id int64) models.Player {
	t.Helper()
	var p models.Player
	require.NoError(t, db.Unscoped().First(&p, id).Error)
	return p
}

func submission(one, two *models.Player, scoreOne, scoreTwo int) Submission {
	return Submission{
		PlayerOne: strconv.FormatInt(one.ID, 10),
		PlayerTwo: strconv.FormatInt(two.ID, 10),
		ScoreOne:  strconv.Itoa(scoreOne),
		ScoreTwo:  strconv.Itoa(scoreTwo),
	}
}

func countMatches(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Match{}).Count(&n).Error)
	return n
}
