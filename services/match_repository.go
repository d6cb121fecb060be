package services

import (
	"context"

	"climber/models"

	"gorm.io/gorm"
)

const (
	DefaultMatchLimit = 20
	MaxMatchLimit     = 100
)

// MatchRepository is the append-only match store.
type MatchRepository struct {
	DB *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{DB: db}
}

func (r *MatchRepository) WithTx(tx *gorm.DB) *MatchRepository {
	return &MatchRepository{DB: tx}
}

func (r *MatchRepository) Create(ctx context.Context, m *models.Match) error {
	// associations are written by the player repository, never through the match
	return r.DB.WithContext(ctx).Omit("Winner", "Loser").Create(m).Error
}

// Recent returns the newest matches first, with both players loaded even if deleted.
func (r *MatchRepository) Recent(ctx context.Context, limit int) ([]models.Match, error) {
	matches := []models.Match{}
	err := r.withPlayers(ctx).
		Order("added DESC").Order("id DESC").
		Limit(clampLimit(limit)).
		Find(&matches).Error
	return matches, err
}

// ForPlayer returns the newest matches the player took part in.
func (r *MatchRepository) ForPlayer(ctx context.Context, playerID int64, limit int) ([]models.Match, error) {
	matches := []models.Match{}
	err := r.withPlayers(ctx).
		Where("winner_id = ? OR loser_id = ?", playerID, playerID).
		Order("added DESC").Order("id DESC").
		Limit(clampLimit(limit)).
		Find(&matches).Error
	return matches, err
}

// CountFor returns how many matches a player won and lost.
func (r *MatchRepository) CountFor(ctx context.Context, playerID int64) (won, lost int64, err error) {
	db := r.DB.WithContext(ctx).Model(&models.Match{})
	if err = db.Where("winner_id = ?", playerID).Count(&won).Error; err != nil {
		return 0, 0, err
	}
	db = r.DB.WithContext(ctx).Model(&models.Match{})
	if err = db.Where("loser_id = ?", playerID).Count(&lost).Error; err != nil {
		return 0, 0, err
	}
	return won, lost, nil
}

func (r *MatchRepository) withPlayers(ctx context.Context) *gorm.DB {
	unscoped := func(db *gorm.DB) *gorm.DB { return db.Unscoped() }
	return r.DB.WithContext(ctx).
		Preload("Winner", unscoped).
		Preload("Loser", unscoped)
}

func clampLimit(limit int) int {
	if limit < 1 {
		return DefaultMatchLimit
	}
	if limit > MaxMatchLimit {
		return MaxMatchLimit
	}
	return limit
}
