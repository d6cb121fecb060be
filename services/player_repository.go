package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"climber/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlayerRepository reads and writes player rows. Bind it to a transaction with WithTx.
type PlayerRepository struct {
	DB *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) *PlayerRepository {
	return &PlayerRepository{DB: db}
}

func (r *PlayerRepository) WithTx(tx *gorm.DB) *PlayerRepository {
	return &PlayerRepository{DB: tx}
}

// Get returns an active player.
func (r *PlayerRepository) Get(ctx context.Context, id int64) (*models.Player, error) {
	var p models.Player
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// LockPair loads two active players with row locks, always in ascending id order so
// concurrent submissions over the same pair queue instead of deadlocking.
func (r *PlayerRepository) LockPair(ctx context.Context, a, b int64) (*models.Player, *models.Player, error) {
	var players []models.Player
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", []int64{a, b}).
		Order("id ASC").
		Find(&players).Error
	if err != nil {
		return nil, nil, err
	}

	var pa, pb *models.Player
	for i := range players {
		switch players[i].ID {
		case a:
			pa = &players[i]
		case b:
			pb = &players[i]
		}
	}
	if pa == nil {
		return nil, nil, fmt.Errorf("player %d: %w", a, gorm.ErrRecordNotFound)
	}
	if pb == nil {
		return nil, nil, fmt.Errorf("player %d: %w", b, gorm.ErrRecordNotFound)
	}
	return pa, pb, nil
}

// SaveResult writes the rating and stats columns of an active player. Exactly one
// row must change, otherwise the player vanished underneath us.
func (r *PlayerRepository) SaveResult(ctx context.Context, p *models.Player) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Player{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"mu":            p.Mu,
			"sigma":         p.Sigma,
			"games_won":     p.GamesWon,
			"games_lost":    p.GamesLost,
			"goals_scored":  p.GoalsScored,
			"goals_against": p.GoalsAgainst,
			"streak":        p.Streak,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("player %d: expected 1 updated row, got %d", p.ID, res.RowsAffected)
	}
	return nil
}

func (r *PlayerRepository) Create(ctx context.Context, p *models.Player) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

// SlugTaken reports whether an active player already uses slug.
func (r *PlayerRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Player{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// SoftDelete marks an active player deleted; their matches stay untouched.
func (r *PlayerRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.DB.WithContext(ctx).Delete(&models.Player{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Active returns every active player in id order.
func (r *PlayerRepository) Active(ctx context.Context) ([]models.Player, error) {
	players := []models.Player{}
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&players).Error
	return players, err
}

// Summaries lists {id, name} of active players by name, optionally filtered by a
// case-insensitive substring.
func (r *PlayerRepository) Summaries(ctx context.Context, query string, limit int) ([]models.PlayerSummary, error) {
	db := r.DB.WithContext(ctx).Model(&models.Player{}).Select("id", "name").Order("name ASC").Order("id ASC")
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+q+"%")
	}
	if limit > 0 {
		db = db.Limit(limit)
	}

	summaries := []models.PlayerSummary{}
	if err := db.Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
