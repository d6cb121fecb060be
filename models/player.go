// models/player.go
package models

import (
	"time"

	"climber/rating"

	"gorm.io/gorm"
)

// PlayerState tags whether a player still takes part in the ladder.
type PlayerState int

const (
	PlayerActive PlayerState = iota
	PlayerDeleted
)

func (s PlayerState) String() string {
	switch s {
	case PlayerActive:
		return "active"
	case PlayerDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Player is a registered ladder participant with its skill belief and running stats.
type Player struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"not null;size:64"`
	// Slug is the comparable form of Name; unique among active players. It is unsized
	// since transliteration can make it far longer than Name.
	Slug string `json:"slug" gorm:"not null;uniqueIndex:idx_players_active_slug,where:deleted IS NULL"`

	// 🎯 Skill belief
	Mu    float64 `json:"mu" gorm:"not null"`
	Sigma float64 `json:"sigma" gorm:"not null"`

	// 📊 Cumulative stats
	GamesWon     int64 `json:"games_won" gorm:"not null;default:0"`
	GamesLost    int64 `json:"games_lost" gorm:"not null;default:0"`
	GoalsScored  int64 `json:"goals_scored" gorm:"not null;default:0"`
	GoalsAgainst int64 `json:"goals_against" gorm:"not null;default:0"`
	Streak       int64 `json:"streak" gorm:"not null;default:0"` // >0 wins in a row, <0 losses in a row

	Created time.Time      `json:"created" gorm:"column:created;autoCreateTime"`
	Deleted gorm.DeletedAt `json:"-" gorm:"column:deleted;index"`
}

// State reports whether the player is active or soft deleted.
func (p *Player) State() PlayerState {
	if p.Deleted.Valid {
		return PlayerDeleted
	}
	return PlayerActive
}

func (p *Player) Belief() rating.Belief {
	return rating.Belief{Mu: p.Mu, Sigma: p.Sigma}
}

func (p *Player) SetBelief(b rating.Belief) {
	p.Mu = b.Mu
	p.Sigma = b.Sigma
}

// Exposure is the conservative rating shown as points on the leaderboard.
func (p *Player) Exposure() float64 {
	return p.Belief().Exposure()
}

func (p *Player) GamesPlayed() int64 {
	return p.GamesWon + p.GamesLost
}

// WinLossRatio divides wins by losses, counting zero losses as one.
func (p *Player) WinLossRatio() float64 {
	losses := p.GamesLost
	if losses < 1 {
		losses = 1
	}
	return float64(p.GamesWon) / float64(losses)
}

// PlayerSummary is the {id, name} projection used by selection lists.
type PlayerSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
