package models

import "time"

// Match is an immutable record of one decisive head-to-head result.
type Match struct {
	ID          int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	WinnerID    int64 `json:"winner_id" gorm:"not null;index"`
	LoserID     int64 `json:"loser_id" gorm:"not null;index"`
	WinnerScore int   `json:"winner_score" gorm:"not null;check:chk_matches_scores,winner_score >= loser_score AND loser_score >= 0"`
	LoserScore  int   `json:"loser_score" gorm:"not null"`

	// Rating trail, kept so a match can be explained later
	WinnerMuBefore float64 `json:"winner_mu_before"`
	WinnerMuAfter  float64 `json:"winner_mu_after"`
	LoserMuBefore  float64 `json:"loser_mu_before"`
	LoserMuAfter   float64 `json:"loser_mu_after"`

	Added time.Time `json:"added" gorm:"column:added;autoCreateTime;index"`

	Winner *Player `json:"winner,omitempty" gorm:"foreignKey:WinnerID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Loser  *Player `json:"loser,omitempty" gorm:"foreignKey:LoserID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}
