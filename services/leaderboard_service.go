package services

import (
	"context"
	"sort"

	"climber/models"

	"gorm.io/gorm"
)

// LeaderboardEntry is one ranked row of the ladder.
type LeaderboardEntry struct {
	Position     int     `json:"position"`
	PlayerID     int64   `json:"player_id"`
	Name         string  `json:"name"`
	Points       float64 `json:"points"`
	Mu           float64 `json:"mu"`
	Sigma        float64 `json:"sigma"`
	GamesWon     int64   `json:"games_won"`
	GamesLost    int64   `json:"games_lost"`
	Streak       int64   `json:"streak"`
	GoalsScored  int64   `json:"goals_scored"`
	GoalsAgainst int64   `json:"goals_against"`
}

type LeaderboardService struct {
	Players *PlayerRepository
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{Players: NewPlayerRepository(db)}
}

// Leaderboard ranks every active player from the committed state.
func (s *LeaderboardService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	players, err := s.Players.Active(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(players), nil
}

// PlayerPosition returns the 1-based position of an active player, or 0 if absent.
func (s *LeaderboardService) PlayerPosition(ctx context.Context, playerID int64) (int, error) {
	board, err := s.Leaderboard(ctx)
	if err != nil {
		return 0, err
	}
	for _, e := range board {
		if e.PlayerID == playerID {
			return e.Position, nil
		}
	}
	return 0, nil
}

// Rank orders players by points desc, win/loss ratio asc, games played desc,
// creation asc and finally id asc.
func Rank(players []models.Player) []LeaderboardEntry {
	sorted := make([]models.Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rankedBefore(&sorted[i], &sorted[j])
	})

	entries := make([]LeaderboardEntry, 0, len(sorted))
	for i := range sorted {
		p := &sorted[i]
		entries = append(entries, LeaderboardEntry{
			Position:     i + 1,
			PlayerID:     p.ID,
			Name:         p.Name,
			Points:       p.Exposure(),
			Mu:           p.Mu,
			Sigma:        p.Sigma,
			GamesWon:     p.GamesWon,
			GamesLost:    p.GamesLost,
			Streak:       p.Streak,
			GoalsScored:  p.GoalsScored,
			GoalsAgainst: p.GoalsAgainst,
		})
	}
	return entries
}

func rankedBefore(a, b *models.Player) bool {
	if ea, eb := a.Exposure(), b.Exposure(); ea != eb {
		return ea > eb
	}
	// ascending ratio is the historical ladder order, kept as is
	if ra, rb := a.WinLossRatio(), b.WinLossRatio(); ra != rb {
		return ra < rb
	}
	if ga, gb := a.GamesPlayed(), b.GamesPlayed(); ga != gb {
		return ga > gb
	}
	if !a.Created.Equal(b.Created) {
		return a.Created.Before(b.Created)
	}
	return a.ID < b.ID
}
