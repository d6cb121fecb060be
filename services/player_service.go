package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"climber/models"
	"climber/rating"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const (
	MaxNameLength = 64

	playersComponent = "players"
)

// PlayerService registers, removes and describes players.
type PlayerService struct {
	DB          *gorm.DB
	Players     *PlayerRepository
	Matches     *MatchRepository
	Leaderboard *LeaderboardService
	Model       rating.Model
	Log         zerolog.Logger
}

func NewPlayerService(db *gorm.DB, model rating.Model, logger zerolog.Logger) *PlayerService {
	return &PlayerService{
		DB:          db,
		Players:     NewPlayerRepository(db),
		Matches:     NewMatchRepository(db),
		Leaderboard: NewLeaderboardService(db),
		Model:       model,
		Log:         logger.With().Str("component", playersComponent).Logger(),
	}
}

// PlayerProfile is a player with its ladder position and latest matches.
type PlayerProfile struct {
	Player        *models.Player `json:"player"`
	Position      int            `json:"position"`
	Points        float64        `json:"points"`
	RecentMatches []ProfileMatch `json:"recent_matches"`
}

// ProfileMatch is a past match seen from the profile owner's side. WinProbability is
// the owner's current chance of beating that opponent, left out once the opponent is
// removed from the ladder.
type ProfileMatch struct {
	models.Match
	Won            bool     `json:"won"`
	OpponentState  string   `json:"opponent_state"`
	WinProbability *float64 `json:"win_probability,omitempty"`
}

// CreatePlayer registers a new player with the default prior.
func (s *PlayerService) CreatePlayer(ctx context.Context, name string) (*models.Player, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, invalidPlayer("a player needs a name")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, invalidPlayer("names are limited to %d characters", MaxNameLength)
	}
	key := slug.Make(name)
	if key == "" {
		return nil, invalidPlayer("name %q has no letters or digits", name)
	}

	prior := s.Model.Prior()
	p := &models.Player{Name: name, Slug: key, Mu: prior.Mu, Sigma: prior.Sigma}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		players := s.Players.WithTx(tx)
		taken, err := players.SlugTaken(ctx, key)
		if err != nil {
			return err
		}
		if taken {
			return nameTaken(name)
		}
		return players.Create(ctx, p)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = nameTaken(name)
		}
		s.logger(ctx).Warn().Err(err).Str("name", name).Msg("[PLAYERS] could not create player")
		return nil, err
	}

	s.logger(ctx).Info().Int64("player_id", p.ID).Str("name", p.Name).Msg("[PLAYERS] 🆕 player created")
	return p, nil
}

// DeletePlayer soft deletes a player; historical matches keep referencing it.
func (s *PlayerService) DeletePlayer(ctx context.Context, id int64) error {
	if err := s.Players.SoftDelete(ctx, id); err != nil {
		if isNotFound(err) {
			return invalidPlayer("player %d does not exist", id)
		}
		return err
	}
	s.logger(ctx).Info().Int64("player_id", id).Msg("[PLAYERS] 🗑️ player removed")
	return nil
}

// ListPlayers is the selection list contract: {id, name} of active players.
func (s *PlayerService) ListPlayers(ctx context.Context, query string, limit int) ([]models.PlayerSummary, error) {
	return s.Players.Summaries(ctx, query, limit)
}

// GetProfile returns an active player with position and recent matches.
func (s *PlayerService) GetProfile(ctx context.Context, id int64, matchLimit int) (*PlayerProfile, error) {
	p, err := s.Players.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, invalidPlayer("player %d does not exist", id)
		}
		return nil, err
	}

	position, err := s.Leaderboard.PlayerPosition(ctx, id)
	if err != nil {
		return nil, err
	}
	matches, err := s.Matches.ForPlayer(ctx, id, matchLimit)
	if err != nil {
		return nil, err
	}

	return &PlayerProfile{
		Player:        p,
		Position:      position,
		Points:        p.Exposure(),
		RecentMatches: s.profileMatches(p, matches),
	}, nil
}

func (s *PlayerService) profileMatches(owner *models.Player, matches []models.Match) []ProfileMatch {
	out := make([]ProfileMatch, 0, len(matches))
	for _, m := range matches {
		pm := ProfileMatch{Match: m, Won: m.WinnerID == owner.ID}
		opponent := m.Loser
		if !pm.Won {
			opponent = m.Winner
		}
		if opponent != nil {
			state := opponent.State()
			pm.OpponentState = state.String()
			if state == models.PlayerActive {
				p := s.Model.WinProbability(owner.Belief(), opponent.Belief())
				pm.WinProbability = &p
			}
		}
		out = append(out, pm)
	}
	return out
}

func (s *PlayerService) logger(ctx context.Context) *zerolog.Logger {
	return logFor(ctx, s.Log, playersComponent)
}

func normalizeName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), " ")
}
