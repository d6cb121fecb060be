package services

import (
	"context"
	"errors"
	"time"

	"climber/models"
	"climber/rating"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const resultComponent = "result"

// ResultService turns a submitted result into one committed match plus the two
// updated players.
type ResultService struct {
	DB      *gorm.DB
	Players *PlayerRepository
	Matches *MatchRepository
	Model   rating.Model
	Log     zerolog.Logger
}

func NewResultService(db *gorm.DB, model rating.Model, logger zerolog.Logger) *ResultService {
	return &ResultService{
		DB:      db,
		Players: NewPlayerRepository(db),
		Matches: NewMatchRepository(db),
		Model:   model,
		Log:     logger.With().Str("component", resultComponent).Logger(),
	}
}

// SubmitResult validates, rates and records a match. Either the match and both player
// updates are committed together, or nothing is written.
func (s *ResultService) SubmitResult(ctx context.Context, sub Submission) (*models.Match, error) {
	outcome, err := ResolveOutcome(sub)
	if err != nil {
		s.logger(ctx).Info().Err(err).Msg("[RESULT] submission rejected")
		return nil, err
	}

	var match *models.Match
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		players := s.Players.WithTx(tx)
		matches := s.Matches.WithTx(tx)

		winner, loser, err := players.LockPair(ctx, outcome.WinnerID, outcome.LoserID)
		if err != nil {
			if isNotFound(err) {
				return invalidPlayer("one of the players does not exist or was removed")
			}
			return persistenceConflict(err)
		}

		m := applyOutcome(s.Model, outcome, winner, loser)

		if err := matches.Create(ctx, m); err != nil {
			return persistenceConflict(err)
		}
		if err := players.SaveResult(ctx, winner); err != nil {
			return persistenceConflict(err)
		}
		if err := players.SaveResult(ctx, loser); err != nil {
			return persistenceConflict(err)
		}

		m.Winner = winner
		m.Loser = loser
		match = m
		return nil
	})
	if err != nil {
		var re *ResultError
		if !errors.As(err, &re) {
			// commit failures surface here without a kind
			err = persistenceConflict(err)
		}
		s.logger(ctx).Warn().Err(err).
			Int64("winner_id", outcome.WinnerID).
			Int64("loser_id", outcome.LoserID).
			Msg("[RESULT] ❌ match not recorded")
		return nil, err
	}

	s.logger(ctx).Info().
		Int64("match_id", match.ID).
		Str("winner", match.Winner.Name).
		Str("loser", match.Loser.Name).
		Int("winner_score", match.WinnerScore).
		Int("loser_score", match.LoserScore).
		Float64("winner_mu", match.WinnerMuAfter).
		Float64("loser_mu", match.LoserMuAfter).
		Msg("[RESULT] ✅ match recorded")
	return match, nil
}

func (s *ResultService) logger(ctx context.Context) *zerolog.Logger {
	return logFor(ctx, s.Log, resultComponent)
}

// applyOutcome mutates winner and loser in place and returns the match to insert.
func applyOutcome(model rating.Model, o Outcome, winner, loser *models.Player) *models.Match {
	m := &models.Match{
		WinnerID:       winner.ID,
		LoserID:        loser.ID,
		WinnerScore:    o.WinnerScore,
		LoserScore:     o.LoserScore,
		WinnerMuBefore: winner.Mu,
		LoserMuBefore:  loser.Mu,
		Added:          time.Now(),
	}

	newWinner, newLoser := model.Update(winner.Belief(), loser.Belief())
	winner.SetBelief(newWinner)
	loser.SetBelief(newLoser)

	winner.Streak = NextStreak(winner.Streak, true)
	loser.Streak = NextStreak(loser.Streak, false)

	winner.GamesWon++
	winner.GoalsScored += int64(o.WinnerScore)
	winner.GoalsAgainst += int64(o.LoserScore)

	loser.GamesLost++
	loser.GoalsScored += int64(o.LoserScore)
	loser.GoalsAgainst += int64(o.WinnerScore)

	m.WinnerMuAfter = winner.Mu
	m.LoserMuAfter = loser.Mu
	return m
}
