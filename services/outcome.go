package services

import (
	"strconv"
	"strings"
)

// Submission is a match result as entered by a user, before any validation.
type Submission struct {
	PlayerOne string `json:"player_one" form:"player_one"`
	PlayerTwo string `json:"player_two" form:"player_two"`
	ScoreOne  string `json:"score_one" form:"score_one"`
	ScoreTwo  string `json:"score_two" form:"score_two"`
}

// Outcome is a validated, normalised result.
type Outcome struct {
	WinnerID    int64
	LoserID     int64
	WinnerScore int
	LoserScore  int
}

// ResolveOutcome validates a submission and orders it winner first. Draws are not
// supported: with equal scores the second player loses.
func ResolveOutcome(sub Submission) (Outcome, error) {
	one, err := parsePlayerID(sub.PlayerOne)
	if err != nil {
		return Outcome{}, err
	}
	two, err := parsePlayerID(sub.PlayerTwo)
	if err != nil {
		return Outcome{}, err
	}
	if one == two {
		return Outcome{}, invalidPlayer("a player cannot play against themselves")
	}

	scoreOne, err := parseScore(sub.ScoreOne)
	if err != nil {
		return Outcome{}, err
	}
	scoreTwo, err := parseScore(sub.ScoreTwo)
	if err != nil {
		return Outcome{}, err
	}

	if scoreTwo > scoreOne {
		return Outcome{WinnerID: two, LoserID: one, WinnerScore: scoreTwo, LoserScore: scoreOne}, nil
	}
	return Outcome{WinnerID: one, LoserID: two, WinnerScore: scoreOne, LoserScore: scoreTwo}, nil
}

func parsePlayerID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalidPlayer("both players must be selected")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidPlayer("unknown player %q", raw)
	}
	return id, nil
}

func parseScore(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalidScore("both scores must be filled in")
	}
	score, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidScore("score %q is not a whole number", raw)
	}
	if score < 0 {
		return 0, invalidScore("score %d is negative", score)
	}
	return score, nil
}
