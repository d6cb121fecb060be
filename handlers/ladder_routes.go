// handlers/ladder_routes.go
package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"climber/services"

	"github.com/gofiber/fiber/v2"
)

// flexValue accepts either a JSON string or a JSON number, since form-style clients
// send scores as strings and API clients as numbers.
type flexValue string

func (v *flexValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = flexValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = flexValue(n.String())
	return nil
}

type submitMatchRequest struct {
	PlayerOne flexValue `json:"player_one"`
	PlayerTwo flexValue `json:"player_two"`
	ScoreOne  flexValue `json:"score_one"`
	ScoreTwo  flexValue `json:"score_two"`
}

func parseSubmission(c *fiber.Ctx) (services.Submission, error) {
	if c.Is("json") {
		var req submitMatchRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return services.Submission{}, fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
		}
		return services.Submission{
			PlayerOne: string(req.PlayerOne),
			PlayerTwo: string(req.PlayerTwo),
			ScoreOne:  string(req.ScoreOne),
			ScoreTwo:  string(req.ScoreTwo),
		}, nil
	}

	var sub services.Submission
	if err := c.BodyParser(&sub); err != nil {
		return services.Submission{}, fiber.NewError(fiber.StatusBadRequest, "invalid form body")
	}
	return sub, nil
}

func SetupMatchRoutes(app *fiber.App, resultService *services.ResultService) {
	app.Post("/matches", func(c *fiber.Ctx) error {
		sub, err := parseSubmission(c)
		if err != nil {
			return err
		}
		match, err := resultService.SubmitResult(c.UserContext(), sub)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(match)
	})

	app.Get("/matches/recent", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(services.DefaultMatchLimit)))
		matches, err := resultService.Matches.Recent(c.UserContext(), limit)
		if err != nil {
			return err
		}
		return c.JSON(matches)
	})
}

func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService) {
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		board, err := leaderboardService.Leaderboard(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(board)
	})
}

func SetupPlayerRoutes(app *fiber.App, playerService *services.PlayerService) {
	app.Get("/players", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "0"))
		players, err := playerService.ListPlayers(c.UserContext(), c.Query("q"), limit)
		if err != nil {
			return err
		}
		return c.JSON(players)
	})

	app.Post("/players", func(c *fiber.Ctx) error {
		var req struct {
			Name string `json:"name" form:"name"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		player, err := playerService.CreatePlayer(c.UserContext(), req.Name)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(player)
	})

	app.Get("/players/:id", func(c *fiber.Ctx) error {
		id, err := playerID(c)
		if err != nil {
			return err
		}
		limit, _ := strconv.Atoi(c.Query("matches", strconv.Itoa(services.DefaultMatchLimit)))
		profile, err := playerService.GetProfile(c.UserContext(), id, limit)
		if err != nil {
			return err
		}
		return c.JSON(profile)
	})

	app.Delete("/players/:id", func(c *fiber.Ctx) error {
		id, err := playerID(c)
		if err != nil {
			return err
		}
		if err := playerService.DeletePlayer(c.UserContext(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func playerID(c *fiber.Ctx) (int64, error) {
	raw := strings.TrimSpace(c.Params("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusNotFound, "player not found")
	}
	return id, nil
}
