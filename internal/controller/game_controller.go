package controller

import (
	"github.com/Undropout/Chesstropia-sub002/internal/middleware"
	"github.com/Undropout/Chesstropia-sub002/internal/model"
	"github.com/Undropout/Chesstropia-sub002/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	PlayerTeam   string `json:"playerTeam"`
	OpponentTeam string `json:"opponentTeam"`
	Strategy     string `json:"strategy"`
	FEN          string `json:"fen"`
}

type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	state, err := gc.gameService.CreateGame(middleware.PlayerID(c), service.CreateOptions{
		PlayerTeam:   req.PlayerTeam,
		OpponentTeam: req.OpponentTeam,
		Strategy:     req.Strategy,
		FEN:          req.FEN,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(state)
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), c.Query("square"))
	if err != nil {
		return respondError(c, err)
	}
	if moves == nil {
		moves = []model.Candidate{}
	}
	return c.JSON(fiber.Map{
		"moves": moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	state, err := gc.gameService.HandleMove(c.Params("gameId"), middleware.PlayerID(c), req.From, req.To)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("gameId"), middleware.PlayerID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) ListTeams(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"teams": gc.gameService.Teams(),
	})
}

// statusFor maps service and rules errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNotYourGame):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrNotYourTurn), errors.Is(err, model.ErrGameOver):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrIllegalMove):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrBadSquare),
		errors.Is(err, service.ErrUnknownTeam),
		errors.Is(err, service.ErrUnknownStrategy),
		errors.Is(err, model.ErrMalformedBoard):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorw("request failed", "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	body := fiber.Map{"error": err.Error()}
	var illegal *model.IllegalMoveError
	if errors.As(err, &illegal) {
		body["reason"] = illegal.Reason
	}
	var malformed *model.MalformedBoardError
	if errors.As(err, &malformed) {
		problems := make([]string, 0, len(malformed.Problems()))
		for _, p := range malformed.Problems() {
			problems = append(problems, p.Error())
		}
		body["problems"] = problems
	}
	return c.Status(status).JSON(body)
}
