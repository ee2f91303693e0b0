package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/typechess-backend/internal/middleware"
	"github.com/benbeisheim/typechess-backend/internal/model"
	"github.com/benbeisheim/typechess-backend/internal/service"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// Register mounts the game routes on router, normally the /api/game group.
func (gc *GameController) Register(router fiber.Router) {
	router.Post("/matchmaking/join", gc.JoinMatchmaking)
	router.Get("/matchmaking/status", gc.MatchmakingStatus)
	router.Post("/matchmaking/leave", gc.LeaveMatchmaking)
	router.Post("/create", gc.CreateGame)
	router.Post("/join/:gameId", gc.JoinGame)
	router.Get("/:gameId", gc.GetGameState)
	router.Get("/:gameId/moves", gc.GetValidMoves)
	router.Post("/:gameId/move", gc.MovePiece)
	router.Post("/:gameId/promotion", gc.SelectPromotion)
	router.Post("/:gameId/previous", gc.PreviousState)
	router.Post("/:gameId/next", gc.NextState)
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{service.ErrBadRequest}, args...)...)
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	settings := model.DefaultSettings()
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&settings); err != nil {
			return sendError(c, badRequest("settings: %v", err))
		}
	}

	view, err := gc.gameService.CreateGame(c.UserContext(), settings)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": view.ID,
		"game":    view,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.UserContext(), c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	view, err := gc.gameService.GetGameState(c.UserContext(), c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(view)
}

// GetValidMoves takes the square either as ?square=e2 or as ?row=1&col=4.
func (gc *GameController) GetValidMoves(c *fiber.Ctx) error {
	var pos model.Position
	if square := c.Query("square"); square != "" {
		p, err := model.ParsePosition(square)
		if err != nil {
			return sendError(c, badRequest("%v", err))
		}
		pos = p
	} else {
		pos = model.Position{Row: c.QueryInt("row", -1), Col: c.QueryInt("col", -1)}
	}

	moves, err := gc.gameService.GetValidMoves(c.UserContext(), c.Params("gameId"), pos)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"position": pos,
		"moves":    moves,
	})
}

func (gc *GameController) MovePiece(c *fiber.Ctx) error {
	var move model.SimpleMove
	if err := c.BodyParser(&move); err != nil {
		return sendError(c, badRequest("move: %v", err))
	}
	view, err := gc.gameService.HandleMove(c.UserContext(), c.Params("gameId"), middleware.PlayerID(c), move)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(view)
}

type promotionRequest struct {
	Piece string `json:"piece"`
}

func (gc *GameController) SelectPromotion(c *fiber.Ctx) error {
	var req promotionRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, badRequest("promotion: %v", err))
	}
	view, err := gc.gameService.SelectPromotion(c.UserContext(), c.Params("gameId"), middleware.PlayerID(c), req.Piece)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) PreviousState(c *fiber.Ctx) error {
	view, err := gc.gameService.PreviousState(c.UserContext(), c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) NextState(c *fiber.Ctx) error {
	view, err := gc.gameService.NextState(c.UserContext(), c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	match, err := gc.gameService.JoinMatchmaking(c.UserContext(), middleware.PlayerID(c))
	if err != nil {
		return sendError(c, err)
	}
	if match.Status == service.MatchQueued {
		return c.Status(fiber.StatusAccepted).JSON(match)
	}
	return c.JSON(match)
}

func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	return c.JSON(gc.gameService.MatchmakingStatus(middleware.PlayerID(c)))
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"left": gc.gameService.LeaveMatchmaking(middleware.PlayerID(c)),
	})
}
