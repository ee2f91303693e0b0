package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/benbeisheim/typechess-backend/internal/model"
	"github.com/benbeisheim/typechess-backend/internal/ws"
)

// GameService is what the transports call. It validates client input and
// hands out views rather than live games.
type GameService struct {
	gameManager *GameManager
	matchmaker  *Matchmaker
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
		matchmaker:  NewMatchmaker(gameManager),
	}
}

// ErrBadRequest marks input that could never be valid, as opposed to a move
// the rules reject.
var ErrBadRequest = errors.New("bad request")

func (gs *GameService) CreateGame(ctx context.Context, settings model.Settings) (model.GameView, error) {
	game, err := gs.gameManager.CreateGame(ctx, settings)
	if err != nil {
		return model.GameView{}, fmt.Errorf("failed to create game: %w", err)
	}
	return game.View(), nil
}

func (gs *GameService) JoinGame(ctx context.Context, gameID, playerID string) (model.PlayerColor, error) {
	return gs.gameManager.AddPlayerToGame(ctx, gameID, playerID)
}

func (gs *GameService) JoinMatchmaking(ctx context.Context, playerID string) (Match, error) {
	return gs.matchmaker.Join(ctx, playerID)
}

func (gs *GameService) MatchmakingStatus(playerID string) Match {
	return gs.matchmaker.Status(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.matchmaker.Leave(playerID)
}

func (gs *GameService) GetGameState(ctx context.Context, gameID string) (model.GameView, error) {
	game, err := gs.gameManager.GetGame(ctx, gameID)
	if err != nil {
		return model.GameView{}, err
	}
	return game.View(), nil
}

func (gs *GameService) GetValidMoves(ctx context.Context, gameID string, pos model.Position) ([]model.Move, error) {
	if !pos.InBounds() {
		return nil, fmt.Errorf("%w: square %s is off the board", ErrBadRequest, pos)
	}
	return gs.gameManager.GetValidMoves(ctx, gameID, pos)
}

func (gs *GameService) HandleMove(ctx context.Context, gameID, playerID string, move model.SimpleMove) (model.GameView, error) {
	if !move.From.InBounds() || !move.To.InBounds() {
		return model.GameView{}, fmt.Errorf("%w: move %s-%s is off the board", ErrBadRequest, move.From, move.To)
	}
	return view(gs.gameManager.MakeMove(ctx, gameID, playerID, move))
}

func (gs *GameService) SelectPromotion(ctx context.Context, gameID, playerID, choice string) (model.GameView, error) {
	return view(gs.gameManager.SelectPromotion(ctx, gameID, playerID, choice))
}

func (gs *GameService) PreviousState(ctx context.Context, gameID, playerID string) (model.GameView, error) {
	return view(gs.gameManager.PreviousState(ctx, gameID, playerID))
}

func (gs *GameService) NextState(ctx context.Context, gameID, playerID string) (model.GameView, error) {
	return view(gs.gameManager.NextState(ctx, gameID, playerID))
}

func (gs *GameService) RegisterConnection(ctx context.Context, gameID, playerID string, sender Sender) (string, error) {
	return gs.gameManager.RegisterConnection(ctx, gameID, playerID, sender)
}

func (gs *GameService) UnregisterConnection(gameID, connID string) {
	gs.gameManager.UnregisterConnection(gameID, connID)
}

func view(game *model.Game, err error) (model.GameView, error) {
	if err != nil {
		return model.GameView{}, err
	}
	return game.View(), nil
}

// Reply writes msg to one connection, serialized with any broadcast to it.
func (gs *GameService) Reply(gameID, connID string, msg ws.Message) error {
	return gs.gameManager.hub.Send(gameID, connID, msg)
}
