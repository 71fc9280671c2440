package service

import (
	"github.com/Undropout/Chesstropia-sub002/internal/model"
	"github.com/Undropout/Chesstropia-sub002/internal/roster"
	"github.com/pkg/errors"
)

type GameService struct {
	gameManager *GameManager
	teams       roster.Provider
}

func NewGameService(gameManager *GameManager, teams roster.Provider) *GameService {
	return &GameService{
		gameManager: gameManager,
		teams:       teams,
	}
}

func (gs *GameService) CreateGame(ownerID string, opts CreateOptions) (GameState, error) {
	game, err := gs.gameManager.CreateGame(ownerID, opts)
	if err != nil {
		return GameState{}, errors.WithMessage(err, "failed to create game")
	}
	return game.GetState(), nil
}

func (gs *GameService) GetGameState(gameID string) (GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}
	return game.GetState(), nil
}

// LegalMoves lists the legal moves of the side to move. A non-empty square
// narrows them to the piece standing there.
func (gs *GameService) LegalMoves(gameID, square string) ([]model.Candidate, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if square == "" {
		return game.LegalMoves(nil), nil
	}
	from, err := parseSquare(square)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(&from), nil
}

func (gs *GameService) HandleMove(gameID, playerID, from, to string) (GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}
	src, err := parseSquare(from)
	if err != nil {
		return GameState{}, err
	}
	dst, err := parseSquare(to)
	if err != nil {
		return GameState{}, err
	}
	return game.MakeMove(playerID, src, dst)
}

func (gs *GameService) DeleteGame(gameID, playerID string) error {
	return gs.gameManager.RemoveGame(gameID, playerID)
}

func (gs *GameService) Teams() []roster.Team {
	return gs.teams.Teams()
}

func (gs *GameService) RegisterConnection(gameID, playerID string, conn Conn) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	game.RegisterConnection(playerID, conn)
	return nil
}

func (gs *GameService) UnregisterConnection(gameID, playerID string, conn Conn) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func parseSquare(s string) (model.Square, error) {
	sq, err := model.ParseSquare(s)
	if err != nil {
		return model.Square{}, errors.Wrapf(ErrBadSquare, "%q", s)
	}
	return sq, nil
}
