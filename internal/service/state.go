package service

import (
	"time"

	"github.com/Undropout/Chesstropia-sub002/internal/model"
)

// GameState is what clients see of a game.
type GameState struct {
	GameID           string            `json:"gameId"`
	HumanSide        model.Side        `json:"humanSide"`
	Strategy         string            `json:"strategy"`
	Pieces           []model.Piece     `json:"pieces"`
	Captured         []model.Piece     `json:"captured"`
	SideToMove       model.Side        `json:"sideToMove"`
	Turn             int               `json:"turn"`
	Status           model.Status      `json:"status"`
	Outcome          *model.Outcome    `json:"outcome,omitempty"`
	LastMove         *model.Move       `json:"lastMove,omitempty"`
	LastMoveNotation string            `json:"lastMoveNotation,omitempty"`
	LegalMoves       []model.Candidate `json:"legalMoves"`
	FEN              string            `json:"fen"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}
