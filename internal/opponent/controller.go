// Package opponent selects moves for an AI-controlled side.
package opponent

import (
	"fmt"
	"time"

	"github.com/Undropout/Chesstropia-sub002/internal/events"
	"github.com/Undropout/Chesstropia-sub002/internal/model"
)

type Controller struct {
	strategy Strategy
	notifier events.Notifier
	gameID   string
}

// NewController returns a controller using strategy. A nil notifier discards
// notifications.
func NewController(strategy Strategy, notifier events.Notifier, gameID string) *Controller {
	if notifier == nil {
		notifier = events.Nop
	}
	return &Controller{
		strategy: strategy,
		notifier: events.Safe(notifier),
		gameID:   gameID,
	}
}

func (c *Controller) Strategy() Strategy {
	return c.strategy
}

// ChooseMove selects one legal move for side. ok is false when side has no
// legal moves; ending the game is then up to the caller.
func (c *Controller) ChooseMove(b *model.BoardState, side model.Side) (choice model.Candidate, ok bool) {
	candidates := model.AllMovesFor(b, side)
	if len(candidates) == 0 {
		return model.Candidate{}, false
	}

	choice = c.strategy.SelectMove(append([]model.Candidate(nil), candidates...))

	c.notifier.Emit(events.Event{
		Kind:      events.KindOpponentMove,
		GameID:    c.gameID,
		Message:   fmt.Sprintf("%s chose %s from %s to %s", c.strategy.Name(), choice.Piece.Name, choice.Move.From, choice.Move.To),
		PieceName: choice.Piece.Name,
		From:      choice.Move.From.String(),
		To:        choice.Move.To.String(),
		Side:      side,
		Time:      time.Now(),
	})
	return choice, true
}
