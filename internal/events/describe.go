package events

import (
	"fmt"
	"time"

	"github.com/Undropout/Chesstropia-sub002/internal/model"
)

// ForMove describes the transition from prev to next, which must be the
// result of applying next.LastMove to prev.
func ForMove(gameID string, prev, next *model.BoardState) []Event {
	m := next.LastMove
	if m == nil {
		return nil
	}
	mover, ok := prev.PieceByID(m.PieceID)
	if !ok {
		return nil
	}
	now := time.Now()
	base := Event{
		GameID:    gameID,
		PieceName: mover.Name,
		From:      m.From.String(),
		To:        m.To.String(),
		Side:      mover.Side,
		Time:      now,
	}

	var out []Event
	ev := base
	ev.Kind = KindMove
	ev.Message = fmt.Sprintf("%s moved from %s to %s (%s)", mover.Name, m.From, m.To, m.Notation(mover.Role))
	out = append(out, ev)

	if m.Capture {
		victim, _ := prev.PieceByID(m.CapturedID)
		ev = base
		ev.Kind = KindCapture
		ev.Message = fmt.Sprintf("%s captured %s at %s", mover.Name, victim.Name, m.To)
		out = append(out, ev)
	}
	if m.Promotion != "" {
		ev = base
		ev.Kind = KindPromotion
		ev.Message = fmt.Sprintf("%s was promoted to %s at %s", mover.Name, m.Promotion, m.To)
		out = append(out, ev)
	}
	if next.Ended() && next.Outcome != nil {
		out = append(out, GameOver(gameID, next))
	}
	return out
}

// GameOver describes the outcome of an ended board.
func GameOver(gameID string, b *model.BoardState) Event {
	msg := "the game ended in a draw"
	if b.Outcome.Winner != "" {
		msg = fmt.Sprintf("%s wins", b.Outcome.Winner)
	}
	switch b.Outcome.Reason {
	case model.ReasonKingCaptured:
		msg += ": the king was captured"
	case model.ReasonNoLegalMoves:
		msg += fmt.Sprintf(": %s has no legal moves", b.SideToMove)
	}
	return Event{
		Kind:    KindGameOver,
		GameID:  gameID,
		Message: msg,
		Side:    b.Outcome.Winner,
		Time:    time.Now(),
	}
}
