package model

import "fmt"

// Apply executes m for the side to move and returns the successor board; b is
// left untouched. The move is re-validated against the full legal set of b, so
// a move computed on an older board is rejected rather than trusted.
func Apply(b *BoardState, m Move) (*BoardState, error) {
	if b.Ended() {
		return nil, ErrGameOver
	}

	legal, err := resolve(b, m)
	if err != nil {
		return nil, err
	}

	next := b.Clone()
	if legal.Capture {
		idx := next.indexOf(legal.CapturedID)
		next.Pieces[idx].Captured = true
	}
	mover := &next.Pieces[next.indexOf(legal.PieceID)]
	mover.Square = legal.To
	mover.HasMoved = true
	if legal.Promotion != "" {
		mover.Role = legal.Promotion
	}

	next.SideToMove = b.SideToMove.Other()
	next.Turn = b.Turn + 1
	next.LastMove = &legal
	next.History = append(next.History, legal)
	next.evaluate()
	return next, nil
}

// resolve finds the legal move m refers to, or explains why there is none.
func resolve(b *BoardState, m Move) (Move, error) {
	legal := legalCandidates(b, b.SideToMove)
	for _, c := range legal {
		if m.matches(c.Move) {
			return c.Move, nil
		}
	}

	p, ok := b.PieceAt(m.From)
	switch {
	case !ok:
		return Move{}, &IllegalMoveError{Move: m, Reason: fmt.Sprintf("no piece on %s", m.From)}
	case p.Side != b.SideToMove:
		return Move{}, &IllegalMoveError{Move: m, Reason: fmt.Sprintf("it is %s's turn", b.SideToMove)}
	case m.PieceID != "" && m.PieceID != p.ID:
		return Move{}, &IllegalMoveError{Move: m, Reason: "piece has moved since the move was computed"}
	}
	for _, g := range movesFor(b, b.grid(), p) {
		if m.matches(g) {
			return Move{}, &IllegalMoveError{Move: m, Reason: "a capture is available and must be taken"}
		}
	}
	return Move{}, &IllegalMoveError{Move: m, Reason: fmt.Sprintf("%s cannot move to %s", p.Name, m.To)}
}
