package model

import "fmt"

// Move is a proposed transition for one piece. Moves are produced by the rules
// engine and consumed once by Apply.
type Move struct {
	PieceID      string `json:"pieceId"`
	From         Square `json:"from"`
	To           Square `json:"to"`
	Capture      bool   `json:"capture"`
	CapturedID   string `json:"capturedId,omitempty"`
	CapturedRole Role   `json:"capturedRole,omitempty"`
	Promotion    Role   `json:"promotion,omitempty"`
}

// Candidate pairs a legal move with the piece making it.
type Candidate struct {
	Piece Piece `json:"piece"`
	Move  Move  `json:"move"`
}

// matches reports whether m identifies the same move as legal. Moves are keyed
// by piece, origin and destination; capture details supplied by the caller
// must agree with the current board.
func (m Move) matches(legal Move) bool {
	if m.From != legal.From || m.To != legal.To {
		return false
	}
	if m.PieceID != "" && m.PieceID != legal.PieceID {
		return false
	}
	if m.CapturedID != "" && m.CapturedID != legal.CapturedID {
		return false
	}
	if m.Capture && !legal.Capture {
		return false
	}
	return true
}

// Notation renders the move in a short algebraic style, e.g. "Rxa4" or "e8=Q".
func (m Move) Notation(role Role) string {
	prefix := role.notation()
	capture := ""
	if m.Capture {
		capture = "x"
		if role == Pawn {
			prefix = fmt.Sprintf("%c", 'a'+m.From.File)
		}
	}
	promo := ""
	if m.Promotion != "" {
		promo = "=" + m.Promotion.notation()
	}
	return fmt.Sprintf("%s%s%s%s", prefix, capture, m.To, promo)
}
