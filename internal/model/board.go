package model

import (
	"fmt"
	"strings"
)

// BoardSize is the number of files and ranks on the board.
const BoardSize = 8

type Side string

const (
	Player   Side = "player"
	Opponent Side = "opponent"
)

// Other returns the side that moves after s.
func (s Side) Other() Side {
	if s == Player {
		return Opponent
	}
	return Player
}

func (s Side) valid() bool {
	return s == Player || s == Opponent
}

// Role is the movement archetype of a piece.
type Role string

const (
	King   Role = "king"
	Queen  Role = "queen"
	Rook   Role = "rook"
	Bishop Role = "bishop"
	Knight Role = "knight"
	Pawn   Role = "pawn"
)

func (r Role) valid() bool {
	switch r {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

func (r Role) notation() string {
	switch r {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

// Value is the conventional material value of the role. Kings are priced
// above everything else since losing one ends the game.
func (r Role) Value() int {
	switch r {
	case King:
		return 100
	case Queen:
		return 9
	case Rook:
		return 5
	case Bishop, Knight:
		return 3
	case Pawn:
		return 1
	}
	return 0
}

// Square is a file/rank coordinate. File 0 is the a-file, rank 0 is rank 1.
type Square struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

func (s Square) OnBoard() bool {
	return s.File >= 0 && s.File < BoardSize && s.Rank >= 0 && s.Rank < BoardSize
}

func (s Square) String() string {
	if !s.OnBoard() {
		return fmt.Sprintf("(%d,%d)", s.File, s.Rank)
	}
	return fmt.Sprintf("%c%d", 'a'+s.File, s.Rank+1)
}

func (s Square) add(d delta) Square {
	return Square{File: s.File + d.df, Rank: s.Rank + d.dr}
}

// ParseSquare parses algebraic coordinates such as "a1" or "H8".
func ParseSquare(coord string) (Square, error) {
	coord = strings.ToLower(strings.TrimSpace(coord))
	if len(coord) != 2 {
		return Square{}, fmt.Errorf("invalid square %q", coord)
	}
	sq := Square{File: int(coord[0] - 'a'), Rank: int(coord[1] - '1')}
	if !sq.OnBoard() {
		return Square{}, fmt.Errorf("invalid square %q", coord)
	}
	return sq, nil
}

// Piece is owned by a BoardState. Captured pieces stay in the collection with
// Captured set and their last square retained for history.
type Piece struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Side     Side   `json:"side"`
	Square   Square `json:"square"`
	Icon     string `json:"icon,omitempty"`
	HasMoved bool   `json:"hasMoved"`
	Captured bool   `json:"captured"`
}

type Status string

const (
	StatusOngoing Status = "ongoing"
	StatusEnded   Status = "ended"
)

type Reason string

const (
	ReasonKingCaptured Reason = "king_captured"
	ReasonNoLegalMoves Reason = "no_legal_moves"
)

// Outcome describes how a game ended. An empty Winner is a draw.
type Outcome struct {
	Winner Side   `json:"winner,omitempty"`
	Reason Reason `json:"reason"`
}

// StalemateRule decides the result when the side to move has no legal moves.
type StalemateRule string

const (
	StalemateLoses StalemateRule = "loss"
	StalemateDraws StalemateRule = "draw"
)

func (r StalemateRule) Valid() bool {
	return r == StalemateLoses || r == StalemateDraws
}

type Rules struct {
	Stalemate StalemateRule `json:"stalemate"`
}

// BoardState is one position of a game. Turn counts plies from 0, played
// first by FirstMove.
type BoardState struct {
	Pieces     []Piece  `json:"pieces"`
	SideToMove Side     `json:"sideToMove"`
	FirstMove  Side     `json:"firstMove"`
	Turn       int      `json:"turn"`
	Status     Status   `json:"status"`
	Outcome    *Outcome `json:"outcome"`
	LastMove   *Move    `json:"lastMove"`
	History    []Move   `json:"history"`
	Rules      Rules    `json:"rules"`
}

// Clone returns a deep copy of b.
func (b *BoardState) Clone() *BoardState {
	nb := *b
	nb.Pieces = append([]Piece(nil), b.Pieces...)
	nb.History = append([]Move(nil), b.History...)
	if b.Outcome != nil {
		o := *b.Outcome
		nb.Outcome = &o
	}
	if b.LastMove != nil {
		m := *b.LastMove
		nb.LastMove = &m
	}
	return &nb
}

// PieceAt returns the living piece on sq.
func (b *BoardState) PieceAt(sq Square) (Piece, bool) {
	for _, p := range b.Pieces {
		if !p.Captured && p.Square == sq {
			return p, true
		}
	}
	return Piece{}, false
}

// PieceByID returns the piece with the given id, captured or not.
func (b *BoardState) PieceByID(id string) (Piece, bool) {
	for _, p := range b.Pieces {
		if p.ID == id {
			return p, true
		}
	}
	return Piece{}, false
}

// Alive returns the living pieces of side in board order.
func (b *BoardState) Alive(side Side) []Piece {
	var out []Piece
	for _, p := range b.Pieces {
		if !p.Captured && p.Side == side {
			out = append(out, p)
		}
	}
	return out
}

// Captured returns every captured piece in board order.
func (b *BoardState) Captured() []Piece {
	var out []Piece
	for _, p := range b.Pieces {
		if p.Captured {
			out = append(out, p)
		}
	}
	return out
}

// King returns the living king of side.
func (b *BoardState) King(side Side) (Piece, bool) {
	for _, p := range b.Pieces {
		if !p.Captured && p.Side == side && p.Role == King {
			return p, true
		}
	}
	return Piece{}, false
}

func (b *BoardState) Ended() bool {
	return b.Status == StatusEnded
}

func (b *BoardState) indexOf(id string) int {
	for i := range b.Pieces {
		if b.Pieces[i].ID == id {
			return i
		}
	}
	return -1
}

// occupancy maps squares to indexes into Pieces (+1, zero means empty).
type occupancy [BoardSize][BoardSize]int

func (b *BoardState) grid() *occupancy {
	var occ occupancy
	for i, p := range b.Pieces {
		if p.Captured || !p.Square.OnBoard() {
			continue
		}
		occ[p.Square.Rank][p.Square.File] = i + 1
	}
	return &occ
}

func (o *occupancy) at(b *BoardState, sq Square) (Piece, bool) {
	idx := o[sq.Rank][sq.File]
	if idx == 0 {
		return Piece{}, false
	}
	return b.Pieces[idx-1], true
}
