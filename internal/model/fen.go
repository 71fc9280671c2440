package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/corentings/chess/v2"
)

// White pieces belong to the opponent, whose pawns advance toward rank 8.
var (
	roleToChess = map[Role]chess.PieceType{
		King:   chess.King,
		Queen:  chess.Queen,
		Rook:   chess.Rook,
		Bishop: chess.Bishop,
		Knight: chess.Knight,
		Pawn:   chess.Pawn,
	}
	chessToRole = map[chess.PieceType]Role{
		chess.King:   King,
		chess.Queen:  Queen,
		chess.Rook:   Rook,
		chess.Bishop: Bishop,
		chess.Knight: Knight,
		chess.Pawn:   Pawn,
	}
)

func sideToColor(s Side) chess.Color {
	if s == Opponent {
		return chess.White
	}
	return chess.Black
}

func colorToSide(c chess.Color) Side {
	if c == chess.White {
		return Opponent
	}
	return Player
}

// FromFEN builds a board from a FEN string. Only the placement, active colour
// and fullmove fields are used; castling and en passant do not exist in this
// ruleset. Pieces are named after their side, role and starting square. The
// opponent (White) is taken to have moved first unless WithFirstMove says
// otherwise; a missing fullmove field means fullmove 1.
func FromFEN(fen string, opts ...Option) (*BoardState, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty fen", ErrMalformedBoard)
	}

	var cb chess.Board
	if err := cb.UnmarshalText([]byte(fields[0])); err != nil {
		return nil, fmt.Errorf("%w: decode fen board: %v", ErrMalformedBoard, err)
	}

	side := Opponent
	if len(fields) > 1 {
		switch fields[1] {
		case "w":
			side = Opponent
		case "b":
			side = Player
		default:
			return nil, fmt.Errorf("%w: invalid fen active colour %q", ErrMalformedBoard, fields[1])
		}
	}

	var scratch BoardState
	for _, opt := range opts {
		opt(&scratch)
	}
	first := scratch.FirstMove
	if first == "" {
		first = Opponent
	}

	full := 1
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: invalid fen fullmove number %q", ErrMalformedBoard, fields[5])
		}
		full = n
	}
	turn := fenTurn(full, side, first)
	if turn < 0 {
		return nil, fmt.Errorf("%w: %s cannot be to move on fullmove %d when %s moves first", ErrMalformedBoard, side, full, first)
	}

	squares := make([]chess.Square, 0, 32)
	pieces := cb.SquareMap()
	for sq := range pieces {
		squares = append(squares, sq)
	}
	sort.Slice(squares, func(i, j int) bool { return squares[i] < squares[j] })

	placements := make([]Placement, 0, len(squares))
	for _, sq := range squares {
		pc := pieces[sq]
		role, ok := chessToRole[pc.Type()]
		if !ok {
			continue
		}
		at := Square{File: int(sq.File()), Rank: int(sq.Rank())}
		owner := colorToSide(pc.Color())
		placements = append(placements, Placement{
			Name:   fmt.Sprintf("%s %s %s", owner, role, at),
			Role:   role,
			Side:   owner,
			Square: at,
		})
	}

	return NewBoard(placements, side, append([]Option{WithTurn(turn), WithFirstMove(first)}, opts...)...)
}

// The fullmove number goes up after each player (Black) move, as in chess,
// so when the player moves first its first ply still belongs to fullmove 1.
func fenTurn(full int, side, first Side) int {
	turn := (full - 1) * 2
	if side == Player {
		turn++
	}
	if first == Player {
		turn--
	}
	return turn
}

func fenFullmove(turn int, first Side) int {
	if first == Player {
		turn++
	}
	return turn/2 + 1
}

// FEN exports the living pieces, side to move and move number of b.
func (b *BoardState) FEN() string {
	m := make(map[chess.Square]chess.Piece)
	for _, p := range b.Pieces {
		if p.Captured {
			continue
		}
		sq := chess.NewSquare(chess.File(p.Square.File), chess.Rank(p.Square.Rank))
		m[sq] = chess.NewPiece(roleToChess[p.Role], sideToColor(p.Side))
	}
	active := "w"
	if b.SideToMove == Player {
		active = "b"
	}
	return fmt.Sprintf("%s %s - - 0 %d", chess.NewBoard(m).String(), active, fenFullmove(b.Turn, b.FirstMove))
}
