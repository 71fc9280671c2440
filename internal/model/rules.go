package model

type delta struct {
	df, dr int
}

var (
	rookDirs    = []delta{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs  = []delta{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs   = append(append([]delta{}, rookDirs...), bishopDirs...)
	kingDirs    = queenDirs
	knightJumps = []delta{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

// Pawns of the opponent advance toward rank 8, pawns of the player toward
// rank 1.
func pawnForward(side Side) int {
	if side == Opponent {
		return 1
	}
	return -1
}

func pawnStartRank(side Side) int {
	if side == Opponent {
		return 1
	}
	return BoardSize - 2
}

func promotionRank(side Side) int {
	if side == Opponent {
		return BoardSize - 1
	}
	return 0
}

// MovesFor returns the geometrically valid moves of piece on b. It does not
// apply the forced-capture rule, which only makes sense across all pieces of
// a side; use AllMovesFor for the legal move set.
func MovesFor(b *BoardState, piece Piece) []Move {
	current, ok := b.PieceByID(piece.ID)
	if !ok || current.Captured {
		return nil
	}
	return movesFor(b, b.grid(), current)
}

// AllMovesFor returns every legal (piece, move) pair for side. When any of
// them captures, only the captures are returned. Ended boards have no legal
// moves.
func AllMovesFor(b *BoardState, side Side) []Candidate {
	if b.Ended() {
		return nil
	}
	return legalCandidates(b, side)
}

// LegalMovesFrom returns the legal moves of the piece standing on sq, with the
// forced-capture rule applied across the whole side.
func LegalMovesFrom(b *BoardState, sq Square) []Candidate {
	p, ok := b.PieceAt(sq)
	if !ok {
		return nil
	}
	var out []Candidate
	for _, c := range AllMovesFor(b, p.Side) {
		if c.Piece.ID == p.ID {
			out = append(out, c)
		}
	}
	return out
}

func legalCandidates(b *BoardState, side Side) []Candidate {
	occ := b.grid()
	var all []Candidate
	captures := 0
	for _, p := range b.Pieces {
		if p.Captured || p.Side != side {
			continue
		}
		for _, m := range movesFor(b, occ, p) {
			if m.Capture {
				captures++
			}
			all = append(all, Candidate{Piece: p, Move: m})
		}
	}
	if captures == 0 {
		return all
	}
	forced := make([]Candidate, 0, captures)
	for _, c := range all {
		if c.Move.Capture {
			forced = append(forced, c)
		}
	}
	return forced
}

func movesFor(b *BoardState, occ *occupancy, p Piece) []Move {
	var moves []Move
	switch p.Role {
	case Pawn:
		genPawnMoves(b, occ, p, &moves)
	case Knight:
		genStepMoves(b, occ, p, knightJumps, &moves)
	case Bishop:
		genSlideMoves(b, occ, p, bishopDirs, &moves)
	case Rook:
		genSlideMoves(b, occ, p, rookDirs, &moves)
	case Queen:
		genSlideMoves(b, occ, p, queenDirs, &moves)
	case King:
		genStepMoves(b, occ, p, kingDirs, &moves)
	}
	return moves
}

func quietMove(p Piece, to Square) Move {
	return Move{PieceID: p.ID, From: p.Square, To: to}
}

func captureMove(p Piece, to Square, target Piece) Move {
	return Move{
		PieceID:      p.ID,
		From:         p.Square,
		To:           to,
		Capture:      true,
		CapturedID:   target.ID,
		CapturedRole: target.Role,
	}
}

// sliders: rook, bishop, queen
func genSlideMoves(b *BoardState, occ *occupancy, p Piece, dirs []delta, moves *[]Move) {
	for _, d := range dirs {
		to := p.Square.add(d)
		for to.OnBoard() {
			target, occupied := occ.at(b, to)
			if !occupied {
				*moves = append(*moves, quietMove(p, to))
			} else {
				if target.Side != p.Side {
					*moves = append(*moves, captureMove(p, to, target))
				}
				break
			}
			to = to.add(d)
		}
	}
}

// single steps: king, knight
func genStepMoves(b *BoardState, occ *occupancy, p Piece, steps []delta, moves *[]Move) {
	for _, d := range steps {
		to := p.Square.add(d)
		if !to.OnBoard() {
			continue
		}
		target, occupied := occ.at(b, to)
		switch {
		case !occupied:
			*moves = append(*moves, quietMove(p, to))
		case target.Side != p.Side:
			*moves = append(*moves, captureMove(p, to, target))
		}
	}
}

func genPawnMoves(b *BoardState, occ *occupancy, p Piece, moves *[]Move) {
	dir := pawnForward(p.Side)
	promote := func(m Move) Move {
		if m.To.Rank == promotionRank(p.Side) {
			m.Promotion = Queen
		}
		return m
	}

	one := p.Square.add(delta{0, dir})
	if one.OnBoard() {
		if _, occupied := occ.at(b, one); !occupied {
			*moves = append(*moves, promote(quietMove(p, one)))
			two := one.add(delta{0, dir})
			if !p.HasMoved && p.Square.Rank == pawnStartRank(p.Side) && two.OnBoard() {
				if _, occupied := occ.at(b, two); !occupied {
					*moves = append(*moves, quietMove(p, two))
				}
			}
		}
	}

	for _, df := range []int{-1, 1} {
		to := p.Square.add(delta{df, dir})
		if !to.OnBoard() {
			continue
		}
		if target, occupied := occ.at(b, to); occupied && target.Side != p.Side {
			*moves = append(*moves, promote(captureMove(p, to, target)))
		}
	}
}
