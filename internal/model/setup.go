package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Placement is the starting position of one piece, as supplied by the board
// initializer. An empty ID is filled with a fresh uuid.
type Placement struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Side   Side   `json:"side"`
	Square Square `json:"square"`
	Icon   string `json:"icon,omitempty"`
}

type Option func(*BoardState)

// WithStalemateRule selects what happens when the side to move is stuck.
// The default is StalemateLoses.
func WithStalemateRule(rule StalemateRule) Option {
	return func(b *BoardState) {
		b.Rules.Stalemate = rule
	}
}

// WithTurn seeds the turn counter.
func WithTurn(turn int) Option {
	return func(b *BoardState) {
		b.Turn = turn
	}
}

// WithFirstMove records which side played turn 0. Without it the first mover
// is inferred from the side to move and the parity of the turn counter.
func WithFirstMove(side Side) Option {
	return func(b *BoardState) {
		b.FirstMove = side
	}
}

// NewBoard builds the first BoardState of a game. Every invariant violation
// is collected into a single *MalformedBoardError.
func NewBoard(placements []Placement, sideToMove Side, opts ...Option) (*BoardState, error) {
	b := &BoardState{
		Pieces:     make([]Piece, 0, len(placements)),
		SideToMove: sideToMove,
		Status:     StatusOngoing,
		Rules:      Rules{Stalemate: StalemateLoses},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.FirstMove == "" {
		b.FirstMove = b.SideToMove
		if b.Turn%2 == 1 {
			b.FirstMove = b.SideToMove.Other()
		}
	}
	for _, pl := range placements {
		id := pl.ID
		if id == "" {
			id = uuid.NewString()
		}
		b.Pieces = append(b.Pieces, Piece{
			ID:     id,
			Name:   pl.Name,
			Role:   pl.Role,
			Side:   pl.Side,
			Square: pl.Square,
			Icon:   pl.Icon,
		})
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	b.evaluate()
	return b, nil
}

func (b *BoardState) validate() error {
	var errs *multierror.Error
	if !b.SideToMove.valid() {
		errs = multierror.Append(errs, fmt.Errorf("unknown side to move %q", b.SideToMove))
	}
	if !b.Rules.Stalemate.Valid() {
		errs = multierror.Append(errs, fmt.Errorf("unknown stalemate rule %q", b.Rules.Stalemate))
	}
	if b.Turn < 0 {
		errs = multierror.Append(errs, fmt.Errorf("negative turn %d", b.Turn))
	}
	if b.SideToMove.valid() && b.FirstMove.valid() && (b.Turn%2 == 0) != (b.SideToMove == b.FirstMove) {
		errs = multierror.Append(errs, fmt.Errorf("%s cannot be to move on turn %d when %s moved first", b.SideToMove, b.Turn, b.FirstMove))
	}
	if !b.FirstMove.valid() {
		errs = multierror.Append(errs, fmt.Errorf("unknown first side %q", b.FirstMove))
	}

	ids := make(map[string]bool, len(b.Pieces))
	squares := make(map[Square]string, len(b.Pieces))
	kings := map[Side]int{}
	for _, p := range b.Pieces {
		if p.Name == "" {
			errs = multierror.Append(errs, fmt.Errorf("piece %s has no name", p.ID))
		}
		if ids[p.ID] {
			errs = multierror.Append(errs, fmt.Errorf("duplicate piece id %s", p.ID))
		}
		ids[p.ID] = true
		if !p.Role.valid() {
			errs = multierror.Append(errs, fmt.Errorf("piece %q has unknown role %q", p.Name, p.Role))
		}
		if !p.Side.valid() {
			errs = multierror.Append(errs, fmt.Errorf("piece %q has unknown side %q", p.Name, p.Side))
		}
		if !p.Square.OnBoard() {
			errs = multierror.Append(errs, fmt.Errorf("piece %q is off the board at %s", p.Name, p.Square))
			continue
		}
		if other, taken := squares[p.Square]; taken {
			errs = multierror.Append(errs, fmt.Errorf("pieces %q and %q both occupy %s", other, p.Name, p.Square))
		}
		squares[p.Square] = p.Name
		if p.Role == King {
			kings[p.Side]++
		}
	}
	for _, side := range []Side{Opponent, Player} {
		if kings[side] != 1 {
			errs = multierror.Append(errs, fmt.Errorf("side %s has %d kings, want exactly 1", side, kings[side]))
		}
	}

	if errs.ErrorOrNil() == nil {
		return nil
	}
	return newMalformedBoardError(errs)
}

// evaluate settles the status of b: a missing king ends the game for its
// side, then a side to move without legal moves is resolved by the
// stalemate rule.
func (b *BoardState) evaluate() {
	for _, side := range []Side{b.SideToMove, b.SideToMove.Other()} {
		if _, ok := b.King(side); !ok {
			b.end(&Outcome{Winner: side.Other(), Reason: ReasonKingCaptured})
			return
		}
	}
	if len(legalCandidates(b, b.SideToMove)) > 0 {
		b.Status = StatusOngoing
		b.Outcome = nil
		return
	}
	outcome := &Outcome{Reason: ReasonNoLegalMoves}
	if b.Rules.Stalemate != StalemateDraws {
		outcome.Winner = b.SideToMove.Other()
	}
	b.end(outcome)
}

func (b *BoardState) end(o *Outcome) {
	b.Status = StatusEnded
	b.Outcome = o
}
