package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrIllegalMove    = errors.New("illegal move")
	ErrMalformedBoard = errors.New("malformed board")
	ErrGameOver       = errors.New("game is over")
)

// IllegalMoveError is returned by Apply for a move that is not in the current
// legal set of the side to move.
type IllegalMoveError struct {
	Move   Move
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s-%s: %s", e.Move.From, e.Move.To, e.Reason)
}

func (e *IllegalMoveError) Is(target error) bool {
	return target == ErrIllegalMove
}

// MalformedBoardError lists every invariant a proposed board violates.
type MalformedBoardError struct {
	errs *multierror.Error
}

func newMalformedBoardError(errs *multierror.Error) *MalformedBoardError {
	errs.ErrorFormat = func(es []error) string {
		msgs := make([]string, len(es))
		for i, e := range es {
			msgs[i] = e.Error()
		}
		return strings.Join(msgs, "; ")
	}
	return &MalformedBoardError{errs: errs}
}

func (e *MalformedBoardError) Error() string {
	return "malformed board: " + e.errs.Error()
}

func (e *MalformedBoardError) Is(target error) bool {
	return target == ErrMalformedBoard
}

func (e *MalformedBoardError) Unwrap() error {
	return e.errs
}

// Problems returns the individual violations.
func (e *MalformedBoardError) Problems() []error {
	return e.errs.WrappedErrors()
}
