package service

import "github.com/pkg/errors"

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrNotYourGame     = errors.New("not your game")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrUnknownTeam     = errors.New("unknown team")
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrBadSquare       = errors.New("bad square")
)
