package engine

import "errors"

var (
	ErrGameOver        = errors.New("game over")
	ErrIllegalMove     = errors.New("illegal move")
	ErrOutOfBounds     = errors.New("out of bounds")
	ErrWallUnavailable = errors.New("wall slot unavailable")
	ErrNoWallsLeft     = errors.New("no walls left")
	ErrNoPrevTurn      = errors.New("no previous turn")
	ErrNoNextTurn      = errors.New("no next turn")
	ErrNotOver         = errors.New("game not over")
	ErrHistoryNotEmpty = errors.New("history not empty")
	ErrBadHistory      = errors.New("invalid history")
)
