package game

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrWrongStep       = errors.New("not expected at this step")
	ErrNotInGame       = errors.New("game is not in progress")
	ErrNoActiveRound   = errors.New("no active round")
	ErrRoundActive     = errors.New("round already in progress")
	ErrNoWords         = errors.New("no words available")
)
