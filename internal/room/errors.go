package room

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("match not found")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrAlreadyAttacked = errors.New("cell already attacked")
	ErrGameOver        = errors.New("game is over")
	ErrNotStarted      = errors.New("match is waiting for an opponent")
)

// ValidationError rejects malformed input before any mutation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StorageError reports a persistence failure. The match was not changed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ErrorCode names err for clients: validation, not_your_turn,
// already_attacked, not_found, game_over, not_started, storage or internal.
func ErrorCode(err error) string {
	var verr *ValidationError
	var serr *StorageError
	switch {
	case errors.As(err, &verr):
		return "validation"
	case errors.As(err, &serr):
		return "storage"
	case errors.Is(err, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, ErrAlreadyAttacked):
		return "already_attacked"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrGameOver):
		return "game_over"
	case errors.Is(err, ErrNotStarted):
		return "not_started"
	}
	return "internal"
}
