package room

import (
	"context"

	"naval-chess/internal/game"
)

// Broadcaster delivers notification intents to everyone watching a match.
type Broadcaster interface {
	Broadcast(roomCode string, action string, data interface{})
}

// Store persists matches. LoadMatch returns ErrNotFound for unknown ids and
// must hand out a copy the caller may mutate. SaveMatch is durable on return.
type Store interface {
	LoadMatch(ctx context.Context, id string) (*Match, error)
	SaveMatch(ctx context.Context, m *Match) error
}

// Lister is implemented by stores that can enumerate what they hold.
type Lister interface {
	MatchIDs(ctx context.Context) ([]string, error)
}

// Policy is an external move source for the computer opponent. own is the
// computer's board as attacked so far, target is the board it fires at.
type Policy interface {
	Propose(ctx context.Context, own, target game.AttackState) (game.Cell, error)
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, string, interface{}) {}
