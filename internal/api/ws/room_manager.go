package ws

import (
	"context"

	"naval-chess/internal/game"
	"naval-chess/internal/room"
)

// RoomManager is the part of the match state machine driven by sockets.
type RoomManager interface {
	Fire(ctx context.Context, roomID, playerID string, cell game.Cell) (room.MoveOutcome, error)
	DisconnectPlayer(ctx context.Context, roomID, playerID string) error
	ReconnectPlayer(ctx context.Context, roomID, playerID string) error
}
