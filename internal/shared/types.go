package shared

import "naval-chess/internal/game"

// Actions carried by match notifications.
const (
	ActionWaiting            = "waiting_for_opponent"
	ActionGameStarted        = "game_started"
	ActionMoveMade           = "move_made"
	ActionGameOver           = "game_over"
	ActionPlayerDisconnected = "player_disconnected"
	ActionPlayerReconnected  = "player_reconnected"
	ActionError              = "error"
)

type Waiting struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
}

type GameStarted struct {
	RoomID     string `json:"room_id"`
	Player1    string `json:"player1"`
	Player2    string `json:"player2"`
	FirstTurn  string `json:"first_turn"`
	VsComputer bool   `json:"is_ai_game"`
}

// MoveMade uses x for the row and y for the column.
type MoveMade struct {
	RoomID      string        `json:"room_id"`
	Attacker    string        `json:"attacker"`
	X           int           `json:"x"`
	Y           int           `json:"y"`
	Hit         bool          `json:"hit"`
	Result      string        `json:"result"`
	SunkLengths []int         `json:"sunk,omitempty"`
	SunkCells   [][]game.Cell `json:"sunk_cells,omitempty"`
	NextTurn    string        `json:"next_turn"`
	Remaining   int           `json:"remaining"`
}

type GameOver struct {
	RoomID string `json:"room_id"`
	Winner string `json:"winner,omitempty"`
	Reason string `json:"reason"`
}

type Presence struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
