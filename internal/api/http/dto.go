package http

import (
	"naval-chess/internal/game"
	"naval-chess/internal/room"
)

// BoardResponse is a generated layout: the 0/1 occupancy grid plus the ships.
type BoardResponse struct {
	Board [][]int     `json:"board"`
	Ships []game.Ship `json:"ships"`
}

// JoinGameRequest registers a layout and asks for a match.
type JoinGameRequest struct {
	PlayerID string      `json:"player_id"`
	Ships    []game.Ship `json:"ships" binding:"required"`
	IsAIGame bool        `json:"is_ai_game"`
	Rating   int         `json:"rating"`
}

type JoinGameResponse struct {
	RoomID    string `json:"room_id"`
	PlayerID  string `json:"player_id"`
	Side      string `json:"side"`
	Status    string `json:"status"`
	FirstTurn string `json:"first_turn,omitempty"`
	IsAIGame  bool   `json:"is_ai_game"`
}

// PlayerRequest names a participant by player id. The read-only lookups also
// accept a side (player1/player2).
type PlayerRequest struct {
	RoomID string `json:"room_id" binding:"required"`
	Player string `json:"player" binding:"required"`
}

type OpponentResponse struct {
	YourSide     string `json:"your_side"`
	OpponentSide string `json:"opponent_side"`
}

type SunkenShipsResponse struct {
	SunkenShipIDs []int `json:"sunken_ship_ids"`
}

// MoveRequest uses x for the row and y for the column. Player must be the
// shooter's player id.
type MoveRequest struct {
	RoomID string `json:"room_id" binding:"required"`
	Player string `json:"player" binding:"required"`
	X      *int   `json:"x" binding:"required"`
	Y      *int   `json:"y" binding:"required"`
}

type MoveResponse struct {
	Attacker  string        `json:"attacker"`
	X         int           `json:"x"`
	Y         int           `json:"y"`
	Hit       bool          `json:"hit"`
	Result    string        `json:"result"`
	Sunk      []int         `json:"sunk"`
	SunkCells [][]game.Cell `json:"sunk_cells"`
	NextTurn  string        `json:"next_turn"`
	Status    string        `json:"status"`
	Winner    string        `json:"winner,omitempty"`
	Remaining int           `json:"remaining"`
}

// MatchView is one participant's view of a match. The opponent's layout is
// never included.
type MatchView struct {
	RoomID        string            `json:"room_id"`
	Status        string            `json:"status"`
	You           string            `json:"you"`
	Turn          string            `json:"turn,omitempty"`
	Winner        string            `json:"winner,omitempty"`
	Reason        string            `json:"reason,omitempty"`
	Players       [2]room.Player    `json:"players"`
	OwnShips      []game.Ship       `json:"own_ships"`
	OwnBoard      [][]int           `json:"own_board"`
	IncomingShots [][]int           `json:"incoming_shots"`
	OutgoingShots [][]int           `json:"outgoing_shots"`
	OpponentLeft  []int             `json:"opponent_ships_left"`
	Moves         []room.MoveRecord `json:"moves"`
}

type ConfigResponse struct {
	BoardSize       int   `json:"board_size"`
	Fleet           []int `json:"fleet"`
	AllowTouching   bool  `json:"allow_touching"`
	DisconnectGrace int   `json:"disconnect_grace_seconds"`
	RatingBand      int   `json:"rating_band"`
}
