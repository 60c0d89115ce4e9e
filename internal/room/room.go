package room

import (
	"fmt"
	"time"

	"naval-chess/internal/game"
)

// ComputerID is the player id bound to the computer opponent.
const ComputerID = "computer"

type Side int

const (
	SideOne Side = iota
	SideTwo
)

func (s Side) Other() Side { return 1 - s }

func (s Side) Valid() bool { return s == SideOne || s == SideTwo }

func (s Side) String() string {
	if s == SideTwo {
		return "player2"
	}
	return "player1"
}

func ParseSide(v string) (Side, error) {
	switch v {
	case "player1", "1":
		return SideOne, nil
	case "player2", "2":
		return SideTwo, nil
	}
	return SideOne, fmt.Errorf("unknown side %q", v)
}

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

type FinishReason string

const (
	ReasonVictory   FinishReason = "victory"
	ReasonForfeit   FinishReason = "forfeit"
	ReasonAbandoned FinishReason = "abandoned"
)

type Player struct {
	ID             string     `json:"id"`
	Rating         int        `json:"rating"`
	Computer       bool       `json:"isComputer"`
	Connected      bool       `json:"connected"`
	DisconnectedAt *time.Time `json:"disconnectedAt,omitempty"`
}

// Board pairs a player's hidden layout with the shots the opponent has fired
// at it.
type Board struct {
	Layout    game.Layout      `json:"-"`
	Attacks   game.AttackState `json:"attacks"`
	Remaining int              `json:"remaining"`
	ShipsLeft []int            `json:"shipsLeft"`
}

func newBoard(l game.Layout, size int) Board {
	left := make([]int, 0, len(l.Ships))
	for _, s := range l.Ships {
		left = append(left, s.Length)
	}
	return Board{
		Layout:    l,
		Attacks:   game.NewAttackState(size),
		Remaining: l.Segments(),
		ShipsLeft: left,
	}
}

type MoveRecord struct {
	Side   Side              `json:"side"`
	Cell   game.Cell         `json:"cell"`
	Result game.AttackResult `json:"result"`
	Sunk   []int             `json:"sunk,omitempty"`
	At     time.Time         `json:"at"`
}

type Match struct {
	ID           string       `json:"id"`
	Players      [2]Player    `json:"players"`
	Boards       [2]Board     `json:"boards"`
	Turn         Side         `json:"turn"`
	Status       Status       `json:"status"`
	Winner       *Side        `json:"winner,omitempty"`
	Reason       FinishReason `json:"reason,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	LastActivity time.Time    `json:"lastActivity"`
	Moves        []MoveRecord `json:"moves"`
}

// SideOf resolves which side playerID occupies.
func (m *Match) SideOf(playerID string) (Side, bool) {
	if playerID == "" {
		return SideOne, false
	}
	for i, p := range m.Players {
		if p.ID == playerID {
			return Side(i), true
		}
	}
	return SideOne, false
}

func (m *Match) VsComputer() bool {
	return m.Players[SideOne].Computer || m.Players[SideTwo].Computer
}

// WinnerID is empty unless the match finished with a winner.
func (m *Match) WinnerID() string {
	if m.Winner == nil {
		return ""
	}
	return m.Players[*m.Winner].ID
}

// Clone returns a deep copy sharing no mutable state with m.
func (m *Match) Clone() *Match {
	out := *m
	for i := range m.Players {
		if t := m.Players[i].DisconnectedAt; t != nil {
			at := *t
			out.Players[i].DisconnectedAt = &at
		}
	}
	for i := range m.Boards {
		out.Boards[i].Attacks = m.Boards[i].Attacks.Clone()
		out.Boards[i].ShipsLeft = append([]int(nil), m.Boards[i].ShipsLeft...)
	}
	if m.Winner != nil {
		w := *m.Winner
		out.Winner = &w
	}
	out.Moves = make([]MoveRecord, len(m.Moves))
	for i, mv := range m.Moves {
		mv.Sunk = append([]int(nil), mv.Sunk...)
		out.Moves[i] = mv
	}
	return &out
}
