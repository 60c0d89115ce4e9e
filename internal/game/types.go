package game

import (
	"errors"
	"fmt"
)

// DefaultBoardSize is the side of the square grid.
const DefaultBoardSize = 10

// DefaultFleet is the standard fleet: one each of 2, 3, 3, 4 and 5.
var DefaultFleet = []int{2, 3, 3, 4, 5}

var (
	ErrOutOfBounds   = errors.New("cell out of bounds")
	ErrOverlap       = errors.New("ships overlap")
	ErrFleetMismatch = errors.New("fleet mismatch")
	ErrInfeasible    = errors.New("fleet does not fit on board")
	ErrNoTarget      = errors.New("no unattacked cell left")
)

type CellState int

const (
	CellEmpty CellState = iota // not attacked yet
	CellMiss
	CellHit
	CellSunk
)

func (s CellState) String() string {
	switch s {
	case CellEmpty:
		return "empty"
	case CellMiss:
		return "miss"
	case CellHit:
		return "hit"
	case CellSunk:
		return "sunk"
	}
	return fmt.Sprintf("CellState(%d)", int(s))
}

type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

var orthogonal = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Neighbors returns the in-bounds orthogonal neighbours of c.
func (c Cell) Neighbors(size int) []Cell {
	out := make([]Cell, 0, 4)
	for _, d := range orthogonal {
		n := Cell{Row: c.Row + d[0], Col: c.Col + d[1]}
		if in(n, size) {
			out = append(out, n)
		}
	}
	return out
}

func in(c Cell, size int) bool {
	return c.Row >= 0 && c.Row < size && c.Col >= 0 && c.Col < size
}

// Ship is anchored at its top-left cell and extends right or down.
type Ship struct {
	ID          int         `json:"id"`
	Length      int         `json:"size"`
	Row         int         `json:"row"`
	Col         int         `json:"col"`
	Orientation Orientation `json:"orientation"`
}

func (s Ship) Cells() []Cell {
	out := make([]Cell, s.Length)
	for i := 0; i < s.Length; i++ {
		if s.Orientation == Vertical {
			out[i] = Cell{Row: s.Row + i, Col: s.Col}
		} else {
			out[i] = Cell{Row: s.Row, Col: s.Col + i}
		}
	}
	return out
}

// Layout is a player's hidden fleet placement. It is never mutated after
// construction.
type Layout struct {
	Size     int      `json:"size"`
	Ships    []Ship   `json:"ships"`
	Occupied [][]bool `json:"-"`
}

// NewLayout places ships on an empty size×size grid, rejecting ships that
// leave the board or share a cell.
func NewLayout(size int, ships []Ship) (Layout, error) {
	if size <= 0 {
		size = DefaultBoardSize
	}
	l := Layout{Size: size, Ships: append([]Ship(nil), ships...), Occupied: newGrid[bool](size)}
	for _, s := range ships {
		if s.Length <= 0 {
			return Layout{}, fmt.Errorf("%w: ship %d has length %d", ErrFleetMismatch, s.ID, s.Length)
		}
		if s.Orientation != Horizontal && s.Orientation != Vertical {
			return Layout{}, fmt.Errorf("ship %d: unknown orientation %q", s.ID, s.Orientation)
		}
		for _, c := range s.Cells() {
			if !in(c, size) {
				return Layout{}, fmt.Errorf("%w: ship %d at %s", ErrOutOfBounds, s.ID, c)
			}
			if l.Occupied[c.Row][c.Col] {
				return Layout{}, fmt.Errorf("%w: ship %d at %s", ErrOverlap, s.ID, c)
			}
			l.Occupied[c.Row][c.Col] = true
		}
	}
	return l, nil
}

func (l Layout) Occupies(c Cell) bool {
	return in(c, l.Size) && l.Occupied[c.Row][c.Col]
}

// Segments is the number of occupied cells.
func (l Layout) Segments() int {
	n := 0
	for _, s := range l.Ships {
		n += s.Length
	}
	return n
}

// Grid renders the occupancy as 0/1 rows.
func (l Layout) Grid() [][]int {
	out := newGrid[int](l.Size)
	for r := range l.Occupied {
		for c, occ := range l.Occupied[r] {
			if occ {
				out[r][c] = 1
			}
		}
	}
	return out
}

// AttackState is the revealed view of one layout as seen by its attacker.
type AttackState struct {
	Size  int           `json:"size"`
	Cells [][]CellState `json:"cells"`
}

func NewAttackState(size int) AttackState {
	if size <= 0 {
		size = DefaultBoardSize
	}
	return AttackState{Size: size, Cells: newGrid[CellState](size)}
}

func (a AttackState) At(c Cell) CellState { return a.Cells[c.Row][c.Col] }

func (a AttackState) In(c Cell) bool { return in(c, a.Size) }

func (a AttackState) Clone() AttackState {
	if a.Cells == nil {
		return AttackState{}
	}
	out := NewAttackState(a.Size)
	for r := range a.Cells {
		copy(out.Cells[r], a.Cells[r])
	}
	return out
}

// Count returns how many cells are in state s.
func (a AttackState) Count(s CellState) int {
	n := 0
	for r := range a.Cells {
		for _, v := range a.Cells[r] {
			if v == s {
				n++
			}
		}
	}
	return n
}

// Ints encodes the grid with the wire values 0 empty, 1 miss, 2 hit, 3 sunk.
func (a AttackState) Ints() [][]int {
	out := newGrid[int](a.Size)
	for r := range a.Cells {
		for c, v := range a.Cells[r] {
			out[r][c] = int(v)
		}
	}
	return out
}

func newGrid[T any](size int) [][]T {
	g := make([][]T, size)
	for i := range g {
		g[i] = make([]T, size)
	}
	return g
}
