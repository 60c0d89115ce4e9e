package game

import (
	"fmt"
	"sort"
)

// Rand is the subset of a random source the board model needs.
type Rand interface {
	Intn(n int) int
}

// maxPlacementAttempts bounds rejection sampling for a single ship.
const maxPlacementAttempts = 10_000

// GenerateLayout places every ship of fleet at a uniformly random anchor and
// orientation, redrawing on conflict. With allowTouching false a ship may not
// share an edge with a previously placed ship.
func GenerateLayout(rng Rand, size int, fleet []int, allowTouching bool) (Layout, error) {
	if size <= 0 {
		size = DefaultBoardSize
	}
	occupied := newGrid[bool](size)
	ships := make([]Ship, 0, len(fleet))

	for id, length := range fleet {
		if length <= 0 || length > size {
			return Layout{}, fmt.Errorf("%w: length %d on %dx%d", ErrInfeasible, length, size, size)
		}
		placed := false
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			s := Ship{ID: id, Length: length, Orientation: Horizontal}
			if rng.Intn(2) == 1 {
				s.Orientation = Vertical
			}
			if s.Orientation == Horizontal {
				s.Row = rng.Intn(size)
				s.Col = rng.Intn(size - length + 1)
			} else {
				s.Row = rng.Intn(size - length + 1)
				s.Col = rng.Intn(size)
			}
			if !canPlace(occupied, s, allowTouching) {
				continue
			}
			for _, c := range s.Cells() {
				occupied[c.Row][c.Col] = true
			}
			ships = append(ships, s)
			placed = true
			break
		}
		if !placed {
			return Layout{}, fmt.Errorf("%w: ship %d (length %d)", ErrInfeasible, id, length)
		}
	}
	return NewLayout(size, ships)
}

func canPlace(occupied [][]bool, s Ship, allowTouching bool) bool {
	size := len(occupied)
	for _, c := range s.Cells() {
		if occupied[c.Row][c.Col] {
			return false
		}
		if allowTouching {
			continue
		}
		for _, n := range c.Neighbors(size) {
			if occupied[n.Row][n.Col] {
				return false
			}
		}
	}
	return true
}

// ValidateLayout re-checks an externally supplied layout: every ship in
// bounds, no shared cells, and ship lengths equal to fleet as a multiset.
func ValidateLayout(l Layout, size int, fleet []int) error {
	if l.Size != size {
		return fmt.Errorf("%w: board is %d, want %d", ErrOutOfBounds, l.Size, size)
	}
	rebuilt, err := NewLayout(size, l.Ships)
	if err != nil {
		return err
	}
	for r := range rebuilt.Occupied {
		for c := range rebuilt.Occupied[r] {
			if len(l.Occupied) > r && len(l.Occupied[r]) > c && l.Occupied[r][c] != rebuilt.Occupied[r][c] {
				return fmt.Errorf("occupancy at (%d,%d) disagrees with ship list", r, c)
			}
		}
	}

	got := make([]int, 0, len(l.Ships))
	for _, s := range l.Ships {
		got = append(got, s.Length)
	}
	want := append([]int(nil), fleet...)
	sort.Ints(got)
	sort.Ints(want)
	if len(got) != len(want) {
		return fmt.Errorf("%w: %d ships, want %d", ErrFleetMismatch, len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			return fmt.Errorf("%w: lengths %v, want %v", ErrFleetMismatch, got, want)
		}
	}
	return nil
}

// FleetSegments sums the ship lengths of a fleet.
func FleetSegments(fleet []int) int {
	n := 0
	for _, l := range fleet {
		n += l
	}
	return n
}
