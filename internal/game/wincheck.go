package game

// Component is one 4-connected group of occupied layout cells. The sunk
// detector treats each component as one ship.
type Component []Cell

// ResolveSunkShips promotes every component whose cells are all Hit to Sunk
// and returns the components sunk by this call. Running it again changes
// nothing.
func ResolveSunkShips(a *AttackState, l Layout) []Component {
	var sunk []Component
	for _, comp := range components(l) {
		allHit := true
		for _, c := range comp {
			if a.At(c) != CellHit {
				allHit = false
				break
			}
		}
		if !allHit {
			continue
		}
		for _, c := range comp {
			a.Cells[c.Row][c.Col] = CellSunk
		}
		sunk = append(sunk, comp)
	}
	return sunk
}

func components(l Layout) []Component {
	visited := newGrid[bool](l.Size)
	var out []Component
	for r := 0; r < l.Size; r++ {
		for c := 0; c < l.Size; c++ {
			if !l.Occupied[r][c] || visited[r][c] {
				continue
			}
			var comp Component
			stack := []Cell{{Row: r, Col: c}}
			visited[r][c] = true
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				comp = append(comp, cur)
				for _, n := range cur.Neighbors(l.Size) {
					if l.Occupied[n.Row][n.Col] && !visited[n.Row][n.Col] {
						visited[n.Row][n.Col] = true
						stack = append(stack, n)
					}
				}
			}
			out = append(out, comp)
		}
	}
	return out
}

// RemoveSunk drops one entry equal to each sunk component's length from
// remaining, ignoring lengths that are not present.
func RemoveSunk(remaining []int, sunk []Component) []int {
	out := append([]int(nil), remaining...)
	for _, comp := range sunk {
		for i, l := range out {
			if l == len(comp) {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
	}
	return out
}

// SunkShipIDs returns the ids of ships whose every cell is Sunk.
func SunkShipIDs(a AttackState, l Layout) []int {
	ids := []int{}
	for _, s := range l.Ships {
		down := true
		for _, c := range s.Cells() {
			if a.At(c) != CellSunk {
				down = false
				break
			}
		}
		if down {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// AllSunk reports whether every occupied cell has been hit.
func AllSunk(a AttackState, l Layout) bool {
	for r := 0; r < l.Size; r++ {
		for c := 0; c < l.Size; c++ {
			if l.Occupied[r][c] && a.Cells[r][c] != CellHit && a.Cells[r][c] != CellSunk {
				return false
			}
		}
	}
	return true
}
