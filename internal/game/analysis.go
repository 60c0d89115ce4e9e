package game

// bridgeCells returns Empty cells with Hit on both sides along one axis.
func bridgeCells(a AttackState) []Cell {
	var out []Cell
	hit := func(r, c int) bool { return in(Cell{Row: r, Col: c}, a.Size) && a.Cells[r][c] == CellHit }
	for r := 0; r < a.Size; r++ {
		for c := 0; c < a.Size; c++ {
			if a.Cells[r][c] != CellEmpty {
				continue
			}
			if (hit(r, c-1) && hit(r, c+1)) || (hit(r-1, c) && hit(r+1, c)) {
				out = append(out, Cell{Row: r, Col: c})
			}
		}
	}
	return out
}

// adjacentCells returns Empty cells orthogonally next to any Hit cell.
func adjacentCells(a AttackState) []Cell {
	var out []Cell
	for r := 0; r < a.Size; r++ {
		for c := 0; c < a.Size; c++ {
			if a.Cells[r][c] != CellEmpty {
				continue
			}
			for _, n := range (Cell{Row: r, Col: c}).Neighbors(a.Size) {
				if a.At(n) == CellHit {
					out = append(out, Cell{Row: r, Col: c})
					break
				}
			}
		}
	}
	return out
}

// Density scores each cell by the number of horizontal and vertical runs of
// Empty cells that could hold a ship of each remaining length. Lengths that
// repeat are counted once per occurrence.
func Density(a AttackState, remaining []int) [][]int {
	score := newGrid[int](a.Size)
	for _, length := range remaining {
		if length <= 0 || length > a.Size {
			continue
		}
		for r := 0; r < a.Size; r++ {
			for c := 0; c+length <= a.Size; c++ {
				if runEmpty(a, r, c, 0, 1, length) {
					for k := 0; k < length; k++ {
						score[r][c+k]++
					}
				}
			}
		}
		for c := 0; c < a.Size; c++ {
			for r := 0; r+length <= a.Size; r++ {
				if runEmpty(a, r, c, 1, 0, length) {
					for k := 0; k < length; k++ {
						score[r+k][c]++
					}
				}
			}
		}
	}
	return score
}

func runEmpty(a AttackState, r, c, dr, dc, length int) bool {
	for k := 0; k < length; k++ {
		if a.Cells[r+k*dr][c+k*dc] != CellEmpty {
			return false
		}
	}
	return true
}

// densityCells returns the Empty cells holding the top density score in
// row-major order. Zero-score cells never qualify, even when every Empty cell
// scores zero, so that case falls through to parity rather than returning all
// of them.
func densityCells(a AttackState, remaining []int) []Cell {
	score := Density(a, remaining)
	best := 0
	var out []Cell
	for r := 0; r < a.Size; r++ {
		for c := 0; c < a.Size; c++ {
			if a.Cells[r][c] != CellEmpty || score[r][c] == 0 {
				continue
			}
			switch {
			case score[r][c] > best:
				best = score[r][c]
				out = []Cell{{Row: r, Col: c}}
			case score[r][c] == best:
				out = append(out, Cell{Row: r, Col: c})
			}
		}
	}
	return out
}

// parityCells returns Empty cells with even row+col, or the odd class when
// no even cell is left.
func parityCells(a AttackState) []Cell {
	var even, odd []Cell
	for _, c := range EmptyCells(a) {
		if (c.Row+c.Col)%2 == 0 {
			even = append(even, c)
		} else {
			odd = append(odd, c)
		}
	}
	if len(even) > 0 {
		return even
	}
	return odd
}

// nearMissCluster reports whether c touches two or more Miss cells.
func nearMissCluster(a AttackState, c Cell) bool {
	misses := 0
	for _, n := range c.Neighbors(a.Size) {
		if a.At(n) == CellMiss {
			misses++
		}
	}
	return misses >= 2
}
