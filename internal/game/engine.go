package game

import "fmt"

type AttackResult int

const (
	ResultMiss AttackResult = iota
	ResultHit
	ResultAlreadyAttacked
)

func (r AttackResult) String() string {
	switch r {
	case ResultMiss:
		return "miss"
	case ResultHit:
		return "hit"
	case ResultAlreadyAttacked:
		return "already_attacked"
	}
	return fmt.Sprintf("AttackResult(%d)", int(r))
}

// ApplyAttack resolves one shot at c. A cell that is not Empty is left alone
// and reported as ResultAlreadyAttacked.
func ApplyAttack(a *AttackState, l Layout, c Cell) (AttackResult, error) {
	if !a.In(c) {
		return ResultMiss, fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	if a.At(c) != CellEmpty {
		return ResultAlreadyAttacked, nil
	}
	if l.Occupies(c) {
		a.Cells[c.Row][c.Col] = CellHit
		return ResultHit, nil
	}
	a.Cells[c.Row][c.Col] = CellMiss
	return ResultMiss, nil
}

// EmptyCells lists unattacked cells in row-major order.
func EmptyCells(a AttackState) []Cell {
	var out []Cell
	for r := 0; r < a.Size; r++ {
		for c := 0; c < a.Size; c++ {
			if a.Cells[r][c] == CellEmpty {
				out = append(out, Cell{Row: r, Col: c})
			}
		}
	}
	return out
}
