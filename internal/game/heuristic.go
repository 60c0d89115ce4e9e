package game

import "fmt"

// Tier names the stage of the targeting cascade that produced a candidate set.
type Tier int

const (
	TierNone Tier = iota
	TierBridge
	TierAdjacent
	TierDensity
	TierParity
)

func (t Tier) String() string {
	switch t {
	case TierBridge:
		return "bridge"
	case TierAdjacent:
		return "adjacent"
	case TierDensity:
		return "density"
	case TierParity:
		return "parity"
	}
	return "none"
}

// Candidates runs the cascade (bridge, adjacent, density, parity), keeps the
// first non-empty set and drops cells touching two or more misses unless that
// would leave nothing. The result depends only on its inputs.
func Candidates(a AttackState, remaining []int) (Tier, []Cell) {
	cascade := []struct {
		tier  Tier
		build func() []Cell
	}{
		{TierBridge, func() []Cell { return bridgeCells(a) }},
		{TierAdjacent, func() []Cell { return adjacentCells(a) }},
		{TierDensity, func() []Cell { return densityCells(a, remaining) }},
		{TierParity, func() []Cell { return parityCells(a) }},
	}
	for _, step := range cascade {
		cells := step.build()
		if len(cells) == 0 {
			continue
		}
		filtered := make([]Cell, 0, len(cells))
		for _, c := range cells {
			if !nearMissCluster(a, c) {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == 0 {
			return step.tier, cells
		}
		return step.tier, filtered
	}
	return TierNone, nil
}

// ChooseCell picks the computer opponent's next shot uniformly among the
// cascade's candidates.
func ChooseCell(rng Rand, a AttackState, remaining []int) (Cell, Tier, error) {
	tier, cells := Candidates(a, remaining)
	if len(cells) == 0 {
		return Cell{}, TierNone, ErrNoTarget
	}
	return cells[rng.Intn(len(cells))], tier, nil
}

// ValidTarget reports whether c is an unattacked in-bounds cell of a.
func ValidTarget(a AttackState, c Cell) error {
	if !a.In(c) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	if a.At(c) != CellEmpty {
		return fmt.Errorf("cell %s already %s", c, a.At(c))
	}
	return nil
}
