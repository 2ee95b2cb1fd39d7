package room

import "github.com/dukerupert/fernside/internal/model"

// Grid dimensions. The placement logic only cares about the cell count; the
// 4x4 layout is a UI convention.
const (
	GridSize = 16
	GridCols = 4
)

// ValidPosition reports whether pos is a cell on the grid.
func ValidPosition(pos int) bool {
	return pos >= 0 && pos < GridSize
}

// Owns reports whether the item is in the owned set.
func Owns(owned []model.OwnedItem, itemID string) bool {
	for _, o := range owned {
		if o.ItemID == itemID {
			return true
		}
	}
	return false
}

// ItemAt returns the itemID placed at pos, or "" when the cell is empty.
func ItemAt(placed []model.PlacedItem, pos int) string {
	for _, p := range placed {
		if p.GridPosition == pos {
			return p.ItemID
		}
	}
	return ""
}

// Place applies the placement rules and returns the updated placements plus
// whether the placement happened. The item must be owned and the target cell
// free; an existing placement of the same item is moved, not duplicated.
func Place(owned []model.OwnedItem, placed []model.PlacedItem, itemID string, pos int) ([]model.PlacedItem, bool) {
	if !ValidPosition(pos) || !Owns(owned, itemID) {
		return placed, false
	}
	if occupant := ItemAt(placed, pos); occupant != "" && occupant != itemID {
		return placed, false
	}

	next := make([]model.PlacedItem, 0, len(placed)+1)
	for _, p := range placed {
		if p.ItemID != itemID {
			next = append(next, p)
		}
	}
	next = append(next, model.PlacedItem{ItemID: itemID, GridPosition: pos})
	return next, true
}

// RemoveAt clears whatever occupies pos. No-op on an empty cell.
func RemoveAt(placed []model.PlacedItem, pos int) []model.PlacedItem {
	next := placed[:0:0]
	for _, p := range placed {
		if p.GridPosition != pos {
			next = append(next, p)
		}
	}
	return next
}

// UnplacedOwned returns the owned itemIDs not currently on the grid,
// preserving purchase order. Recomputed, never stored.
func UnplacedOwned(owned []model.OwnedItem, placed []model.PlacedItem) []string {
	onGrid := make(map[string]bool, len(placed))
	for _, p := range placed {
		onGrid[p.ItemID] = true
	}

	var ids []string
	for _, o := range owned {
		if !onGrid[o.ItemID] {
			ids = append(ids, o.ItemID)
		}
	}
	return ids
}
