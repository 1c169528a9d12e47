package gallery

// CellState is the visual state of one gallery cell.
type CellState string

const (
	CellNormal   CellState = "normal"
	CellExpanded CellState = "expanded"
)

// eagerCells is how many leading cells are loaded without lazy-loading.
const eagerCells = 4

// Cell is one rendered image. It carries no state of its own; clicking it asks the
// controller to toggle Path.
type Cell struct {
	Path     ImagePath
	Index    int
	Selected bool
}

func (c Cell) State() CellState {
	if c.Selected {
		return CellExpanded
	}
	return CellNormal
}

// Span is the number of grid columns and rows the cell covers.
func (c Cell) Span() int {
	if c.Selected {
		return 2
	}
	return 1
}

// Eager reports whether the image should skip lazy loading.
func (c Cell) Eager() bool {
	return c.Index < eagerCells
}

// Number is the 1-based position used in alt text.
func (c Cell) Number() int {
	return c.Index + 1
}
