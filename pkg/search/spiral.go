package search

// Cell addresses a grid cell by row and column.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// SpiralCells returns the grid cells in outward square-spiral order,
// starting at the center cell.
//
// The walk keeps an offset (x, y) from the center and a direction (dx, dy),
// starting at (0, 0) heading (0, -1). On every step the current cell is
// emitted if it lies inside the grid, then the direction turns 90° left when
//
//	x == y || (x < 0 && x == -y) || (x > 0 && x == 1-y)
//
// and the offset advances. The walk runs for max(rows, cols)² steps, which
// covers every cell of the grid exactly once.
func SpiralCells(g ProbabilityGrid) []Cell {
	rows, cols := g.Dims()
	if rows == 0 || cols == 0 {
		return nil
	}
	cr, cc := g.CenterCell()

	side := max(rows, cols)
	steps := side * side
	cells := make([]Cell, 0, rows*cols)

	x, y := 0, 0
	dx, dy := 0, -1
	for i := 0; i < steps; i++ {
		row, col := cr+y, cc+x
		if row >= 0 && row < rows && col >= 0 && col < cols {
			cells = append(cells, Cell{Row: row, Col: col})
		}

		if x == y || (x < 0 && x == -y) || (x > 0 && x == 1-y) {
			dx, dy = -dy, dx
		}
		x, y = x+dx, y+dy
	}

	return cells
}

// Spiral returns the search pattern for a grid: the SpiralCells order
// mapped to geographic waypoints. Each cell's planar offset is projected
// with ToGeo relative to the grid's reference position, so the first
// waypoint is the reference itself. Near-center cells, which carry the
// highest probability, come first.
func Spiral(g ProbabilityGrid) ([]Waypoint, error) {
	cells := SpiralCells(g)
	ref := g.Reference()

	waypoints := make([]Waypoint, 0, len(cells))
	for _, c := range cells {
		xKm, yKm := g.OffsetKm(c.Row, c.Col)
		pos, err := ToGeo(xKm, yKm, ref)
		if err != nil {
			return nil, err
		}
		waypoints = append(waypoints, Waypoint{Latitude: pos.Latitude, Longitude: pos.Longitude})
	}

	return waypoints, nil
}

// CumulativeProbability returns the probability mass covered after visiting
// the first n cells of order. Planners use it to judge how much of the
// distribution a partial search has covered.
func CumulativeProbability(g ProbabilityGrid, order []Cell, n int) float64 {
	if n > len(order) {
		n = len(order)
	}
	total := 0.0
	for _, c := range order[:n] {
		total += g.At(c.Row, c.Col)
	}
	return total
}
