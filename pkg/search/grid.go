package search

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/unklstewy/sar-scope/pkg/coordinates"
)

const (
	// CellSizeKm is the grid resolution
	CellSizeKm = 1.0

	// MaxGridSide caps the number of cells per side (16.7M cells, ~134 MB).
	// Radii above MaxGridSide/2 km are rejected.
	MaxGridSide = 4096
)

// ProbabilityGrid is a square grid of probability mass centered on a
// reference position. Each cell is CellSizeKm wide; cell (row, col) sits at
// planar offset ((col-cc)*CellSizeKm east, (row-cr)*CellSizeKm north) from
// the center cell (cr, cc). Row indices grow northward.
//
// A grid is immutable once built.
type ProbabilityGrid struct {
	reference coordinates.Geographic
	radiusKm  float64
	cells     *mat.Dense
}

// BuildGrid builds the probability grid for a search area.
//
// The grid side is floor(2*radiusKm) cells. Each cell holds a radially
// symmetric Gaussian density evaluated at the cell's offset from the
// center cell with sigma = radiusKm/3, so ~99.7% of the mass lies inside
// the radius. Values are normalized to sum to 1.
//
// Returns a *DomainError for a negative or non-finite radius, or when the
// radius is too small (< 0.5 km) or too large for the grid.
func BuildGrid(center coordinates.Geographic, radiusKm float64) (ProbabilityGrid, error) {
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm < 0 {
		return ProbabilityGrid{}, domain("probability grid", radiusKm, "radius must be a positive number")
	}

	side := int(math.Floor(2 * radiusKm / CellSizeKm))
	if side == 0 {
		return ProbabilityGrid{}, domain("probability grid", radiusKm, "radius too small for a 1 km grid")
	}
	if side > MaxGridSide {
		return ProbabilityGrid{}, domain("probability grid", radiusKm, "radius too large for the grid")
	}

	sigma := radiusKm / 3.0
	twoSigmaSq := 2 * sigma * sigma
	c := centerIndex(side)

	data := make([]float64, side*side)
	for row := 0; row < side; row++ {
		y := float64(row-c) * CellSizeKm
		for col := 0; col < side; col++ {
			x := float64(col-c) * CellSizeKm
			data[row*side+col] = math.Exp(-(x*x + y*y) / twoSigmaSq)
		}
	}

	// The center cell is exp(0) = 1, so the sum is never zero.
	total := floats.Sum(data)
	cells := mat.NewDense(side, side, data)
	cells.Scale(1/total, cells)

	return ProbabilityGrid{
		reference: center,
		radiusKm:  radiusKm,
		cells:     cells,
	}, nil
}

// centerIndex is the center cell index along one axis. For even sides the
// true center falls between two cells; the lower one is used, which is the
// cell an outward square spiral needs to start from to cover the grid.
func centerIndex(side int) int {
	return (side - 1) / 2
}

// Size returns the number of cells per side.
func (g ProbabilityGrid) Size() int {
	if g.cells == nil {
		return 0
	}
	r, _ := g.cells.Dims()
	return r
}

// Dims returns the number of rows and columns.
func (g ProbabilityGrid) Dims() (rows, cols int) {
	if g.cells == nil {
		return 0, 0
	}
	return g.cells.Dims()
}

// At returns the probability mass of a cell.
func (g ProbabilityGrid) At(row, col int) float64 {
	return g.cells.At(row, col)
}

// CenterCell returns the (row, col) index of the center cell.
func (g ProbabilityGrid) CenterCell() (row, col int) {
	c := centerIndex(g.Size())
	return c, c
}

// OffsetKm returns the planar offset of a cell from the center cell.
func (g ProbabilityGrid) OffsetKm(row, col int) (xKm, yKm float64) {
	cr, cc := g.CenterCell()
	return float64(col-cc) * CellSizeKm, float64(row-cr) * CellSizeKm
}

// Reference returns the geographic position of the center cell.
func (g ProbabilityGrid) Reference() coordinates.Geographic {
	return g.reference
}

// RadiusKm returns the search radius the grid was built for.
func (g ProbabilityGrid) RadiusKm() float64 {
	return g.radiusKm
}

// Sum returns the total probability mass (1 within floating tolerance).
func (g ProbabilityGrid) Sum() float64 {
	if g.cells == nil {
		return 0
	}
	return mat.Sum(g.cells)
}

// Max returns the largest cell value.
func (g ProbabilityGrid) Max() float64 {
	if g.cells == nil {
		return 0
	}
	return mat.Max(g.cells)
}

// Rows returns a copy of the grid as row slices, row 0 southernmost.
func (g ProbabilityGrid) Rows() [][]float64 {
	rows, _ := g.Dims()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = mat.Row(nil, i, g.cells)
	}
	return out
}

type gridJSON struct {
	Reference  coordinates.Geographic `json:"reference"`
	RadiusKm   float64                `json:"radius_km"`
	CellSizeKm float64                `json:"cell_size_km"`
	CenterCell [2]int                 `json:"center_cell"`
	Cells      [][]float64            `json:"cells"`
}

// MarshalJSON encodes the grid with its geometry so a plotting client can
// place every cell.
func (g ProbabilityGrid) MarshalJSON() ([]byte, error) {
	cr, cc := g.CenterCell()
	return json.Marshal(gridJSON{
		Reference:  g.reference,
		RadiusKm:   g.radiusKm,
		CellSizeKm: CellSizeKm,
		CenterCell: [2]int{cr, cc},
		Cells:      g.Rows(),
	})
}

// UnmarshalJSON rebuilds a grid encoded by MarshalJSON.
func (g *ProbabilityGrid) UnmarshalJSON(data []byte) error {
	var raw gridJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	side := len(raw.Cells)
	if side == 0 {
		*g = ProbabilityGrid{reference: raw.Reference, radiusKm: raw.RadiusKm}
		return nil
	}

	flat := make([]float64, 0, side*side)
	for i, row := range raw.Cells {
		if len(row) != side {
			return fmt.Errorf("grid row %d has %d cells, want %d", i, len(row), side)
		}
		flat = append(flat, row...)
	}

	*g = ProbabilityGrid{
		reference: raw.Reference,
		radiusKm:  raw.RadiusKm,
		cells:     mat.NewDense(side, side, flat),
	}
	return nil
}
