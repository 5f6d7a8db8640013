package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/unklstewy/sar-scope/internal/render"
	"github.com/unklstewy/sar-scope/pkg/search"
)

// HeatmapView is a custom tview primitive that draws the probability grid
// with one background-colored terminal cell per block of grid cells.
type HeatmapView struct {
	*tview.Box
	app *App
}

// NewHeatmapView creates a heatmap view bound to the app's current plan
func NewHeatmapView(app *App) *HeatmapView {
	hv := &HeatmapView{
		Box: tview.NewBox(),
		app: app,
	}
	hv.SetBorder(true).SetTitle(" Probability Heatmap (north up) ")
	return hv
}

// Draw renders the heatmap using tcell
func (hv *HeatmapView) Draw(screen tcell.Screen) {
	hv.Box.DrawForSubclass(screen, hv)
	x, y, width, height := hv.GetInnerRect()

	msg := hv.app.currentPlan()
	if msg == nil {
		tview.Print(screen, "waiting for a plan...", x, y+height/2, width, tview.AlignCenter, tcell.ColorGray)
		return
	}

	cells := sampleGrid(msg.Plan.Grid, width, height)
	if len(cells) == 0 {
		return
	}

	// Center the sampled image in the box
	offY := y + (height-len(cells))/2
	offX := x + (width-len(cells[0]))/2
	for i, row := range cells {
		for j, v := range row {
			c := render.HotColor(v)
			style := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
			screen.SetContent(offX+j, offY+i, ' ', nil, style)
		}
	}

	// Mark the estimated crash site
	centerStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue).Background(tcell.ColorWhite)
	screen.SetContent(offX+len(cells[0])/2, offY+len(cells)/2, '+', nil, centerStyle)
}

// sampleGrid reduces the grid to at most width x height blocks, keeping
// the maximum of each block and scaling by the grid maximum. The first
// returned row is the northernmost.
func sampleGrid(g search.ProbabilityGrid, width, height int) [][]float64 {
	rows, cols := g.Dims()
	if rows == 0 || cols == 0 || width <= 0 || height <= 0 {
		return nil
	}

	outH := min(height, rows)
	outW := min(width, cols)

	peak := g.Max()
	if peak <= 0 {
		peak = 1
	}

	out := make([][]float64, outH)
	for i := range out {
		out[i] = make([]float64, outW)

		// Block i covers north-first rows [k0, k1); grid row 0 is south
		k0, k1 := i*rows/outH, (i+1)*rows/outH
		for j := range out[i] {
			c0, c1 := j*cols/outW, (j+1)*cols/outW

			var best float64
			for k := k0; k < k1; k++ {
				row := rows - 1 - k
				for col := c0; col < c1; col++ {
					if v := g.At(row, col); v > best {
						best = v
					}
				}
			}
			out[i][j] = best / peak
		}
	}
	return out
}
