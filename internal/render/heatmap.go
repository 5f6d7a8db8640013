package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/unklstewy/sar-scope/pkg/search"
)

// MaxHeatmapPixels bounds the side of the rendered image.
const MaxHeatmapPixels = 8192

// Figure layout around the heatmap, in pixels.
const (
	figureMarginLeft   = 48
	figureMarginTop    = 24
	figureMarginBottom = 32
	colorbarGap        = 12
	colorbarWidth      = 16
	colorbarLabelWidth = 56
)

// HotColor maps t in [0, 1] onto the black-red-yellow-white "hot" ramp.
func HotColor(t float64) color.RGBA {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	channel := func(v float64) uint8 {
		return uint8(math.Round(255 * math.Min(1, math.Max(0, v))))
	}
	return color.RGBA{
		R: channel(3 * t),
		G: channel(3*t - 1),
		B: channel(3*t - 2),
		A: 255,
	}
}

// HeatmapImage draws the grid with north up: the top pixel row is the
// northernmost grid row. Values are scaled by the grid maximum and each
// cell is cellPixels wide.
func HeatmapImage(g search.ProbabilityGrid, cellPixels int) (*image.RGBA, error) {
	rows, cols := g.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("empty grid")
	}
	if cellPixels < 1 {
		cellPixels = 1
	}
	if rows*cellPixels > MaxHeatmapPixels || cols*cellPixels > MaxHeatmapPixels {
		cellPixels = MaxHeatmapPixels / max(rows, cols)
		if cellPixels < 1 {
			return nil, fmt.Errorf("grid of %dx%d cells is too large for a heatmap", rows, cols)
		}
	}

	peak := g.Max()
	if peak <= 0 {
		peak = 1
	}

	cells := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cells.SetRGBA(col, rows-1-row, HotColor(g.At(row, col)/peak))
		}
	}
	if cellPixels == 1 {
		return cells, nil
	}

	scaled := resize.Resize(uint(cols*cellPixels), uint(rows*cellPixels), cells, resize.NearestNeighbor)
	img := image.NewRGBA(image.Rect(0, 0, cols*cellPixels, rows*cellPixels))
	draw.Draw(img, img.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
	return img, nil
}

// HeatmapFigure frames the heatmap with a title, km axis labels relative to
// the center cell and a colorbar of the probability per cell.
func HeatmapFigure(g search.ProbabilityGrid, cellPixels int) (*image.RGBA, error) {
	heat, err := HeatmapImage(g, cellPixels)
	if err != nil {
		return nil, err
	}
	w, h := heat.Bounds().Dx(), heat.Bounds().Dy()

	fig := image.NewRGBA(image.Rect(0, 0,
		figureMarginLeft+w+colorbarGap+colorbarWidth+colorbarLabelWidth,
		figureMarginTop+h+figureMarginBottom))
	draw.Draw(fig, fig.Bounds(), image.White, image.Point{}, draw.Src)

	left, top := figureMarginLeft, figureMarginTop
	draw.Draw(fig, image.Rect(left, top, left+w, top+h), heat, heat.Bounds().Min, draw.Src)

	barLeft := left + w + colorbarGap
	for y := 0; y < h; y++ {
		c := HotColor(1 - float64(y)/float64(max(h-1, 1)))
		for x := barLeft; x < barLeft+colorbarWidth; x++ {
			fig.SetRGBA(x, top+y, c)
		}
	}

	rows, cols := g.Dims()
	westKm, southKm := g.OffsetKm(0, 0)
	eastKm, northKm := g.OffsetKm(rows-1, cols-1)

	drawLabel(fig, left, 16, "Search area probability")
	drawLabel(fig, barLeft+colorbarWidth+4, top+10, fmt.Sprintf("%.2g", g.Max()))
	drawLabel(fig, barLeft+colorbarWidth+4, top+h, "0")

	xLabelY := top + h + 14
	drawLabel(fig, left, xLabelY, fmt.Sprintf("%.0f", westKm))
	east := fmt.Sprintf("%.0f", eastKm)
	drawLabel(fig, left+w-labelWidth(east), xLabelY, east)
	drawLabel(fig, left+w/2-labelWidth("km east")/2, xLabelY+14, "km east")

	drawLabel(fig, 4, top+10, fmt.Sprintf("%.0f", northKm))
	drawLabel(fig, 4, top+h, fmt.Sprintf("%.0f", southKm))
	drawLabel(fig, 4, top+h/2, "km N")

	return fig, nil
}

func drawLabel(img draw.Image, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func labelWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil()
}

// WriteHeatmap encodes the heatmap figure as PNG.
func WriteHeatmap(w io.Writer, g search.ProbabilityGrid, cellPixels int) error {
	img, err := HeatmapFigure(g, cellPixels)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode heatmap: %w", err)
	}
	return nil
}

// WriteHeatmapFile renders the heatmap to path.
func WriteHeatmapFile(path string, g search.ProbabilityGrid, cellPixels int) error {
	return writeFile(path, func(w io.Writer) error { return WriteHeatmap(w, g, cellPixels) })
}
