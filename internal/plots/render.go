package plots

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// palette is the fixed 8-color cycle used across all comparison plots.
// Indices beyond the palette wrap with modulo.
var palette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}, // blue
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}, // red
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}, // green
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}, // orange
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff}, // purple
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff}, // brown
	{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff}, // pink
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}, // gray
}

// colorAt returns the palette color for index i, wrapping with modulo.
func colorAt(i int) color.RGBA {
	return palette[i%len(palette)]
}

// dashAt cycles through four line styles so coinciding curves stay
// distinguishable: solid, dashed, dot-dash, dotted.
func dashAt(i int) []vg.Length {
	switch i % 4 {
	case 1:
		return []vg.Length{vg.Points(6), vg.Points(3)}
	case 2:
		return []vg.Length{vg.Points(6), vg.Points(2), vg.Points(1), vg.Points(2)}
	case 3:
		return []vg.Length{vg.Points(1), vg.Points(2)}
	default:
		return nil
	}
}

// newPlot returns a titled plot with axis labels and a background grid.
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

// logY switches the plot's vertical axis to a logarithmic scale.
func logY(p *plot.Plot) {
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
}

// logX switches the plot's horizontal axis to a logarithmic scale.
func logX(p *plot.Plot) {
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
}

// xys pairs two equal-length slices into plotter points. Extra elements of
// the longer slice are dropped.
func xys(xs, ys []float64) plotter.XYs {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

// addLine adds a legend-labeled curve in the palette color for idx.
func addLine(p *plot.Plot, label string, xs, ys []float64, idx int, dashed bool) error {
	line, err := plotter.NewLine(xys(xs, ys))
	if err != nil {
		return fmt.Errorf("failed to build line %q: %w", label, err)
	}
	line.Color = colorAt(idx)
	line.Width = vg.Points(2)
	if dashed {
		line.Dashes = dashAt(idx)
	}
	p.Add(line)
	if label != "" {
		p.Legend.Add(label, line)
	}
	return nil
}

// addMarkers adds open-circle reference markers, the conventional styling
// for experimental data points.
func addMarkers(p *plot.Plot, label string, xs, ys []float64) error {
	s, err := plotter.NewScatter(xys(xs, ys))
	if err != nil {
		return fmt.Errorf("failed to build markers %q: %w", label, err)
	}
	s.GlyphStyle.Shape = draw.RingGlyph{}
	s.GlyphStyle.Radius = vg.Points(3)
	s.GlyphStyle.Color = color.RGBA{A: 0xff}
	p.Add(s)
	if label != "" {
		p.Legend.Add(label, s)
	}
	return nil
}

// savePNG writes a single plot as a PNG image.
func savePNG(p *plot.Plot, w, h vg.Length, path string) error {
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// saveTiled composes a grid of plots into one PNG. Nil entries leave their
// cell empty, which is how unused matrix cells are hidden.
func saveTiled(grid [][]*plot.Plot, w, h vg.Length, path string) error {
	rows := len(grid)
	if rows == 0 {
		return fmt.Errorf("empty plot grid for %s", path)
	}
	cols := len(grid[0])

	img := vgimg.New(w, h)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows,
		Cols: cols,
		PadX: vg.Millimeter * 2,
		PadY: vg.Millimeter * 2,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}

	canvases := plot.Align(grid, tiles, dc)
	for i := range grid {
		for j := range grid[i] {
			if grid[i][j] != nil {
				grid[i][j].Draw(canvases[i][j])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
