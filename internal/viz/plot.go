package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/physim/internal/vec"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green, asciigraph.Red, asciigraph.Blue,
}

// EnergyPlot charts total energy over the recorded frames.
func EnergyPlot(energies []float64, width, height int) string {
	if len(energies) < 2 {
		return ""
	}
	return asciigraph.Plot(energies,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("energy"),
	)
}

// SeriesPlot overlays several series of equal sampling on one chart.
func SeriesPlot(caption string, series [][]float64, width, height int) string {
	data := make([][]float64, 0, len(series))
	for _, s := range series {
		if len(s) > 1 {
			data = append(data, s)
		}
	}
	if len(data) == 0 {
		return ""
	}
	colors := make([]asciigraph.AnsiColor, len(data))
	for i := range colors {
		colors[i] = seriesColors[i%len(seriesColors)]
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
}

// AxisName labels coordinate i of a position.
func AxisName(i int) string {
	switch i {
	case 0:
		return "x"
	case 1:
		return "y"
	case 2:
		return "z"
	}
	return fmt.Sprintf("axis%d", i)
}

// TrajectoryCanvas draws every body's path through the XY plane. frames are
// indexed [frame][body]. The final position of each body is circled.
func TrajectoryCanvas(frames [][]vec.Vector3, width, height int) *Canvas {
	c := NewCanvas(width, height)
	if len(frames) == 0 {
		return c
	}
	var all []vec.Vector3
	for _, f := range frames {
		all = append(all, f...)
	}
	w, h := c.Dots()
	vp := FitViewport(all, w, h, 0.05)

	bodies := len(frames[0])
	for b := 0; b < bodies; b++ {
		px, py := vp.Map(frames[0][b])
		for _, f := range frames[1:] {
			if b >= len(f) {
				break
			}
			x, y := vp.Map(f[b])
			c.DrawLine(px, py, x, y)
			px, py = x, y
		}
		c.DrawCircle(px, py, 2)
	}
	return c
}
