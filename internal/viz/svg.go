package viz

import (
	"fmt"
	"html"
	"io"

	"github.com/san-kum/physim/internal/vec"
)

// CanvasSVG writes each lit braille dot as a circle, scale pixels apart.
func CanvasSVG(w io.Writer, canvas *Canvas, scale float64) error {
	if canvas == nil {
		return nil
	}
	dw, dh := canvas.Dots()
	width, height := float64(dw)*scale, float64(dh)*scale

	if _, err := fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, CurrentTheme.Background, CurrentTheme.Primary); err != nil {
		return err
	}

	r := scale * 0.4
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			if _, err := fmt.Fprintf(w, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r); err != nil {
				return err
			}
		}
	}

	_, err := io.WriteString(w, "</g>\n</svg>\n")
	return err
}

// TrajectorySVG writes one polyline per body through the XY plane, colored by
// the current theme, with the body names as a legend. frames are indexed
// [frame][body].
func TrajectorySVG(w io.Writer, names []string, frames [][]vec.Vector3, width, height int) error {
	var all []vec.Vector3
	for _, f := range frames {
		all = append(all, f...)
	}
	vp := FitViewport(all, width, height, 0.1)

	if _, err := fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, CurrentTheme.Background); err != nil {
		return err
	}

	for b, name := range names {
		color := CurrentTheme.BodyColor(b)
		if _, err := fmt.Fprintf(w, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, color); err != nil {
			return err
		}
		for i, f := range frames {
			if b >= len(f) {
				break
			}
			x, y := vp.Map(f[b])
			cmd := " L"
			if i == 0 {
				cmd = "M"
			}
			if _, err := fmt.Fprintf(w, "%s%d,%d", cmd, x, y); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "\"/>\n<text x=\"8\" y=\"%d\" fill=\"%s\" font-family=\"monospace\" font-size=\"12\">%s</text>\n",
			16*(b+1), color, html.EscapeString(name)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</svg>\n")
	return err
}
