package viz

import (
	"math"
	"sort"

	"github.com/san-kum/physim/internal/vec"
)

// Camera rotates world points about a pivot before they reach a viewport,
// so three dimensional scenes can be inspected from any side.
type Camera struct {
	Pivot      vec.Vector3
	RotX, RotY float64
	Zoom       float64
}

func NewCamera(pivot vec.Vector3) *Camera {
	return &Camera{Pivot: pivot, Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Reset restores the head-on view.
func (c *Camera) Reset() { c.RotX, c.RotY, c.Zoom = 0, 0, 1 }

// Apply returns p as seen by the camera. Depth ends up in Z.
func (c *Camera) Apply(p vec.Vector3) vec.Vector3 {
	r := p.Sub(c.Pivot).RotateX(c.RotX).RotateY(c.RotY).Mult(c.Zoom)
	return r.Add(c.Pivot)
}

type Edge struct {
	Start, End vec.Vector3
}

type Wireframe struct{ Edges []Edge }

func (w *Wireframe) AddEdge(s, e vec.Vector3) { w.Edges = append(w.Edges, Edge{s, e}) }

// BoxWireframe outlines the axis aligned box [lo, hi]. A flat box (equal Z)
// yields the four edges of a rectangle.
func BoxWireframe(lo, hi vec.Vector3) *Wireframe {
	w := &Wireframe{}
	corner := func(i int) vec.Vector3 {
		p := lo
		if i&1 != 0 {
			p.X = hi.X
		}
		if i&2 != 0 {
			p.Y = hi.Y
		}
		if i&4 != 0 {
			p.Z = hi.Z
		}
		return p
	}
	for _, e := range [][2]int{{0, 1}, {1, 3}, {3, 2}, {2, 0}} {
		w.AddEdge(corner(e[0]), corner(e[1]))
	}
	if lo.Z == hi.Z {
		return w
	}
	for _, e := range [][2]int{{4, 5}, {5, 7}, {7, 6}, {6, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}} {
		w.AddEdge(corner(e[0]), corner(e[1]))
	}
	return w
}

// Render draws the wireframe far edges first.
func Render(c *Canvas, w *Wireframe, cam *Camera, vp Viewport) {
	if c == nil || w == nil || cam == nil {
		return
	}
	type projected struct {
		x0, y0, x1, y1 int
		depth          float64
	}
	proj := make([]projected, 0, len(w.Edges))
	for _, e := range w.Edges {
		a, b := cam.Apply(e.Start), cam.Apply(e.End)
		x0, y0 := vp.Map(a)
		x1, y1 := vp.Map(b)
		proj = append(proj, projected{x0, y0, x1, y1, (a.Z + b.Z) / 2})
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth > proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x0, e.y0, e.x1, e.y1)
	}
}
