package constraints

import (
	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/event"
	"github.com/san-kum/physim/internal/vec"
)

type Side int

const (
	Left Side = iota
	Right
	Top
	Bottom
	Front
	Back
)

var (
	TwoDimensional   = []Side{Left, Right, Top, Bottom}
	ThreeDimensional = []Side{Left, Right, Top, Bottom, Front, Back}
)

var sideNames = map[Side]string{
	Left: "left", Right: "right", Top: "top", Bottom: "bottom", Front: "front", Back: "back",
}

func (s Side) String() string { return sideNames[s] }

// ParseSide maps a lower-case side name to its Side.
func ParseSide(name string) (Side, bool) {
	for s, n := range sideNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

func sideNormal(s Side) vec.Vector3 {
	switch s {
	case Left:
		return vec.New(1, 0, 0)
	case Right:
		return vec.New(-1, 0, 0)
	case Top:
		return vec.New(0, 1, 0)
	case Bottom:
		return vec.New(0, -1, 0)
	case Front:
		return vec.New(0, 0, 1)
	default:
		return vec.New(0, 0, -1)
	}
}

// sideDistance places each side of a box of the given size around origin,
// where origin is the fractional position of the coordinate origin in the box.
func sideDistance(s Side, size, origin [3]float64) float64 {
	switch s {
	case Left:
		return size[0] * origin[0]
	case Top:
		return size[1] * origin[1]
	case Front:
		return size[2] * origin[2]
	case Right:
		return size[0] * (1 - origin[0])
	case Bottom:
		return size[1] * (1 - origin[1])
	default:
		return size[2] * (1 - origin[2])
	}
}

type WallsOptions struct {
	Sides       []Side        `mapstructure:"-"`
	Size        [3]float64    `mapstructure:"-"`
	Origin      [3]float64    `mapstructure:"-"`
	Restitution float64       `mapstructure:"restitution"`
	Drift       float64       `mapstructure:"drift"`
	Slop        float64       `mapstructure:"slop"`
	OnContact   ContactAction `mapstructure:"-"`
}

func DefaultWallsOptions() WallsOptions {
	return WallsOptions{
		Sides:       TwoDimensional,
		Size:        [3]float64{1000, 1000, 0},
		Origin:      [3]float64{0.5, 0.5, 0.5},
		Restitution: 0.5,
		Drift:       0.5,
	}
}

// Walls is a box of Wall constraints, one per configured side. Collision
// events of every side are re-emitted by the aggregate.
type Walls struct {
	base
	opts  WallsOptions
	walls map[Side]*Wall
}

func NewWalls(opts WallsOptions) (*Walls, error) {
	w := &Walls{}
	if err := w.validate(opts); err != nil {
		return nil, err
	}
	w.opts = opts
	if err := w.reset(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Walls) validate(opts WallsOptions) error {
	if len(opts.Sides) == 0 {
		return dynamo.InvalidOption("walls", "sides", 0)
	}
	for i, s := range opts.Size {
		if s < 0 {
			return dynamo.InvalidOption("walls", "size", s)
		}
		if s == 0 && w.usesAxis(opts.Sides, i) {
			return dynamo.InvalidOption("walls", "size", s)
		}
	}
	return validateContact("walls", opts.Restitution, opts.Drift, opts.Slop)
}

func (w *Walls) usesAxis(sides []Side, axis int) bool {
	for _, s := range sides {
		if int(s)/2 == axis {
			return true
		}
	}
	return false
}

func (w *Walls) reset() error {
	w.walls = make(map[Side]*Wall, len(w.opts.Sides))
	for _, s := range w.opts.Sides {
		wall, err := NewWall(WallOptions{
			Restitution: w.opts.Restitution,
			Drift:       w.opts.Drift,
			Slop:        w.opts.Slop,
			Normal:      sideNormal(s),
			Distance:    sideDistance(s, w.opts.Size, w.opts.Origin),
			OnContact:   w.opts.OnContact,
		})
		if err != nil {
			return err
		}
		for _, et := range []event.Type{event.PreCollision, event.Collision, event.PostCollision} {
			et := et
			wall.On(et, func(p any) { w.Emit(et, p) })
		}
		w.walls[s] = wall
	}
	return nil
}

// Reset rebuilds every side from the current options, undoing rotations.
func (w *Walls) Reset() error {
	if err := w.reset(); err != nil {
		return err
	}
	w.changed(w)
	return nil
}

func (w *Walls) Options() WallsOptions { return w.opts }

// SetOptions fans contact options out to every wall and repositions the box.
func (w *Walls) SetOptions(opts WallsOptions) error {
	if err := w.validate(opts); err != nil {
		return err
	}
	w.opts = opts
	if err := w.reset(); err != nil {
		return err
	}
	w.changed(w)
	return nil
}

// SetSize repositions every wall for a new box size and origin.
func (w *Walls) SetSize(size, origin [3]float64) error {
	opts := w.opts
	opts.Size, opts.Origin = size, origin
	if err := w.validate(opts); err != nil {
		return err
	}
	w.opts = opts
	w.ForEach(func(s Side, wall *Wall) {
		wall.opts.Distance = sideDistance(s, size, origin)
	})
	w.changed(w)
	return nil
}

func (w *Walls) fanOut(opts WallsOptions, update func(*WallOptions)) error {
	if err := validateContact("walls", opts.Restitution, opts.Drift, opts.Slop); err != nil {
		return err
	}
	w.opts = opts
	w.ForEach(func(_ Side, wall *Wall) { update(&wall.opts) })
	w.changed(w)
	return nil
}

func (w *Walls) SetRestitution(r float64) error {
	opts := w.opts
	opts.Restitution = r
	return w.fanOut(opts, func(o *WallOptions) { o.Restitution = r })
}

func (w *Walls) SetDrift(d float64) error {
	opts := w.opts
	opts.Drift = d
	return w.fanOut(opts, func(o *WallOptions) { o.Drift = d })
}

func (w *Walls) SetSlop(s float64) error {
	opts := w.opts
	opts.Slop = s
	return w.fanOut(opts, func(o *WallOptions) { o.Slop = s })
}

func (w *Walls) SetOnContact(a ContactAction) error {
	opts := w.opts
	opts.OnContact = a
	return w.fanOut(opts, func(o *WallOptions) { o.OnContact = a })
}

// Wall returns the wall of one side, or nil.
func (w *Walls) Wall(s Side) *Wall { return w.walls[s] }

// ForEach visits the walls in side order.
func (w *Walls) ForEach(fn func(Side, *Wall)) {
	for _, s := range w.opts.Sides {
		fn(s, w.walls[s])
	}
}

func (w *Walls) rotate(fn func(vec.Vector3) vec.Vector3) {
	w.ForEach(func(_ Side, wall *Wall) {
		wall.opts.Normal = fn(wall.opts.Normal)
	})
	w.changed(w)
}

func (w *Walls) RotateX(angle float64) {
	w.rotate(func(n vec.Vector3) vec.Vector3 { return n.RotateX(angle) })
}

func (w *Walls) RotateY(angle float64) {
	w.rotate(func(n vec.Vector3) vec.Vector3 { return n.RotateY(angle) })
}

func (w *Walls) RotateZ(angle float64) {
	w.rotate(func(n vec.Vector3) vec.Vector3 { return n.RotateZ(angle) })
}

func (w *Walls) ApplyConstraint(targets []body.Entity, source body.Entity, dt float64) {
	w.ForEach(func(_ Side, wall *Wall) {
		wall.ApplyConstraint(targets, source, dt)
	})
}

func (w *Walls) Energy(_ []body.Entity, _ body.Entity) float64 { return 0 }
