package body

import (
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/vec"
)

func diagonalInertia(a, b, c float64) (vec.Matrix3, vec.Matrix3) {
	return vec.Diagonal(a, b, c), vec.Diagonal(1/a, 1/b, 1/c)
}

// Rectangle is a thin plate of the given width and height in the xy plane.
type Rectangle struct {
	Body
	Size [2]float64
}

func NewRectangle(opts Options, width, height float64) (*Rectangle, error) {
	if !(width > 0) {
		return nil, dynamo.InvalidOption("rectangle", "width", width)
	}
	if !(height > 0) {
		return nil, dynamo.InvalidOption("rectangle", "height", height)
	}
	r := &Rectangle{Size: [2]float64{width, height}}
	if err := r.Body.init(opts, r.inertia); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rectangle) inertia(m float64) (vec.Matrix3, vec.Matrix3) {
	w, h := r.Size[0], r.Size[1]
	return diagonalInertia(m*h*h/12, m*w*w/12, m*(w*w+h*h)/12)
}

func (r *Rectangle) SetSize(width, height float64) error {
	if !(width > 0) || !(height > 0) {
		return dynamo.InvalidOption("rectangle", "size", width*height)
	}
	r.Size = [2]float64{width, height}
	r.updateInertia()
	return nil
}

// Circle is a flat disc in the xy plane. Its Radius is also its collision radius.
type Circle struct {
	Body
}

func NewCircle(opts Options, radius float64) (*Circle, error) {
	if !(radius > 0) {
		return nil, dynamo.InvalidOption("circle", "radius", radius)
	}
	opts.Radius = radius
	c := &Circle{}
	err := c.Body.init(opts, func(m float64) (vec.Matrix3, vec.Matrix3) {
		return diagonalInertia(m*radius*radius/4, m*radius*radius/4, m*radius*radius/2)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Sphere is a solid ball.
type Sphere struct {
	Body
}

func NewSphere(opts Options, radius float64) (*Sphere, error) {
	if !(radius > 0) {
		return nil, dynamo.InvalidOption("sphere", "radius", radius)
	}
	opts.Radius = radius
	s := &Sphere{}
	err := s.Body.init(opts, func(m float64) (vec.Matrix3, vec.Matrix3) {
		i := 2 * m * radius * radius / 5
		return diagonalInertia(i, i, i)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}
