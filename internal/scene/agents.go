package scene

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/physim/internal/config"
	"github.com/san-kum/physim/internal/constraints"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/forces"
	"github.com/san-kum/physim/internal/vec"
)

// AgentTypes lists the agent types a scene may declare.
var AgentTypes = []string{
	"spring", "rotational_spring", "repulsion", "vector_field", "drag", "rotational_drag",
	"wall", "walls", "collision", "distance", "snap", "surface", "curve",
}

var (
	forceFunctions = map[string]forces.ForceFunction{"hook": forces.Hook, "fene": forces.FENE}
	decays         = map[string]forces.DecayFunction{
		"gravity": forces.Gravity, "inverse": forces.Inverse, "linear": forces.Linear, "morse": forces.Morse,
	}
	fields = map[string]forces.Field{
		"constant": forces.Constant, "linear": forces.LinearField, "radial": forces.Radial,
		"point_attractor": forces.PointAttractor, "sphere_attractor": forces.SphereAttractor,
	}
	dragLaws      = map[string]forces.DragLaw{"linear": forces.LinearDrag, "quadratic": forces.QuadraticDrag}
	contactModes  = map[string]constraints.ContactAction{"reflect": constraints.Reflect, "silent": constraints.Silent}
	wallSideSets  = map[string][]constraints.Side{"2d": constraints.TwoDimensional, "3d": constraints.ThreeDimensional}
)

// options holds the keys that mapstructure cannot decode into option
// structs: vectors, enums and equations.
type options struct {
	special map[string]any
}

// decode splits raw into the special keys and the rest, which is decoded
// into out. Unknown keys are an error.
func decode(raw map[string]any, out any, special ...string) (*options, error) {
	plain := make(map[string]any, len(raw))
	o := &options{special: make(map[string]any)}
	for k, v := range raw {
		plain[k] = v
		for _, s := range special {
			if k == s {
				o.special[k] = v
				delete(plain, k)
				break
			}
		}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(plain); err != nil {
		return nil, errors.Wrapf(dynamo.ErrInvalidOption, "%v", err)
	}
	return o, nil
}

func (o *options) floats(key string, n ...int) ([]float64, bool, error) {
	v, ok := o.special[key]
	if !ok {
		return nil, false, nil
	}
	var out []float64
	if err := mapstructure.WeakDecode(v, &out); err != nil {
		return nil, true, errors.Wrapf(dynamo.ErrInvalidOption, "%s: %v", key, err)
	}
	for _, want := range n {
		if len(out) == want {
			return out, true, nil
		}
	}
	if len(n) > 0 {
		return nil, true, errors.Wrapf(dynamo.ErrInvalidOption, "%s has %d components", key, len(out))
	}
	return out, true, nil
}

func (o *options) vector(key string) (vec.Vector3, bool, error) {
	s, ok, err := o.floats(key, 2, 3)
	if !ok || err != nil {
		return vec.Zero, ok, err
	}
	return vec.FromSlice(s), true, nil
}

func (o *options) anchor() (*vec.Vector3, error) {
	v, ok, err := o.vector("anchor")
	if !ok || err != nil {
		return nil, err
	}
	return &v, nil
}

func (o *options) str(key string) (string, bool, error) {
	v, ok := o.special[key]
	if !ok {
		return "", false, nil
	}
	s, isString := v.(string)
	if !isString {
		return "", true, errors.Wrapf(dynamo.ErrInvalidOption, "%s must be a string", key)
	}
	return s, true, nil
}

// enum resolves o[key] through table, leaving *dst untouched when absent.
func enum[T any](o *options, key string, table map[string]T, dst *T) error {
	s, ok, err := o.str(key)
	if !ok || err != nil {
		return err
	}
	v, known := table[s]
	if !known {
		return errors.Wrapf(dynamo.ErrUnknownKind, "%s %q", key, s)
	}
	*dst = v
	return nil
}

func (o *options) equation(key string) (constraints.Equation, error) {
	s, ok, err := o.str(key)
	if !ok || err != nil {
		return nil, err
	}
	return CompileEquation(s)
}

func (s *Scene) newAgent(ac config.AgentConfig) (any, error) {
	raw := ac.Options
	switch ac.Type {
	case "spring":
		opts := forces.DefaultSpringOptions()
		o, err := decode(raw, &opts, "anchor", "force_function")
		if err != nil {
			return nil, err
		}
		if opts.Anchor, err = o.anchor(); err != nil {
			return nil, err
		}
		if err := enum(o, "force_function", forceFunctions, &opts.ForceFunction); err != nil {
			return nil, err
		}
		s.warnClamped(ac.Type, opts.Period)
		return forces.NewSpring(opts)

	case "rotational_spring":
		opts := forces.DefaultRotationalSpringOptions()
		o, err := decode(raw, &opts, "anchor")
		if err != nil {
			return nil, err
		}
		if a, ok, err := o.floats("anchor", 3, 4); err != nil {
			return nil, err
		} else if ok {
			if opts.Anchor, err = orientation(a); err != nil {
				return nil, err
			}
		}
		s.warnClamped(ac.Type, opts.Period)
		return forces.NewRotationalSpring(opts)

	case "repulsion":
		opts := forces.DefaultRepulsionOptions()
		o, err := decode(raw, &opts, "anchor", "range", "decay")
		if err != nil {
			return nil, err
		}
		if opts.Anchor, err = o.anchor(); err != nil {
			return nil, err
		}
		if r, ok, err := o.floats("range", 2); err != nil {
			return nil, err
		} else if ok {
			opts.Range = [2]float64{r[0], r[1]}
		}
		if err := enum(o, "decay", decays, &opts.Decay); err != nil {
			return nil, err
		}
		return forces.NewRepulsion(opts)

	case "vector_field":
		opts := forces.DefaultVectorFieldOptions()
		o, err := decode(raw, &opts, "field", "direction", "position")
		if err != nil {
			return nil, err
		}
		if err := enum(o, "field", fields, &opts.Field); err != nil {
			return nil, err
		}
		if v, ok, err := o.vector("direction"); err != nil {
			return nil, err
		} else if ok {
			opts.Direction = v
		}
		if v, ok, err := o.vector("position"); err != nil {
			return nil, err
		} else if ok {
			opts.Position = v
		}
		return forces.NewVectorField(opts)

	case "drag", "rotational_drag":
		opts := forces.DefaultDragOptions()
		o, err := decode(raw, &opts, "law")
		if err != nil {
			return nil, err
		}
		if err := enum(o, "law", dragLaws, &opts.Law); err != nil {
			return nil, err
		}
		if ac.Type == "drag" {
			return forces.NewDrag(opts)
		}
		return forces.NewRotationalDrag(opts)

	case "wall":
		opts := constraints.DefaultWallOptions()
		o, err := decode(raw, &opts, "normal", "on_contact")
		if err != nil {
			return nil, err
		}
		if v, ok, err := o.vector("normal"); err != nil {
			return nil, err
		} else if ok {
			opts.Normal = v
		}
		if err := enum(o, "on_contact", contactModes, &opts.OnContact); err != nil {
			return nil, err
		}
		return constraints.NewWall(opts)

	case "walls":
		return s.newWalls(raw)

	case "collision":
		opts := constraints.DefaultCollisionOptions()
		if _, err := decode(raw, &opts); err != nil {
			return nil, err
		}
		return constraints.NewCollision(opts)

	case "distance":
		opts := constraints.DefaultDistanceOptions()
		o, err := decode(raw, &opts, "anchor")
		if err != nil {
			return nil, err
		}
		if opts.Anchor, err = o.anchor(); err != nil {
			return nil, err
		}
		return constraints.NewDistance(opts)

	case "snap":
		opts := constraints.DefaultSnapOptions()
		o, err := decode(raw, &opts, "anchor")
		if err != nil {
			return nil, err
		}
		if opts.Anchor, err = o.anchor(); err != nil {
			return nil, err
		}
		return constraints.NewSnap(opts)

	case "surface":
		var opts constraints.SurfaceOptions
		o, err := decode(raw, &opts, "equation")
		if err != nil {
			return nil, err
		}
		if opts.Equation, err = o.equation("equation"); err != nil {
			return nil, err
		}
		return constraints.NewSurface(opts)

	case "curve":
		opts := constraints.DefaultCurveOptions()
		o, err := decode(raw, &opts, "equation", "plane")
		if err != nil {
			return nil, err
		}
		if opts.Equation, err = o.equation("equation"); err != nil {
			return nil, err
		}
		if plane, err := o.equation("plane"); err != nil {
			return nil, err
		} else if plane != nil {
			opts.Plane = plane
		}
		return constraints.NewCurve(opts)
	}
	return nil, errors.Wrapf(dynamo.ErrUnknownKind, "agent type %q", ac.Type)
}

func (s *Scene) newWalls(raw map[string]any) (any, error) {
	opts := constraints.DefaultWallsOptions()
	o, err := decode(raw, &opts, "sides", "size", "origin", "on_contact")
	if err != nil {
		return nil, err
	}
	if v, ok := o.special["sides"]; ok {
		sides, err := parseSides(v)
		if err != nil {
			return nil, err
		}
		opts.Sides = sides
	}
	if v, ok, err := o.floats("size", 2, 3); err != nil {
		return nil, err
	} else if ok {
		opts.Size = [3]float64{}
		copy(opts.Size[:], v)
	}
	if v, ok, err := o.floats("origin", 2, 3); err != nil {
		return nil, err
	} else if ok {
		copy(opts.Origin[:], v)
	}
	if err := enum(o, "on_contact", contactModes, &opts.OnContact); err != nil {
		return nil, err
	}
	return constraints.NewWalls(opts)
}

// parseSides accepts "2d", "3d" or a list of side names.
func parseSides(v any) ([]constraints.Side, error) {
	if name, ok := v.(string); ok {
		set, known := wallSideSets[name]
		if !known {
			return nil, errors.Wrapf(dynamo.ErrUnknownKind, "sides %q", name)
		}
		return set, nil
	}
	var names []string
	if err := mapstructure.Decode(v, &names); err != nil {
		return nil, errors.Wrapf(dynamo.ErrInvalidOption, "sides: %v", err)
	}
	sides := make([]constraints.Side, 0, len(names))
	for _, n := range names {
		side, ok := constraints.ParseSide(n)
		if !ok {
			return nil, errors.Wrapf(dynamo.ErrUnknownKind, "side %q", n)
		}
		sides = append(sides, side)
	}
	return sides, nil
}

func (s *Scene) warnClamped(agent string, period float64) {
	if forces.PeriodClamped(period) {
		s.log.Warn("spring period below minimum, clamping",
			zap.String("agent", agent),
			zap.Float64("period", period),
			zap.Float64("min_period", forces.MinPeriod))
	}
}
