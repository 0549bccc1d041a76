package scene

import (
	"math"

	"github.com/expr-lang/expr"
	"github.com/pkg/errors"

	"github.com/san-kum/physim/internal/constraints"
)

func equationEnv() map[string]any {
	return map[string]any{
		"x": 0.0, "y": 0.0, "z": 0.0,
		"pi":    math.Pi,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"sqrt":  math.Sqrt,
		"exp":   math.Exp,
		"log":   math.Log,
		"pow":   math.Pow,
		"atan2": math.Atan2,
		"hypot": math.Hypot,
	}
}

// CompileEquation turns an expression over x, y and z into an implicit
// equation. Evaluation errors yield NaN, which the constraint skips.
func CompileEquation(src string) (constraints.Equation, error) {
	env := equationEnv()
	program, err := expr.Compile(src, expr.Env(env), expr.AsFloat64())
	if err != nil {
		return nil, errors.Wrapf(err, "compile equation %q", src)
	}
	return func(x, y, z float64) float64 {
		env["x"], env["y"], env["z"] = x, y, z
		out, err := expr.Run(program, env)
		if err != nil {
			return math.NaN()
		}
		f, ok := out.(float64)
		if !ok {
			return math.NaN()
		}
		return f
	}, nil
}
