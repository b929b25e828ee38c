// Package extshape provides functions that reshape or rescale objects.
package extshape

import (
	"context"
	"math"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/ext/extutil"
	"github.com/tfesenbecker/palisade/pkg/functions"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// All returns all shape function definitions.
func All() []functions.Def {
	return []functions.Def{
		Scale(),
		Rebin(),
		Abs(),
		Sqrt(),
	}
}

// Scale returns the definition for scale(obj, factor).
func Scale() functions.Def {
	return functions.Def{
		Name:    "scale",
		MinArgs: 2,
		MaxArgs: 2,
		Doc:     "scale(obj, factor): multiply contents by factor",
		Fn: func(_ context.Context, args ...interface{}) (interface{}, error) {
			obj, err := functions.ObjectArg("scale", args, 0)
			if err != nil {
				return nil, err
			}
			f, err := functions.FloatArg("scale", args, 1)
			if err != nil {
				return nil, err
			}
			return binned.Scale(obj, f)
		},
	}
}

// Rebin returns the definition for rebin(obj, n).
// Every n adjacent bins are merged; profiles keep their sums.
func Rebin() functions.Def {
	return functions.Def{
		Name:    "rebin",
		MinArgs: 2,
		MaxArgs: 2,
		Doc:     "rebin(obj, n): merge every n adjacent bins",
		Fn: func(_ context.Context, args ...interface{}) (interface{}, error) {
			obj, err := functions.ObjectArg("rebin", args, 0)
			if err != nil {
				return nil, err
			}
			n, err := functions.IntArg("rebin", args, 1)
			if err != nil {
				return nil, err
			}
			out := obj.Clone()
			r, ok := out.(binned.Rebinner)
			if !ok {
				return nil, types.UnsupportedTypeError.New("rebin(): %s %q cannot be rebinned", obj.Kind(), obj.Name())
			}
			if err := r.Rebin(n); err != nil {
				return nil, err
			}
			return out, nil
		},
	}
}

// Abs returns the definition for abs(obj).
func Abs() functions.Def {
	return functions.Def{
		Name:    "abs",
		MinArgs: 1,
		MaxArgs: 1,
		Doc:     "abs(obj): absolute value of every bin",
		Fn: extutil.BinMapper("abs", func(v, e float64) (float64, float64) {
			return math.Abs(v), e
		}),
	}
}

// Sqrt returns the definition for sqrt(obj).
// Bins with a non-positive content become 0.
func Sqrt() functions.Def {
	return functions.Def{
		Name:    "sqrt",
		MinArgs: 1,
		MaxArgs: 1,
		Doc:     "sqrt(obj): square root of every bin",
		Fn: extutil.BinMapper("sqrt", func(v, e float64) (float64, float64) {
			if v <= 0 {
				return 0, 0
			}
			r := math.Sqrt(v)
			return r, e / (2 * r)
		}),
	}
}
