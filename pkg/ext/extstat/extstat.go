// Package extstat provides summary statistics of objects.
package extstat

import (
	"context"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/ext/extutil"
	"github.com/tfesenbecker/palisade/pkg/functions"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// All returns all statistics function definitions.
func All() []functions.Def {
	return []functions.Def{
		Integral(),
		NBins(),
		Mean(),
		Sum(),
	}
}

// Integral returns the definition for integral(obj), the sum of the
// interior bin contents.
func Integral() functions.Def {
	return functions.Def{
		Name:    "integral",
		MinArgs: 1,
		MaxArgs: 1,
		Doc:     "integral(obj): sum of the interior bins",
		Fn: func(_ context.Context, args ...interface{}) (interface{}, error) {
			obj, err := functions.ObjectArg("integral", args, 0)
			if err != nil {
				return nil, err
			}
			return binned.Integral(obj)
		},
	}
}

// NBins returns the definition for nbins(obj).
func NBins() functions.Def {
	return functions.Def{
		Name:    "nbins",
		MinArgs: 1,
		MaxArgs: 1,
		Doc:     "nbins(obj): number of interior bins",
		Fn: func(_ context.Context, args ...interface{}) (interface{}, error) {
			obj, err := functions.ObjectArg("nbins", args, 0)
			if err != nil {
				return nil, err
			}
			n, _ := binned.Attr(obj, "nbins")
			return n, nil
		},
	}
}

// Mean returns the definition for mean(obj), the content-weighted mean
// of the bin centres.
func Mean() functions.Def {
	return functions.Def{
		Name:    "mean",
		MinArgs: 1,
		MaxArgs: 1,
		Doc:     "mean(obj): content-weighted mean of the bin centres",
		Fn: func(_ context.Context, args ...interface{}) (interface{}, error) {
			obj, err := functions.ObjectArg("mean", args, 0)
			if err != nil {
				return nil, err
			}
			if obj.Kind() == binned.KindHist2D {
				return nil, types.UnsupportedTypeError.New("mean(): not defined for hist2d %q", obj.Name())
			}
			b, ok := obj.(binned.Binning)
			if !ok {
				return nil, types.UnsupportedTypeError.New("mean(): %s %q has no bin centres", obj.Kind(), obj.Name())
			}
			var sw, swx float64
			extutil.Interior(obj, func(i int) {
				sw += obj.Value(i)
				swx += obj.Value(i) * b.Center(i)
			})
			if sw == 0 {
				return 0.0, nil
			}
			return swx / sw, nil
		},
	}
}

// Sum returns the definition for sum(objs...), the binwise sum.
func Sum() functions.Def {
	return functions.Def{
		Name:    "sum",
		MinArgs: 1,
		MaxArgs: -1,
		Doc:     "sum(objs...): binwise sum",
		Fn: func(_ context.Context, args ...interface{}) (interface{}, error) {
			objs, err := functions.ObjectsArg("sum", args)
			if err != nil {
				return nil, err
			}
			if len(objs) == 0 {
				return nil, types.ArgumentError.New("sum(): no objects given")
			}
			acc, err := binned.ProjectOrClone(objs[0])
			if err != nil {
				return nil, err
			}
			var total binned.Object = acc
			for _, o := range objs[1:] {
				if total, err = binned.Add(total, o); err != nil {
					return nil, err
				}
			}
			return total, nil
		},
	}
}
