package functions

import (
	"context"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// --- Per-bin selection ---

func fnMaxYieldIndex(ctx context.Context, args ...interface{}) (interface{}, error) {
	yields, err := ObjectListArg("max_yield_index", args, 0)
	if err != nil {
		return nil, err
	}
	effs, err := ObjectListArg("max_yield_index", args, 1)
	if err != nil {
		return nil, err
	}
	threshold, err := FloatArg("max_yield_index", args, 2)
	if err != nil {
		return nil, err
	}
	if len(yields) == 0 {
		return nil, types.ArgumentError.New("max_yield_index(): no yields given")
	}
	if len(yields) != len(effs) {
		return nil, types.ShapeMismatchError.New("max_yield_index(): %d yields but %d efficiencies", len(yields), len(effs))
	}
	if err := binned.SameLen(append(append([]binned.Object{}, yields...), effs...)...); err != nil {
		return nil, err
	}
	out, err := binned.ProjectOrClone(yields[0])
	if err != nil {
		return nil, err
	}
	for i := 0; i < out.Len(); i++ {
		best, idx := 0.0, -1
		for k, y := range yields {
			if effs[k].Value(i) < threshold {
				continue
			}
			if y.Value(i) > best {
				best, idx = y.Value(i), k
			}
		}
		out.SetValue(i, float64(idx))
		out.SetError(i, 0)
	}
	return out, nil
}

func fnMaxValueIndex(ctx context.Context, args ...interface{}) (interface{}, error) {
	objs, err := ObjectListArg("max_value_index", args, 0)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, types.ArgumentError.New("max_value_index(): no objects given")
	}
	if err := binned.SameLen(objs...); err != nil {
		return nil, err
	}
	out, err := binned.ProjectOrClone(objs[0])
	if err != nil {
		return nil, err
	}
	for i := 0; i < out.Len(); i++ {
		// Only positive values qualify; all-empty bins report -1.
		best, idx := 0.0, -1
		for k, o := range objs {
			if o.Value(i) > best {
				best, idx = o.Value(i), k
			}
		}
		out.SetValue(i, float64(idx))
		out.SetError(i, 0)
	}
	return out, nil
}

func fnSelect(ctx context.Context, args ...interface{}) (interface{}, error) {
	objs, err := ObjectListArg("select", args, 0)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, types.ArgumentError.New("select(): no objects given")
	}
	if err := binned.SameLen(objs...); err != nil {
		return nil, err
	}
	indices, err := indexArg("select", args, 1)
	if err != nil {
		return nil, err
	}
	if len(indices) != objs[0].Len() {
		return nil, types.ShapeMismatchError.New("select(): %d indices for %d bins", len(indices), objs[0].Len())
	}
	out, err := binned.ProjectOrClone(objs[0])
	if err != nil {
		return nil, err
	}
	for i, idx := range indices {
		if idx < 0 || idx >= float64(len(objs)) {
			out.SetValue(i, 0)
			out.SetError(i, 0)
			continue
		}
		src := objs[int(idx)]
		out.SetValue(i, src.Value(i))
		out.SetError(i, src.Error(i))
	}
	return out, nil
}

// indexArg reads per-bin indices from an object or from a list of numbers.
func indexArg(fn string, args []interface{}, i int) ([]float64, error) {
	v, err := argAt(fn, args, i)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case binned.Object:
		out := make([]float64, x.Len())
		for k := range out {
			out[k] = x.Value(k)
		}
		return out, nil
	case []interface{}:
		out := make([]float64, len(x))
		for k := range x {
			f, err := FloatArg(fn, x, k)
			if err != nil {
				return nil, err
			}
			out[k] = f
		}
		return out, nil
	}
	return nil, types.UnsupportedTypeError.New("%s(): argument %d must be an object or a list of numbers, got %s", fn, i+1, TypeName(v))
}

func fnMaskLookupValue(ctx context.Context, args ...interface{}) (interface{}, error) {
	out, err := HistogramArg("mask_lookup_value", args, 0)
	if err != nil {
		return nil, err
	}
	lookup, err := ObjectArg("mask_lookup_value", args, 1)
	if err != nil {
		return nil, err
	}
	value, err := FloatArg("mask_lookup_value", args, 2)
	if err != nil {
		return nil, err
	}
	if err := binned.SameLen(out, lookup); err != nil {
		return nil, err
	}
	for i := 0; i < out.Len(); i++ {
		if lookup.Value(i) != value {
			out.SetValue(i, 0)
			out.SetError(i, 0)
		}
	}
	return out, nil
}

func fnMax(ctx context.Context, args ...interface{}) (interface{}, error) {
	return binwiseMax("max", args, false)
}

func fnMaxValMinErr(ctx context.Context, args ...interface{}) (interface{}, error) {
	return binwiseMax("max_val_min_err", args, true)
}

// binwiseMax keeps, for every bin, the largest value among the inputs. The
// first maximum wins unless minErr is set, in which case ties are broken
// by the smallest error.
func binwiseMax(fn string, args []interface{}, minErr bool) (interface{}, error) {
	objs, err := ObjectsArg(fn, args)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, types.ArgumentError.New("%s(): no objects given", fn)
	}
	hists := make([]binned.Histogram, len(objs))
	for k, o := range objs {
		if hists[k], err = binned.ProjectOrClone(o); err != nil {
			return nil, err
		}
		if k > 0 {
			if err := binned.SameLen(hists[0], hists[k]); err != nil {
				return nil, err
			}
		}
	}
	out := hists[0].Clone().(binned.Histogram)
	for i := 0; i < out.Len(); i++ {
		val, e := hists[0].Value(i), hists[0].Error(i)
		for _, h := range hists[1:] {
			switch {
			case h.Value(i) > val:
				val, e = h.Value(i), h.Error(i)
			case minErr && h.Value(i) == val && h.Error(i) < e:
				e = h.Error(i)
			}
		}
		out.SetValue(i, val)
		out.SetError(i, e)
	}
	return out, nil
}

func fnMaskIfLess(ctx context.Context, args ...interface{}) (interface{}, error) {
	return compareToRef("mask_if_less", args, func(h binned.Histogram, i int, less bool) {
		if less {
			h.SetValue(i, 0)
			h.SetError(i, 0)
		}
	})
}

func fnThresholdByRef(ctx context.Context, args ...interface{}) (interface{}, error) {
	return compareToRef("threshold_by_ref", args, binarize)
}

// compareToRef calls set for every bin of a copy of args[0], reporting
// whether its value is below the matching bin of args[1].
func compareToRef(fn string, args []interface{}, set func(h binned.Histogram, i int, less bool)) (interface{}, error) {
	out, err := HistogramArg(fn, args, 0)
	if err != nil {
		return nil, err
	}
	ref, err := HistogramArg(fn, args, 1)
	if err != nil {
		return nil, err
	}
	if err := binned.SameLen(out, ref); err != nil {
		return nil, err
	}
	for i := 0; i < out.Len(); i++ {
		set(out, i, out.Value(i) < ref.Value(i))
	}
	return out, nil
}

func binarize(h binned.Histogram, i int, less bool) {
	if less {
		h.SetValue(i, 0)
	} else {
		h.SetValue(i, 1)
	}
	h.SetError(i, 0)
}

func fnAtLeast(ctx context.Context, args ...interface{}) (interface{}, error) {
	return compareToScalar("atleast", args, func(h binned.Histogram, i int, less bool) {
		if less {
			h.SetValue(i, 0)
			h.SetError(i, 0)
		}
	})
}

func fnThreshold(ctx context.Context, args ...interface{}) (interface{}, error) {
	return compareToScalar("threshold", args, binarize)
}

func compareToScalar(fn string, args []interface{}, set func(h binned.Histogram, i int, less bool)) (interface{}, error) {
	out, err := HistogramArg(fn, args, 0)
	if err != nil {
		return nil, err
	}
	limit, err := FloatArg(fn, args, 1)
	if err != nil {
		return nil, err
	}
	for i := 0; i < out.Len(); i++ {
		set(out, i, out.Value(i) < limit)
	}
	return out, nil
}
