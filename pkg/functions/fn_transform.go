package functions

import (
	"context"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// --- Arithmetic on whole objects ---

func fnHistDivide(ctx context.Context, args ...interface{}) (interface{}, error) {
	a, err := ObjectArg("histdivide", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := ObjectArg("histdivide", args, 1)
	if err != nil {
		return nil, err
	}
	option, err := StringArg("histdivide", args, 2, "")
	if err != nil {
		return nil, err
	}
	return binned.Divide(a, b, option)
}

func fnNormalizeToRef(ctx context.Context, args ...interface{}) (interface{}, error) {
	obj, err := ObjectArg("normalize_to_ref", args, 0)
	if err != nil {
		return nil, err
	}
	ref, err := ObjectArg("normalize_to_ref", args, 1)
	if err != nil {
		return nil, err
	}
	num, err := binned.Integral(ref)
	if err != nil {
		return nil, err
	}
	den, err := binned.Integral(obj)
	if err != nil {
		return nil, err
	}
	if den == 0 {
		return nil, types.ArgumentError.New("normalize_to_ref(): %q has a zero integral", obj.Name())
	}
	return binned.Scale(obj, num/den)
}

func fnNormalizeX(ctx context.Context, args ...interface{}) (interface{}, error) {
	obj, err := ObjectArg("normalize_x", args, 0)
	if err != nil {
		return nil, err
	}
	h, ok := obj.(*binned.Hist2D)
	if !ok {
		return nil, types.UnsupportedTypeError.New("normalize_x(): needs a hist2d, got %s %q", obj.Kind(), obj.Name())
	}
	out := h.Copy()
	slices := h.ProjectionX()
	for g := 0; g < out.Len(); g++ {
		ix, _ := out.Coords(g)
		sum := slices.Value(ix)
		if sum == 0 {
			out.SetValue(g, 0)
			out.SetError(g, 0)
			continue
		}
		out.SetValue(g, out.Value(g)/sum)
		out.SetError(g, out.Error(g)/sum)
	}
	return out, nil
}

func fnCumulate(ctx context.Context, args ...interface{}) (interface{}, error) {
	return cumulate("cumulate", args, true)
}

func fnCumulateReverse(ctx context.Context, args ...interface{}) (interface{}, error) {
	return cumulate("cumulate_reverse", args, false)
}

func cumulate(fn string, args []interface{}, forward bool) (interface{}, error) {
	h, err := HistogramArg(fn, args, 0)
	if err != nil {
		return nil, err
	}
	h1, ok := h.(*binned.Hist1D)
	if !ok {
		return nil, types.UnsupportedTypeError.New("%s(): needs a one-dimensional histogram, got %s %q", fn, h.Kind(), h.Name())
	}
	return h1.Cumulative(forward), nil
}

func fnBinDifferences(ctx context.Context, args ...interface{}) (interface{}, error) {
	return neighbourOp("bin_differences", args, func(cur, prev float64) float64 { return cur - prev })
}

func fnBinRatios(ctx context.Context, args ...interface{}) (interface{}, error) {
	return neighbourOp("bin_ratios", args, func(cur, prev float64) float64 { return cur / prev })
}

// neighbourOp stores op(v[k+1], v[k]) in bin k for the first to the
// second-to-last interior bin. Bins whose operand v[k] is zero keep their
// value; every touched bin gets a zero error.
func neighbourOp(fn string, args []interface{}, op func(cur, prev float64) float64) (interface{}, error) {
	out, err := HistogramArg(fn, args, 0)
	if err != nil {
		return nil, err
	}
	orig := make([]float64, out.Len())
	for i := range orig {
		orig[i] = out.Value(i)
	}
	for k := 1; k <= out.Len()-3; k++ {
		if orig[k] != 0 {
			out.SetValue(k, op(orig[k+1], orig[k]))
		}
		out.SetError(k, 0)
	}
	return out, nil
}

// --- Bin content rewrites ---

func fnYErr(ctx context.Context, args ...interface{}) (interface{}, error) {
	return rewrite("yerr", args, func(h binned.Histogram, i int) (float64, float64) {
		return h.Error(i), 0
	})
}

func fnDiscardErrors(ctx context.Context, args ...interface{}) (interface{}, error) {
	return rewrite("discard_errors", args, func(h binned.Histogram, i int) (float64, float64) {
		return h.Value(i), 0
	})
}

func fnBinWidth(ctx context.Context, args ...interface{}) (interface{}, error) {
	return rewrite("bin_width", args, func(h binned.Histogram, i int) (float64, float64) {
		return h.Width(i), 0
	})
}

func rewrite(fn string, args []interface{}, f func(h binned.Histogram, i int) (float64, float64)) (interface{}, error) {
	out, err := HistogramArg(fn, args, 0)
	if err != nil {
		return nil, err
	}
	for i := 0; i < out.Len(); i++ {
		v, e := f(out, i)
		out.SetValue(i, v)
		out.SetError(i, e)
	}
	return out, nil
}

// --- Projections and graphs ---

func fnProjectX(ctx context.Context, args ...interface{}) (interface{}, error) {
	obj, err := ObjectArg("project_x", args, 0)
	if err != nil {
		return nil, err
	}
	switch v := obj.(type) {
	case *binned.Hist2D:
		return v.ProjectionX(), nil
	case *binned.Profile1D:
		return v.ProjectionX(), nil
	case *binned.Hist1D:
		// Already one-dimensional along x.
		return v.Copy(), nil
	}
	return nil, types.UnsupportedTypeError.New("project_x(): not available for %s %q", obj.Kind(), obj.Name())
}

func fnProjectY(ctx context.Context, args ...interface{}) (interface{}, error) {
	obj, err := ObjectArg("project_y", args, 0)
	if err != nil {
		return nil, err
	}
	h, ok := obj.(*binned.Hist2D)
	if !ok {
		return nil, types.UnsupportedTypeError.New("project_y(): not available for %s %q", obj.Kind(), obj.Name())
	}
	return h.ProjectionY(), nil
}

func fnDiagonal(ctx context.Context, args ...interface{}) (interface{}, error) {
	obj, err := ObjectArg("diagonal", args, 0)
	if err != nil {
		return nil, err
	}
	h, ok := obj.(*binned.Hist2D)
	if !ok {
		return nil, types.UnsupportedTypeError.New("diagonal(): needs a hist2d, got %s %q", obj.Kind(), obj.Name())
	}
	out := h.ProjectionX()
	out.Reset()
	n := h.XAxis().NBins() + 2
	if ny := h.YAxis().NBins() + 2; ny < n {
		n = ny
	}
	for i := 0; i < n; i++ {
		out.SetValue(i, h.At(i, i))
		out.SetError(i, h.ErrorAt(i, i))
	}
	return out, nil
}

func fnDoubleProfile(ctx context.Context, args ...interface{}) (interface{}, error) {
	px, err := ObjectArg("double_profile", args, 0)
	if err != nil {
		return nil, err
	}
	py, err := ObjectArg("double_profile", args, 1)
	if err != nil {
		return nil, err
	}
	if px.Len() != py.Len() {
		return nil, types.ShapeMismatchError.New("double_profile(): x and y profiles have %d and %d bins", px.Len()-2, py.Len()-2)
	}
	g := binned.NewGraph(py.Name() + "_vs_" + px.Name())
	for i := 1; i < px.Len()-1; i++ {
		if py.Value(i) == 0 {
			continue
		}
		ex, ey := px.Error(i), py.Error(i)
		g.Append(px.Value(i), py.Value(i), ex, ex, ey, ey)
	}
	return g, nil
}
