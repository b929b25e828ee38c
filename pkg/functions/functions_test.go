package functions_test

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/functions"
	"github.com/tfesenbecker/palisade/pkg/types"
)

const eps = 1e-9

func hist(name string, values ...float64) *binned.Hist1D {
	h := binned.NewHist1D(name, binned.UniformAxis(len(values), 0, float64(len(values))))
	for i, v := range values {
		h.SetValue(i+1, v)
		h.SetError(i+1, math.Sqrt(math.Abs(v)))
	}
	return h
}

func call(t *testing.T, name string, args ...interface{}) interface{} {
	t.Helper()
	res, err := functions.NewRegistry().Call(context.Background(), name, args...)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", name, err)
	}
	return res
}

func callErr(t *testing.T, name string, args ...interface{}) error {
	t.Helper()
	_, err := functions.NewRegistry().Call(context.Background(), name, args...)
	if err == nil {
		t.Fatalf("%s: expected an error", name)
	}
	return err
}

func interior(o interface{}) []float64 {
	obj := o.(binned.Object)
	out := make([]float64, 0, obj.Len()-2)
	for i := 1; i < obj.Len()-1; i++ {
		out = append(out, obj.Value(i))
	}
	return out
}

func checkValues(t *testing.T, what string, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: expected %v, got %v", what, want, got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > eps {
			t.Fatalf("%s: expected %v, got %v", what, want, got)
		}
	}
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	reg := functions.NewRegistry()

	double := func(ctx context.Context, args ...interface{}) (interface{}, error) {
		obj, err := functions.ObjectArg("double", args, 0)
		if err != nil {
			return nil, err
		}
		return binned.Scale(obj, 2)
	}
	if err := reg.Register("double", double, false); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("double", double, false); !types.Is(err, types.DuplicateNameError) {
		t.Errorf("expected DuplicateNameError, got %v", err)
	}
	if err := reg.Register("double", double, true); err != nil {
		t.Errorf("override: unexpected error: %v", err)
	}
	if err := reg.Register("max", double, false); !types.Is(err, types.DuplicateNameError) {
		t.Errorf("builtin names are taken: got %v", err)
	}

	res, err := reg.Call(ctx, "double", hist("h", 1, 2))
	if err != nil {
		t.Fatal(err)
	}
	checkValues(t, "double", interior(res), []float64{2, 4})

	if _, err := reg.Call(ctx, "nope"); !types.Is(err, types.UnknownFunctionError) {
		t.Errorf("expected UnknownFunctionError, got %v", err)
	}
	if _, err := reg.Call(ctx, "yerr"); !types.Is(err, types.ArgumentError) {
		t.Errorf("expected ArgumentError for missing argument, got %v", err)
	}
	if _, err := reg.Call(ctx, "yerr", hist("a", 1), hist("b", 1)); !types.Is(err, types.ArgumentError) {
		t.Errorf("expected ArgumentError for extra argument, got %v", err)
	}

	clone := reg.Clone()
	if err := clone.Register("only_in_clone", double, false); err != nil {
		t.Fatal(err)
	}
	if _, ok := reg.Lookup("only_in_clone"); ok {
		t.Error("registering on a clone must not change the original")
	}

	names := functions.NewEmptyRegistry().Names()
	if len(names) != 0 {
		t.Errorf("empty registry has names %v", names)
	}
}

func TestBuiltinNames(t *testing.T) {
	want := []string{
		"apply_efficiency_correction", "atleast", "bin_differences", "bin_ratios", "bin_width",
		"cumulate", "cumulate_reverse", "diagonal", "discard_errors", "double_profile",
		"efficiency", "efficiency_graph", "h", "hist", "histdivide", "mask_if_less",
		"mask_lookup_value", "max", "max_val_min_err", "max_value_index", "max_yield_index",
		"normalize_to_ref", "normalize_x", "project_x", "project_y", "select", "threshold",
		"threshold_by_ref", "unfold", "yerr",
	}
	if got := functions.NewRegistry().Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("builtins:\n got  %v\n want %v", got, want)
	}
}

func TestNeighbourOps(t *testing.T) {
	h := hist("h", 2, 4, 8)
	ratios := call(t, "bin_ratios", h)
	checkValues(t, "bin_ratios", interior(ratios)[:2], []float64{2, 2})
	diffs := call(t, "bin_differences", h)
	checkValues(t, "bin_differences", interior(diffs)[:2], []float64{2, 4})
	if e := diffs.(binned.Object).Error(1); e != 0 {
		t.Errorf("bin_differences: expected zero error, got %g", e)
	}

	zero := call(t, "bin_ratios", hist("z", 0, 4, 8))
	if v := zero.(binned.Object).Value(1); v != 0 {
		t.Errorf("bin_ratios with zero predecessor: expected value left at 0, got %g", v)
	}
	if h.Value(1) != 2 {
		t.Error("input was modified")
	}
}

func TestSelect(t *testing.T) {
	a := hist("a", 1, 2, 3)
	b := hist("b", 10, 20, 30)
	c := hist("c", 100, 200, 300)
	idx := hist("idx", 0, 2, 1)
	idx.SetValue(0, -1)
	idx.SetValue(4, -1)

	res := call(t, "select", []interface{}{a, b, c}, idx)
	checkValues(t, "select", interior(res), []float64{1, 200, 30})
	obj := res.(binned.Object)
	if obj.Value(0) != 0 || obj.Error(0) != 0 {
		t.Errorf("index -1: expected (0,0), got (%g,%g)", obj.Value(0), obj.Error(0))
	}

	idx.SetValue(2, 3)
	res = call(t, "select", []interface{}{a, b, c}, idx)
	checkValues(t, "select out of range", interior(res), []float64{1, 0, 30})

	res = call(t, "select", []interface{}{a, b, c}, []interface{}{-1.0, 1.0, 0.0, 2.0, 5.0})
	checkValues(t, "select with list", interior(res), []float64{10, 2, 300})

	err := callErr(t, "select", []interface{}{a, hist("short", 1)}, idx)
	if !types.Is(err, types.ShapeMismatchError) {
		t.Errorf("expected ShapeMismatchError, got %v", err)
	}
}

func TestMaxValueIndex(t *testing.T) {
	res := call(t, "max_value_index", []interface{}{hist("a", 5), hist("b", 3)})
	checkValues(t, "5,3", interior(res), []float64{0})
	res = call(t, "max_value_index", []interface{}{hist("a", 3), hist("b", 5)})
	checkValues(t, "3,5", interior(res), []float64{1})
	res = call(t, "max_value_index", []interface{}{hist("a", 4), hist("b", 4)})
	checkValues(t, "tie", interior(res), []float64{0})
	res = call(t, "max_value_index", []interface{}{hist("a", 0), hist("b", -1)})
	checkValues(t, "empty", interior(res), []float64{-1})
}

func TestMaxYieldIndex(t *testing.T) {
	yields := []interface{}{hist("y0", 10, 10), hist("y1", 20, 5)}
	effs := []interface{}{hist("e0", 0.9, 0.9), hist("e1", 0.4, 0.9)}
	res := call(t, "max_yield_index", yields, effs, 0.5)
	checkValues(t, "max_yield_index", interior(res), []float64{0, 0})
	res = call(t, "max_yield_index", yields, effs, 0.95)
	checkValues(t, "nothing passes", interior(res), []float64{-1, -1})

	err := callErr(t, "max_yield_index", yields, effs[:1], 0.5)
	if !types.Is(err, types.ShapeMismatchError) {
		t.Errorf("expected ShapeMismatchError, got %v", err)
	}
}

func TestMax(t *testing.T) {
	a := hist("a", 1, 5, 3)
	b := hist("b", 2, 5, 1)
	a.SetError(2, 2)
	b.SetError(2, 1)

	res := call(t, "max", a, b).(binned.Object)
	checkValues(t, "max", interior(res), []float64{2, 5, 3})
	if res.Error(2) != 2 {
		t.Errorf("max keeps the first maximum: expected error 2, got %g", res.Error(2))
	}
	res = call(t, "max_val_min_err", []interface{}{a, b}).(binned.Object)
	if res.Error(2) != 1 {
		t.Errorf("max_val_min_err: expected error 1, got %g", res.Error(2))
	}
}

func TestThresholds(t *testing.T) {
	h := hist("h", 1, 5, 3)
	checkValues(t, "atleast", interior(call(t, "atleast", h, 3.0)), []float64{0, 5, 3})
	checkValues(t, "threshold", interior(call(t, "threshold", h, 3.0)), []float64{0, 1, 1})
	ref := hist("ref", 2, 6, 3)
	checkValues(t, "threshold_by_ref", interior(call(t, "threshold_by_ref", h, ref)), []float64{0, 0, 1})
	checkValues(t, "mask_if_less", interior(call(t, "mask_if_less", h, ref)), []float64{0, 0, 3})
	checkValues(t, "mask_lookup_value", interior(call(t, "mask_lookup_value", h, hist("l", 1, 2, 1), 1.0)), []float64{1, 0, 3})

	g := binned.NewGraph("g")
	g.Append(0, 1, 0, 0, 0.5, 0.7)
	g.Append(1, 4, 0, 0, 0.5, 0.7)
	gref := binned.NewGraph("gref")
	gref.Append(0, 2, 0, 0, 0, 0)
	gref.Append(1, 2, 0, 0, 0, 0)
	masked := call(t, "mask_if_less", g, gref).(*binned.Graph)
	if lo, hi := masked.ErrorsY(0); masked.Value(0) != 0 || lo != 0 || hi != 0 {
		t.Errorf("graph point 0 should be masked, got %g -%g +%g", masked.Value(0), lo, hi)
	}
	if lo, hi := masked.ErrorsY(1); masked.Value(1) != 4 || lo != 0.5 || hi != 0.7 {
		t.Errorf("graph point 1 should be kept, got %g -%g +%g", masked.Value(1), lo, hi)
	}
}

func TestRewrites(t *testing.T) {
	h := hist("h", 4, 9)
	checkValues(t, "yerr", interior(call(t, "yerr", h)), []float64{2, 3})

	once := call(t, "discard_errors", h).(binned.Object)
	twice := call(t, "discard_errors", once).(binned.Object)
	for i := 0; i < once.Len(); i++ {
		if once.Value(i) != twice.Value(i) || once.Error(i) != twice.Error(i) || twice.Error(i) != 0 {
			t.Fatalf("discard_errors is not idempotent at bin %d", i)
		}
	}

	wide := binned.NewHist1D("w", mustAxis(t, 0, 1, 3))
	checkValues(t, "bin_width", interior(call(t, "bin_width", wide)), []float64{1, 2})
}

func mustAxis(t *testing.T, edges ...float64) binned.Axis {
	t.Helper()
	a, err := binned.NewAxis(edges)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestNormalize(t *testing.T) {
	h := hist("h", 1, 3)
	ref := hist("ref", 4, 4)
	checkValues(t, "normalize_to_ref", interior(call(t, "normalize_to_ref", h, ref)), []float64{2, 6})

	err := callErr(t, "normalize_to_ref", hist("z", 0, 0), ref)
	if !types.Is(err, types.ArgumentError) {
		t.Errorf("expected ArgumentError for a zero integral, got %v", err)
	}

	h2 := binned.NewHist2D("h2", binned.UniformAxis(2, 0, 2), binned.UniformAxis(2, 0, 2))
	h2.Set(1, 1, 1, 1)
	h2.Set(1, 2, 3, 1)
	h2.Set(2, 1, 2, 1)
	out := call(t, "normalize_x", h2).(*binned.Hist2D)
	for _, c := range []struct {
		ix, iy int
		want   float64
	}{{1, 1, 0.25}, {1, 2, 0.75}, {2, 1, 1}, {2, 2, 0}} {
		if got := out.At(c.ix, c.iy); math.Abs(got-c.want) > eps {
			t.Errorf("normalize_x(%d,%d): expected %g, got %g", c.ix, c.iy, c.want, got)
		}
	}
	if err := callErr(t, "normalize_x", h); !types.Is(err, types.UnsupportedTypeError) {
		t.Errorf("expected UnsupportedTypeError, got %v", err)
	}
}

func TestProjections(t *testing.T) {
	h2 := binned.NewHist2D("h2", binned.UniformAxis(2, 0, 2), binned.UniformAxis(2, 0, 2))
	h2.Set(1, 1, 1, 1)
	h2.Set(1, 2, 3, 1)
	h2.Set(2, 2, 2, 1)

	checkValues(t, "project_x", interior(call(t, "project_x", h2)), []float64{4, 2})
	checkValues(t, "hist", interior(call(t, "hist", h2)), []float64{4, 2})
	checkValues(t, "project_y", interior(call(t, "project_y", h2)), []float64{1, 5})
	checkValues(t, "diagonal", interior(call(t, "diagonal", h2)), []float64{1, 2})

	if err := callErr(t, "project_y", hist("h", 1)); !types.Is(err, types.UnsupportedTypeError) {
		t.Errorf("expected UnsupportedTypeError, got %v", err)
	}
	if err := callErr(t, "project_x", binned.NewGraph("g")); !types.Is(err, types.UnsupportedTypeError) {
		t.Errorf("expected UnsupportedTypeError, got %v", err)
	}
}

func TestDoubleProfile(t *testing.T) {
	px := binned.NewProfile1D("px", binned.UniformAxis(3, 0, 3))
	py := binned.NewProfile1D("py", binned.UniformAxis(3, 0, 3))
	for _, x := range []float64{0.5, 1.5, 2.5} {
		px.Fill(x, 10*x, 1)
	}
	py.Fill(0.5, 2, 1)
	py.Fill(2.5, 4, 1)

	g := call(t, "double_profile", px, py).(*binned.Graph)
	if g.Len() != 2 {
		t.Fatalf("expected 2 points, got %d", g.Len())
	}
	if x, y := g.Point(1); x != 25 || y != 4 {
		t.Errorf("point 1: expected (25, 4), got (%g, %g)", x, y)
	}

	short := binned.NewProfile1D("short", binned.UniformAxis(2, 0, 2))
	if err := callErr(t, "double_profile", px, short); !types.Is(err, types.ShapeMismatchError) {
		t.Errorf("expected ShapeMismatchError, got %v", err)
	}
}

func TestEfficiencyFunctions(t *testing.T) {
	passed := hist("passed", 5, 0, 2)
	total := hist("total", 10, 0, 4)

	eff := call(t, "efficiency", passed, total).(*binned.Efficiency)
	checkValues(t, "efficiency", interior(eff), []float64{0.5, 0, 0.5})

	g := call(t, "efficiency_graph", passed, total).(*binned.Graph)
	if g.Len() != 2 {
		t.Errorf("efficiency_graph skips empty bins: expected 2 points, got %d", g.Len())
	}

	counts := hist("n", 10, 10, 10)
	corrected := call(t, "apply_efficiency_correction", counts, eff)
	checkValues(t, "corrected", interior(corrected), []float64{20, 0, 20})

	strict := hist("eff", 0.5, 0.8, 0.2)
	corrected = call(t, "apply_efficiency_correction", counts, strict, 0.3)
	checkValues(t, "with threshold", interior(corrected), []float64{20, 12.5, 0})

	if err := callErr(t, "efficiency", hist("p", 3), hist("t", 2)); !types.Is(err, types.ArgumentError) {
		t.Errorf("passed > total: expected ArgumentError, got %v", err)
	}
}

func TestHistDivide(t *testing.T) {
	a := hist("a", 2, 6)
	b := hist("b", 4, 6)
	checkValues(t, "histdivide", interior(call(t, "histdivide", a, b)), []float64{0.5, 1})
	res := call(t, "histdivide", a, b, "B").(binned.Object)
	if res.Error(2) != 0 {
		t.Errorf("binomial error for equal bins: expected 0, got %g", res.Error(2))
	}
	if err := callErr(t, "histdivide", a, hist("c", 1)); !types.Is(err, types.ShapeMismatchError) {
		t.Errorf("expected ShapeMismatchError, got %v", err)
	}
}

func TestCumulate(t *testing.T) {
	h := hist("h", 1, 2, 3)
	checkValues(t, "cumulate", interior(call(t, "cumulate", h)), []float64{1, 3, 6})
	checkValues(t, "cumulate_reverse", interior(call(t, "cumulate_reverse", h)), []float64{6, 5, 3})
}

func TestUnfold(t *testing.T) {
	axis := binned.UniformAxis(2, 0, 2)
	response := binned.NewHist2D("response", axis, axis)
	response.Set(1, 1, 10, 0)
	response.Set(2, 2, 10, 0)
	gen := response.ProjectionX()
	reco := response.ProjectionY()
	input := hist("input", 5, 7)

	out := call(t, "unfold", input, response, gen, reco).(*binned.Hist1D)
	checkValues(t, "unfold", interior(out), []float64{5, 7})
	if math.Abs(out.Error(1)-math.Sqrt(5)) > 1e-6 {
		t.Errorf("unfold error: expected %g, got %g", math.Sqrt(5), out.Error(1))
	}

	// Half the gen events are lost: the unfolded yield doubles.
	lossy := binned.NewHist1D("gen", axis)
	lossy.SetValue(1, 20)
	lossy.SetValue(2, 20)
	out = call(t, "unfold", input, response, lossy, reco).(*binned.Hist1D)
	checkValues(t, "unfold with losses", interior(out), []float64{10, 14})

	wrong := hist("gen3", 1, 1, 1)
	if err := callErr(t, "unfold", input, response, wrong, reco); !types.Is(err, types.ShapeMismatchError) {
		t.Errorf("expected ShapeMismatchError, got %v", err)
	}
}
