package evaluator_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/spacemonkeygo/errors"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/catalog"
	"github.com/tfesenbecker/palisade/pkg/evaluator"
	"github.com/tfesenbecker/palisade/pkg/functions"
	"github.com/tfesenbecker/palisade/pkg/storage"
	"github.com/tfesenbecker/palisade/pkg/types"
)

const file = "/data/f.yaml"

// Helper functions

func hist(name string, values ...float64) *binned.Hist1D {
	h := binned.NewHist1D(name, binned.UniformAxis(len(values), 0, float64(len(values))))
	for i, v := range values {
		h.SetValue(i+1, v)
	}
	return h
}

func fixture(t *testing.T) (*catalog.Catalog, *storage.Memory) {
	t.Helper()
	m := storage.NewMemory()
	m.Put(file, "a", hist("a", 1, 2, 3))
	m.Put(file, "b", hist("b", 4, 5, 6))
	m.Put(file, "c", hist("c", 2, 2, 2))
	c := catalog.New(catalog.WithBackend(m))
	if err := c.AddSource(file, "f"); err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	return c, m
}

func eval(t *testing.T, ev *evaluator.Evaluator, query string) interface{} {
	t.Helper()
	result, err := ev.Eval(context.Background(), query)
	if err != nil {
		t.Fatalf("Failed to eval %q: %v", query, err)
	}
	return result
}

func evalObject(t *testing.T, ev *evaluator.Evaluator, query string) binned.Object {
	t.Helper()
	obj, ok := eval(t, ev, query).(binned.Object)
	if !ok {
		t.Fatalf("%q did not evaluate to an object", query)
	}
	return obj
}

func interior(o binned.Object) []float64 {
	out := make([]float64, 0, o.Len()-2)
	for i := 1; i < o.Len()-1; i++ {
		out = append(out, o.Value(i))
	}
	return out
}

func compareValue(t *testing.T, got, want interface{}) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// Literal and number tests

func TestEvalNumbers(t *testing.T) {
	ev := evaluator.New(nil)
	tests := []struct {
		name  string
		query string
		want  interface{}
	}{
		{"number", "42", 42.0},
		{"string", `"hello"`, "hello"},
		{"precedence", "2 + 3 * 4", 14.0},
		{"grouping", "(2 + 3) * 4", 20.0},
		{"division", "7 / 2", 3.5},
		{"unary binds looser than power", "-2 ** 2", -4.0},
		{"power is right associative", "2 ** 3 ** 2", 512.0},
		{"xor", "6 ^ 3", 5.0},
		{"xor binds loosest", "1 + 2 ^ 3", 0.0},
		{"list", "[1, 2 * 2]", []interface{}{1.0, 4.0}},
		{"list concatenation", "[1] + [2, 3]", []interface{}{1.0, 2.0, 3.0}},
		{"string concatenation", `"ab" + 'cd'`, "abcd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compareValue(t, eval(t, ev, tt.query), tt.want)
		})
	}
}

func TestEvalObjects(t *testing.T) {
	c, _ := fixture(t)
	ev := evaluator.New(c)

	tests := []struct {
		query string
		want  []float64
	}{
		{`f:a + f:b`, []float64{5, 7, 9}},
		{`"f:b" - "f:a"`, []float64{3, 3, 3}},
		{`f:b * f:c`, []float64{8, 10, 12}},
		{`f:b / f:c`, []float64{2, 2.5, 3}},
		{`f:a * 2`, []float64{2, 4, 6}},
		{`10 - f:a`, []float64{9, 8, 7}},
		{`f:a / 2`, []float64{0.5, 1, 1.5}},
		{`f:c ** 2`, []float64{4, 4, 4}},
		{`-f:a`, []float64{-1, -2, -3}},
		{`discard_errors(f:a) + 1`, []float64{2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			compareValue(t, interior(evalObject(t, ev, tt.query)), tt.want)
		})
	}
}

func TestOneOpenPerExpression(t *testing.T) {
	c, m := fixture(t)
	ev := evaluator.New(c)
	eval(t, ev, `"f:a" + "f:b"`)
	if n := m.Opens(file); n != 1 {
		t.Errorf("file opened %d times, want 1", n)
	}
}

func TestResultsAreCopies(t *testing.T) {
	c, _ := fixture(t)
	ev := evaluator.New(c)
	first := evalObject(t, ev, "f:a").(binned.Histogram)
	first.SetValue(1, 100)
	second := evalObject(t, ev, "f:a")
	if second.Value(1) != 1 {
		t.Errorf("cached object was modified: got %v", second.Value(1))
	}
}

func TestFunctionCalls(t *testing.T) {
	c, _ := fixture(t)
	ev := evaluator.New(c)

	idx := evalObject(t, ev, "max_value_index([f:a, f:b])")
	compareValue(t, interior(idx), []float64{1, 1, 1})

	ratio := evalObject(t, ev, `histdivide(f:b, f:c, "B")`)
	compareValue(t, interior(ratio), []float64{2, 2.5, 3})

	_, err := ev.Eval(context.Background(), "nope(f:a)")
	if !types.Is(err, types.UnknownFunctionError) {
		t.Errorf("expected UnknownFunctionError, got %v", err)
	}
	_, err = ev.Eval(context.Background(), "yerr(f:a, f:b)")
	if !types.Is(err, types.ArgumentError) {
		t.Errorf("expected ArgumentError, got %v", err)
	}
}

func TestSubscriptsAndAttributes(t *testing.T) {
	c, _ := fixture(t)
	ev := evaluator.New(c)

	tests := []struct {
		name  string
		query string
		want  interface{}
	}{
		{"list index", "[1, 2, 3][1]", 2.0},
		{"negative list index", "[1, 2, 3][-1]", 3.0},
		{"slice", "[1, 2, 3, 4][1:3]", []interface{}{2.0, 3.0}},
		{"open slice", "[1, 2, 3, 4][2:]", []interface{}{3.0, 4.0}},
		{"step", "[1, 2, 3, 4][::2]", []interface{}{1.0, 3.0}},
		{"reverse", "[1, 2, 3][::-1]", []interface{}{3.0, 2.0, 1.0}},
		{"clamped", "[1, 2, 3][-10:10]", []interface{}{1.0, 2.0, 3.0}},
		{"empty", "[1, 2, 3][2:1]", []interface{}{}},
		{"bin value", "f:b[1].value", 4.0},
		{"bin from end", "f:b[-2].value", 6.0},
		{"bin center", "f:b[2].x", 1.5},
		{"bin arithmetic", "f:b[1].value * 2", 8.0},
		{"object name", "f:b.name", "b"},
		{"object bins", "f:b.nbins", 3.0},
		{"list of objects", "[f:a, f:b][1].name", "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compareValue(t, eval(t, ev, tt.query), tt.want)
		})
	}

	bins, ok := eval(t, ev, "f:a[1:4]").([]interface{})
	if !ok || len(bins) != 3 {
		t.Fatalf("expected three bins, got %v", bins)
	}
	if b := bins[2].(binned.Bin); b.Value != 3 || b.Index != 3 {
		t.Errorf("unexpected last bin %+v", b)
	}
}

func TestErrors(t *testing.T) {
	c, _ := fixture(t)
	ev := evaluator.New(c)

	tests := []struct {
		query string
		want  func(error) bool
	}{
		{query: "1 / 0", want: is(types.EvalError)},
		{query: "f:a / 0", want: is(types.EvalError)},
		{query: "[1, 2][5]", want: is(types.EvalError)},
		{query: "f:a[9]", want: is(types.EvalError)},
		{query: "[1, 2][::0]", want: is(types.EvalError)},
		{query: "f:a.nope", want: is(types.EvalError)},
		{query: `"x" - 1`, want: is(types.UnsupportedTypeError)},
		{query: "1.5 ^ 2", want: is(types.UnsupportedTypeError)},
		{query: "f:a ^ 1", want: is(types.UnsupportedTypeError)},
		{query: "[1][0.5]", want: is(types.UnsupportedTypeError)},
		{query: "f:a + [1]", want: is(types.UnsupportedTypeError)},
		{query: "f:a + hist(f:a)[1:2]", want: is(types.UnsupportedTypeError)},
		{query: "g:a", want: is(types.UnknownNicknameError)},
		{query: "f:missing", want: is(types.NotFoundError)},
		{query: "undefined_name", want: is(types.InvalidRequestError)},
		{query: "f:a +", want: types.IsSyntaxError},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			_, err := ev.Eval(context.Background(), tt.query)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !tt.want(err) {
				t.Errorf("unexpected error class: %v", err)
			}
		})
	}
}

func is(class *errors.ErrorClass) func(error) bool {
	return func(err error) bool { return types.Is(err, class) }
}

func TestWithoutSource(t *testing.T) {
	ev := evaluator.New(nil)
	if _, err := ev.Eval(context.Background(), "f:a"); !types.Is(err, types.EvalError) {
		t.Errorf("expected EvalError, got %v", err)
	}
}

func TestMaxDepth(t *testing.T) {
	ev := evaluator.New(nil, evaluator.WithMaxDepth(3))
	if _, err := ev.Eval(context.Background(), "1 + 2"); err != nil {
		t.Fatalf("shallow expression failed: %v", err)
	}
	if _, err := ev.Eval(context.Background(), "((1 + 2) + 3) + 4"); !types.Is(err, types.EvalError) {
		t.Errorf("expected EvalError, got %v", err)
	}
}

func TestCaching(t *testing.T) {
	ev := evaluator.New(nil, evaluator.WithCaching(true), evaluator.WithCacheSize(2))
	first, err := ev.Compile("1 + 2")
	if err != nil {
		t.Fatal(err)
	}
	second, err := ev.Compile("1 + 2")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected the cached expression")
	}
	if ev.Cache().Capacity() != 2 || ev.Cache().Len() != 1 {
		t.Errorf("unexpected cache state: len %d, capacity %d", ev.Cache().Len(), ev.Cache().Capacity())
	}

	if evaluator.New(nil).Cache() != nil {
		t.Error("caching should be off by default")
	}
}

func TestEvalExpression(t *testing.T) {
	c, _ := fixture(t)
	ev := evaluator.New(c)
	expr, err := ev.Compile("integral_of_a * 2")
	if err != nil {
		t.Fatal(err)
	}
	if err := ev.Register("integral_of_a", 3.0); err != nil {
		t.Fatal(err)
	}
	got, err := ev.EvalExpression(context.Background(), expr)
	if err != nil {
		t.Fatal(err)
	}
	compareValue(t, got, 6.0)

	if _, err := ev.EvalExpression(context.Background(), nil); !types.Is(err, types.EvalError) {
		t.Errorf("expected EvalError, got %v", err)
	}
}

func TestRegistryOptions(t *testing.T) {
	double := functions.Def{
		Name:    "double",
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(_ context.Context, args ...interface{}) (interface{}, error) {
			return args[0].(float64) * 2, nil
		},
	}

	ev := evaluator.New(nil, evaluator.WithFunctions(double))
	compareValue(t, eval(t, ev, "double(4)"), 8.0)

	reg := functions.NewEmptyRegistry()
	shared := evaluator.New(nil, evaluator.WithRegistry(reg))
	if _, err := shared.Eval(context.Background(), "double(1)"); !types.Is(err, types.UnknownFunctionError) {
		t.Fatalf("expected UnknownFunctionError, got %v", err)
	}
	if err := reg.RegisterDef(double, false); err != nil {
		t.Fatal(err)
	}
	compareValue(t, eval(t, shared, "double(1)"), 2.0)
}
