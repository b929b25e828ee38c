package ext_test

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/catalog"
	"github.com/tfesenbecker/palisade/pkg/evaluator"
	"github.com/tfesenbecker/palisade/pkg/ext"
	"github.com/tfesenbecker/palisade/pkg/ext/extstat"
	"github.com/tfesenbecker/palisade/pkg/functions"
	"github.com/tfesenbecker/palisade/pkg/storage"
	"github.com/tfesenbecker/palisade/pkg/types"
)

func hist(name string, values ...float64) *binned.Hist1D {
	h := binned.NewHist1D(name, binned.UniformAxis(len(values), 0, float64(len(values))))
	for i, v := range values {
		h.SetValue(i+1, v)
		h.SetError(i+1, math.Sqrt(math.Abs(v)))
	}
	return h
}

func newEvaluator(t *testing.T, opts ...evaluator.EvalOption) *evaluator.Evaluator {
	t.Helper()
	m := storage.NewMemory()
	m.Put("/ext/f.yaml", "a", hist("a", 1, 2, 3, 4))
	m.Put("/ext/f.yaml", "sq", hist("sq", 4, 9))
	c := catalog.New(catalog.WithBackend(m))
	if err := c.AddSource("/ext/f.yaml", "f"); err != nil {
		t.Fatal(err)
	}
	return evaluator.New(c, opts...)
}

func eval(t *testing.T, ev *evaluator.Evaluator, query string) interface{} {
	t.Helper()
	result, err := ev.Eval(context.Background(), query)
	if err != nil {
		t.Fatalf("Eval(%q) error: %v", query, err)
	}
	return result
}

func interior(t *testing.T, v interface{}) []float64 {
	t.Helper()
	o, ok := v.(binned.Object)
	if !ok {
		t.Fatalf("expected an object, got %T", v)
	}
	var out []float64
	for i := 1; i < o.Len()-1; i++ {
		out = append(out, o.Value(i))
	}
	return out
}

// ── WithAll ────────────────────────────────────────────────────────────────

func TestWithAll_ShapeFunctions(t *testing.T) {
	ev := newEvaluator(t, ext.WithAll())

	tests := []struct {
		expr string
		want []float64
	}{
		{`scale(f:a, 2)`, []float64{2, 4, 6, 8}},
		{`rebin(f:a, 2)`, []float64{3, 7}},
		{`abs(-f:a)`, []float64{1, 2, 3, 4}},
		{`sqrt(f:sq)`, []float64{2, 3}},
		{`sqrt(-f:sq)`, []float64{0, 0}},
		{`sum(f:a, f:a)`, []float64{2, 4, 6, 8}},
		{`sum([f:a, f:a, f:a])`, []float64{3, 6, 9, 12}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got := interior(t, eval(t, ev, tt.expr))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithAll_StatFunctions(t *testing.T) {
	ev := newEvaluator(t, ext.WithAll())

	tests := []struct {
		expr string
		want float64
	}{
		{`integral(f:a)`, 10},
		{`nbins(f:a)`, 4},
		{`nbins(rebin(f:a, 2))`, 2},
		{`mean(f:a)`, 2.5},
		{`mean(f:a * 0)`, 0},
		{`integral(f:a) / nbins(f:a)`, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := eval(t, ev, tt.expr); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSqrtErrors(t *testing.T) {
	ev := newEvaluator(t, ext.WithShape())
	got := eval(t, ev, `sqrt(f:sq)`).(binned.Object)
	// e = sqrt(4) / (2 * 2)
	if got.Error(1) != 0.5 {
		t.Errorf("got error %v, want 0.5", got.Error(1))
	}
}

// ── Selective registration ─────────────────────────────────────────────────

func TestWithStat_OnlyRegistersStat(t *testing.T) {
	ev := newEvaluator(t, ext.WithStat())
	if got := eval(t, ev, `integral(f:a)`); got != 10.0 {
		t.Errorf("got %v, want 10", got)
	}
	if _, err := ev.Eval(context.Background(), `scale(f:a, 2)`); !types.Is(err, types.UnknownFunctionError) {
		t.Errorf("expected UnknownFunctionError, got %v", err)
	}
}

func TestSingleFunction(t *testing.T) {
	ev := newEvaluator(t, evaluator.WithFunctions(extstat.Mean()))
	if got := eval(t, ev, `mean(f:a)`); got != 2.5 {
		t.Errorf("got %v, want 2.5", got)
	}
}

func TestUnsupportedInputs(t *testing.T) {
	ev := newEvaluator(t, ext.WithAll())
	for _, expr := range []string{
		`mean(1)`,
		`rebin(f:a, "x")`,
		`scale(f:a, "x")`,
		`nbins([f:a])`,
		`sum()`,
	} {
		t.Run(expr, func(t *testing.T) {
			if _, err := ev.Eval(context.Background(), expr); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRegisterAll(t *testing.T) {
	reg := functions.NewRegistry()
	if err := ext.RegisterAll(reg, false); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	for _, d := range ext.All() {
		if _, ok := reg.Lookup(d.Name); !ok {
			t.Errorf("%s not registered", d.Name)
		}
	}
	if err := ext.RegisterAll(reg, false); !types.Is(err, types.DuplicateNameError) {
		t.Errorf("expected DuplicateNameError, got %v", err)
	}
	if err := ext.RegisterAll(reg, true); err != nil {
		t.Errorf("RegisterAll with override: %v", err)
	}
}
