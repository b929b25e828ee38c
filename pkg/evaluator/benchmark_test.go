package evaluator_test

import (
	"context"
	"testing"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/catalog"
	"github.com/tfesenbecker/palisade/pkg/evaluator"
	"github.com/tfesenbecker/palisade/pkg/storage"
)

const benchQuery = `histdivide(f:pass, f:all, "B") * 100 - max(f:pass, f:all)[3].value`

func benchEvaluator(b *testing.B, opts ...evaluator.EvalOption) *evaluator.Evaluator {
	b.Helper()
	m := storage.NewMemory()
	pass := binned.NewHist1D("pass", binned.UniformAxis(100, 0, 100))
	all := binned.NewHist1D("all", binned.UniformAxis(100, 0, 100))
	for i := 1; i <= 100; i++ {
		pass.SetValue(i, float64(i))
		all.SetValue(i, float64(2*i))
	}
	m.Put("/bench/f.yaml", "pass", pass)
	m.Put("/bench/f.yaml", "all", all)
	c := catalog.New(catalog.WithBackend(m))
	if err := c.AddSource("/bench/f.yaml", "f"); err != nil {
		b.Fatal(err)
	}
	return evaluator.New(c, opts...)
}

func BenchmarkEval(b *testing.B) {
	ev := benchEvaluator(b)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ev.Eval(ctx, benchQuery); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEvalCached(b *testing.B) {
	ev := benchEvaluator(b, evaluator.WithCaching(true))
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ev.Eval(ctx, benchQuery); err != nil {
			b.Fatal(err)
		}
	}
}
