package functions

import (
	"context"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// --- Efficiencies ---

// countsArg returns argument i as a one-dimensional count histogram.
func countsArg(fn string, args []interface{}, i int) (*binned.Hist1D, error) {
	h, err := HistogramArg(fn, args, i)
	if err != nil {
		return nil, err
	}
	h1, ok := h.(*binned.Hist1D)
	if !ok {
		return nil, types.UnsupportedTypeError.New("%s(): argument %d must be a one-dimensional histogram, got %s", fn, i+1, h.Kind())
	}
	return h1, nil
}

func newEfficiency(fn string, args []interface{}) (*binned.Efficiency, error) {
	passed, err := countsArg(fn, args, 0)
	if err != nil {
		return nil, err
	}
	total, err := countsArg(fn, args, 1)
	if err != nil {
		return nil, err
	}
	return binned.NewEfficiency(passed.Name(), passed, total)
}

func fnEfficiency(ctx context.Context, args ...interface{}) (interface{}, error) {
	return newEfficiency("efficiency", args)
}

func fnEfficiencyGraph(ctx context.Context, args ...interface{}) (interface{}, error) {
	eff, err := newEfficiency("efficiency_graph", args)
	if err != nil {
		return nil, err
	}
	return eff.Graph(), nil
}

func fnApplyEfficiencyCorrection(ctx context.Context, args ...interface{}) (interface{}, error) {
	out, err := HistogramArg("apply_efficiency_correction", args, 0)
	if err != nil {
		return nil, err
	}
	eff, err := ObjectArg("apply_efficiency_correction", args, 1)
	if err != nil {
		return nil, err
	}
	threshold, hasThreshold, err := OptionalFloatArg("apply_efficiency_correction", args, 2)
	if err != nil {
		return nil, err
	}
	if err := binned.SameLen(out, eff); err != nil {
		return nil, err
	}
	for i := 0; i < out.Len(); i++ {
		e := eff.Value(i)
		if e <= 0 || (hasThreshold && e < threshold) {
			out.SetValue(i, 0)
			out.SetError(i, 0)
			continue
		}
		out.SetValue(i, out.Value(i)/e)
		out.SetError(i, out.Error(i)/e)
	}
	return out, nil
}
