// Package extutil provides shared helpers for the ext sub-packages.
package extutil

import (
	"context"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/functions"
)

// BinMapper returns a one-argument function that rewrites every bin of a
// copy of its argument with f.
func BinMapper(name string, f func(v, e float64) (float64, float64)) functions.Func {
	return func(_ context.Context, args ...interface{}) (interface{}, error) {
		h, err := functions.HistogramArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		for i := 0; i < h.Len(); i++ {
			v, e := f(h.Value(i), h.Error(i))
			h.SetValue(i, v)
			h.SetError(i, e)
		}
		return h, nil
	}
}

// Interior calls f for every bin of o except the flow bins of
// one-dimensional objects. Graphs have no flow bins.
func Interior(o binned.Object, f func(i int)) {
	lo, hi := 1, o.Len()-1
	if o.Kind() == binned.KindGraph {
		lo, hi = 0, o.Len()
	}
	for i := lo; i < hi; i++ {
		f(i)
	}
}
