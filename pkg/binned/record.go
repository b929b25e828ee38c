package binned

import (
	"math"

	"github.com/tfesenbecker/palisade/pkg/types"
)

// Record is the serialisable form of an object, shared by every storage
// backend. Value and error slices cover all bins including flow bins; when
// a record is written by hand the flow bins may be left out, and missing
// errors default to sqrt(|value|).
type Record struct {
	Kind   string    `codec:"kind" yaml:"kind"`
	Name   string    `codec:"name,omitempty" yaml:"name,omitempty"`
	XEdges []float64 `codec:"x_edges,omitempty" yaml:"x_edges,omitempty,flow"`
	YEdges []float64 `codec:"y_edges,omitempty" yaml:"y_edges,omitempty,flow"`
	Values []float64 `codec:"values,omitempty" yaml:"values,omitempty,flow"`
	Errors []float64 `codec:"errors,omitempty" yaml:"errors,omitempty,flow"`

	// Profile sums
	SumW        []float64 `codec:"sumw,omitempty" yaml:"sumw,omitempty,flow"`
	SumWY       []float64 `codec:"sumwy,omitempty" yaml:"sumwy,omitempty,flow"`
	SumWY2      []float64 `codec:"sumwy2,omitempty" yaml:"sumwy2,omitempty,flow"`
	SumW2       []float64 `codec:"sumw2,omitempty" yaml:"sumw2,omitempty,flow"`
	ErrorOption string    `codec:"error_option,omitempty" yaml:"error_option,omitempty"`

	// Efficiency inputs
	Passed *Record `codec:"passed,omitempty" yaml:"passed,omitempty"`
	Total  *Record `codec:"total,omitempty" yaml:"total,omitempty"`

	// Graph points
	X      []float64 `codec:"x,omitempty" yaml:"x,omitempty,flow"`
	Y      []float64 `codec:"y,omitempty" yaml:"y,omitempty,flow"`
	EXLow  []float64 `codec:"exl,omitempty" yaml:"exl,omitempty,flow"`
	EXHigh []float64 `codec:"exh,omitempty" yaml:"exh,omitempty,flow"`
	EYLow  []float64 `codec:"eyl,omitempty" yaml:"eyl,omitempty,flow"`
	EYHigh []float64 `codec:"eyh,omitempty" yaml:"eyh,omitempty,flow"`
}

// ToRecord converts an object into its serialisable form.
func ToRecord(o Object) (*Record, error) {
	r := &Record{Kind: o.Kind().String(), Name: o.Name()}
	switch v := o.(type) {
	case *Hist1D:
		r.XEdges = v.axis.Edges()
		r.Values = append([]float64(nil), v.values...)
		r.Errors = append([]float64(nil), v.errors...)
	case *Hist2D:
		r.XEdges = v.xaxis.Edges()
		r.YEdges = v.yaxis.Edges()
		r.Values = append([]float64(nil), v.values...)
		r.Errors = append([]float64(nil), v.errors...)
	case *Profile1D:
		r.XEdges = v.axis.Edges()
		r.SumW = append([]float64(nil), v.sumW...)
		r.SumWY = append([]float64(nil), v.sumWY...)
		r.SumWY2 = append([]float64(nil), v.sumWY2...)
		r.SumW2 = append([]float64(nil), v.sumW2...)
		r.ErrorOption = v.errOpt
	case *Efficiency:
		var err error
		if r.Passed, err = ToRecord(v.passed); err != nil {
			return nil, err
		}
		if r.Total, err = ToRecord(v.total); err != nil {
			return nil, err
		}
	case *Graph:
		g := v.Copy()
		r.X, r.Y = g.x, g.y
		r.EXLow, r.EXHigh = g.exl, g.exh
		r.EYLow, r.EYHigh = g.eyl, g.eyh
	default:
		return nil, types.UnsupportedTypeError.New("cannot serialise %T", o)
	}
	return r, nil
}

// FromRecord rebuilds an object from its serialisable form. A record
// without a name takes fallbackName.
func FromRecord(r *Record, fallbackName string) (Object, error) {
	kind, err := ParseKind(r.Kind)
	if err != nil {
		return nil, err
	}
	name := r.Name
	if name == "" {
		name = fallbackName
	}
	switch kind {
	case KindHist1D:
		return hist1DFromRecord(r, name)
	case KindHist2D:
		return hist2DFromRecord(r, name)
	case KindProfile1D:
		return profileFromRecord(r, name)
	case KindEfficiency:
		if r.Passed == nil || r.Total == nil {
			return nil, types.ArgumentError.New("efficiency %q needs passed and total", name)
		}
		passed, err := hist1DFromRecord(r.Passed, name+"_passed")
		if err != nil {
			return nil, err
		}
		total, err := hist1DFromRecord(r.Total, name+"_total")
		if err != nil {
			return nil, err
		}
		return NewEfficiency(name, passed, total)
	case KindGraph:
		return graphFromRecord(r, name)
	}
	return nil, types.UnsupportedTypeError.New("unhandled kind %s", kind)
}

func hist1DFromRecord(r *Record, name string) (*Hist1D, error) {
	axis, err := NewAxis(r.XEdges)
	if err != nil {
		return nil, err
	}
	h := NewHist1D(name, axis)
	values, err := withFlow(r.Values, axis.NBins(), name, "values")
	if err != nil {
		return nil, err
	}
	errs, err := withFlow(r.Errors, axis.NBins(), name, "errors")
	if err != nil {
		return nil, err
	}
	fillContents(h.values, h.errors, values, errs)
	return h, nil
}

func hist2DFromRecord(r *Record, name string) (*Hist2D, error) {
	xaxis, err := NewAxis(r.XEdges)
	if err != nil {
		return nil, err
	}
	yaxis, err := NewAxis(r.YEdges)
	if err != nil {
		return nil, err
	}
	h := NewHist2D(name, xaxis, yaxis)
	values, err := withFlow2D(h, r.Values, "values")
	if err != nil {
		return nil, err
	}
	errs, err := withFlow2D(h, r.Errors, "errors")
	if err != nil {
		return nil, err
	}
	fillContents(h.values, h.errors, values, errs)
	return h, nil
}

func profileFromRecord(r *Record, name string) (*Profile1D, error) {
	axis, err := NewAxis(r.XEdges)
	if err != nil {
		return nil, err
	}
	p := NewProfile1D(name, axis)
	sums := []struct {
		dst []float64
		src []float64
		key string
	}{
		{p.sumW, r.SumW, "sumw"},
		{p.sumWY, r.SumWY, "sumwy"},
		{p.sumWY2, r.SumWY2, "sumwy2"},
		{p.sumW2, r.SumW2, "sumw2"},
	}
	for _, s := range sums {
		full, err := withFlow(s.src, axis.NBins(), name, s.key)
		if err != nil {
			return nil, err
		}
		copy(s.dst, full)
	}
	if r.SumW2 == nil {
		// Unweighted fills: sum of squared weights equals sum of weights.
		copy(p.sumW2, p.sumW)
	}
	if err := p.SetErrorOption(r.ErrorOption); err != nil {
		return nil, err
	}
	return p, nil
}

func graphFromRecord(r *Record, name string) (*Graph, error) {
	n := len(r.X)
	if len(r.Y) != n {
		return nil, types.ShapeMismatchError.New("graph %q has %d x and %d y values", name, n, len(r.Y))
	}
	cols := [][]float64{r.EXLow, r.EXHigh, r.EYLow, r.EYHigh}
	for _, c := range cols {
		if c != nil && len(c) != n {
			return nil, types.ShapeMismatchError.New("graph %q has error columns of the wrong length", name)
		}
	}
	at := func(c []float64, i int) float64 {
		if c == nil {
			return 0
		}
		return c[i]
	}
	g := NewGraph(name)
	for i := 0; i < n; i++ {
		g.Append(r.X[i], r.Y[i], at(r.EXLow, i), at(r.EXHigh, i), at(r.EYLow, i), at(r.EYHigh, i))
	}
	return g, nil
}

// withFlow accepts either nbins or nbins+2 entries and returns nbins+2,
// padding zero flow bins. A nil slice stays nil.
func withFlow(src []float64, nbins int, name, key string) ([]float64, error) {
	switch len(src) {
	case 0:
		return nil, nil
	case nbins + 2:
		return src, nil
	case nbins:
		out := make([]float64, nbins+2)
		copy(out[1:], src)
		return out, nil
	}
	return nil, types.ShapeMismatchError.New("%q: %s has %d entries for %d bins", name, key, len(src), nbins)
}

// withFlow2D accepts either the full global-bin layout or the interior
// bins only, row by row in y.
func withFlow2D(h *Hist2D, src []float64, key string) ([]float64, error) {
	nx, ny := h.xaxis.NBins(), h.yaxis.NBins()
	switch len(src) {
	case 0:
		return nil, nil
	case h.Len():
		return src, nil
	case nx * ny:
		out := make([]float64, h.Len())
		for iy := 1; iy <= ny; iy++ {
			for ix := 1; ix <= nx; ix++ {
				out[h.Bin(ix, iy)] = src[(iy-1)*nx+(ix-1)]
			}
		}
		return out, nil
	}
	return nil, types.ShapeMismatchError.New("%q: %s has %d entries for %dx%d bins", h.name, key, len(src), nx, ny)
}

func fillContents(dstV, dstE, values, errs []float64) {
	copy(dstV, values)
	if errs != nil {
		copy(dstE, errs)
		return
	}
	for i, v := range dstV {
		dstE[i] = math.Sqrt(math.Abs(v))
	}
}
