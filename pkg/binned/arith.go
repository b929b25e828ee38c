package binned

import (
	"math"
	"strings"

	"github.com/tfesenbecker/palisade/pkg/types"
)

// ProjectOrClone returns a writable copy of o. Profiles are converted to
// histograms of their bin means; efficiencies have no writable form.
func ProjectOrClone(o Object) (Histogram, error) {
	switch v := o.(type) {
	case *Hist1D:
		return v.Copy(), nil
	case *Hist2D:
		return v.Copy(), nil
	case *Profile1D:
		return v.ProjectionX(), nil
	case *Graph:
		return v.Copy(), nil
	case nil:
		return nil, types.UnsupportedTypeError.New("expected a binned object, got nothing")
	}
	return nil, types.UnsupportedTypeError.New("%s %q cannot be used as a histogram", o.Kind(), o.Name())
}

// Compatible fails unless a and b can be combined bin by bin.
func Compatible(a, b Object) error {
	switch x := a.(type) {
	case *Hist1D:
		if y, ok := b.(*Hist1D); ok {
			if !x.Axis().Equal(y.Axis()) {
				return types.ShapeMismatchError.New("%q and %q have different binning", a.Name(), b.Name())
			}
			return nil
		}
	case *Hist2D:
		if y, ok := b.(*Hist2D); ok {
			if !x.XAxis().Equal(y.XAxis()) || !x.YAxis().Equal(y.YAxis()) {
				return types.ShapeMismatchError.New("%q and %q have different binning", a.Name(), b.Name())
			}
			return nil
		}
	case *Graph:
		if _, ok := b.(*Graph); ok {
			return SameLen(a, b)
		}
	}
	return types.ShapeMismatchError.New("cannot combine %s %q with %s %q", a.Kind(), a.Name(), b.Kind(), b.Name())
}

type binFunc func(v1, e1, v2, e2 float64) (v, e float64)

// binwise applies f to every bin pair of a and b.
func binwise(a, b Object, f binFunc) (Object, error) {
	ha, err := ProjectOrClone(a)
	if err != nil {
		return nil, err
	}
	hb, err := ProjectOrClone(b)
	if err != nil {
		return nil, err
	}
	if err := Compatible(ha, hb); err != nil {
		return nil, err
	}
	for i := 0; i < ha.Len(); i++ {
		v, e := f(ha.Value(i), ha.Error(i), hb.Value(i), hb.Error(i))
		ha.SetValue(i, v)
		ha.SetError(i, e)
	}
	return ha, nil
}

// mapBins applies f to every bin of o.
func mapBins(o Object, f func(v, e float64) (float64, float64)) (Object, error) {
	h, err := ProjectOrClone(o)
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

// Add returns a + b with errors added in quadrature.
func Add(a, b Object) (Object, error) {
	return binwise(a, b, func(v1, e1, v2, e2 float64) (float64, float64) {
		return v1 + v2, math.Hypot(e1, e2)
	})
}

// Sub returns a - b with errors added in quadrature.
func Sub(a, b Object) (Object, error) {
	return binwise(a, b, func(v1, e1, v2, e2 float64) (float64, float64) {
		return v1 - v2, math.Hypot(e1, e2)
	})
}

// Mul returns the binwise product a * b.
func Mul(a, b Object) (Object, error) {
	return binwise(a, b, func(v1, e1, v2, e2 float64) (float64, float64) {
		return v1 * v2, math.Hypot(e1*v2, e2*v1)
	})
}

// Div returns the binwise quotient a / b. Bins with a zero denominator are 0.
func Div(a, b Object) (Object, error) {
	return Divide(a, b, "")
}

// Divide returns the binwise quotient a / b. With option "B" errors are
// binomial, suitable when a is a subset of b; otherwise the relative errors
// of a and b add in quadrature. Bins with a zero denominator are 0.
func Divide(a, b Object, option string) (Object, error) {
	binomial := strings.Contains(strings.ToUpper(option), "B")
	return binwise(a, b, func(b1, e1, b2, e2 float64) (float64, float64) {
		if b2 == 0 {
			return 0, 0
		}
		w := b1 / b2
		if binomial {
			if b1 == b2 {
				return w, 0
			}
			return w, math.Sqrt(math.Abs(((1-2*w)*e1*e1 + w*w*e2*e2) / (b2 * b2)))
		}
		b22 := b2 * b2
		return w, math.Sqrt((e1*e1*b22 + e2*e2*b1*b1) / (b22 * b22))
	})
}

// AddScalar adds c to every bin content.
func AddScalar(o Object, c float64) (Object, error) {
	return mapBins(o, func(v, e float64) (float64, float64) { return v + c, e })
}

// ScalarSub returns c - o.
func ScalarSub(c float64, o Object) (Object, error) {
	return mapBins(o, func(v, e float64) (float64, float64) { return c - v, e })
}

// Scale multiplies contents by f and errors by |f|.
func Scale(o Object, f float64) (Object, error) {
	return mapBins(o, func(v, e float64) (float64, float64) { return v * f, e * math.Abs(f) })
}

// ScalarDiv returns c / o. Empty bins stay 0.
func ScalarDiv(c float64, o Object) (Object, error) {
	return mapBins(o, func(v, e float64) (float64, float64) {
		if v == 0 {
			return 0, 0
		}
		return c / v, math.Abs(c) * e / (v * v)
	})
}

// Pow raises every bin content to p, propagating the error linearly.
func Pow(o Object, p float64) (Object, error) {
	return mapBins(o, func(v, e float64) (float64, float64) {
		r := math.Pow(v, p)
		if v == 0 {
			return r, 0
		}
		return r, math.Abs(p*r/v) * e
	})
}

// Neg negates every bin content.
func Neg(o Object) (Object, error) {
	return Scale(o, -1)
}

// Integral returns the integral of o over its interior bins.
func Integral(o Object) (float64, error) {
	if in, ok := o.(Integrator); ok {
		return in.Integral(), nil
	}
	return 0, types.UnsupportedTypeError.New("%s %q has no integral", o.Kind(), o.Name())
}
