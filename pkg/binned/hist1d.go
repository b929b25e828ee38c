package binned

import (
	"math"
)

// Hist1D is a one-dimensional histogram with under- and overflow bins.
type Hist1D struct {
	name   string
	axis   Axis
	values []float64
	errors []float64
}

// NewHist1D creates an empty histogram over axis.
func NewHist1D(name string, axis Axis) *Hist1D {
	n := axis.NBins() + 2
	return &Hist1D{
		name:   name,
		axis:   axis,
		values: make([]float64, n),
		errors: make([]float64, n),
	}
}

func (h *Hist1D) Kind() Kind           { return KindHist1D }
func (h *Hist1D) Name() string         { return h.name }
func (h *Hist1D) SetName(name string)  { h.name = name }
func (h *Hist1D) Len() int             { return len(h.values) }
func (h *Hist1D) Value(i int) float64  { return h.values[i] }
func (h *Hist1D) Error(i int) float64  { return h.errors[i] }
func (h *Hist1D) Center(i int) float64 { return h.axis.Center(i) }
func (h *Hist1D) Width(i int) float64  { return h.axis.Width(i) }
func (h *Hist1D) Low(i int) float64    { return h.axis.Low(i) }

// SetValue sets the content of bin i.
func (h *Hist1D) SetValue(i int, v float64) { h.values[i] = v }

// SetError sets the uncertainty of bin i.
func (h *Hist1D) SetError(i int, e float64) { h.errors[i] = e }

// Axis returns the binning.
func (h *Hist1D) Axis() Axis { return h.axis }

// NBins returns the number of interior bins.
func (h *Hist1D) NBins() int { return h.axis.NBins() }

// Fill adds weight w at x and updates the bin error in quadrature.
func (h *Hist1D) Fill(x, w float64) {
	i := h.axis.FindBin(x)
	h.values[i] += w
	h.errors[i] = math.Hypot(h.errors[i], w)
}

// Integral returns the sum of the interior bin contents.
func (h *Hist1D) Integral() float64 {
	var s float64
	for i := 1; i <= h.NBins(); i++ {
		s += h.values[i]
	}
	return s
}

// Scale multiplies all contents by f and all errors by |f|.
func (h *Hist1D) Scale(f float64) {
	for i := range h.values {
		h.values[i] *= f
		h.errors[i] *= math.Abs(f)
	}
}

// Reset zeroes all bins.
func (h *Hist1D) Reset() {
	for i := range h.values {
		h.values[i] = 0
		h.errors[i] = 0
	}
}

// Rebin merges every n adjacent bins in place. Errors add in quadrature.
func (h *Hist1D) Rebin(n int) error {
	axis, err := h.axis.rebin(n)
	if err != nil {
		return err
	}
	newN := axis.NBins()
	values := make([]float64, newN+2)
	errs := make([]float64, newN+2)
	for i := range h.values {
		j := rebinIndex(i, n, newN)
		values[j] += h.values[i]
		errs[j] += h.errors[i] * h.errors[i]
	}
	for j := range errs {
		errs[j] = math.Sqrt(errs[j])
	}
	h.axis, h.values, h.errors = axis, values, errs
	return nil
}

// Cumulative returns the running sum over the interior bins, forward from
// the first bin or backward from the last. Flow bins of the result are
// zero and errors add in quadrature.
func (h *Hist1D) Cumulative(forward bool) *Hist1D {
	out := NewHist1D(h.name, h.axis)
	n := h.NBins()
	var sum, sumErr2 float64
	step := func(i int) {
		sum += h.values[i]
		sumErr2 += h.errors[i] * h.errors[i]
		out.values[i] = sum
		out.errors[i] = math.Sqrt(sumErr2)
	}
	if forward {
		for i := 1; i <= n; i++ {
			step(i)
		}
	} else {
		for i := n; i >= 1; i-- {
			step(i)
		}
	}
	return out
}

// Copy returns a typed deep copy.
func (h *Hist1D) Copy() *Hist1D {
	c := &Hist1D{
		name:   h.name,
		axis:   h.axis,
		values: make([]float64, len(h.values)),
		errors: make([]float64, len(h.errors)),
	}
	copy(c.values, h.values)
	copy(c.errors, h.errors)
	return c
}

// Clone implements Object.
func (h *Hist1D) Clone() Object { return h.Copy() }
