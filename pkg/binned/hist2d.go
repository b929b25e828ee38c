package binned

import (
	"math"
)

// Hist2D is a two-dimensional histogram. Bins are addressed by the global
// index ix + (nx+2)*iy, with flow bins on both axes.
type Hist2D struct {
	name   string
	xaxis  Axis
	yaxis  Axis
	values []float64
	errors []float64
}

// NewHist2D creates an empty 2D histogram.
func NewHist2D(name string, x, y Axis) *Hist2D {
	n := (x.NBins() + 2) * (y.NBins() + 2)
	return &Hist2D{
		name:   name,
		xaxis:  x,
		yaxis:  y,
		values: make([]float64, n),
		errors: make([]float64, n),
	}
}

func (h *Hist2D) Kind() Kind                { return KindHist2D }
func (h *Hist2D) Name() string              { return h.name }
func (h *Hist2D) SetName(name string)       { h.name = name }
func (h *Hist2D) Len() int                  { return len(h.values) }
func (h *Hist2D) Value(i int) float64       { return h.values[i] }
func (h *Hist2D) Error(i int) float64       { return h.errors[i] }
func (h *Hist2D) SetValue(i int, v float64) { h.values[i] = v }
func (h *Hist2D) SetError(i int, e float64) { h.errors[i] = e }

// XAxis returns the x binning.
func (h *Hist2D) XAxis() Axis { return h.xaxis }

// YAxis returns the y binning.
func (h *Hist2D) YAxis() Axis { return h.yaxis }

// Bin returns the global index of bin (ix, iy).
func (h *Hist2D) Bin(ix, iy int) int {
	return ix + (h.xaxis.NBins()+2)*iy
}

// Coords splits a global index into (ix, iy).
func (h *Hist2D) Coords(g int) (ix, iy int) {
	stride := h.xaxis.NBins() + 2
	return g % stride, g / stride
}

// Center returns the x center of global bin g.
func (h *Hist2D) Center(g int) float64 {
	ix, _ := h.Coords(g)
	return h.xaxis.Center(ix)
}

// Width returns the x width of global bin g.
func (h *Hist2D) Width(g int) float64 {
	ix, _ := h.Coords(g)
	return h.xaxis.Width(ix)
}

// Low returns the lower x edge of global bin g.
func (h *Hist2D) Low(g int) float64 {
	ix, _ := h.Coords(g)
	return h.xaxis.Low(ix)
}

// At returns the content of bin (ix, iy).
func (h *Hist2D) At(ix, iy int) float64 { return h.values[h.Bin(ix, iy)] }

// ErrorAt returns the error of bin (ix, iy).
func (h *Hist2D) ErrorAt(ix, iy int) float64 { return h.errors[h.Bin(ix, iy)] }

// Set sets content and error of bin (ix, iy).
func (h *Hist2D) Set(ix, iy int, v, e float64) {
	g := h.Bin(ix, iy)
	h.values[g] = v
	h.errors[g] = e
}

// Fill adds weight w at (x, y).
func (h *Hist2D) Fill(x, y, w float64) {
	g := h.Bin(h.xaxis.FindBin(x), h.yaxis.FindBin(y))
	h.values[g] += w
	h.errors[g] = math.Hypot(h.errors[g], w)
}

// Integral returns the sum over interior bins.
func (h *Hist2D) Integral() float64 {
	var s float64
	for iy := 1; iy <= h.yaxis.NBins(); iy++ {
		for ix := 1; ix <= h.xaxis.NBins(); ix++ {
			s += h.At(ix, iy)
		}
	}
	return s
}

// Scale multiplies all contents by f and all errors by |f|.
func (h *Hist2D) Scale(f float64) {
	for i := range h.values {
		h.values[i] *= f
		h.errors[i] *= math.Abs(f)
	}
}

// Reset zeroes all bins.
func (h *Hist2D) Reset() {
	for i := range h.values {
		h.values[i] = 0
		h.errors[i] = 0
	}
}

// ProjectionX sums over all y bins, flow bins included.
func (h *Hist2D) ProjectionX() *Hist1D {
	out := NewHist1D(h.name+"_px", h.xaxis)
	for iy := 0; iy < h.yaxis.NBins()+2; iy++ {
		for ix := 0; ix < h.xaxis.NBins()+2; ix++ {
			out.values[ix] += h.At(ix, iy)
			out.errors[ix] += h.ErrorAt(ix, iy) * h.ErrorAt(ix, iy)
		}
	}
	for i := range out.errors {
		out.errors[i] = math.Sqrt(out.errors[i])
	}
	return out
}

// ProjectionY sums over all x bins, flow bins included.
func (h *Hist2D) ProjectionY() *Hist1D {
	out := NewHist1D(h.name+"_py", h.yaxis)
	for iy := 0; iy < h.yaxis.NBins()+2; iy++ {
		for ix := 0; ix < h.xaxis.NBins()+2; ix++ {
			out.values[iy] += h.At(ix, iy)
			out.errors[iy] += h.ErrorAt(ix, iy) * h.ErrorAt(ix, iy)
		}
	}
	for i := range out.errors {
		out.errors[i] = math.Sqrt(out.errors[i])
	}
	return out
}

// Rebin merges every n adjacent x bins in place.
func (h *Hist2D) Rebin(n int) error {
	xaxis, err := h.xaxis.rebin(n)
	if err != nil {
		return err
	}
	out := NewHist2D(h.name, xaxis, h.yaxis)
	newN := xaxis.NBins()
	for iy := 0; iy < h.yaxis.NBins()+2; iy++ {
		for ix := 0; ix < h.xaxis.NBins()+2; ix++ {
			g := out.Bin(rebinIndex(ix, n, newN), iy)
			out.values[g] += h.At(ix, iy)
			out.errors[g] += h.ErrorAt(ix, iy) * h.ErrorAt(ix, iy)
		}
	}
	for i := range out.errors {
		out.errors[i] = math.Sqrt(out.errors[i])
	}
	h.xaxis, h.values, h.errors = out.xaxis, out.values, out.errors
	return nil
}

// Copy returns a typed deep copy.
func (h *Hist2D) Copy() *Hist2D {
	c := NewHist2D(h.name, h.xaxis, h.yaxis)
	copy(c.values, h.values)
	copy(c.errors, h.errors)
	return c
}

// Clone implements Object.
func (h *Hist2D) Clone() Object { return h.Copy() }
