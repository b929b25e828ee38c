package binned

import (
	"math"

	"github.com/tfesenbecker/palisade/pkg/types"
)

// Profile error options. They select how Error derives a bin uncertainty
// from the spread of the entries.
const (
	ErrorOnMean    = ""  // spread / sqrt(effective entries)
	ErrorSpread    = "s" // spread of the entries
	ErrorSpreadInt = "i" // as ErrorOnMean, 1/sqrt(12 N) when the spread is zero
	ErrorGaussian  = "g" // 1 / sqrt(sum of weights)
)

// Profile1D holds, per x bin, the weighted mean of a second quantity.
// Its contents are derived from the accumulated sums and cannot be set.
type Profile1D struct {
	name   string
	axis   Axis
	sumW   []float64
	sumWY  []float64
	sumWY2 []float64
	sumW2  []float64
	errOpt string
}

// NewProfile1D creates an empty profile.
func NewProfile1D(name string, axis Axis) *Profile1D {
	n := axis.NBins() + 2
	return &Profile1D{
		name:   name,
		axis:   axis,
		sumW:   make([]float64, n),
		sumWY:  make([]float64, n),
		sumWY2: make([]float64, n),
		sumW2:  make([]float64, n),
	}
}

func (p *Profile1D) Kind() Kind           { return KindProfile1D }
func (p *Profile1D) Name() string         { return p.name }
func (p *Profile1D) SetName(name string)  { p.name = name }
func (p *Profile1D) Len() int             { return len(p.sumW) }
func (p *Profile1D) Center(i int) float64 { return p.axis.Center(i) }
func (p *Profile1D) Width(i int) float64  { return p.axis.Width(i) }
func (p *Profile1D) Low(i int) float64    { return p.axis.Low(i) }

// Axis returns the binning.
func (p *Profile1D) Axis() Axis { return p.axis }

// NBins returns the number of interior bins.
func (p *Profile1D) NBins() int { return p.axis.NBins() }

// Fill adds an entry y with weight w at x.
func (p *Profile1D) Fill(x, y, w float64) {
	i := p.axis.FindBin(x)
	p.sumW[i] += w
	p.sumWY[i] += w * y
	p.sumWY2[i] += w * y * y
	p.sumW2[i] += w * w
}

// Sums returns the accumulated sums of bin i.
func (p *Profile1D) Sums(i int) (sumW, sumWY, sumWY2, sumW2 float64) {
	return p.sumW[i], p.sumWY[i], p.sumWY2[i], p.sumW2[i]
}

// SetSums overwrites the accumulated sums of bin i.
func (p *Profile1D) SetSums(i int, sumW, sumWY, sumWY2, sumW2 float64) {
	p.sumW[i], p.sumWY[i], p.sumWY2[i], p.sumW2[i] = sumW, sumWY, sumWY2, sumW2
}

// Entries returns the effective number of entries of bin i.
func (p *Profile1D) Entries(i int) float64 {
	if p.sumW2[i] > 0 {
		return p.sumW[i] * p.sumW[i] / p.sumW2[i]
	}
	return p.sumW[i]
}

// Value returns the weighted mean of bin i, or 0 for an empty bin.
func (p *Profile1D) Value(i int) float64 {
	if p.sumW[i] == 0 {
		return 0
	}
	return p.sumWY[i] / p.sumW[i]
}

// Error returns the uncertainty of bin i under the current error option.
func (p *Profile1D) Error(i int) float64 {
	sw := p.sumW[i]
	if sw == 0 {
		return 0
	}
	mean := p.sumWY[i] / sw
	spread := math.Sqrt(math.Abs(p.sumWY2[i]/sw - mean*mean))
	neff := p.Entries(i)
	switch p.errOpt {
	case ErrorSpread:
		return spread
	case ErrorSpreadInt:
		if spread == 0 {
			return 1 / math.Sqrt(12*neff)
		}
		return spread / math.Sqrt(neff)
	case ErrorGaussian:
		return 1 / math.Sqrt(sw)
	}
	if neff <= 0 {
		return 0
	}
	return spread / math.Sqrt(neff)
}

// SetErrorOption selects the error computation; see the Error* constants.
func (p *Profile1D) SetErrorOption(opt string) error {
	switch opt {
	case ErrorOnMean, ErrorSpread, ErrorSpreadInt, ErrorGaussian:
		p.errOpt = opt
		return nil
	}
	return types.ArgumentError.New("unknown profile error option %q", opt)
}

// ErrorOption returns the current error option.
func (p *Profile1D) ErrorOption() string { return p.errOpt }

// Integral returns the sum of the interior bin means.
func (p *Profile1D) Integral() float64 {
	var s float64
	for i := 1; i <= p.NBins(); i++ {
		s += p.Value(i)
	}
	return s
}

// Rebin merges every n adjacent bins in place.
func (p *Profile1D) Rebin(n int) error {
	axis, err := p.axis.rebin(n)
	if err != nil {
		return err
	}
	out := NewProfile1D(p.name, axis)
	out.errOpt = p.errOpt
	newN := axis.NBins()
	for i := range p.sumW {
		j := rebinIndex(i, n, newN)
		out.sumW[j] += p.sumW[i]
		out.sumWY[j] += p.sumWY[i]
		out.sumWY2[j] += p.sumWY2[i]
		out.sumW2[j] += p.sumW2[i]
	}
	*p = *out
	return nil
}

// ProjectionX converts the profile into a histogram holding the bin means
// and their errors.
func (p *Profile1D) ProjectionX() *Hist1D {
	h := NewHist1D(p.name, p.axis)
	for i := range p.sumW {
		h.values[i] = p.Value(i)
		h.errors[i] = p.Error(i)
	}
	return h
}

// Copy returns a typed deep copy.
func (p *Profile1D) Copy() *Profile1D {
	c := NewProfile1D(p.name, p.axis)
	copy(c.sumW, p.sumW)
	copy(c.sumWY, p.sumWY)
	copy(c.sumWY2, p.sumWY2)
	copy(c.sumW2, p.sumW2)
	c.errOpt = p.errOpt
	return c
}

// Clone implements Object.
func (p *Profile1D) Clone() Object { return p.Copy() }
