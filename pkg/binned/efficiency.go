package binned

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tfesenbecker/palisade/pkg/types"
)

// DefaultConfidenceLevel is the one-sigma coverage used for efficiency
// intervals.
const DefaultConfidenceLevel = 0.682689492137

// Efficiency is the ratio of a passed and a total histogram with
// Clopper-Pearson uncertainties. It is read-only.
type Efficiency struct {
	name   string
	passed *Hist1D
	total  *Hist1D
	level  float64
}

// NewEfficiency builds an efficiency from histograms with identical binning.
// Every passed count must be within [0, total].
func NewEfficiency(name string, passed, total *Hist1D) (*Efficiency, error) {
	if !passed.Axis().Equal(total.Axis()) {
		return nil, types.ShapeMismatchError.New("efficiency %q: passed and total have different binning", name)
	}
	for i := 0; i < passed.Len(); i++ {
		p, t := passed.Value(i), total.Value(i)
		if p < 0 || p > t {
			return nil, types.ArgumentError.New("efficiency %q: bin %d has %g passed out of %g", name, i, p, t)
		}
	}
	return &Efficiency{
		name:   name,
		passed: passed.Copy(),
		total:  total.Copy(),
		level:  DefaultConfidenceLevel,
	}, nil
}

func (e *Efficiency) Kind() Kind           { return KindEfficiency }
func (e *Efficiency) Name() string         { return e.name }
func (e *Efficiency) SetName(name string)  { e.name = name }
func (e *Efficiency) Len() int             { return e.total.Len() }
func (e *Efficiency) Center(i int) float64 { return e.total.Center(i) }
func (e *Efficiency) Width(i int) float64  { return e.total.Width(i) }
func (e *Efficiency) Low(i int) float64    { return e.total.Low(i) }

// NBins returns the number of interior bins.
func (e *Efficiency) NBins() int { return e.total.NBins() }

// Passed returns a copy of the numerator histogram.
func (e *Efficiency) Passed() *Hist1D { return e.passed.Copy() }

// Total returns a copy of the denominator histogram.
func (e *Efficiency) Total() *Hist1D { return e.total.Copy() }

// Value returns passed/total for bin i, or 0 when total is 0.
func (e *Efficiency) Value(i int) float64 {
	t := e.total.Value(i)
	if t == 0 {
		return 0
	}
	return e.passed.Value(i) / t
}

// ErrorLow returns the distance from the efficiency to the lower interval bound.
func (e *Efficiency) ErrorLow(i int) float64 {
	if e.total.Value(i) == 0 {
		return 0
	}
	lo := ClopperPearson(e.total.Value(i), e.passed.Value(i), e.level, false)
	return e.Value(i) - lo
}

// ErrorHigh returns the distance from the efficiency to the upper interval bound.
func (e *Efficiency) ErrorHigh(i int) float64 {
	if e.total.Value(i) == 0 {
		return 0
	}
	hi := ClopperPearson(e.total.Value(i), e.passed.Value(i), e.level, true)
	return hi - e.Value(i)
}

// Error returns the larger of the two asymmetric errors.
func (e *Efficiency) Error(i int) float64 {
	return math.Max(e.ErrorLow(i), e.ErrorHigh(i))
}

// Graph converts the efficiency into a graph, one point per interior bin
// with a non-zero total.
func (e *Efficiency) Graph() *Graph {
	g := NewGraph(e.name)
	for i := 1; i <= e.NBins(); i++ {
		if e.total.Value(i) == 0 {
			continue
		}
		x := e.Center(i)
		half := e.Width(i) / 2
		g.Append(x, e.Value(i), half, half, e.ErrorLow(i), e.ErrorHigh(i))
	}
	return g
}

// Copy returns a typed deep copy.
func (e *Efficiency) Copy() *Efficiency {
	return &Efficiency{
		name:   e.name,
		passed: e.passed.Copy(),
		total:  e.total.Copy(),
		level:  e.level,
	}
}

// Clone implements Object.
func (e *Efficiency) Clone() Object { return e.Copy() }

// ClopperPearson returns the lower or upper bound of the central
// Clopper-Pearson interval for passed out of total at the given
// confidence level.
func ClopperPearson(total, passed, level float64, upper bool) float64 {
	alpha := (1 - level) / 2
	if upper {
		if passed >= total {
			return 1
		}
		return distuv.Beta{Alpha: passed + 1, Beta: total - passed}.Quantile(1 - alpha)
	}
	if passed <= 0 {
		return 0
	}
	return distuv.Beta{Alpha: passed, Beta: total - passed + 1}.Quantile(alpha)
}
