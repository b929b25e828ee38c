package binned

import (
	"math"

	"github.com/tfesenbecker/palisade/pkg/types"
)

// Axis is an ordered set of bin edges. Bin 0 is the underflow bin, bins
// 1..NBins are the interior bins and bin NBins+1 is the overflow bin.
type Axis struct {
	edges []float64
}

// NewAxis builds an axis from strictly increasing edges.
func NewAxis(edges []float64) (Axis, error) {
	if len(edges) < 2 {
		return Axis{}, types.ArgumentError.New("an axis needs at least two edges, got %d", len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return Axis{}, types.ArgumentError.New("axis edges must be strictly increasing (edge %d)", i)
		}
	}
	e := make([]float64, len(edges))
	copy(e, edges)
	return Axis{edges: e}, nil
}

// UniformAxis builds an axis of n equal bins spanning [lo, hi).
func UniformAxis(n int, lo, hi float64) Axis {
	if n < 1 {
		n = 1
	}
	edges := make([]float64, n+1)
	w := (hi - lo) / float64(n)
	for i := range edges {
		edges[i] = lo + float64(i)*w
	}
	edges[n] = hi
	return Axis{edges: edges}
}

// NBins returns the number of interior bins.
func (a Axis) NBins() int {
	if len(a.edges) == 0 {
		return 0
	}
	return len(a.edges) - 1
}

// Edges returns a copy of the bin edges.
func (a Axis) Edges() []float64 {
	e := make([]float64, len(a.edges))
	copy(e, a.edges)
	return e
}

// Low returns the lower edge of bin i. The underflow bin starts at -Inf.
func (a Axis) Low(i int) float64 {
	n := a.NBins()
	switch {
	case i <= 0:
		return math.Inf(-1)
	case i > n:
		return a.edges[n]
	}
	return a.edges[i-1]
}

// High returns the upper edge of bin i. The overflow bin ends at +Inf.
func (a Axis) High(i int) float64 {
	n := a.NBins()
	switch {
	case i <= 0:
		return a.edges[0]
	case i > n:
		return math.Inf(1)
	}
	return a.edges[i]
}

// Width returns the width of bin i. Flow bins report the width of their
// neighbouring interior bin.
func (a Axis) Width(i int) float64 {
	n := a.NBins()
	if i <= 0 {
		i = 1
	} else if i > n {
		i = n
	}
	return a.edges[i] - a.edges[i-1]
}

// Center returns the center of bin i. Flow bins are centered half a
// neighbouring bin width outside the axis range.
func (a Axis) Center(i int) float64 {
	n := a.NBins()
	switch {
	case i <= 0:
		return a.edges[0] - a.Width(0)/2
	case i > n:
		return a.edges[n] + a.Width(n+1)/2
	}
	return (a.edges[i-1] + a.edges[i]) / 2
}

// FindBin returns the bin containing x, including the flow bins.
func (a Axis) FindBin(x float64) int {
	n := a.NBins()
	if x < a.edges[0] {
		return 0
	}
	if x >= a.edges[n] {
		return n + 1
	}
	lo, hi := 0, n
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x >= a.edges[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo + 1
}

// Equal reports whether both axes have the same edges up to rounding.
func (a Axis) Equal(b Axis) bool {
	if len(a.edges) != len(b.edges) {
		return false
	}
	for i := range a.edges {
		d := math.Abs(a.edges[i] - b.edges[i])
		scale := math.Max(math.Abs(a.edges[i]), math.Abs(b.edges[i]))
		if d > 1e-12*math.Max(scale, 1) {
			return false
		}
	}
	return true
}

// rebin merges every n adjacent interior bins. Interior bins left over
// when n does not divide NBins are moved to the overflow range.
func (a Axis) rebin(n int) (Axis, error) {
	nb := a.NBins()
	if n < 1 || n > nb {
		return Axis{}, types.ArgumentError.New("cannot rebin %d bins by a factor of %d", nb, n)
	}
	newN := nb / n
	edges := make([]float64, newN+1)
	for i := range edges {
		edges[i] = a.edges[i*n]
	}
	return Axis{edges: edges}, nil
}

// rebinIndex maps an old bin index to its bin after rebinning by n.
func rebinIndex(i, n, newN int) int {
	switch {
	case i <= 0:
		return 0
	case i > newN*n:
		return newN + 1
	}
	return (i-1)/n + 1
}
