// Package binned implements the binned statistical objects that palisade
// expressions operate on: 1D and 2D histograms, 1D profiles, efficiencies
// and graphs, plus the binwise arithmetic between them.
//
// Every object is a flat sequence of bins addressed by a global index.
// For histograms, profiles and efficiencies bin 0 is the underflow bin and
// the last bin is the overflow bin; a graph has no flow bins and its bins
// are its points.
package binned

import (
	"github.com/tfesenbecker/palisade/pkg/types"
)

// Kind identifies the variant of a binned object.
type Kind uint8

// Object kinds.
const (
	KindHist1D Kind = iota + 1
	KindHist2D
	KindProfile1D
	KindEfficiency
	KindGraph
)

var kindNames = map[Kind]string{
	KindHist1D:     "hist1d",
	KindHist2D:     "hist2d",
	KindProfile1D:  "profile1d",
	KindEfficiency: "efficiency",
	KindGraph:      "graph",
}

// String returns the lowercase kind name used in storage records.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, types.UnsupportedTypeError.New("unknown object kind %q", s)
}

// Object is the read view shared by all binned variants.
type Object interface {
	Kind() Kind
	Name() string
	SetName(name string)
	// Len is the number of addressable bins, including flow bins.
	Len() int
	Value(i int) float64
	Error(i int) float64
	// Clone returns an independent deep copy.
	Clone() Object
}

// Binning exposes the x-axis geometry of a bin.
type Binning interface {
	Center(i int) float64
	Width(i int) float64
	Low(i int) float64
}

// Histogram is an Object whose bin contents may be written.
type Histogram interface {
	Object
	Binning
	SetValue(i int, v float64)
	SetError(i int, e float64)
}

// Rebinner is implemented by objects that can merge adjacent bins in place.
type Rebinner interface {
	Rebin(n int) error
}

// Integrator is implemented by objects with a well-defined integral over
// their interior bins.
type Integrator interface {
	Integral() float64
}

// checkIndex validates a global bin index.
func checkIndex(o Object, i int) error {
	if i < 0 || i >= o.Len() {
		return types.EvalError.New("bin index %d out of range for %s %q with %d bins", i, o.Kind(), o.Name(), o.Len())
	}
	return nil
}

// SameLen fails with ShapeMismatchError unless all objects have the same
// number of bins.
func SameLen(objs ...Object) error {
	for i := 1; i < len(objs); i++ {
		if objs[i].Len() != objs[0].Len() {
			return types.ShapeMismatchError.New("bin count mismatch: %q has %d bins, %q has %d",
				objs[0].Name(), objs[0].Len(), objs[i].Name(), objs[i].Len())
		}
	}
	return nil
}

// Attr returns a named property of an object. Supported names are name,
// kind, len, nbins and integral.
func Attr(o Object, name string) (interface{}, bool) {
	switch name {
	case "name":
		return o.Name(), true
	case "kind":
		return o.Kind().String(), true
	case "len":
		return float64(o.Len()), true
	case "nbins":
		switch v := o.(type) {
		case *Hist1D:
			return float64(v.NBins()), true
		case *Hist2D:
			return float64(v.XAxis().NBins() * v.YAxis().NBins()), true
		case *Profile1D:
			return float64(v.NBins()), true
		case *Efficiency:
			return float64(v.NBins()), true
		}
		return float64(o.Len()), true
	case "integral":
		if in, ok := o.(Integrator); ok {
			return in.Integral(), true
		}
	}
	return nil, false
}
