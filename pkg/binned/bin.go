package binned

// Bin is a snapshot of one bin of an object, as returned by subscripting.
type Bin struct {
	Index int
	Value float64
	Error float64
	X     float64
	Width float64
	Low   float64
}

// BinOf returns bin i of o. Negative indices count from the end.
func BinOf(o Object, i int) (Bin, error) {
	if i < 0 {
		i += o.Len()
	}
	if err := checkIndex(o, i); err != nil {
		return Bin{}, err
	}
	b := Bin{
		Index: i,
		Value: o.Value(i),
		Error: o.Error(i),
	}
	if bn, ok := o.(Binning); ok {
		b.X = bn.Center(i)
		b.Width = bn.Width(i)
		b.Low = bn.Low(i)
	}
	return b, nil
}

// High returns the upper edge of the bin.
func (b Bin) High() float64 {
	return b.Low + b.Width
}

// Attr returns a named property of the bin.
func (b Bin) Attr(name string) (interface{}, bool) {
	switch name {
	case "value":
		return b.Value, true
	case "error":
		return b.Error, true
	case "x", "center":
		return b.X, true
	case "width":
		return b.Width, true
	case "low":
		return b.Low, true
	case "high":
		return b.High(), true
	case "index":
		return float64(b.Index), true
	}
	return nil, false
}
