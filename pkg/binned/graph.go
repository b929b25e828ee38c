package binned

import "math"

// Graph is a list of points with asymmetric errors. Its bins are its
// points; there are no flow bins.
type Graph struct {
	name string
	x    []float64
	y    []float64
	exl  []float64
	exh  []float64
	eyl  []float64
	eyh  []float64
}

// NewGraph creates an empty graph.
func NewGraph(name string) *Graph {
	return &Graph{name: name}
}

func (g *Graph) Kind() Kind          { return KindGraph }
func (g *Graph) Name() string        { return g.name }
func (g *Graph) SetName(name string) { g.name = name }
func (g *Graph) Len() int            { return len(g.x) }
func (g *Graph) Value(i int) float64 { return g.y[i] }

// Error returns the larger of the two y errors of point i.
func (g *Graph) Error(i int) float64 { return math.Max(g.eyl[i], g.eyh[i]) }

// SetValue moves point i to y = v.
func (g *Graph) SetValue(i int, v float64) { g.y[i] = v }

// SetError sets a symmetric y error on point i.
func (g *Graph) SetError(i int, e float64) {
	g.eyl[i] = e
	g.eyh[i] = e
}

// Center returns the x coordinate of point i.
func (g *Graph) Center(i int) float64 { return g.x[i] }

// Width returns the total x error band of point i.
func (g *Graph) Width(i int) float64 { return g.exl[i] + g.exh[i] }

// Low returns the lower end of the x error band of point i.
func (g *Graph) Low(i int) float64 { return g.x[i] - g.exl[i] }

// Append adds a point with asymmetric errors.
func (g *Graph) Append(x, y, exl, exh, eyl, eyh float64) {
	g.x = append(g.x, x)
	g.y = append(g.y, y)
	g.exl = append(g.exl, exl)
	g.exh = append(g.exh, exh)
	g.eyl = append(g.eyl, eyl)
	g.eyh = append(g.eyh, eyh)
}

// Point returns the coordinates of point i.
func (g *Graph) Point(i int) (x, y float64) { return g.x[i], g.y[i] }

// ErrorsX returns the low and high x errors of point i.
func (g *Graph) ErrorsX(i int) (lo, hi float64) { return g.exl[i], g.exh[i] }

// ErrorsY returns the low and high y errors of point i.
func (g *Graph) ErrorsY(i int) (lo, hi float64) { return g.eyl[i], g.eyh[i] }

// Copy returns a typed deep copy.
func (g *Graph) Copy() *Graph {
	dup := func(s []float64) []float64 {
		return append([]float64(nil), s...)
	}
	return &Graph{
		name: g.name,
		x:    dup(g.x),
		y:    dup(g.y),
		exl:  dup(g.exl),
		exh:  dup(g.exh),
		eyl:  dup(g.eyl),
		eyh:  dup(g.eyh),
	}
}

// Clone implements Object.
func (g *Graph) Clone() Object { return g.Copy() }
