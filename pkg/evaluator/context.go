package evaluator

// EvalContext carries the state of one evaluation.
type EvalContext struct {
	// allowLocals is false while evaluating the contents of a local.
	allowLocals bool

	// depth counts the nodes on the evaluation stack, across nested local
	// evaluations.
	depth int
}

// NewContext creates an evaluation context.
func NewContext(allowLocals bool) *EvalContext {
	return &EvalContext{allowLocals: allowLocals}
}

// NewLocalContext returns the context used to evaluate the expression
// stored in a local: locals disabled, depth carried over.
func (c *EvalContext) NewLocalContext() *EvalContext {
	return &EvalContext{depth: c.depth}
}

// AllowLocals reports whether locals resolve to their values.
func (c *EvalContext) AllowLocals() bool {
	return c.allowLocals
}

// Depth returns the current evaluation depth.
func (c *EvalContext) Depth() int {
	return c.depth
}
