package evaluator

import (
	"context"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/functions"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// evalSubscript evaluates x[i]. Lists yield their element and objects a
// binned.Bin; negative indices count from the end.
func (e *Evaluator) evalSubscript(ctx context.Context, node *types.ASTNode, evalCtx *EvalContext) (interface{}, error) {
	target, err := e.evalNode(ctx, node.LHS, evalCtx)
	if err != nil {
		return nil, err
	}
	index, err := e.evalIndex(ctx, node.RHS, evalCtx)
	if err != nil {
		return nil, err
	}

	switch t := target.(type) {
	case []interface{}:
		i := index
		if i < 0 {
			i += len(t)
		}
		if i < 0 || i >= len(t) {
			return nil, types.EvalError.New("list index %d out of range for %d items", index, len(t))
		}
		return t[i], nil
	case binned.Object:
		return binned.BinOf(t, index)
	}
	return nil, types.UnsupportedTypeError.New("%s is not subscriptable", functions.TypeName(target))
}

// evalSlice evaluates x[lo:hi:step] with the usual clamping of bounds.
// Object slices are lists of bins.
func (e *Evaluator) evalSlice(ctx context.Context, node *types.ASTNode, evalCtx *EvalContext) (interface{}, error) {
	target, err := e.evalNode(ctx, node.LHS, evalCtx)
	if err != nil {
		return nil, err
	}
	var bounds [3]*int
	for k, n := range node.Arguments {
		if n == nil {
			continue
		}
		v, err := e.evalIndex(ctx, n, evalCtx)
		if err != nil {
			return nil, err
		}
		bounds[k] = &v
	}

	switch t := target.(type) {
	case []interface{}:
		idx, err := sliceIndices(len(t), bounds[0], bounds[1], bounds[2])
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, len(idx))
		for k, i := range idx {
			out[k] = t[i]
		}
		return out, nil
	case binned.Object:
		idx, err := sliceIndices(t.Len(), bounds[0], bounds[1], bounds[2])
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, len(idx))
		for k, i := range idx {
			b, err := binned.BinOf(t, i)
			if err != nil {
				return nil, err
			}
			out[k] = b
		}
		return out, nil
	}
	return nil, types.UnsupportedTypeError.New("%s cannot be sliced", functions.TypeName(target))
}

// evalIndex evaluates an index expression, which must be an integral number.
func (e *Evaluator) evalIndex(ctx context.Context, node *types.ASTNode, evalCtx *EvalContext) (int, error) {
	v, err := e.evalNode(ctx, node, evalCtx)
	if err != nil {
		return 0, err
	}
	i, ok := integral(v)
	if !ok {
		return 0, types.UnsupportedTypeError.New("indices must be integers, not %s", functions.TypeName(v))
	}
	return int(i), nil
}

// sliceIndices returns the positions selected by lo:hi:step in a sequence
// of n items. Omitted bounds are nil.
func sliceIndices(n int, lo, hi, step *int) ([]int, error) {
	st := 1
	if step != nil {
		st = *step
	}
	if st == 0 {
		return nil, types.EvalError.New("slice step cannot be zero")
	}

	var start, stop int
	if st > 0 {
		start, stop = 0, n
	} else {
		start, stop = n-1, -1
	}
	if lo != nil {
		start = clampBound(*lo, n, st)
	}
	if hi != nil {
		stop = clampBound(*hi, n, st)
	}

	var idx []int
	if st > 0 {
		for i := start; i < stop; i += st {
			idx = append(idx, i)
		}
	} else {
		for i := start; i > stop; i += st {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

func clampBound(b, n, step int) int {
	if b < 0 {
		b += n
	}
	if step > 0 {
		if b < 0 {
			return 0
		}
		if b > n {
			return n
		}
		return b
	}
	if b < 0 {
		return -1
	}
	if b >= n {
		return n - 1
	}
	return b
}
