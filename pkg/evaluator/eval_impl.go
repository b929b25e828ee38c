package evaluator

import (
	"context"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/functions"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// evalNode evaluates an AST node in the given context.
func (e *Evaluator) evalNode(ctx context.Context, node *types.ASTNode, evalCtx *EvalContext) (interface{}, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	evalCtx.depth++
	defer func() { evalCtx.depth-- }()
	if e.opts.MaxDepth > 0 && evalCtx.depth > e.opts.MaxDepth {
		return nil, types.EvalError.New("maximum evaluation depth %d exceeded", e.opts.MaxDepth)
	}

	if node == nil {
		return nil, types.EvalError.New("invalid expression")
	}

	switch node.Type {
	case types.NodeNumber:
		return node.NumValue, nil
	case types.NodeString:
		return node.StrValue, nil
	case types.NodeObjectRef:
		return e.object(ctx, node.StrValue)
	case types.NodeLocal:
		return e.evalLocal(ctx, node.StrValue, evalCtx)
	case types.NodeBinary:
		return e.evalBinary(ctx, node, evalCtx)
	case types.NodeUnary:
		return e.evalUnary(ctx, node, evalCtx)
	case types.NodeFunction:
		return e.evalFunction(ctx, node, evalCtx)
	case types.NodeList:
		return e.evalNodes(ctx, node.Arguments, evalCtx)
	case types.NodeSubscript:
		return e.evalSubscript(ctx, node, evalCtx)
	case types.NodeSlice:
		return e.evalSlice(ctx, node, evalCtx)
	case types.NodeAttribute:
		return e.evalAttribute(ctx, node, evalCtx)
	}
	return nil, types.EvalError.New("unknown node type %q at position %d", node.Type, node.Position)
}

// object fetches spec from the source.
func (e *Evaluator) object(ctx context.Context, spec string) (interface{}, error) {
	if e.source == nil {
		return nil, types.EvalError.New("cannot resolve %q: the evaluator has no source", spec)
	}
	return e.source.Get(ctx, spec)
}

func (e *Evaluator) evalNodes(ctx context.Context, nodes []*types.ASTNode, evalCtx *EvalContext) ([]interface{}, error) {
	values := make([]interface{}, len(nodes))
	for i, n := range nodes {
		v, err := e.evalNode(ctx, n, evalCtx)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// evalFunction evaluates the arguments left to right and calls the
// registered function.
func (e *Evaluator) evalFunction(ctx context.Context, node *types.ASTNode, evalCtx *EvalContext) (interface{}, error) {
	args, err := e.evalNodes(ctx, node.Arguments, evalCtx)
	if err != nil {
		return nil, err
	}
	return e.registry.Call(ctx, node.StrValue, args...)
}

type attributer interface {
	Attr(name string) (interface{}, bool)
}

// evalAttribute reads a named property of a bin or object.
func (e *Evaluator) evalAttribute(ctx context.Context, node *types.ASTNode, evalCtx *EvalContext) (interface{}, error) {
	target, err := e.evalNode(ctx, node.LHS, evalCtx)
	if err != nil {
		return nil, err
	}
	var (
		v  interface{}
		ok bool
	)
	switch t := target.(type) {
	case attributer:
		v, ok = t.Attr(node.StrValue)
	case binned.Object:
		v, ok = binned.Attr(t, node.StrValue)
	}
	if !ok {
		return nil, types.EvalError.New("%s has no attribute %q", functions.TypeName(target), node.StrValue)
	}
	return v, nil
}
