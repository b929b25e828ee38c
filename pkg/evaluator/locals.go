package evaluator

import (
	"context"
	"reflect"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// Register binds a local name. Names are write-once: registering an
// existing name fails with AlreadyRegisteredError.
//
// A string value is an expression, evaluated with locals disabled each
// time the name is used; a list of strings evaluates every element the
// same way. Other values are used as they are.
func (e *Evaluator) Register(name string, value interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.locals[name]; exists {
		return types.AlreadyRegisteredError.New("local %q is already registered", name)
	}
	if ss, ok := value.([]string); ok {
		list := make([]interface{}, len(ss))
		for i, s := range ss {
			list[i] = s
		}
		value = list
	}
	e.locals[name] = value
	return nil
}

// Clear removes every local.
func (e *Evaluator) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.locals = make(map[string]interface{})
}

// Local returns the raw value registered under name.
func (e *Evaluator) Local(name string) (interface{}, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.locals[name]
	return v, ok
}

// Locals returns the registered names in sorted order.
func (e *Evaluator) Locals() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sortedNames(e.locals)
}

// evalLocal resolves a bare name. Names that are not locals are fetched
// from the source as object specs.
func (e *Evaluator) evalLocal(ctx context.Context, name string, evalCtx *EvalContext) (interface{}, error) {
	v, ok := e.Local(name)
	if !ok {
		return e.object(ctx, name)
	}
	if !evalCtx.AllowLocals() {
		return zeroValue(v), nil
	}

	switch x := v.(type) {
	case string:
		return e.evalLocalExpression(ctx, x, evalCtx.NewLocalContext())
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, item := range x {
			s, isExpr := item.(string)
			if !isExpr {
				out[i] = item
				continue
			}
			r, err := e.evalLocalExpression(ctx, s, evalCtx.NewLocalContext())
			if err != nil {
				if !e.opts.UseListElementFallback {
					return nil, err
				}
				e.log.Warn("list element failed, using fallback", "local", name, "index", i, "expr", s, "err", err)
				r = e.opts.ListElementFallback
			}
			out[i] = r
		}
		return out, nil
	case binned.Object:
		return x.Clone(), nil
	}
	return v, nil
}

func (e *Evaluator) evalLocalExpression(ctx context.Context, query string, evalCtx *EvalContext) (interface{}, error) {
	expr, err := e.Compile(query)
	if err != nil {
		return nil, err
	}
	return e.eval(ctx, expr, evalCtx)
}

// localExpressions returns the expressions stored in a local value.
func localExpressions(v interface{}) []string {
	switch x := v.(type) {
	case string:
		return []string{x}
	case []interface{}:
		var out []string
		for _, item := range x {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// zeroValue is what a local evaluates to while locals are disabled.
func zeroValue(v interface{}) interface{} {
	switch v.(type) {
	case string:
		return ""
	case []interface{}:
		return []interface{}{}
	case float64:
		return 0.0
	case binned.Object:
		return nil
	}
	if v == nil {
		return nil
	}
	return reflect.Zero(reflect.TypeOf(v)).Interface()
}
