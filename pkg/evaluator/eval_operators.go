package evaluator

import (
	"context"
	"math"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/functions"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// evalBinary evaluates both operands, left first, and applies the operator.
func (e *Evaluator) evalBinary(ctx context.Context, node *types.ASTNode, evalCtx *EvalContext) (interface{}, error) {
	left, err := e.evalNode(ctx, node.LHS, evalCtx)
	if err != nil {
		return nil, err
	}
	right, err := e.evalNode(ctx, node.RHS, evalCtx)
	if err != nil {
		return nil, err
	}
	return binaryOp(node.StrValue, left, right)
}

func (e *Evaluator) evalUnary(ctx context.Context, node *types.ASTNode, evalCtx *EvalContext) (interface{}, error) {
	operand, err := e.evalNode(ctx, node.LHS, evalCtx)
	if err != nil {
		return nil, err
	}
	switch v := operand.(type) {
	case float64:
		return -v, nil
	case binned.Object:
		return binned.Neg(v)
	}
	return nil, unsupportedOperand("unary -", operand)
}

// binaryOp applies op to two evaluated operands.
//
// Numbers combine as float64, objects bin by bin and an object with a
// number bin by bin against the constant. Lists and strings support '+'
// as concatenation.
func binaryOp(op string, left, right interface{}) (interface{}, error) {
	if op == "^" {
		return xor(left, right)
	}
	switch l := left.(type) {
	case float64:
		switch r := right.(type) {
		case float64:
			return numberOp(op, l, r)
		case binned.Object:
			return numberObjectOp(op, l, r)
		}
	case binned.Object:
		switch r := right.(type) {
		case float64:
			return objectNumberOp(op, l, r)
		case binned.Object:
			return objectOp(op, l, r)
		}
	case []interface{}:
		if r, ok := right.([]interface{}); ok && op == "+" {
			out := make([]interface{}, 0, len(l)+len(r))
			return append(append(out, l...), r...), nil
		}
	case string:
		if r, ok := right.(string); ok && op == "+" {
			return l + r, nil
		}
	}
	return nil, unsupportedOperands(op, left, right)
}

func numberOp(op string, l, r float64) (interface{}, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, types.EvalError.New("division by zero")
		}
		return l / r, nil
	case "**":
		if l == 0 && r < 0 {
			return nil, types.EvalError.New("0 cannot be raised to a negative power")
		}
		return math.Pow(l, r), nil
	}
	return nil, unsupportedOperands(op, l, r)
}

func objectOp(op string, l, r binned.Object) (interface{}, error) {
	switch op {
	case "+":
		return binned.Add(l, r)
	case "-":
		return binned.Sub(l, r)
	case "*":
		return binned.Mul(l, r)
	case "/":
		return binned.Div(l, r)
	}
	return nil, unsupportedOperands(op, l, r)
}

func objectNumberOp(op string, o binned.Object, c float64) (interface{}, error) {
	switch op {
	case "+":
		return binned.AddScalar(o, c)
	case "-":
		return binned.AddScalar(o, -c)
	case "*":
		return binned.Scale(o, c)
	case "/":
		if c == 0 {
			return nil, types.EvalError.New("division of %s %q by zero", o.Kind(), o.Name())
		}
		return binned.Scale(o, 1/c)
	case "**":
		return binned.Pow(o, c)
	}
	return nil, unsupportedOperands(op, o, c)
}

func numberObjectOp(op string, c float64, o binned.Object) (interface{}, error) {
	switch op {
	case "+":
		return binned.AddScalar(o, c)
	case "-":
		return binned.ScalarSub(c, o)
	case "*":
		return binned.Scale(o, c)
	case "/":
		return binned.ScalarDiv(c, o)
	}
	return nil, unsupportedOperands(op, c, o)
}

// xor is bitwise exclusive or of two integral numbers.
func xor(left, right interface{}) (interface{}, error) {
	l, lok := integral(left)
	r, rok := integral(right)
	if !lok || !rok {
		return nil, unsupportedOperands("^", left, right)
	}
	return float64(l ^ r), nil
}

func integral(v interface{}) (int64, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

func unsupportedOperands(op string, left, right interface{}) error {
	return types.UnsupportedTypeError.New("unsupported operand types for %s: %s and %s",
		op, functions.TypeName(left), functions.TypeName(right))
}

func unsupportedOperand(op string, v interface{}) error {
	return types.UnsupportedTypeError.New("unsupported operand type for %s: %s", op, functions.TypeName(v))
}
