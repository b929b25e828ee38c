package parser

// Package parser turns expression text into an AST.
//
// The grammar is a small arithmetic language over numbers, strings, lists,
// named objects and function calls:
//
//	expr    := expr ('+' | '-' | '*' | '/' | '**' | '^') expr
//	         | '-' expr
//	         | primary postfix*
//	primary := number | string | name | nickname:path | '(' expr ')' | '[' expr, ... ']'
//	postfix := '(' args ')' | '[' index ']' | '[' lo? ':' hi? (':' step?)? ']' | '.' name
//
// Operator precedence, lowest first: '^', then '+' '-', then '*' '/', then
// unary '-', then '**' (right associative), then the postfix forms.
//
// # Example
//
//	expr, err := parser.Parse("histdivide(f:num, f:den) * 100")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	refs := expr.ObjectRefs() // ["f:num", "f:den"]

import (
	"github.com/tfesenbecker/palisade/pkg/types"
)

// Parse parses an expression and returns the compiled Expression.
//
// If parsing fails, the error is a *types.SyntaxError carrying the byte
// offset of the offending token.
func Parse(query string) (*types.Expression, error) {
	p := NewParser(query)
	return p.Parse()
}

// Compile is like Parse but accepts options.
func Compile(query string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(query, opts...)
	return p.Parse()
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits nesting depth to prevent stack overflow.
	MaxDepth int
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
