// Package types defines the core types shared by the palisade packages.
//
// This package contains type definitions for:
//   - Expression: parsed expressions ready for evaluation
//   - ASTNode: Abstract Syntax Tree nodes
//   - Error classes: the spacemonkeygo/errors hierarchy rooted at Error
//   - SyntaxError: coded parse errors carrying a source position
package types

import "strings"

// Expression represents a parsed expression.
//
// An Expression can be evaluated many times by passing it to
// [evaluator.Evaluator.EvalExpression]. It is immutable after parsing and
// safe for concurrent use by multiple goroutines.
type Expression struct {
	ast    *ASTNode
	source string
	arena  *NodeArena
	refs   []string
}

// NewExpression creates a new Expression from an AST.
func NewExpression(ast *ASTNode, source string) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
		refs:   collectObjectRefs(ast),
	}
}

// NewExpressionWithArena creates an Expression that keeps the arena its
// nodes were allocated from.
func NewExpressionWithArena(ast *ASTNode, source string, arena *NodeArena) *Expression {
	e := NewExpression(ast, source)
	e.arena = arena
	return e
}

// AST returns the Abstract Syntax Tree of the expression.
func (e *Expression) AST() *ASTNode {
	return e.ast
}

// Source returns the original source code of the expression.
func (e *Expression) Source() string {
	return e.source
}

// ObjectRefs returns every object spec the expression mentions, in source
// order, without duplicates. Both bare refs and quoted strings containing
// ':' are included.
func (e *Expression) ObjectRefs() []string {
	out := make([]string, len(e.refs))
	copy(out, e.refs)
	return out
}

// String returns a string representation of the expression.
func (e *Expression) String() string {
	return e.source
}

// IsObjectSpec reports whether s names an object as nickname:path.
func IsObjectSpec(s string) bool {
	return strings.Contains(s, ":")
}

func collectObjectRefs(ast *ASTNode) []string {
	var refs []string
	seen := map[string]bool{}
	ast.Walk(func(n *ASTNode) bool {
		if n.Type == NodeObjectRef && !seen[n.StrValue] {
			seen[n.StrValue] = true
			refs = append(refs, n.StrValue)
		}
		return true
	})
	return refs
}
