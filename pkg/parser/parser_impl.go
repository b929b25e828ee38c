package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/tfesenbecker/palisade/pkg/types"
)

// Parser implements a recursive descent parser for expressions.
// It uses Pratt's "Top Down Operator Precedence" algorithm to handle
// operator precedence correctly.
type Parser struct {
	lexer   *Lexer
	current Token
	prev    Token
	arena   *types.NodeArena
	depth   int
	opts    CompileOptions
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: 200,
	}
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{
		lexer: NewLexer(input),
		arena: types.NewNodeArena(),
		opts:  options,
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses the entire expression and returns the root AST node.
func (p *Parser) Parse() (*types.Expression, error) {
	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}

	if p.current.Type == TokenEOF {
		return nil, p.error(types.ErrEmptyExpression, "Empty expression")
	}

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.current.Type != TokenEOF {
		return nil, p.unexpected()
	}

	return types.NewExpressionWithArena(node, p.lexer.input, p.arena), nil
}

// Operator precedence table (binding power)
// Higher values bind more tightly
var precedence = map[TokenType]int{
	TokenXor:         10, // ^
	TokenPlus:        20, // +
	TokenMinus:       20, // -
	TokenMult:        30, // *
	TokenDiv:         30, // /
	TokenPow:         50, // ** (right associative)
	TokenBracketOpen: 60, // [
	TokenParenOpen:   60, // (
	TokenDot:         60, // .
}

// unaryPrecedence sits between the multiplicative operators and '**',
// so -a*b is (-a)*b while -a**b is -(a**b).
const unaryPrecedence = 40

// getPrecedence returns the precedence of a token type.
func (p *Parser) getPrecedence(tt TokenType) int {
	if prec, ok := precedence[tt]; ok {
		return prec
	}
	return 0
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.prev = p.current
	p.current = p.lexer.Next()
}

// expect checks if the current token matches the expected type and advances.
func (p *Parser) expect(tt TokenType) error {
	if p.current.Type == TokenError {
		return p.lexer.Error()
	}
	if p.current.Type != tt {
		code := types.ErrExpectedToken
		if p.current.Type == TokenEOF {
			code = types.ErrUnexpectedEnd
		}
		return p.error(code, fmt.Sprintf("Expected %s but got %s", tt.String(), p.current.Type.String()))
	}
	p.advance()
	return nil
}

// error creates a parser error at the current token.
func (p *Parser) error(code types.ErrorCode, message string) error {
	return &types.SyntaxError{
		Code:     code,
		Message:  message,
		Position: p.current.Position,
		Token:    p.current.Value,
	}
}

// unexpected reports the current token as out of place, preferring a
// pending lexer error.
func (p *Parser) unexpected() error {
	switch p.current.Type {
	case TokenError:
		return p.lexer.Error()
	case TokenEOF:
		return p.error(types.ErrUnexpectedEnd, "Unexpected end of expression")
	}
	return p.error(types.ErrSyntaxError, fmt.Sprintf("Unexpected token: %s", p.current.Value))
}

// parseExpression parses an expression with operator precedence.
// rbp is the right binding power (minimum precedence).
func (p *Parser) parseExpression(rbp int) (*types.ASTNode, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return nil, p.error(types.ErrTooDeep, "Expression nested too deeply")
	}

	// Parse prefix expression (nud - null denotation)
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	// Parse infix expressions while precedence allows (led - left denotation)
	for rbp < p.getPrecedence(p.current.Type) {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// parsePrefix parses a prefix expression (nud - null denotation).
func (p *Parser) parsePrefix() (*types.ASTNode, error) {
	switch p.current.Type {
	case TokenString:
		return p.parseString()
	case TokenNumber:
		return p.parseNumber()
	case TokenName:
		return p.parseName()
	case TokenObjectRef:
		return p.parseObjectRef()
	case TokenMinus:
		return p.parseUnaryMinus()
	case TokenParenOpen:
		return p.parseGrouping()
	case TokenBracketOpen:
		return p.parseList()
	default:
		return nil, p.unexpected()
	}
}

// parseInfix parses an infix expression (led - left denotation).
func (p *Parser) parseInfix(left *types.ASTNode) (*types.ASTNode, error) {
	switch p.current.Type {
	case TokenDot:
		return p.parseAttribute(left)
	case TokenBracketOpen:
		return p.parseSubscript(left)
	case TokenParenOpen:
		return p.parseFunctionCall(left)
	case TokenPow:
		return p.parseBinaryOp(left, p.getPrecedence(TokenPow)-1)
	case TokenPlus, TokenMinus, TokenMult, TokenDiv, TokenXor:
		return p.parseBinaryOp(left, p.getPrecedence(p.current.Type))
	default:
		return nil, p.unexpected()
	}
}

// unescapeString processes escape sequences in a string literal.
// Handles standard escapes (\n, \t, etc.) and Unicode escapes (\uXXXX),
// including UTF-16 surrogate pairs.
func unescapeString(s string) (string, error) {
	if !strings.Contains(s, "\\") {
		return s, nil
	}

	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			result.WriteByte(s[i])
			continue
		}

		i++ // Skip backslash
		if i >= len(s) {
			return "", fmt.Errorf("invalid escape sequence at end of string")
		}

		switch s[i] {
		case 'n':
			result.WriteByte('\n')
		case 't':
			result.WriteByte('\t')
		case 'r':
			result.WriteByte('\r')
		case '\\':
			result.WriteByte('\\')
		case '"':
			result.WriteByte('"')
		case '\'':
			result.WriteByte('\'')
		case 'u':
			if i+4 >= len(s) {
				return "", fmt.Errorf("invalid \\u escape: not enough characters")
			}
			hex := s[i+1 : i+5]
			codePoint, err := strconv.ParseUint(hex, 16, 16)
			if err != nil {
				return "", fmt.Errorf("invalid \\u escape: %s", hex)
			}
			i += 4

			r := rune(codePoint)
			if r >= 0xD800 && r <= 0xDBFF && i+6 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
				low, err := strconv.ParseUint(s[i+3:i+7], 16, 16)
				if err == nil && low >= 0xDC00 && low <= 0xDFFF {
					result.WriteRune(utf16.DecodeRune(r, rune(low)))
					i += 6
					continue
				}
			}
			result.WriteRune(r)
		default:
			return "", fmt.Errorf("invalid escape sequence: \\%c", s[i])
		}
	}

	return result.String(), nil
}

// parseString parses a quoted literal. Text containing ':' names an object.
func (p *Parser) parseString() (*types.ASTNode, error) {
	unescaped, err := unescapeString(p.current.Value)
	if err != nil {
		return nil, p.error(types.ErrUnsupportedEscape, fmt.Sprintf("Invalid string literal: %v", err))
	}

	nodeType := types.NodeString
	if types.IsObjectSpec(unescaped) {
		nodeType = types.NodeObjectRef
	}
	node := p.arena.Alloc(nodeType, p.current.Position)
	node.StrValue = unescaped
	p.advance()
	return node, nil
}

// parseNumber parses a number literal.
func (p *Parser) parseNumber() (*types.ASTNode, error) {
	val, err := strconv.ParseFloat(p.current.Value, 64)
	if err != nil {
		return nil, p.error(types.ErrNumberOutOfRange, fmt.Sprintf("Invalid number: %s", p.current.Value))
	}

	node := p.arena.Alloc(types.NodeNumber, p.current.Position)
	node.NumValue = val
	node.StrValue = p.current.Value
	p.advance()
	return node, nil
}

// parseName parses a bare identifier.
func (p *Parser) parseName() (*types.ASTNode, error) {
	node := p.arena.Alloc(types.NodeLocal, p.current.Position)
	node.StrValue = p.current.Value
	p.advance()
	return node, nil
}

// parseObjectRef parses a bare nickname:path reference.
func (p *Parser) parseObjectRef() (*types.ASTNode, error) {
	node := p.arena.Alloc(types.NodeObjectRef, p.current.Position)
	node.StrValue = p.current.Value
	p.advance()
	return node, nil
}

// parseUnaryMinus parses a unary minus operator.
func (p *Parser) parseUnaryMinus() (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance()

	expr, err := p.parseExpression(unaryPrecedence)
	if err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeUnary, pos)
	node.StrValue = "-"
	node.LHS = expr
	return node, nil
}

// parseGrouping parses a parenthesized expression.
func (p *Parser) parseGrouping() (*types.ASTNode, error) {
	p.advance() // Skip '('

	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseList parses a list literal [a, b, ...]. A trailing comma is allowed.
func (p *Parser) parseList() (*types.ASTNode, error) {
	node := p.arena.Alloc(types.NodeList, p.current.Position)
	p.advance() // Skip '['

	items, err := p.parseSequence(TokenBracketClose)
	if err != nil {
		return nil, err
	}
	node.Arguments = items
	return node, nil
}

// parseSequence parses comma separated expressions up to and including the
// closing token.
func (p *Parser) parseSequence(closing TokenType) ([]*types.ASTNode, error) {
	items := []*types.ASTNode{}
	for p.current.Type != closing {
		item, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		if p.current.Type == closing {
			break
		}
		if err := p.expect(TokenComma); err != nil {
			return nil, err
		}
	}
	if err := p.expect(closing); err != nil {
		return nil, err
	}
	return items, nil
}

// parseBinaryOp parses a binary operator expression. The right operand is
// parsed with binding power rbp.
func (p *Parser) parseBinaryOp(left *types.ASTNode, rbp int) (*types.ASTNode, error) {
	op := p.current
	p.advance()

	right, err := p.parseExpression(rbp)
	if err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeBinary, op.Position)
	node.StrValue = op.Type.String()
	node.LHS = left
	node.RHS = right
	return node, nil
}

// parseFunctionCall parses name(args...). Only bare names can be called.
func (p *Parser) parseFunctionCall(callee *types.ASTNode) (*types.ASTNode, error) {
	if callee.Type != types.NodeLocal {
		return nil, p.error(types.ErrNotCallable, "Only named functions can be called")
	}
	node := p.arena.Alloc(types.NodeFunction, callee.Position)
	node.StrValue = callee.StrValue
	p.advance() // Skip '('

	args, err := p.parseSequence(TokenParenClose)
	if err != nil {
		return nil, err
	}
	node.Arguments = args
	return node, nil
}

// parseSubscript parses x[i] and the slice forms x[lo:hi] and x[lo:hi:step].
func (p *Parser) parseSubscript(target *types.ASTNode) (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // Skip '['

	var lower *types.ASTNode
	if p.current.Type != TokenColon {
		var err error
		if lower, err = p.parseExpression(0); err != nil {
			return nil, err
		}
		if p.current.Type != TokenColon {
			if err := p.expect(TokenBracketClose); err != nil {
				return nil, err
			}
			node := p.arena.Alloc(types.NodeSubscript, pos)
			node.LHS = target
			node.RHS = lower
			return node, nil
		}
	}

	p.advance() // Skip ':'
	upper, err := p.parseSliceBound()
	if err != nil {
		return nil, err
	}
	var step *types.ASTNode
	if p.current.Type == TokenColon {
		p.advance()
		if step, err = p.parseSliceBound(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(TokenBracketClose); err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeSlice, pos)
	node.LHS = target
	node.Arguments = []*types.ASTNode{lower, upper, step}
	return node, nil
}

func (p *Parser) parseSliceBound() (*types.ASTNode, error) {
	if p.current.Type == TokenColon || p.current.Type == TokenBracketClose {
		return nil, nil
	}
	return p.parseExpression(0)
}

// parseAttribute parses x.name.
func (p *Parser) parseAttribute(target *types.ASTNode) (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // Skip '.'

	if p.current.Type != TokenName {
		return nil, p.error(types.ErrExpectedToken, fmt.Sprintf("Expected attribute name but got %s", p.current.Type.String()))
	}
	node := p.arena.Alloc(types.NodeAttribute, pos)
	node.LHS = target
	node.StrValue = p.current.Value
	p.advance()
	return node, nil
}
