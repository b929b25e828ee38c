package types

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types.
const (
	// Literals
	NodeNumber NodeType = "number"
	NodeString NodeType = "string" // quoted text without ':'

	// References
	NodeObjectRef NodeType = "objectref" // nick:path, bare or quoted
	NodeLocal     NodeType = "local"     // bare identifier

	// Operators
	NodeBinary NodeType = "binary" // + - * / ** ^
	NodeUnary  NodeType = "unary"  // -

	// Postfix
	NodeFunction  NodeType = "function"  // name(args...)
	NodeSubscript NodeType = "subscript" // x[i]
	NodeSlice     NodeType = "slice"     // x[lo:hi:step]
	NodeAttribute NodeType = "attribute" // x.name

	// Constructors
	NodeList NodeType = "list" // [a, b, ...]
)

// ASTNode represents a node in the Abstract Syntax Tree.
type ASTNode struct {
	Type     NodeType
	StrValue string  // operator, identifier, attribute name, string literal or object spec
	NumValue float64 // set for NodeNumber
	Position int

	// Relations
	LHS       *ASTNode   // operand, call/subscript/attribute target
	RHS       *ASTNode   // right operand, subscript index
	Arguments []*ASTNode // call arguments, list items, slice bounds (lower, upper, step; nil when omitted)
}

// NewASTNode creates a new AST node of the specified type.
// Prefer NodeArena.Alloc when parsing to reduce per-node heap allocations.
func NewASTNode(nodeType NodeType, position int) *ASTNode {
	return &ASTNode{
		Type:     nodeType,
		Position: position,
	}
}

// arenaChunkSize is the number of ASTNode values pre-allocated per arena chunk.
const arenaChunkSize = 32

// NodeArena is a bump-pointer allocator for ASTNode values.
//
// The arena must stay alive as long as any node it returned is reachable;
// attaching it to the owning Expression does that. It is not safe for
// concurrent use: each Parser owns its own arena.
type NodeArena struct {
	chunks [][]ASTNode
	pos    int
}

// NewNodeArena allocates an arena with one initial chunk.
func NewNodeArena() *NodeArena {
	return &NodeArena{
		chunks: [][]ASTNode{make([]ASTNode, arenaChunkSize)},
	}
}

// Alloc returns a pointer to a zero-valued ASTNode inside the arena,
// with Type and Position set.
func (a *NodeArena) Alloc(nodeType NodeType, position int) *ASTNode {
	if a.pos >= arenaChunkSize {
		a.chunks = append(a.chunks, make([]ASTNode, arenaChunkSize))
		a.pos = 0
	}
	n := &a.chunks[len(a.chunks)-1][a.pos]
	a.pos++
	n.Type = nodeType
	n.Position = position
	return n
}

// Walk visits n and its descendants depth-first, left to right.
// If fn returns false the children of that node are skipped.
func (n *ASTNode) Walk(fn func(*ASTNode) bool) {
	if n == nil || !fn(n) {
		return
	}
	n.LHS.Walk(fn)
	n.RHS.Walk(fn)
	for _, arg := range n.Arguments {
		arg.Walk(fn)
	}
}

// String returns a string representation of the node type.
func (n *ASTNode) String() string {
	return string(n.Type)
}
