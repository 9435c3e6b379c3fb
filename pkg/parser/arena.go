package parser

const arenaChunkSize = 128

// chunk hands out pointers into fixed-capacity slices. A full chunk is
// replaced rather than grown, so earlier pointers stay valid.
type chunk[T any] struct {
	items []T
	count int
}

func (c *chunk[T]) alloc() *T {
	if len(c.items) == cap(c.items) {
		c.items = make([]T, 0, arenaChunkSize)
	}
	c.items = append(c.items, *new(T))
	c.count++
	return &c.items[len(c.items)-1]
}

// ASTArena provides arena-style allocation for the most frequent AST nodes.
// Nodes are allocated from chunked slices, reducing GC pressure on large files.
// An arena belongs to one parse; the returned tree keeps it alive.
type ASTArena struct {
	qualifiedIdentifiers chunk[QualifiedIdentifier]
	numericLiterals      chunk[NumericLiteral]
	stringLiterals       chunk[StringLiteral]
	binaryExpressions    chunk[BinaryExpression]
	unaryExpressions     chunk[UnaryExpression]
	callExpressions      chunk[CallExpression]
	dotMembers           chunk[DotMemberExpression]
	expressionStatements chunk[ExpressionStatement]
	blocks               chunk[Block]
	destructurings       chunk[Destructuring]
}

// NewASTArena creates an empty arena.
func NewASTArena() *ASTArena {
	return &ASTArena{}
}

// Len returns the number of nodes allocated so far.
func (a *ASTArena) Len() int {
	return a.qualifiedIdentifiers.count + a.numericLiterals.count + a.stringLiterals.count +
		a.binaryExpressions.count + a.unaryExpressions.count + a.callExpressions.count +
		a.dotMembers.count + a.expressionStatements.count + a.blocks.count + a.destructurings.count
}

// Allocation methods - each returns a pointer to a zeroed node in the arena

func (a *ASTArena) NewQualifiedIdentifier() *QualifiedIdentifier {
	return a.qualifiedIdentifiers.alloc()
}

func (a *ASTArena) NewNumericLiteral() *NumericLiteral {
	return a.numericLiterals.alloc()
}

func (a *ASTArena) NewStringLiteral() *StringLiteral {
	return a.stringLiterals.alloc()
}

func (a *ASTArena) NewBinaryExpression() *BinaryExpression {
	return a.binaryExpressions.alloc()
}

func (a *ASTArena) NewUnaryExpression() *UnaryExpression {
	return a.unaryExpressions.alloc()
}

func (a *ASTArena) NewCallExpression() *CallExpression {
	return a.callExpressions.alloc()
}

func (a *ASTArena) NewDotMemberExpression() *DotMemberExpression {
	return a.dotMembers.alloc()
}

func (a *ASTArena) NewExpressionStatement() *ExpressionStatement {
	return a.expressionStatements.alloc()
}

func (a *ASTArena) NewBlock() *Block {
	return a.blocks.alloc()
}

func (a *ASTArena) NewDestructuring() *Destructuring {
	return a.destructurings.alloc()
}
