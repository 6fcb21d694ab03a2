package types

// NodeKind identifies the variant of an expression-tree node.
type NodeKind uint8

const (
	NodeLiteral NodeKind = iota
	NodeVal
	NodeExists
	NodeArray
	NodeObject
	NodeOp
	NodeCustom
)

// OpTag identifies a built-in operator.
type OpTag uint8

const (
	OpAdd OpTag = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAbs
	OpCeil
	OpFloor
	OpMin
	OpMax

	OpEqual
	OpNotEqual
	OpStrictEqual
	OpStrictNotEqual
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq

	OpAnd
	OpOr
	OpNot
	OpDoubleBang
	OpIf
	OpCoalesce

	OpMap
	OpFilter
	OpReduce
	OpAll
	OpSome
	OpNone
	OpMerge
	OpIn
	OpLength
	OpSlice
	OpSort
	OpFind
	OpMissing
	OpMissingSome

	OpCat
	OpSubstr
	OpStartsWith
	OpEndsWith
	OpUpper
	OpLower
	OpTrim
	OpSplit

	OpDateTime
	OpTimestamp

	OpType
	OpThrow
	OpTry
)

var opNames = map[OpTag]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpAbs: "abs", OpCeil: "ceil", OpFloor: "floor", OpMin: "min", OpMax: "max",
	OpEqual: "==", OpNotEqual: "!=", OpStrictEqual: "===", OpStrictNotEqual: "!==",
	OpLess: "<", OpLessEq: "<=", OpGreater: ">", OpGreaterEq: ">=",
	OpAnd: "and", OpOr: "or", OpNot: "!", OpDoubleBang: "!!",
	OpIf: "if", OpCoalesce: "??",
	OpMap: "map", OpFilter: "filter", OpReduce: "reduce",
	OpAll: "all", OpSome: "some", OpNone: "none",
	OpMerge: "merge", OpIn: "in", OpLength: "length",
	OpSlice: "slice", OpSort: "sort", OpFind: "find",
	OpMissing: "missing", OpMissingSome: "missing_some",
	OpCat: "cat", OpSubstr: "substr",
	OpStartsWith: "starts_with", OpEndsWith: "ends_with",
	OpUpper: "upper", OpLower: "lower", OpTrim: "trim", OpSplit: "split",
	OpDateTime: "datetime", OpTimestamp: "timestamp",
	OpType: "type", OpThrow: "throw", OpTry: "try",
}

// String returns the canonical rule-document spelling of the operator.
func (t OpTag) String() string {
	if s, ok := opNames[t]; ok {
		return s
	}
	return "op?"
}

// SegKind identifies the variant of a path segment.
type SegKind uint8

const (
	// SegKey reads an object property; missing yields null.
	SegKey SegKind = iota
	// SegIndex indexes into an array; out of range yields null.
	SegIndex
	// SegJump is a scope traversal: Index holds the relative frame
	// offset (0 current, negative outward, positive from the outermost).
	SegJump
)

// PathSeg is one element of a val/exists path specification.
type PathSeg struct {
	Kind  SegKind
	Key   string
	Index int
}

// NodeMember is one key/expression pair of an Object node.
type NodeMember struct {
	Key  string
	Node *Node
}

// Node is an immutable expression-tree node. Nodes live in the arena owned
// by their Rule; the tree is constructed once and evaluated any number of
// times, and children are owned by arena lifetime so cycles are impossible
// by construction.
type Node struct {
	Kind NodeKind

	// Lit is the literal payload of NodeLiteral.
	Lit *Value

	// Path and Default belong to NodeVal/NodeExists. Default is the
	// optional fallback of the legacy "var" form.
	Path    []PathSeg
	Default *Node

	// Items holds array elements or operator operands.
	Items []*Node

	// Sugar marks an operand list produced from a non-array rule value
	// ({"+": 5}); operators that demand an explicit array reject it.
	Sugar bool

	// Members holds the pairs of NodeObject.
	Members []NodeMember

	// Op is the tag of NodeOp.
	Op OpTag

	// Name is the registered name of NodeCustom.
	Name string
}

// IsLiteral reports whether the node is a literal.
func (n *Node) IsLiteral() bool { return n.Kind == NodeLiteral }
