package parser

import "github.com/sandrolain/gologic/pkg/types"

// opTable maps rule-document operator keys to their tags, including the
// symbolic aliases ("&&", "||", "?:").
var opTable = map[string]types.OpTag{
	"+":     types.OpAdd,
	"-":     types.OpSub,
	"*":     types.OpMul,
	"/":     types.OpDiv,
	"%":     types.OpMod,
	"abs":   types.OpAbs,
	"ceil":  types.OpCeil,
	"floor": types.OpFloor,
	"min":   types.OpMin,
	"max":   types.OpMax,

	"==":  types.OpEqual,
	"!=":  types.OpNotEqual,
	"===": types.OpStrictEqual,
	"!==": types.OpStrictNotEqual,
	"<":   types.OpLess,
	"<=":  types.OpLessEq,
	">":   types.OpGreater,
	">=":  types.OpGreaterEq,

	"and": types.OpAnd,
	"&&":  types.OpAnd,
	"or":  types.OpOr,
	"||":  types.OpOr,
	"!":   types.OpNot,
	"!!":  types.OpDoubleBang,
	"if":  types.OpIf,
	"?:":  types.OpIf,
	"??":  types.OpCoalesce,

	"map":          types.OpMap,
	"filter":       types.OpFilter,
	"reduce":       types.OpReduce,
	"all":          types.OpAll,
	"some":         types.OpSome,
	"none":         types.OpNone,
	"merge":        types.OpMerge,
	"in":           types.OpIn,
	"length":       types.OpLength,
	"slice":        types.OpSlice,
	"sort":         types.OpSort,
	"find":         types.OpFind,
	"missing":      types.OpMissing,
	"missing_some": types.OpMissingSome,

	"cat":         types.OpCat,
	"substr":      types.OpSubstr,
	"starts_with": types.OpStartsWith,
	"ends_with":   types.OpEndsWith,
	"upper":       types.OpUpper,
	"lower":       types.OpLower,
	"trim":        types.OpTrim,
	"split":       types.OpSplit,

	"datetime":  types.OpDateTime,
	"timestamp": types.OpTimestamp,
	"duration":  types.OpTimestamp,

	"type":  types.OpType,
	"throw": types.OpThrow,
	"try":   types.OpTry,
}

// LookupOp resolves an operator key to its tag.
func LookupOp(name string) (types.OpTag, bool) {
	t, ok := opTable[name]
	return t, ok
}
