package optimizer_test

import (
	"testing"

	"github.com/sandrolain/gologic/pkg/optimizer"
	"github.com/sandrolain/gologic/pkg/parser"
	"github.com/sandrolain/gologic/pkg/types"
)

func compile(t *testing.T, src string) *types.Node {
	t.Helper()
	a := types.NewArena()
	n, err := parser.Parse([]byte(src), a)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", src, err)
	}
	return optimizer.Optimize(n, a)
}

func TestConstantFolding(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want float64
	}{
		{"addition", `{"+": [1, 2, 3]}`, 6},
		{"nested", `{"+": [1, {"+": [2, 3]}, 4]}`, 10},
		{"multiplication", `{"*": [2, 3, 4]}`, 24},
		{"subtraction", `{"-": [10, 4]}`, 6},
		{"min", `{"min": [3, 1, 2]}`, 1},
		{"comparison folds too", `{"<": [1, 2, 3]}`, 0}, // checked below
	}

	for _, tt := range tests[:5] {
		t.Run(tt.name, func(t *testing.T) {
			n := compile(t, tt.src)
			if n.Kind != types.NodeLiteral {
				t.Fatalf("expected literal after folding, got kind %d", n.Kind)
			}
			if got := n.Lit.NumFloat(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	n := compile(t, `{"<": [1, 2, 3]}`)
	if n.Kind != types.NodeLiteral || !n.Lit.Bool() {
		t.Errorf("chained literal comparison should fold to true")
	}
}

func TestFoldingSkipsErrors(t *testing.T) {
	// Division by zero must NOT fold: the error belongs to evaluation
	// time, where a surrounding try can catch it.
	n := compile(t, `{"/": [1, 0]}`)
	if n.Kind != types.NodeOp {
		t.Fatalf("failing operator must stay a node, got kind %d", n.Kind)
	}
}

func TestFoldingSkipsDataDependence(t *testing.T) {
	n := compile(t, `{"missing": ["a"]}`)
	if n.Kind == types.NodeLiteral {
		t.Fatal("missing reads the data document and must not fold")
	}
	n = compile(t, `{"+": [1, {"val": "x"}]}`)
	if n.Kind != types.NodeOp {
		t.Fatalf("operator with val operand must stay a node")
	}
}

func TestAssociativeFlattening(t *testing.T) {
	n := compile(t, `{"+": [1, {"+": [{"val": "x"}, 3]}, 4]}`)
	if n.Kind != types.NodeOp || n.Op != types.OpAdd {
		t.Fatalf("expected + node, got kind %d", n.Kind)
	}
	if len(n.Items) != 4 {
		t.Errorf("got %d operands after flattening, want 4", len(n.Items))
	}
}

func TestFlatteningStopsAtDifferentTags(t *testing.T) {
	// and of or must not flatten across the short-circuit boundary.
	n := compile(t, `{"and": [{"val": "a"}, {"or": [{"val": "b"}, {"val": "c"}]}]}`)
	if n.Kind != types.NodeOp || n.Op != types.OpAnd {
		t.Fatalf("expected and node")
	}
	if len(n.Items) != 2 {
		t.Fatalf("got %d operands, want 2", len(n.Items))
	}
	if n.Items[1].Kind != types.NodeOp || n.Items[1].Op != types.OpOr {
		t.Errorf("inner or must survive")
	}
}

func TestShortCircuitPrefixFolding(t *testing.T) {
	// A deciding literal collapses the whole expression, even when later
	// operands could not be evaluated safely.
	n := compile(t, `{"and": [false, {"throw": "boom"}]}`)
	if n.Kind != types.NodeLiteral || n.Lit.IsTruthy() {
		t.Errorf("and with literal false prefix must fold to false")
	}

	n = compile(t, `{"or": [true, {"throw": "boom"}]}`)
	if n.Kind != types.NodeLiteral || !n.Lit.IsTruthy() {
		t.Errorf("or with literal true prefix must fold to true")
	}

	// Non-deciding literal prefixes drop.
	n = compile(t, `{"and": [true, {"val": "x"}]}`)
	if n.Kind != types.NodeVal {
		t.Errorf("and with truthy literal prefix must fold to remaining operand")
	}
}

func TestIfFolding(t *testing.T) {
	n := compile(t, `{"if": [true, "yes", {"throw": "never"}]}`)
	if n.Kind != types.NodeLiteral || n.Lit.Str() != "yes" {
		t.Errorf("literal truthy condition must select its branch")
	}

	n = compile(t, `{"if": [false, "yes", "no"]}`)
	if n.Kind != types.NodeLiteral || n.Lit.Str() != "no" {
		t.Errorf("literal falsy condition must fall through to else")
	}

	n = compile(t, `{"if": [{"val": "c"}, 1, 2]}`)
	if n.Kind != types.NodeOp || n.Op != types.OpIf {
		t.Errorf("data-dependent condition must stay")
	}
}

func TestOptimizeIsIdempotent(t *testing.T) {
	a := types.NewArena()
	n, err := parser.Parse([]byte(`{"+": [1, {"+": [{"val": "x"}, 3]}, 4]}`), a)
	if err != nil {
		t.Fatal(err)
	}
	once := optimizer.Optimize(n, a)
	twice := optimizer.Optimize(once, a)
	if len(once.Items) != len(twice.Items) {
		t.Errorf("second pass changed the tree: %d vs %d operands",
			len(once.Items), len(twice.Items))
	}
}

func TestSugaredAndIsNotFolded(t *testing.T) {
	// {"and": true} is an Invalid Arguments failure at evaluation time;
	// the optimizer must not rewrite it into a valid expression.
	n := compile(t, `{"and": true}`)
	if n.Kind != types.NodeOp || n.Op != types.OpAnd || !n.Sugar {
		t.Errorf("sugared and must survive optimization, got kind %d", n.Kind)
	}
}

func TestLiteralConstructorsFold(t *testing.T) {
	n := compile(t, `[{"+" : [1, 2]}, 4]`)
	if n.Kind != types.NodeLiteral || n.Lit.Kind() != types.KindArray {
		t.Fatalf("array of folded literals must fold, got kind %d", n.Kind)
	}
	items := n.Lit.Items()
	if len(items) != 2 || items[0].NumFloat() != 3 {
		t.Errorf("unexpected folded array %v", n.Lit.ToString())
	}
}
