// Package conformance_test runs the rule corpus under testdata/ against
// the engine. Each suite file is a list of rule ⇒ data ⇒ expectation
// cases; see the loader package for the format.
package conformance_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/sandrolain/gologic"
	"github.com/sandrolain/gologic/pkg/types"
	"github.com/sandrolain/gologic/tests/conformance/loader"
)

func TestConformanceSuites(t *testing.T) {
	suites, err := loader.LoadDir("testdata")
	if err != nil {
		t.Fatalf("Failed to load suites: %v", err)
	}
	if len(suites) == 0 {
		t.Fatal("no suites found under testdata")
	}

	engine := gologic.New(gologic.WithCaching(true))
	ctx := context.Background()

	for _, suite := range suites {
		suite := suite
		t.Run(suite.Name, func(t *testing.T) {
			for _, c := range suite.Cases {
				c := c
				t.Run(c.Description, func(t *testing.T) {
					got, err := engine.EvaluateJSON(ctx, c.Rule, c.Data)

					if !c.HasResult {
						requireErrorShape(t, err, c.Error)
						return
					}
					if err != nil {
						t.Fatalf("rule %s on %s: %v", c.Rule, c.Data, err)
					}
					requireResult(t, got, c.Result)
				})
			}
		})
	}
}

// requireResult compares the evaluation output against the expected JSON
// by normalizing both through the engine's value model, so 1 and 1.0
// integer/float distinctions follow the engine's rules rather than Go's.
func requireResult(t *testing.T, got any, want json.RawMessage) {
	t.Helper()
	gotJSON, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("cannot marshal result %#v: %v", got, err)
	}

	a := types.NewArena()
	gotVal, err := types.ParseJSON(gotJSON, a)
	if err != nil {
		t.Fatalf("cannot reparse result %s: %v", gotJSON, err)
	}
	wantVal, err := types.ParseJSON(want, a)
	if err != nil {
		t.Fatalf("bad expectation %s: %v", want, err)
	}
	if !types.StrictEquals(gotVal, wantVal) {
		t.Errorf("got %s, want %s", gotJSON, want)
	}
}

func requireErrorShape(t *testing.T, err error, want json.RawMessage) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %s, got success", want)
	}
	var evalErr *types.Error
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected structured error, got %v", err)
	}
	var wantShape any
	if err := json.Unmarshal(want, &wantShape); err != nil {
		t.Fatalf("bad error expectation %s: %v", want, err)
	}
	gotShape := normalizeJSON(t, evalErr.JSONValue())
	if !reflect.DeepEqual(gotShape, wantShape) {
		t.Errorf("got error %#v, want %#v", gotShape, wantShape)
	}
}

// normalizeJSON round-trips a value through encoding/json so numeric
// types compare uniformly.
func normalizeJSON(t *testing.T, v any) any {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}
