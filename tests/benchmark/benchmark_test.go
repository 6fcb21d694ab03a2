// Package benchmark_test measures compile and evaluation performance.
//
//	go test -bench=. -benchmem ./tests/benchmark/...
package benchmark_test

import (
	"context"
	"testing"

	"github.com/sandrolain/gologic"
	"github.com/sandrolain/gologic/pkg/types"
)

var benchRules = []struct {
	name string
	rule string
	data string
}{
	{"literal_sum", `{"+":[1,2,3,4,5]}`, `null`},
	{"val_chain", `{"+":[{"val":"a"},{"val":"b"},{"val":"c"}]}`, `{"a":1,"b":2,"c":3}`},
	{"conditional", `{"if":[{">":[{"val":"age"},18]},"Adult","Minor"]}`, `{"age":21}`},
	{"map_scope", `{"map":[{"val":"n"},{"*":[{"val":[]},{"val":[[-2],"k"]}]}]}`, `{"n":[1,2,3,4,5,6,7,8],"k":5}`},
	{"sort_by_key", `{"sort":[{"val":"p"},true,{"val":"a"}]}`, `{"p":[{"a":5},{"a":3},{"a":9},{"a":1},{"a":7}]}`},
	{"try_recover", `{"try":[{"/":[1,0]},{"val":"type"}]}`, `null`},
}

func BenchmarkParse(b *testing.B) {
	e := gologic.New()
	for _, tc := range benchRules {
		b.Run(tc.name, func(b *testing.B) {
			src := []byte(tc.rule)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := e.Parse(src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkEvaluate measures steady-state evaluation: rule compiled once,
// one arena reset per iteration.
func BenchmarkEvaluate(b *testing.B) {
	e := gologic.New()
	ctx := context.Background()
	for _, tc := range benchRules {
		b.Run(tc.name, func(b *testing.B) {
			rule, err := e.Parse([]byte(tc.rule))
			if err != nil {
				b.Fatal(err)
			}
			a := types.NewArena()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				data, err := gologic.ParseData([]byte(tc.data), a)
				if err != nil {
					b.Fatal(err)
				}
				if _, err := e.Evaluate(ctx, rule, data, a); err != nil {
					b.Fatal(err)
				}
				a.Reset()
			}
		})
	}
}

// BenchmarkEvaluateJSON measures the one-shot surface with rule caching.
func BenchmarkEvaluateJSON(b *testing.B) {
	e := gologic.New(gologic.WithCaching(true))
	ctx := context.Background()
	for _, tc := range benchRules {
		b.Run(tc.name, func(b *testing.B) {
			rule, data := []byte(tc.rule), []byte(tc.data)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := e.EvaluateJSON(ctx, rule, data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEvaluateParallel(b *testing.B) {
	e := gologic.New(gologic.WithCaching(true))
	ctx := context.Background()
	rule := []byte(`{"map":[{"val":"n"},{"*":[{"val":[]},{"val":[[-2],"k"]}]}]}`)
	data := []byte(`{"n":[1,2,3,4,5,6,7,8],"k":5}`)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := e.EvaluateJSON(ctx, rule, data); err != nil {
				b.Fatal(err)
			}
		}
	})
}
