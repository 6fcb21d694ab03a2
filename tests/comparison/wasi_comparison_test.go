// Package comparison_test cross-checks the native engine against the
// repo's own WASI build running under wazero.
//
// # Build the WASI binary first
//
//	GOOS=wasip1 GOARCH=wasm go build -o gologic.wasm ./cmd/wasm/wasi/
//
// # Run the comparison
//
//	go test -run TestWASICorrectness -v -count=1 ./tests/comparison/...
//
// The tests are skipped automatically when gologic.wasm is not present at
// the repository root.
package comparison_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"

	"github.com/sandrolain/gologic"
)

// wasmBinaryPath returns the path to gologic.wasm at the repository root.
func wasmBinaryPath(t testing.TB) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if ok {
		return filepath.Join(filepath.Dir(thisFile), "..", "..", "gologic.wasm")
	}
	return "gologic.wasm"
}

type wasiRequest struct {
	Rule json.RawMessage `json:"rule"`
	Data json.RawMessage `json:"data"`
}

type wasiResponse struct {
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// wasiRunner instantiates the compiled module once per request, matching
// the one-shot stdin/stdout protocol of the WASI entrypoint.
type wasiRunner struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
}

func newWASIRunner(t *testing.T, ctx context.Context) *wasiRunner {
	t.Helper()
	path := wasmBinaryPath(t)
	wasmBytes, err := os.ReadFile(path)
	if err != nil {
		t.Skipf("gologic.wasm not built (%v); run GOOS=wasip1 GOARCH=wasm go build -o gologic.wasm ./cmd/wasm/wasi/", err)
	}

	r := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, r)
	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		_ = r.Close(ctx)
		t.Fatalf("compile wasm: %v", err)
	}
	t.Cleanup(func() { _ = r.Close(ctx) })
	return &wasiRunner{runtime: r, compiled: compiled}
}

func (w *wasiRunner) eval(ctx context.Context, t *testing.T, rule, data string) wasiResponse {
	t.Helper()
	req, err := json.Marshal(wasiRequest{
		Rule: json.RawMessage(rule),
		Data: json.RawMessage(data),
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	var stdout bytes.Buffer
	config := wazero.NewModuleConfig().
		WithStdin(bytes.NewReader(append(req, '\n'))).
		WithStdout(&stdout).
		WithStderr(io.Discard).
		WithName("")

	mod, err := w.runtime.InstantiateModule(ctx, w.compiled, config)
	if err != nil {
		// The entrypoint exits explicitly; code 1 signals an
		// evaluation error, which still writes a JSON response.
		var exitErr *sys.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() > 1 {
			t.Fatalf("instantiate: %v", err)
		}
	} else {
		_ = mod.Close(ctx)
	}

	var resp wasiResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		t.Fatalf("bad wasm response %q: %v", stdout.String(), err)
	}
	return resp
}

// comparison corpus: representative rules across operator families.
var comparisonCases = []struct {
	name string
	rule string
	data string
}{
	{"sum", `{"+":[1,{"+":[2,3]},4]}`, `null`},
	{"conditional", `{"if":[{">":[{"val":"age"},18]},"Adult","Minor"]}`, `{"age":21}`},
	{"scope traversal", `{"map":[{"val":"n"},{"*":[{"val":[]},{"val":[[-2],"k"]}]}]}`, `{"n":[1,2,3],"k":5}`},
	{"sort by key", `{"sort":[{"val":"p"},true,{"val":"age"}]}`, `{"p":[{"n":"A","age":30},{"n":"B","age":25}]}`},
	{"named group split", `{"split":[{"val":"e"},"^(?P<u>[^@]+)@(?P<d>.+)$"]}`, `{"e":"a@b.com"}`},
	{"try", `{"try":[{"/":[1,0]},{"val":"type"}]}`, `null`},
	{"slice reversal", `{"slice":[{"val":"xs"},null,null,-1]}`, `{"xs":[1,2,3]}`},
	{"error case", `{"/":[1,0]}`, `null`},
	{"thrown error", `{"throw":"boom"}`, `null`},
}

func TestWASICorrectness(t *testing.T) {
	ctx := context.Background()
	runner := newWASIRunner(t, ctx)
	engine := gologic.New()

	for _, tc := range comparisonCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			nativeResult, nativeErr := engine.EvaluateJSON(ctx, []byte(tc.rule), []byte(tc.data))
			wasmResp := runner.eval(ctx, t, tc.rule, tc.data)

			if nativeErr != nil {
				if len(wasmResp.Error) == 0 {
					t.Fatalf("native errored (%v) but wasm succeeded with %s", nativeErr, wasmResp.Result)
				}
				return
			}
			if len(wasmResp.Error) != 0 {
				t.Fatalf("wasm errored with %s but native returned %#v", wasmResp.Error, nativeResult)
			}

			var wasmResult any
			if len(wasmResp.Result) != 0 {
				if err := json.Unmarshal(wasmResp.Result, &wasmResult); err != nil {
					t.Fatalf("bad wasm result %s: %v", wasmResp.Result, err)
				}
			}
			if !reflect.DeepEqual(normalize(t, nativeResult), wasmResult) {
				t.Errorf("native %#v != wasm %#v", nativeResult, wasmResult)
			}
		})
	}
}

// normalize round-trips through encoding/json so int64/float64
// representations compare uniformly with the wasm side.
func normalize(t *testing.T, v any) any {
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
