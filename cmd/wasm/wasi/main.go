//go:build wasip1

// Command gologic-wasm-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "rule": <JSON rule>, "data": <any JSON value> }
//	stdout: { "result": <any JSON value> }     on success
//	        { "error":  {"type": <payload>} }   on failure (exit code 1)
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o gologic.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"rule":{"+":[1,2]},"data":null}' | wasmtime gologic.wasm
package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/sandrolain/gologic"
	"github.com/sandrolain/gologic/pkg/types"
)

type request struct {
	Rule json.RawMessage `json:"rule"`
	Data json.RawMessage `json:"data"`
}

type response struct {
	Result any `json:"result,omitempty"`
	Error  any `json:"error,omitempty"`
}

func writeResponse(r response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(response{Error: map[string]any{"type": "invalid request JSON: " + err.Error()}}, 1)
	}
	if len(req.Data) == 0 {
		req.Data = json.RawMessage("null")
	}

	result, err := gologic.Apply(context.Background(), req.Rule, req.Data)
	if err != nil {
		var evalErr *types.Error
		if errors.As(err, &evalErr) {
			writeResponse(response{Error: evalErr.JSONValue()}, 1)
		}
		writeResponse(response{Error: map[string]any{"type": err.Error()}}, 1)
	}

	writeResponse(response{Result: result}, 0)
}
