//go:build wasip1

// Command scoreplot-wasm-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "formula": "<formula>", "field": "<name>", "start": 0, "end": 10 }
//	stdout: { "result": { "label": ..., "samples": {...} } }   on success
//	        { "error": "<message>", "code": "F0101" }          on failure (exit code 1)
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o scoreplot.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"formula":"pow(x,2)","start":0,"end":1}' | wasmtime scoreplot.wasm
//
// The scoreplot command can run the module itself through wazero:
//
//	scoreplot plot 'pow(x,2)' --engine wasm --wasm-module scoreplot.wasm
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/sandrolain/scoreplot/internal/protocol"
)

func writeResponse(r protocol.Response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func main() {
	var req protocol.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(protocol.Response{Error: "invalid request JSON: " + err.Error()}, 1)
	}

	resp := protocol.Handle(context.Background(), req)
	if resp.Error != "" {
		writeResponse(resp, 1)
	}
	writeResponse(resp, 0)
}
