//go:build js && wasm

// Command scoreplot-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `scoreplot` object with the following API:
//
//	scoreplot.version()                  → string
//	scoreplot.plot(requestJSON)          → responseJSON
//	scoreplot.compile(formula[, field])  → { eval(x) → number }  (throws on error)
//	scoreplot.operations()               → string[]
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o scoreplot.wasm ./cmd/wasm/js/
//
// Usage in a page that draws the curve:
//
//	const resp = JSON.parse(scoreplot.plot(JSON.stringify({
//	  formula: 'recip(price, 4, 4, 0)', field: 'price', start: 0, end: 10,
//	})))
//	if (resp.error) showInvalidFormula()
//	else draw(resp.result.samples.points)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/sandrolain/scoreplot"
	"github.com/sandrolain/scoreplot/internal/protocol"
	"github.com/sandrolain/scoreplot/pkg/functions"
)

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	js.Global().Get("Error").New(msg)
	panic(msg)
}

// jsPlot implements scoreplot.plot(requestJSON) → responseJSON.
// Formula errors are reported in the response, not thrown.
func jsPlot(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("scoreplot.plot requires 1 argument: request (JSON string)")
	}
	var req protocol.Request
	var resp protocol.Response
	if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
		resp = protocol.Response{Error: "invalid request JSON: " + err.Error()}
	} else {
		resp = protocol.Handle(context.Background(), req)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		jsThrow(fmt.Sprintf("scoreplot.plot: marshal response: %v", err))
	}
	return string(out)
}

// jsCompile implements scoreplot.compile(formula[, field]) → { eval(x) }.
func jsCompile(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("scoreplot.compile requires 1 argument: formula (string)")
	}
	field := ""
	if len(args) > 1 {
		field = args[1].String()
	}

	expr, err := scoreplot.Compile(scoreplot.Prepare(args[0].String(), field))
	if err != nil {
		jsThrow(fmt.Sprintf("scoreplot.compile: %v", err))
	}

	evalFn := js.FuncOf(func(_ js.Value, innerArgs []js.Value) interface{} {
		if len(innerArgs) < 1 {
			jsThrow("compiled.eval requires 1 argument: x (number)")
		}
		return expr.Eval(innerArgs[0].Float())
	})
	return js.ValueOf(map[string]interface{}{"eval": evalFn})
}

func main() {
	api := map[string]interface{}{
		"plot":    js.FuncOf(jsPlot),
		"compile": js.FuncOf(jsCompile),
		"operations": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			names := functions.Default().Names()
			out := make([]interface{}, len(names))
			for i, n := range names {
				out[i] = n
			}
			return out
		}),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			return scoreplot.Version()
		}),
	}
	js.Global().Set("scoreplot", js.ValueOf(api))

	// Block forever; the JS event loop owns execution from here.
	select {}
}
