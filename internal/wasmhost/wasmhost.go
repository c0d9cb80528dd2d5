// Package wasmhost runs the WASI build of scoreplot (cmd/wasm/wasi) inside
// the wazero runtime.
//
// The module is compiled once and instantiated afresh for every request, with
// the request JSON on stdin and the response read back from stdout. This lets
// the scoreplot command exercise exactly the artifact other WASI hosts embed.
//
// # Example
//
//	bin, _ := os.ReadFile("scoreplot.wasm")
//	host, err := wasmhost.New(ctx, bin)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer host.Close(ctx)
//	resp, err := host.Do(ctx, protocol.Request{...})
package wasmhost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"

	"github.com/sandrolain/scoreplot"
	"github.com/sandrolain/scoreplot/internal/protocol"
)

// Host owns a wazero runtime and the compiled scoreplot module.
//
// Do may be called concurrently; every call gets its own module instance.
type Host struct {
	rt       wazero.Runtime
	compiled wazero.CompiledModule
	logger   *slog.Logger
}

// New compiles wasm and prepares the WASI imports it needs.
func New(ctx context.Context, wasm []byte) (*Host, error) {
	return NewWithLogger(ctx, wasm, slog.Default())
}

// NewWithLogger is New with an explicit logger.
func NewWithLogger(ctx context.Context, wasm []byte, logger *slog.Logger) (*Host, error) {
	rt := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("instantiate WASI: %w", err)
	}
	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("compile module: %w", err)
	}
	return &Host{rt: rt, compiled: compiled, logger: logger}, nil
}

// Open reads a module from path and calls New.
func Open(ctx context.Context, path string) (*Host, error) {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module: %w", err)
	}
	return New(ctx, wasm)
}

// Do runs one request through a fresh module instance.
//
// A formula error is reported in the returned Response (and not as err); err
// is reserved for failures of the host or the module itself.
func (h *Host) Do(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return protocol.Response{}, fmt.Errorf("marshal request: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cfg := wazero.NewModuleConfig().
		WithName(""). // anonymous, so instances do not collide
		WithStdin(bytes.NewReader(payload)).
		WithStdout(&stdout).
		WithStderr(&stderr)

	mod, err := h.rt.InstantiateModule(ctx, h.compiled, cfg)
	if mod != nil {
		defer mod.Close(ctx)
	}

	exitCode := uint32(0)
	if err != nil {
		var exitErr *sys.ExitError
		if !errors.As(err, &exitErr) {
			return protocol.Response{}, fmt.Errorf("run module: %w", err)
		}
		exitCode = exitErr.ExitCode()
	}

	var resp protocol.Response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return protocol.Response{}, fmt.Errorf("module exited with code %d and unreadable output: %w (stderr: %s)",
			exitCode, err, stderr.String())
	}
	if exitCode != 0 && resp.Error == "" {
		return protocol.Response{}, fmt.Errorf("module exited with code %d (stderr: %s)", exitCode, stderr.String())
	}

	h.logger.Debug("wasm request handled", "formula", req.Formula, "exit_code", exitCode)
	return resp, nil
}

// Plot runs req and returns its result, turning a formula error in the
// response into an error.
func (h *Host) Plot(ctx context.Context, req protocol.Request) (*scoreplot.Result, error) {
	resp, err := h.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// Close releases the runtime and everything compiled in it.
func (h *Host) Close(ctx context.Context) error {
	return h.rt.Close(ctx)
}
