//go:build (js && wasm) || wasip1

package sampler

// init makes SampleParallel run a single worker in WebAssembly builds.
//
// On js/wasm the JavaScript runtime is single-threaded and goroutines are
// multiplexed cooperatively on the same thread, so extra workers only add
// scheduling overhead. wasip1 has no thread support in the Go runtime either.
func init() {
	defaultWorkers = 1
}
