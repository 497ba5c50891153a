//go:build !prometheus

package http1

// No-op metrics shims for the default build. The "prometheus" build tag
// swaps in real counters.

const (
	outcomeDone  = "done"
	outcomeError = "error"
)

func observeHead(outcome string, size int) {}
