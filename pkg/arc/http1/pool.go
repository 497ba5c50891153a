package http1

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// PoolStrategy defines the pooling strategy to use
type PoolStrategy int

const (
	// PoolStrategyStandard uses Go's standard sync.Pool (default, fastest for most workloads)
	PoolStrategyStandard PoolStrategy = iota

	// PoolStrategyPerCPU uses per-CPU pools to eliminate lock contention
	// (useful for sustained high-concurrency workloads with longer object hold times)
	PoolStrategyPerCPU
)

// poolStrategy is the global pool strategy setting
var poolStrategy = PoolStrategyStandard

// SetPoolStrategy sets the pooling strategy globally.
// This must be called before any pool operations for consistent behavior.
// Safe to call from init() functions or during server initialization.
func SetPoolStrategy(strategy PoolStrategy) {
	poolStrategy = strategy
}

// perCPUPool provides per-CPU object pooling to reduce lock contention.
// Only used when PoolStrategyPerCPU is enabled.
type perCPUPool[T any] struct {
	pools      []*sync.Pool
	numCPU     int
	roundRobin atomic.Uint64
	newFunc    func() T
}

// newPerCPUPool creates a new per-CPU pool.
func newPerCPUPool[T any](newFunc func() T) *perCPUPool[T] {
	numCPU := runtime.GOMAXPROCS(0)
	if numCPU < 1 {
		numCPU = 1
	}

	pools := make([]*sync.Pool, numCPU)
	for i := 0; i < numCPU; i++ {
		pools[i] = &sync.Pool{
			New: func() interface{} {
				return newFunc()
			},
		}
	}

	return &perCPUPool[T]{
		pools:   pools,
		numCPU:  numCPU,
		newFunc: newFunc,
	}
}

// get retrieves an object from the pool using round-robin distribution.
func (p *perCPUPool[T]) get() T {
	idx := p.roundRobin.Add(1) % uint64(p.numCPU)
	pool := p.pools[idx]

	if obj := pool.Get(); obj != nil {
		return obj.(T)
	}

	return p.newFunc()
}

// put returns an object to the pool.
func (p *perCPUPool[T]) put(obj T) {
	idx := p.roundRobin.Load() % uint64(p.numCPU)
	pool := p.pools[idx]
	pool.Put(obj)
}

// warmup pre-allocates objects across all CPU pools.
func (p *perCPUPool[T]) warmup(countPerCPU int) {
	for _, pool := range p.pools {
		objs := make([]T, countPerCPU)
		for i := 0; i < countPerCPU; i++ {
			objs[i] = p.newFunc()
		}
		for i := 0; i < countPerCPU; i++ {
			pool.Put(objs[i])
		}
	}
}

var (
	parseStatePoolStd = sync.Pool{
		New: func() interface{} {
			return &ParseState{}
		},
	}

	parseStatePoolPerCPU = newPerCPUPool(func() *ParseState {
		return &ParseState{}
	})
)

// GetParseState retrieves a ParseState from the pool, reset and bound to
// the given hash and ctx.
//
// IMPORTANT: You MUST call PutParseState when done to return it to the pool.
//
// Allocation behavior: 0 allocs/op (reuses pooled object)
func GetParseState(hash *FieldsHash, ctx any) *ParseState {
	var ps *ParseState
	if poolStrategy == PoolStrategyPerCPU {
		ps = parseStatePoolPerCPU.get()
	} else {
		ps = parseStatePoolStd.Get().(*ParseState)
	}
	ps.Reset(hash, ctx)
	return ps
}

// PutParseState returns a ParseState to the pool.
// The state is cleared before being returned so no buffer positions or
// the ctx value leak across parses.
// It is safe to call PutParseState on a nil ParseState (no-op).
//
// After calling PutParseState, you MUST NOT use the ParseState anymore.
//
// Allocation behavior: 0 allocs/op
func PutParseState(ps *ParseState) {
	if ps != nil {
		ps.Reset(nil, nil)
		if poolStrategy == PoolStrategyPerCPU {
			parseStatePoolPerCPU.put(ps)
		} else {
			parseStatePoolStd.Put(ps)
		}
	}
}

// WarmupPools pre-allocates ParseStates to avoid allocations during the
// first parses. Call during initialization.
//
// For PoolStrategyStandard, count is the total number of objects; for
// PoolStrategyPerCPU it is per CPU.
func WarmupPools(count int) {
	if poolStrategy == PoolStrategyPerCPU {
		parseStatePoolPerCPU.warmup(count)
		return
	}

	objs := make([]*ParseState, count)
	for i := range objs {
		objs[i] = GetParseState(nil, nil)
	}
	for _, ps := range objs {
		PutParseState(ps)
	}
}
