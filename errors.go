// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import (
	"fmt"
	"log"
	"math"
	"runtime"
	"runtime/debug"
)

// fatalf reports a violation of an internal invariant. This is always a bug,
// in the store or in the caller, and there is no way to continue safely.
func fatalf(format string, a ...interface{}) {
	log.Panicf("aterm: "+format, a...)
}

// memFree returns an estimate of the memory still available under the limit
// set with debug.SetMemoryLimit. We return math.MaxInt64 when there is no
// limit, which avoids the cost of reading the memory statistics.
func memFree() int64 {
	limit := debug.SetMemoryLimit(-1)
	if limit == math.MaxInt64 {
		return math.MaxInt64
	}
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return limit - int64(stats.Sys-stats.HeapReleased)
}

// makeWords allocates a zeroed slice of n words, taking into account the
// memory limit of the runtime. We return ErrMemory instead of crashing when
// the allocation cannot be done.
func makeWords(n int) (_ []word, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: cannot allocate %d words (%v)", ErrMemory, n, r)
		}
	}()
	if memFree() < int64(n)*8 {
		return nil, fmt.Errorf("%w: cannot allocate %d words", ErrMemory, n)
	}
	return make([]word, n), nil
}

// makeTerms is the same as makeWords but for the buckets of hash tables.
func makeTerms(n int) (_ []Term, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: cannot allocate table of size %d (%v)", ErrMemory, n, r)
		}
	}()
	if memFree() < int64(n)*8 {
		return nil, fmt.Errorf("%w: cannot allocate table of size %d", ErrMemory, n)
	}
	return make([]Term, n), nil
}
