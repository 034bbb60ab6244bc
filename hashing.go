// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import "github.com/cespare/xxhash/v2"

// Hash functions

// _COMBINE mixes the value w into the hash value h. Terms are identified by
// their handle, so we never need to look inside the arguments.
func _COMBINE(h uint64, w uint64) uint64 {
	return (h<<1 ^ h>>1) ^ (w * 0x9E3779B97F4A7C15)
}

// _FINALIZE spreads the bits of h so that masking with a power of two gives a
// good distribution.
func _FINALIZE(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	return h
}

// ************************************************************

// The hash function for applications is #(symbol, arg_0, ..., arg_n-1)

func apphash(f Symbol, args []Term) uint64 {
	h := uint64(f)
	for _, a := range args {
		h = _COMBINE(h, uint64(a))
	}
	return _FINALIZE(h)
}

// The hash function for integer leaves is #(SymInt, value)

func inthash(v uint64) uint64 {
	return _FINALIZE(_COMBINE(uint64(SymInt), v))
}

// ptrhash recomputes the hash value of a node already stored in a block.
func ptrhash(w []word) uint64 {
	f := Symbol(w[_SYMBOL])
	if f == SymInt {
		return inthash(w[_ARGS])
	}
	h := uint64(f)
	for _, a := range w[_ARGS:] {
		h = _COMBINE(h, a)
	}
	return _FINALIZE(h)
}

// ************************************************************

// The hash function for function symbols is #(name, arity)

func symhash(name string, arity int) uint64 {
	return _FINALIZE(_COMBINE(xxhash.Sum64String(name), uint64(arity)))
}
