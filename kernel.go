// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import (
	"errors"
)

// word is the unit of storage in blocks. A node of arity n occupies
// _HEADERWORDS+n consecutive words of a block.
type word = uint64

// _HEADERWORDS is the number of words used by the header of every node: the
// function symbol, the reference count and the link field.
const _HEADERWORDS int = 3

// offsets of the header fields inside a node
const (
	_SYMBOL int = iota
	_REFCOU
	_LINK
	_ARGS
)

// _INTSIZE is the size (in words) of integer leaves: a header followed by the
// value.
const _INTSIZE int = _HEADERWORDS + 1

// _BLOCKWORDS is the default number of words in a block. The number of slots in
// a block for terms of size s is _BLOCKWORDS / s.
const _BLOCKWORDS int = 1 << 13

// _TABLESIZE is the default initial number of buckets in the term table. It
// must be a power of two.
const _TABLESIZE int = 1 << 17

// _SYMTABLESIZE is the default initial number of buckets in the table of
// function symbols. It must be a power of two.
const _SYMTABLESIZE int = 1 << 10

// _SIZECLASSES is the initial number of entries in the registry of size
// classes. The registry grows when we see a larger size.
const _SIZECLASSES int = 256

// _SIZESHIFT is the position of the size class in a Term. The lower bits give
// the offset (in words) of the node inside the blocks of its size class.
const _SIZESHIFT = 48

// _MAXARITY is the largest arity accepted for a function symbol. We keep the
// size of nodes below 1<<15 so that the highest bit of a Term is always zero
// and can be used to tag free slots in link fields.
const _MAXARITY int = 1<<15 - 1 - _HEADERWORDS

var (
	// ErrMemory is returned when we cannot obtain the memory needed to store a
	// new term, either because a configured limit is reached or because the
	// runtime refuses the allocation.
	ErrMemory = errors.New("aterm: out of memory")

	// ErrConfig reports an invalid configuration; for example a maximal table
	// size smaller than the initial one.
	ErrConfig = errors.New("aterm: bad configuration")

	// ErrCorrupt is returned by Check when one of the invariants of the term
	// store does not hold.
	ErrCorrupt = errors.New("aterm: inconsistent term store")

	// ErrLeak is returned by CheckEmpty when terms or function symbols are
	// still referenced.
	ErrLeak = errors.New("aterm: terms still referenced")
)
