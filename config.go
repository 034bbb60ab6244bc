// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import "log/slog"

// configs is used to store the values of the different parameters of a Store
type configs struct {
	tablesize    int          // initial number of buckets in the term table
	maxtablesize int          // maximal number of buckets in the term table (0 if no limit)
	blockwords   int          // number of words in a block
	maxblocks    int          // maximal number of blocks, over all size classes (0 if no limit)
	symtablesize int          // initial number of buckets in the symbol table
	promote      bool         // move terms found in the table to the front of their bucket
	logger       *slog.Logger // destination of warnings and debug messages
}

func makeconfigs() *configs {
	return &configs{
		tablesize:    _TABLESIZE,
		blockwords:   _BLOCKWORDS,
		symtablesize: _SYMTABLESIZE,
		promote:      true,
	}
}

// Tablesize is a configuration option (function). Used as a parameter in New it
// sets the initial number of buckets in the term table. The value is rounded
// up to a power of two. The table doubles in size each time the number of live
// terms reaches half its number of buckets. The default is 1<<17.
func Tablesize(size int) func(*configs) {
	return func(c *configs) {
		if size > 0 {
			c.tablesize = ceilpow2(size)
		}
	}
}

// Maxtablesize is a configuration option (function). Used as a parameter in New
// it sets a limit to the number of buckets in the term table. When a resize
// would go above this limit, the table is kept as is and only the length of the
// hash chains grows. The default value (0) means that there is no limit.
func Maxtablesize(size int) func(*configs) {
	return func(c *configs) {
		c.maxtablesize = size
	}
}

// Blockwords is a configuration option (function). Used as a parameter in New
// it sets the number of words (64 bits) in a block of memory. Terms of a given
// size are carved out of blocks and a block is never returned to the runtime.
// The default is 1<<13 words.
func Blockwords(size int) func(*configs) {
	return func(c *configs) {
		if size >= _INTSIZE {
			c.blockwords = size
		}
	}
}

// Maxblocks is a configuration option (function). Used as a parameter in New it
// sets a limit to the total number of blocks that can be allocated. Creating a
// term that needs a new block above this limit returns ErrMemory. The default
// value (0) means that there is no limit.
func Maxblocks(n int) func(*configs) {
	return func(c *configs) {
		c.maxblocks = n
	}
}

// Symtablesize is a configuration option (function). Used as a parameter in New
// it sets the initial number of buckets in the table of function symbols. The
// value is rounded up to a power of two.
func Symtablesize(size int) func(*configs) {
	return func(c *configs) {
		if size > 0 {
			c.symtablesize = ceilpow2(size)
		}
	}
}

// Promote is a configuration option (function). When set (the default), a term
// found in the table is moved to the front of its hash chain so that frequently
// used terms are found faster.
func Promote(on bool) func(*configs) {
	return func(c *configs) {
		c.promote = on
	}
}

// Logger is a configuration option (function). Used as a parameter in New it
// sets the logger used for warnings, such as a failed resize of the term table,
// and for debug messages. The default is slog.Default().
func Logger(l *slog.Logger) func(*configs) {
	return func(c *configs) {
		c.logger = l
	}
}

// ceilpow2 returns the smallest power of two greater or equal to n.
func ceilpow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
