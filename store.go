// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import (
	"fmt"
	"log/slog"
)

// Store is a hash-consed term store. It builds terms from function symbols and
// integer values, in such a way that two structurally equal terms are always
// represented by the same node. Nodes are reference counted and are reclaimed
// as soon as their count drops to zero.
//
// A Store is not safe for concurrent use. All its methods must be called from
// a single goroutine at a time.
type Store struct {
	terminfo  []termInfo // allocation state, indexed by the size of nodes
	table     []Term     // buckets of the term table
	mask      uint64     // len(table) - 1
	livenodes int        // number of terms in the table
	nblocks   int        // total number of blocks, over all size classes
	symbols   symtable   // table of function symbols
	garbage   []Term     // work list used when destroying terms
	closed    bool
	tableStats
	configs
}

// tableStats stores status information about the term table.
type tableStats struct {
	produced       int // Total number of new nodes ever produced
	destroyed      int // Total number of nodes reclaimed
	uniqueAccess   int // accesses to the term table
	uniqueChain    int // iterations through the hash chains
	uniqueHit      int // entries actually found in the term table
	uniqueMiss     int // entries not found in the term table
	resizes        int // number of times the table doubled
	resizeFailures int // number of resizes that were abandoned
}

// New returns a new term store. Options can be used to change the size of the
// tables and blocks and to set limits on the memory used (see for instance
// Tablesize, Blockwords and Maxblocks). We return an error if the
// configuration is invalid or if we cannot allocate the initial table; there
// is no way to use the store in this case.
func New(options ...func(*configs)) (*Store, error) {
	c := makeconfigs()
	for _, f := range options {
		f(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.maxtablesize > 0 && c.maxtablesize < c.tablesize {
		return nil, fmt.Errorf("%w: maximal table size (%d) smaller than initial size (%d)", ErrConfig, c.maxtablesize, c.tablesize)
	}
	table, err := makeTerms(c.tablesize)
	if err != nil {
		return nil, fmt.Errorf("cannot create the term table: %w", err)
	}
	s := &Store{
		terminfo: make([]termInfo, _SIZECLASSES),
		table:    table,
		mask:     uint64(c.tablesize - 1),
		garbage:  make([]Term, 0, 64),
		configs:  *c,
	}
	s.initsymbols()
	if _LOGLEVEL > 0 {
		s.logger.Debug("term store created",
			slog.Int("buckets", c.tablesize),
			slog.Int("blockwords", c.blockwords))
	}
	return s, nil
}

// Close releases all the memory used by the store at once. Terms and symbols
// obtained from s must not be used afterwards and any call to a method of s,
// other than Close, panics.
func (s *Store) Close() {
	s.terminfo = nil
	s.table = nil
	s.symbols = symtable{}
	s.garbage = nil
	s.livenodes = 0
	s.nblocks = 0
	s.closed = true
}

func (s *Store) checkopen() {
	if s.closed {
		fatalf("use of a closed store")
	}
}

// Len returns the number of live terms in the store.
func (s *Store) Len() int {
	return s.livenodes
}
