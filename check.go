// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import (
	"fmt"
)

// Check verifies the internal consistency of the store. It returns an error
// wrapping ErrCorrupt describing the first problem found. The check visits all
// the blocks and the whole term table, so it is meant for tests and debugging.
//
// We verify that: every node in the table is live and sits in the bucket given
// by its hash value; the number of nodes in the table is the number of live
// slots; no two live nodes have the same symbol and arguments; all the
// arguments of a live node are live; the reference count of a node is at least
// the number of live nodes using it as argument; and the free lists contain
// exactly the slots not in use.
func (s *Store) Check() error {
	s.checkopen()
	hashed := 0
	for k, first := range s.table {
		for cur := first; cur != Nil; cur = link(s.node(cur)[_LINK]).next() {
			w := s.node(cur)
			if link(w[_LINK]).isfree() {
				return fmt.Errorf("%w: free slot %s in bucket %d", ErrCorrupt, cur, k)
			}
			if w[_REFCOU] == 0 {
				return fmt.Errorf("%w: dead term %s in bucket %d", ErrCorrupt, cur, k)
			}
			if got := ptrhash(w) & s.mask; got != uint64(k) {
				return fmt.Errorf("%w: term %s in bucket %d instead of %d", ErrCorrupt, cur, k, got)
			}
			hashed++
			if hashed > s.livenodes {
				return fmt.Errorf("%w: more than %d terms in the table (cycle?)", ErrCorrupt, s.livenodes)
			}
		}
	}
	if hashed != s.livenodes {
		return fmt.Errorf("%w: %d terms in the table, %d expected", ErrCorrupt, hashed, s.livenodes)
	}

	type key struct {
		f    Symbol
		args string
	}
	parents := make(map[Term]int)
	seen := make(map[key]Term)
	live := 0
	var err error
	for size := range s.terminfo {
		ti := &s.terminfo[size]
		free := 0
		ti.slots(size, func(t Term, w []word) {
			if err != nil {
				return
			}
			if w[_REFCOU] == 0 {
				if !link(w[_LINK]).isfree() {
					err = fmt.Errorf("%w: slot %s has refcount 0 but is not free", ErrCorrupt, t)
				}
				free++
				return
			}
			live++
			f := Symbol(w[_SYMBOL])
			if s.SymbolRefs(f) <= 0 {
				err = fmt.Errorf("%w: term %s uses dead symbol %d", ErrCorrupt, t, f)
				return
			}
			k := key{f: f, args: fmt.Sprint(w[_ARGS:])}
			if other, ok := seen[k]; ok {
				err = fmt.Errorf("%w: terms %s and %s are duplicates", ErrCorrupt, t, other)
				return
			}
			seen[k] = t
			if f == SymInt {
				return
			}
			for _, a := range w[_ARGS:] {
				if s.Refs(Term(a)) == 0 {
					err = fmt.Errorf("%w: term %s has dead argument %s", ErrCorrupt, t, Term(a))
					return
				}
				parents[Term(a)]++
			}
		})
		if err != nil {
			return err
		}
		if free != ti.freenum {
			return fmt.Errorf("%w: %d free slots of size %d, %d in the free list", ErrCorrupt, free, size, ti.freenum)
		}
	}
	if live != s.livenodes {
		return fmt.Errorf("%w: %d live slots, %d expected", ErrCorrupt, live, s.livenodes)
	}
	for t, n := range parents {
		if s.Refs(t) < n {
			return fmt.Errorf("%w: term %s has refcount %d but %d parents", ErrCorrupt, t, s.Refs(t), n)
		}
	}
	return nil
}

// CheckEmpty verifies that no term is live and that all function symbols,
// except the bootstrap ones, have been released. It is typically called at
// the end of a computation, after releasing all the terms, to detect missing
// calls to DelRef or ReleaseSymbol.
func (s *Store) CheckEmpty() error {
	if err := s.Check(); err != nil {
		return err
	}
	if s.livenodes != 0 {
		if _DEBUG {
			s.logTable()
		}
		return fmt.Errorf("%w: %d terms are still live", ErrLeak, s.livenodes)
	}
	for k := _NBOOTSTRAP + 1; k < len(s.symbols.entries); k++ {
		e := &s.symbols.entries[k]
		if e.refcou > 0 {
			return fmt.Errorf("%w: symbol %q/%d has reference count %d", ErrLeak, e.name, e.arity, e.refcou)
		}
	}
	return nil
}
