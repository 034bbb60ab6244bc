// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import (
	"log/slog"
)

// The term table is a single hash table, shared by all size classes, with
// chaining through the link field of nodes. Its size is always a power of two.

// findapp looks for a live application of f to args in the bucket of hash h.
// On success, the node is moved to the front of its chain.
func (s *Store) findapp(h uint64, f Symbol, args []Term) Term {
	bucket := &s.table[h&s.mask]
	prev := Nil
	for cur := *bucket; cur != Nil; cur = s.chainnext(cur) {
		w := s.node(cur)
		if Symbol(w[_SYMBOL]) == f && sameargs(w[_ARGS:], args) {
			s.tofront(bucket, prev, cur)
			return cur
		}
		prev = cur
		if _DEBUG {
			s.uniqueChain++
		}
	}
	return Nil
}

func sameargs(w []word, args []Term) bool {
	if len(w) != len(args) {
		return false
	}
	for i, a := range args {
		if w[i] != word(a) {
			return false
		}
	}
	return true
}

// findint looks for the integer leaf with value v in the bucket of hash h.
func (s *Store) findint(h uint64, v uint64) Term {
	bucket := &s.table[h&s.mask]
	prev := Nil
	for cur := *bucket; cur != Nil; cur = s.chainnext(cur) {
		w := s.node(cur)
		if Symbol(w[_SYMBOL]) == SymInt && w[_ARGS] == v {
			s.tofront(bucket, prev, cur)
			return cur
		}
		prev = cur
		if _DEBUG {
			s.uniqueChain++
		}
	}
	return Nil
}

// tofront moves cur, whose predecessor in the chain is prev, to the front of
// bucket.
func (s *Store) tofront(bucket *Term, prev, cur Term) {
	if !s.promote || prev == Nil {
		return
	}
	s.setchain(prev, s.chainnext(cur))
	s.setchain(cur, *bucket)
	*bucket = cur
}

// hashin inserts the new node t, with hash value h, at the front of its
// bucket. The table must have been resized before, if needed.
func (s *Store) hashin(h uint64, t Term) {
	bucket := &s.table[h&s.mask]
	s.setchain(t, *bucket)
	*bucket = t
	s.livenodes++
}

// unhash removes t from the term table. The node must be in the table.
func (s *Store) unhash(t Term) {
	bucket := &s.table[ptrhash(s.node(t))&s.mask]
	prev := Nil
	cur := *bucket
	for cur != Nil && cur != t {
		prev = cur
		cur = s.chainnext(cur)
	}
	if cur == Nil {
		fatalf("term %s not found in the term table", t)
	}
	if prev == Nil {
		*bucket = s.chainnext(t)
	} else {
		s.setchain(prev, s.chainnext(t))
	}
	s.livenodes--
}

// growtable doubles the size of the term table when the number of live terms
// reaches half its capacity. This must be done before computing the bucket of
// a new node.
func (s *Store) growtable() {
	if s.livenodes < len(s.table)>>1 {
		return
	}
	s.noderesize()
}

// noderesize doubles the number of buckets and rehashes all the live nodes.
// Nodes do not move, only the hash chains are rebuilt. If we cannot get a
// larger table, we keep the old one; the store still works correctly, it is
// only slower because chains get longer.
func (s *Store) noderesize() {
	oldsize := len(s.table)
	size := oldsize << 1
	if s.maxtablesize > 0 && size > s.maxtablesize {
		s.abandonresize(size, nil)
		return
	}
	table, err := makeTerms(size)
	if err != nil {
		s.abandonresize(size, err)
		return
	}
	mask := uint64(size - 1)
	for _, first := range s.table {
		for cur := first; cur != Nil; {
			w := s.node(cur)
			if _DEBUG && w[_REFCOU] == 0 {
				fatalf("dead term %s in the term table", cur)
			}
			next := s.chainnext(cur)
			k := ptrhash(w) & mask
			w[_LINK] = word(chained(table[k]))
			table[k] = cur
			cur = next
		}
	}
	s.table = table
	s.mask = mask
	s.resizes++
	if _LOGLEVEL > 0 {
		s.logger.Debug("resized term table",
			slog.Int("from", oldsize),
			slog.Int("to", size),
			slog.Int("terms", s.livenodes))
	}
}

// abandonresize records a failed resize. Since we try again on each new node,
// only the first failure is logged.
func (s *Store) abandonresize(size int, err error) {
	s.resizeFailures++
	if s.resizeFailures > 1 {
		return
	}
	attrs := []any{slog.Int("size", size), slog.Int("terms", s.livenodes)}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	s.logger.Warn("could not resize the term table", attrs...)
}
