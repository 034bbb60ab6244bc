// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import "fmt"

// Term is a handle to a node in a Store. A Term encodes the size class of the
// node (in its upper bits) and the offset of the node in the blocks of this
// size class. Since the store never moves nodes and never builds two nodes with
// the same symbol and arguments, two terms are structurally equal if and only
// if they are equal as values.
//
// A Term is only meaningful for the Store that built it.
type Term uint64

// Nil is the zero value of Term. It is never the handle of a live node.
const Nil Term = 0

func mkterm(size int, offset int) Term {
	return Term(uint64(size)<<_SIZESHIFT | uint64(offset))
}

// size returns the number of words of the node referenced by t.
func (t Term) size() int {
	return int(t >> _SIZESHIFT)
}

// offset returns the position of the first word of t in the (virtual)
// concatenation of the blocks of its size class.
func (t Term) offset() int {
	return int(t & (1<<_SIZESHIFT - 1))
}

// String returns a short description of the handle: its size class and its
// offset. It does not depend on the content of the node.
func (t Term) String() string {
	if t == Nil {
		return "nil"
	}
	return fmt.Sprintf("#%d.%d", t.size(), t.offset())
}

// ************************************************************

// link is the content of the link field of a node. It has two distinct roles:
// while a node is live, it is the next node in the hash chain of its bucket;
// when the slot is free, it is the next slot in the free list of its size
// class. The highest bit (never used by a Term) tells which role is active.
type link uint64

const freetag link = 1 << 63

// chained returns a link used in a hash chain.
func chained(next Term) link {
	return link(next)
}

// freed returns a link used in a free list.
func freed(next Term) link {
	return freetag | link(next)
}

func (l link) isfree() bool {
	return l&freetag != 0
}

func (l link) next() Term {
	return Term(l &^ freetag)
}

// ************************************************************

// node returns the words of the node referenced by t. The result aliases the
// block containing t.
func (s *Store) node(t Term) []word {
	size := t.size()
	if t == Nil || size >= len(s.terminfo) {
		fatalf("invalid term %s", t)
	}
	ti := &s.terminfo[size]
	off := t.offset()
	k := off / ti.blockwords
	if k >= len(ti.blocks) {
		fatalf("invalid term %s", t)
	}
	i := off % ti.blockwords
	return ti.blocks[k][i : i+size : i+size]
}

// live returns the words of t and panics if t is not a live node.
func (s *Store) live(t Term) []word {
	w := s.node(t)
	if w[_REFCOU] == 0 {
		fatalf("access to dead term %s", t)
	}
	return w
}

// chainnext returns the successor of t in its hash chain.
func (s *Store) chainnext(t Term) Term {
	l := link(s.node(t)[_LINK])
	if _DEBUG && l.isfree() {
		fatalf("term %s is in a free list, not in a hash chain", t)
	}
	return l.next()
}

func (s *Store) setchain(t, next Term) {
	s.node(t)[_LINK] = word(chained(next))
}

// freenext returns the successor of t in the free list of its size class.
func (s *Store) freenext(t Term) Term {
	l := link(s.node(t)[_LINK])
	if !l.isfree() {
		fatalf("slot %s is in a hash chain, not in a free list", t)
	}
	return l.next()
}
