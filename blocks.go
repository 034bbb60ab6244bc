// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import (
	"fmt"
	"log/slog"
)

// termInfo stores the allocation state of one size class. Blocks are appended
// to blocks and never released; the last block is the current one. Slots of
// the current block below top have been handed out at least once.
type termInfo struct {
	blockwords int      // length of the blocks of this size class
	end        int      // end of the usable part of a block (a multiple of the size)
	blocks     [][]word // all the blocks of this size class, the current one last
	top        int      // bump pointer in the current block
	freelist   Term     // first free slot, or Nil
	freenum    int      // number of slots in the free list
}

// sizeclass returns the allocation state for nodes of the given size. The
// registry of size classes grows when we meet a new size, without changing
// the state of existing classes.
func (s *Store) sizeclass(size int) *termInfo {
	if size >= len(s.terminfo) {
		n := len(s.terminfo)
		for n <= size {
			n <<= 1
		}
		tmp := make([]termInfo, n)
		copy(tmp, s.terminfo)
		s.terminfo = tmp
	}
	ti := &s.terminfo[size]
	if ti.blockwords == 0 {
		// A block always holds at least one node, even for very large arities.
		ti.blockwords = s.blockwords
		if ti.blockwords < size {
			ti.blockwords = size
		}
		ti.end = ti.blockwords - (ti.blockwords % size)
	}
	return ti
}

// newblock adds a fresh block to the size class and makes it current.
func (s *Store) newblock(size int, ti *termInfo) error {
	if s.maxblocks > 0 && s.nblocks >= s.maxblocks {
		return fmt.Errorf("%w: limit of %d blocks reached", ErrMemory, s.maxblocks)
	}
	if (len(ti.blocks)+1)*ti.blockwords >= 1<<_SIZESHIFT {
		return fmt.Errorf("%w: address space of size %d exhausted", ErrMemory, size)
	}
	b, err := makeWords(ti.blockwords)
	if err != nil {
		return fmt.Errorf("could not allocate a block of memory to store terms: %w", err)
	}
	ti.blocks = append(ti.blocks, b)
	ti.top = 0
	s.nblocks++
	if _LOGLEVEL > 0 {
		s.logger.Debug("new block",
			slog.Int("size", size),
			slog.Int("blocks", len(ti.blocks)),
			slog.Int("slots", ti.end/size))
	}
	return nil
}

// allocslot returns a slot for a node of the given size. We first try to bump
// allocate in the current block, then to reuse a slot from the free list and,
// as a last resort, we allocate a new block. The content of the slot is
// undefined, except for its reference count which is 0.
func (s *Store) allocslot(size int) (Term, error) {
	ti := s.sizeclass(size)
	if len(ti.blocks) > 0 && ti.top+size <= ti.end {
		t := mkterm(size, (len(ti.blocks)-1)*ti.blockwords+ti.top)
		ti.top += size
		return t, nil
	}
	if ti.freelist != Nil {
		t := ti.freelist
		ti.freelist = s.freenext(t)
		ti.freenum--
		if _DEBUG && s.node(t)[_REFCOU] != 0 {
			fatalf("slot %s in free list has refcount %d", t, s.node(t)[_REFCOU])
		}
		return t, nil
	}
	if err := s.newblock(size, ti); err != nil {
		return Nil, err
	}
	t := mkterm(size, (len(ti.blocks)-1)*ti.blockwords)
	ti.top = size
	return t, nil
}

// freeslot pushes the slot of t on the free list of its size class. The
// reference count of t must already be 0. We do not clear the slot; it is
// overwritten when reused.
func (s *Store) freeslot(t Term) {
	w := s.node(t)
	if w[_REFCOU] != 0 {
		fatalf("releasing slot %s with refcount %d", t, w[_REFCOU])
	}
	if link(w[_LINK]).isfree() {
		fatalf("double free of slot %s", t)
	}
	ti := &s.terminfo[t.size()]
	if _DEBUG {
		for f := ti.freelist; f != Nil; f = s.freenext(f) {
			if f == t {
				fatalf("slot %s already in free list", t)
			}
		}
	}
	w[_LINK] = word(freed(ti.freelist))
	ti.freelist = t
	ti.freenum++
}

// slots calls f on every slot of the size class that has been handed out at
// least once, live or free.
func (ti *termInfo) slots(size int, f func(t Term, w []word)) {
	for k, b := range ti.blocks {
		end := ti.end
		if k == len(ti.blocks)-1 {
			end = ti.top
		}
		for i := 0; i+size <= end; i += size {
			f(mkterm(size, k*ti.blockwords+i), b[i:i+size:i+size])
		}
	}
}

// Termsize returns the number of words occupied by an application of a
// function symbol of the given arity. Terms with the same size share the same
// blocks and free list.
func Termsize(arity int) int {
	return _HEADERWORDS + arity
}

// Blocks returns the number of blocks allocated for terms of the given size
// (see Termsize).
func (s *Store) Blocks(size int) int {
	if size < 0 || size >= len(s.terminfo) {
		return 0
	}
	return len(s.terminfo[size].blocks)
}
