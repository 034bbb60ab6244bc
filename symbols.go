// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import (
	"log/slog"
)

// Symbol is a handle to an interned function symbol, that is a pair (name,
// arity). Two symbols with the same name and arity are always the same value.
type Symbol uint32

// NoSymbol is the zero value of Symbol. It is never the handle of a live
// function symbol.
const NoSymbol Symbol = 0

// Bootstrap symbols are created together with the store and are never
// released. The symbol of integer leaves is SymInt; the other ones are
// reserved for the layers built on top of the store.
const (
	SymInt       Symbol = iota + 1 // Symbol of integer leaves
	SymUndefined                   // Constant used to denote undefined terms
	SymEmptyList                   // Constant for the empty list
	SymList                        // Binary list constructor
	_NBOOTSTRAP  int    = iota     // Number of bootstrap symbols
)

var bootstrap = [_NBOOTSTRAP]struct {
	name  string
	arity int
}{
	{"<int>", 0},
	{"<undefined>", 0},
	{"<empty_list>", 0},
	{"<list_constructor>", 2},
}

// symbolEntry is a record in the symbol table. The field next is the
// successor in the hash chain of the entry while the symbol is live, and the
// next free entry otherwise.
type symbolEntry struct {
	name   string
	arity  int
	refcou int
	hash   uint64
	next   Symbol
}

// symtable interns function symbols. It uses the same chaining scheme than
// the term table, with a separate (and smaller) table of buckets.
type symtable struct {
	entries []symbolEntry // all the entries; index 0 is never used
	buckets []Symbol      // first entry of each hash chain
	mask    uint64
	count   int    // number of live symbols
	freepos Symbol // first free entry, or NoSymbol
}

func (st *symtable) init(size int) {
	st.buckets = make([]Symbol, size)
	st.mask = uint64(size - 1)
	st.entries = make([]symbolEntry, 1, size/2+1)
}

// Symbol returns the function symbol with the given name and arity, creating
// it if needed. The caller owns one reference to the result that it must
// eventually give back with ReleaseSymbol. It panics if arity is negative or
// larger than the maximal arity.
func (s *Store) Symbol(name string, arity int) Symbol {
	s.checkopen()
	if arity < 0 || arity > _MAXARITY {
		fatalf("bad arity %d for symbol %q", arity, name)
	}
	st := &s.symbols
	h := symhash(name, arity)
	bucket := &st.buckets[h&st.mask]
	prev := NoSymbol
	for cur := *bucket; cur != NoSymbol; cur = st.entries[cur].next {
		e := &st.entries[cur]
		if e.hash == h && e.arity == arity && e.name == name {
			if prev != NoSymbol {
				// Promote the entry to the front of its chain
				st.entries[prev].next = e.next
				e.next = *bucket
				*bucket = cur
			}
			e.refcou++
			return cur
		}
		prev = cur
	}
	if st.count >= len(st.buckets)>>1 {
		st.resize(s.logger)
		bucket = &st.buckets[h&st.mask]
	}
	var res Symbol
	if st.freepos != NoSymbol {
		res = st.freepos
		st.freepos = st.entries[res].next
	} else {
		res = Symbol(len(st.entries))
		st.entries = append(st.entries, symbolEntry{})
	}
	st.entries[res] = symbolEntry{
		name:   name,
		arity:  arity,
		refcou: 1,
		hash:   h,
		next:   *bucket,
	}
	*bucket = res
	st.count++
	return res
}

// resize doubles the number of buckets in the symbol table.
func (st *symtable) resize(logger *slog.Logger) {
	size := len(st.buckets) << 1
	buckets := make([]Symbol, size)
	st.mask = uint64(size - 1)
	for _, first := range st.buckets {
		for cur := first; cur != NoSymbol; {
			e := &st.entries[cur]
			next := e.next
			k := e.hash & st.mask
			e.next = buckets[k]
			buckets[k] = cur
			cur = next
		}
	}
	st.buckets = buckets
	if _LOGLEVEL > 0 {
		logger.Debug("resized symbol table", slog.Int("buckets", size), slog.Int("symbols", st.count))
	}
}

// entry returns the record of a live symbol and panics otherwise.
func (st *symtable) entry(f Symbol) *symbolEntry {
	if f == NoSymbol || int(f) >= len(st.entries) || st.entries[f].refcou <= 0 {
		fatalf("invalid function symbol %d", f)
	}
	return &st.entries[f]
}

// AddSymbolRef increases the reference count of f and returns f.
func (s *Store) AddSymbolRef(f Symbol) Symbol {
	s.symbols.entry(f).refcou++
	return f
}

// ReleaseSymbol gives back one reference to f. The symbol is destroyed when
// no terms and no clients refer to it anymore; a later call to Symbol with
// the same name and arity may then return a different handle.
func (s *Store) ReleaseSymbol(f Symbol) {
	st := &s.symbols
	e := st.entry(f)
	e.refcou--
	if e.refcou > 0 {
		return
	}
	bucket := &st.buckets[e.hash&st.mask]
	prev := NoSymbol
	cur := *bucket
	for cur != NoSymbol && cur != f {
		prev = cur
		cur = st.entries[cur].next
	}
	if cur == NoSymbol {
		fatalf("symbol %q/%d not found in its bucket", e.name, e.arity)
	}
	if prev == NoSymbol {
		*bucket = e.next
	} else {
		st.entries[prev].next = e.next
	}
	*e = symbolEntry{next: st.freepos}
	st.freepos = f
	st.count--
}

// Name returns the name of the function symbol f.
func (s *Store) Name(f Symbol) string {
	return s.symbols.entry(f).name
}

// SymbolArity returns the arity of the function symbol f.
func (s *Store) SymbolArity(f Symbol) int {
	return s.symbols.entry(f).arity
}

// SymbolRefs returns the reference count of f: the number of live terms with
// head symbol f plus the number of references held by clients. It returns 0
// for symbols that have been destroyed.
func (s *Store) SymbolRefs(f Symbol) int {
	if f == NoSymbol || int(f) >= len(s.symbols.entries) {
		return 0
	}
	return s.symbols.entries[f].refcou
}

// IsBootstrap reports whether f is one of the symbols created with the store.
func IsBootstrap(f Symbol) bool {
	return f != NoSymbol && int(f) <= _NBOOTSTRAP
}

// initsymbols creates the bootstrap symbols. Each one gets an extra reference
// that is never released, so they survive even when no term uses them.
func (s *Store) initsymbols() {
	s.symbols.init(s.symtablesize)
	for k, b := range bootstrap {
		f := s.Symbol(b.name, b.arity)
		if f != Symbol(k+1) {
			fatalf("bootstrap symbol %q has handle %d", b.name, f)
		}
	}
}
