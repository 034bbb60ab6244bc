// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

// Apply returns the term f(args...). The arity of f must be equal to the
// number of arguments and every argument must be a live term of s; otherwise
// Apply panics.
//
// The caller owns one reference to the result and must give it back with
// DelRef. When a new node is created, it keeps one reference to each of its
// arguments, so the caller remains free to release its own handles on args. We
// return Nil and an error wrapping ErrMemory if there is no memory left to
// store a new node.
func (s *Store) Apply(f Symbol, args ...Term) (Term, error) {
	return s.ApplyList(f, args)
}

// ApplyList is the same as Apply but takes its arguments as a slice. The
// slice is not retained.
func (s *Store) ApplyList(f Symbol, args []Term) (Term, error) {
	s.checkopen()
	e := s.symbols.entry(f)
	if f == SymInt {
		fatalf("integer leaves must be built with Int")
	}
	if e.arity != len(args) {
		fatalf("symbol %q has arity %d, used with %d arguments", e.name, e.arity, len(args))
	}
	for _, a := range args {
		if a == Nil {
			fatalf("nil argument in application of %q", e.name)
		}
		s.live(a)
	}
	s.uniqueAccess++
	h := apphash(f, args)
	if t := s.findapp(h, f, args); t != Nil {
		s.uniqueHit++
		s.node(t)[_REFCOU]++
		return t, nil
	}
	s.uniqueMiss++
	size := Termsize(len(args))
	s.growtable()
	t, err := s.allocslot(size)
	if err != nil {
		return Nil, err
	}
	w := s.node(t)
	w[_SYMBOL] = word(f)
	w[_REFCOU] = 1
	for i, a := range args {
		w[_ARGS+i] = word(a)
		s.node(a)[_REFCOU]++
	}
	e.refcou++
	s.hashin(h, t)
	s.produced++
	return t, nil
}

// Int returns the integer leaf with value v. Like with Apply, the caller owns
// one reference to the result.
func (s *Store) Int(v uint64) (Term, error) {
	s.checkopen()
	s.uniqueAccess++
	h := inthash(v)
	if t := s.findint(h, v); t != Nil {
		s.uniqueHit++
		s.node(t)[_REFCOU]++
		return t, nil
	}
	s.uniqueMiss++
	s.growtable()
	t, err := s.allocslot(_INTSIZE)
	if err != nil {
		return Nil, err
	}
	w := s.node(t)
	w[_SYMBOL] = word(SymInt)
	w[_REFCOU] = 1
	w[_ARGS] = v
	s.symbols.entries[SymInt].refcou++
	s.hashin(h, t)
	s.produced++
	return t, nil
}

// *************************************************************************

// AddRef increases the reference count of t and returns t so that calls can
// be easily chained together. It panics if t is not a live term.
func (s *Store) AddRef(t Term) Term {
	s.live(t)[_REFCOU]++
	return t
}

// DelRef decreases the reference count of t. When the count reaches zero, t
// is removed from the store, together with all its subterms that are not
// referenced elsewhere. It panics if t is not a live term, for instance if it
// has already been released as many times as it was acquired.
func (s *Store) DelRef(t Term) {
	w := s.node(t)
	switch w[_REFCOU] {
	case 0:
		fatalf("reference count underflow on term %s", t)
	case 1:
		w[_REFCOU] = 0
		s.destroy(t)
	default:
		w[_REFCOU]--
	}
}

// destroy reclaims t, whose reference count just dropped to zero. We use an
// explicit stack instead of recursion, so the depth of terms is only limited
// by the memory available for the stack.
func (s *Store) destroy(t Term) {
	stack := append(s.garbage[:0], t)
	for len(stack) > 0 {
		t = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s.unhash(t)
		w := s.node(t)
		f := Symbol(w[_SYMBOL])
		if f != SymInt {
			for _, a := range w[_ARGS:] {
				aw := s.node(Term(a))
				switch aw[_REFCOU] {
				case 0:
					fatalf("reference count underflow on term %s, argument of %s", Term(a), t)
				case 1:
					aw[_REFCOU] = 0
					stack = append(stack, Term(a))
				default:
					aw[_REFCOU]--
				}
			}
		}
		s.ReleaseSymbol(f)
		s.freeslot(t)
		s.destroyed++
	}
	s.garbage = stack[:0]
}

// *************************************************************************

// Equal reports whether a and b are the same term. Since terms are maximally
// shared, this is also structural equality.
func (s *Store) Equal(a, b Term) bool {
	return a == b
}

// Function returns the head symbol of t. It returns SymInt for integer
// leaves.
func (s *Store) Function(t Term) Symbol {
	return Symbol(s.live(t)[_SYMBOL])
}

// Arity returns the number of arguments of t; it is 0 for integer leaves.
func (s *Store) Arity(t Term) int {
	w := s.live(t)
	if Symbol(w[_SYMBOL]) == SymInt {
		return 0
	}
	return len(w) - _HEADERWORDS
}

// Arg returns the i'th argument of t, starting from 0. It panics if i is not
// in the range [0..Arity(t)). The store keeps its reference on the result; the
// caller must use AddRef if it needs the argument to outlive t.
func (s *Store) Arg(t Term, i int) Term {
	w := s.live(t)
	if Symbol(w[_SYMBOL]) == SymInt || i < 0 || i >= len(w)-_HEADERWORDS {
		fatalf("argument %d out of range for term %s", i, t)
	}
	return Term(w[_ARGS+i])
}

// Args returns a fresh slice with the arguments of t. See Arg for the
// ownership of the returned terms.
func (s *Store) Args(t Term) []Term {
	w := s.live(t)
	if Symbol(w[_SYMBOL]) == SymInt {
		return nil
	}
	res := make([]Term, len(w)-_HEADERWORDS)
	for i := range res {
		res[i] = Term(w[_ARGS+i])
	}
	return res
}

// IsInt reports whether t is an integer leaf.
func (s *Store) IsInt(t Term) bool {
	return Symbol(s.live(t)[_SYMBOL]) == SymInt
}

// Value returns the value of the integer leaf t. It panics if t is not an
// integer leaf.
func (s *Store) Value(t Term) uint64 {
	w := s.live(t)
	if Symbol(w[_SYMBOL]) != SymInt {
		fatalf("term %s is not an integer", t)
	}
	return w[_ARGS]
}

// Refs returns the reference count of t, that is the number of handles held
// by clients plus the number of live terms having t as argument. It returns 0
// for a slot that is not in use.
func (s *Store) Refs(t Term) int {
	return int(s.node(t)[_REFCOU])
}
