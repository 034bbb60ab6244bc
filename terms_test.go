// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore returns a small store that logs nothing.
func newTestStore(t *testing.T, options ...func(*configs)) *Store {
	t.Helper()
	options = append([]func(*configs){Logger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, options...)
	s, err := New(options...)
	require.NoError(t, err)
	return s
}

func mustApply(t *testing.T, s *Store, f Symbol, args ...Term) Term {
	t.Helper()
	res, err := s.Apply(f, args...)
	require.NoError(t, err)
	return res
}

func mustInt(t *testing.T, s *Store, v uint64) Term {
	t.Helper()
	res, err := s.Int(v)
	require.NoError(t, err)
	return res
}

func TestSharing(t *testing.T) {
	s := newTestStore(t, Tablesize(64))
	f := s.Symbol("f", 2)
	a := s.Symbol("a", 0)
	b := s.Symbol("b", 0)
	ta := mustApply(t, s, a)
	tb := mustApply(t, s, b)

	t1 := mustApply(t, s, f, ta, tb)
	t2 := mustApply(t, s, f, ta, tb)
	assert.Equal(t, t1, t2)
	assert.True(t, s.Equal(t1, t2))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 3, s.Stats().Produced)

	// argument order matters
	t3 := mustApply(t, s, f, tb, ta)
	assert.NotEqual(t, t1, t3)
	assert.Equal(t, 4, s.Len())

	// same name, different arity, is a different symbol
	f1 := s.Symbol("f", 1)
	assert.NotEqual(t, f, f1)
	t4 := mustApply(t, s, f1, ta)
	assert.NotEqual(t, t1, t4)

	st := s.Stats()
	assert.Equal(t, 6, st.Access)
	assert.Equal(t, 1, st.Hit)
	assert.Equal(t, 5, st.Miss)
	require.NoError(t, s.Check())

	for _, x := range []Term{t1, t2, t3, t4, ta, tb} {
		s.DelRef(x)
	}
	for _, g := range []Symbol{f, f1, a, b} {
		s.ReleaseSymbol(g)
	}
	require.NoError(t, s.CheckEmpty())
}

func TestAccessors(t *testing.T) {
	s := newTestStore(t)
	f := s.Symbol("pair", 2)
	one := mustInt(t, s, 1)
	two := mustInt(t, s, 2)
	p := mustApply(t, s, f, one, two)

	assert.Equal(t, f, s.Function(p))
	assert.Equal(t, 2, s.Arity(p))
	assert.Equal(t, one, s.Arg(p, 0))
	assert.Equal(t, two, s.Arg(p, 1))
	assert.Equal(t, []Term{one, two}, s.Args(p))
	assert.False(t, s.IsInt(p))
	assert.Equal(t, "pair", s.Name(s.Function(p)))

	assert.True(t, s.IsInt(one))
	assert.Equal(t, SymInt, s.Function(one))
	assert.Equal(t, 0, s.Arity(one))
	assert.Nil(t, s.Args(one))
	assert.Equal(t, uint64(2), s.Value(two))

	assert.Panics(t, func() { s.Arg(p, 2) })
	assert.Panics(t, func() { s.Arg(p, -1) })
	assert.Panics(t, func() { s.Arg(one, 0) })
	assert.Panics(t, func() { s.Value(p) })
}

func TestIntLeaves(t *testing.T) {
	s := newTestStore(t)
	values := []uint64{0, 1, 42, 1 << 32, 1<<64 - 1}
	leaves := make([]Term, len(values))
	for i, v := range values {
		leaves[i] = mustInt(t, s, v)
	}
	for i, v := range values {
		x := mustInt(t, s, v)
		assert.Equal(t, leaves[i], x)
		assert.Equal(t, v, s.Value(x))
		assert.Equal(t, 2, s.Refs(x))
		s.DelRef(x)
	}
	assert.Equal(t, len(values), s.Len())
	// integer leaves hold a reference on SymInt
	assert.Equal(t, 1+len(values), s.SymbolRefs(SymInt))
	for _, x := range leaves {
		s.DelRef(x)
	}
	assert.Equal(t, 1, s.SymbolRefs(SymInt))
	require.NoError(t, s.CheckEmpty())
}

func TestReferenceCount(t *testing.T) {
	s := newTestStore(t)
	f := s.Symbol("f", 1)
	x := mustInt(t, s, 7)
	fx := mustApply(t, s, f, x)
	s.DelRef(x)
	assert.Equal(t, 1, s.Refs(x), "held by f(7)")

	const k = 10
	for i := 0; i < k; i++ {
		assert.Equal(t, fx, s.AddRef(fx))
	}
	for i := 0; i < k; i++ {
		s.DelRef(fx)
	}
	assert.Equal(t, 1, s.Refs(fx))
	assert.Equal(t, 2, s.Len())
	produced := s.Stats().Produced

	s.DelRef(fx)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 2, s.Stats().Destroyed)

	// building the term again produces new nodes
	x = mustInt(t, s, 7)
	fx = mustApply(t, s, f, x)
	assert.Equal(t, produced+2, s.Stats().Produced)
	s.DelRef(x)
	s.DelRef(fx)
	s.ReleaseSymbol(f)
	require.NoError(t, s.CheckEmpty())
}

func TestCascadingRelease(t *testing.T) {
	s := newTestStore(t)
	f := s.Symbol("f", 2)
	g := s.Symbol("g", 2)
	h := s.Symbol("h", 1)
	a := s.Symbol("a", 0)
	b := s.Symbol("b", 0)
	c := s.Symbol("c", 0)
	ta := mustApply(t, s, a)
	tb := mustApply(t, s, b)
	tc := mustApply(t, s, c)
	gab := mustApply(t, s, g, ta, tb)
	hc := mustApply(t, s, h, tc)
	top := mustApply(t, s, f, gab, hc)
	for _, x := range []Term{ta, tb, tc, gab, hc} {
		s.DelRef(x)
	}
	assert.Equal(t, 6, s.Len())
	require.NoError(t, s.Check())

	s.DelRef(top)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 6, s.Stats().Destroyed)
	assert.Panics(t, func() { s.Function(top) })
	for _, sym := range []Symbol{f, g, h, a, b, c} {
		assert.Equal(t, 1, s.SymbolRefs(sym))
		s.ReleaseSymbol(sym)
	}
	require.NoError(t, s.CheckEmpty())
}

func TestSharedSubterm(t *testing.T) {
	s := newTestStore(t)
	f := s.Symbol("f", 2)
	g := s.Symbol("g", 1)
	x := mustInt(t, s, 3)
	gx := mustApply(t, s, g, x)
	ggx := mustApply(t, s, f, gx, gx)
	s.DelRef(x)
	assert.Equal(t, 3, s.Refs(gx))

	// gx survives its parent as long as we hold it
	s.DelRef(ggx)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Refs(gx))
	assert.Equal(t, x, s.Arg(gx, 0))
	s.DelRef(gx)
	assert.Equal(t, 0, s.Len())
	s.ReleaseSymbol(f)
	s.ReleaseSymbol(g)
	require.NoError(t, s.CheckEmpty())
}

func TestDeepTerm(t *testing.T) {
	const depth = 200000
	s := newTestStore(t)
	succ := s.Symbol("succ", 1)
	n := mustInt(t, s, 0)
	for i := 0; i < depth; i++ {
		m := mustApply(t, s, succ, n)
		s.DelRef(n)
		n = m
	}
	assert.Equal(t, depth+1, s.Len())
	s.DelRef(n)
	assert.Equal(t, 0, s.Len())
	s.ReleaseSymbol(succ)
	require.NoError(t, s.CheckEmpty())
}

func TestScenario(t *testing.T) {
	s := newTestStore(t, Tablesize(8))
	nat := s.Symbol("s", 1)
	zero := s.Symbol("0", 0)
	plus := s.Symbol("plus", 2)

	// the integers from 0 to 20 in Peano notation
	nums := []Term{mustApply(t, s, zero)}
	for i := 1; i <= 20; i++ {
		nums = append(nums, mustApply(t, s, nat, nums[i-1]))
	}
	var sums []Term
	for i := range nums {
		for j := range nums {
			sums = append(sums, mustApply(t, s, plus, nums[i], nums[j]))
		}
	}
	assert.Equal(t, 21+21*21, s.Len())
	assert.Greater(t, s.Stats().Resizes, 0)
	require.NoError(t, s.Check())

	// building again gives the same terms
	k := 0
	for i := range nums {
		for j := range nums {
			x := mustApply(t, s, plus, nums[i], nums[j])
			assert.Equal(t, sums[k], x)
			s.DelRef(x)
			k++
		}
	}
	// release the numbers first, they are still used by the sums
	for _, x := range nums {
		s.DelRef(x)
	}
	assert.Equal(t, 21+21*21, s.Len())
	for _, x := range sums {
		s.DelRef(x)
	}
	assert.Equal(t, 0, s.Len())
	s.ReleaseSymbol(nat)
	s.ReleaseSymbol(zero)
	s.ReleaseSymbol(plus)
	require.NoError(t, s.CheckEmpty())
}

func TestMisuse(t *testing.T) {
	s := newTestStore(t)
	f := s.Symbol("f", 2)
	x := mustInt(t, s, 1)

	assert.Panics(t, func() { s.Apply(f, x) }, "arity mismatch")
	assert.Panics(t, func() { s.Apply(f, x, Nil) }, "nil argument")
	assert.Panics(t, func() { s.Apply(SymInt) }, "integer symbol")
	assert.Panics(t, func() { s.Apply(NoSymbol) }, "no symbol")
	assert.Panics(t, func() { s.Symbol("g", -1) }, "negative arity")
	assert.Panics(t, func() { s.Symbol("g", _MAXARITY+1) }, "arity too large")

	s.DelRef(x)
	assert.Panics(t, func() { s.DelRef(x) }, "underflow")
	assert.Panics(t, func() { s.AddRef(x) }, "dead term")
	assert.Panics(t, func() { s.Apply(f, x, x) }, "dead argument")
	assert.Panics(t, func() { s.Refs(Nil) })
	// no term was built nor destroyed by the failed calls
	assert.Equal(t, 0, s.Len())
	s.ReleaseSymbol(f)
	require.NoError(t, s.CheckEmpty())
}
