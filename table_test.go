// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableResize(t *testing.T) {
	s := newTestStore(t, Tablesize(4))
	const n = 1000
	leaves := make([]Term, n)
	for i := range leaves {
		leaves[i] = mustInt(t, s, uint64(i))
		st := s.Stats()
		assert.LessOrEqual(t, 2*st.Live, st.Capacity, "load factor after %d insertions", i+1)
	}
	st := s.Stats()
	assert.Equal(t, 2048, st.Capacity)
	assert.Equal(t, 9, st.Resizes)
	require.NoError(t, s.Check())

	// handles survive resizes
	for i, x := range leaves {
		y := mustInt(t, s, uint64(i))
		assert.Equal(t, x, y)
		s.DelRef(y)
	}
	for _, x := range leaves {
		s.DelRef(x)
	}
	// the table never shrinks
	assert.Equal(t, 2048, s.Stats().Capacity)
	require.NoError(t, s.CheckEmpty())
}

func TestTableResizeLimit(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s, err := New(Tablesize(4), Maxtablesize(8), Logger(logger))
	require.NoError(t, err)

	const n = 50
	f := s.Symbol("f", 1)
	terms := make([]Term, n)
	x := mustInt(t, s, 0)
	for i := range terms {
		terms[i] = mustApply(t, s, f, x)
		s.DelRef(x)
		x = mustInt(t, s, uint64(i+1))
	}
	st := s.Stats()
	assert.Equal(t, 8, st.Capacity)
	assert.Equal(t, 1, st.Resizes)
	assert.Greater(t, st.ResizeFailures, 1)
	assert.Contains(t, buf.String(), "could not resize the term table")
	assert.Contains(t, buf.String(), "level=WARN")
	// the warning is only logged once
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("could not resize")))
	require.NoError(t, s.Check())

	// the store is still correct, only slower
	for i, y := range terms {
		v := mustInt(t, s, uint64(i))
		z := mustApply(t, s, f, v)
		assert.Equal(t, y, z)
		s.DelRef(v)
		s.DelRef(z)
		s.DelRef(y)
	}
	s.DelRef(x)
	s.ReleaseSymbol(f)
	require.NoError(t, s.CheckEmpty())
}

func TestTableConfig(t *testing.T) {
	_, err := New(Tablesize(16), Maxtablesize(8))
	require.ErrorIs(t, err, ErrConfig)

	s := newTestStore(t, Tablesize(100))
	assert.Equal(t, 128, s.Stats().Capacity, "rounded to a power of two")
}

func TestPromotion(t *testing.T) {
	// With a single bucket, all the terms are in the same chain.
	for _, promote := range []bool{true, false} {
		s := newTestStore(t, Tablesize(1), Maxtablesize(1), Promote(promote))
		require.Len(t, s.table, 1)
		a := mustInt(t, s, 1)
		b := mustInt(t, s, 2)
		c := mustInt(t, s, 3)
		// new terms are inserted at the front
		assert.Equal(t, c, s.table[0])

		x := mustInt(t, s, 1)
		assert.Equal(t, a, x)
		if promote {
			assert.Equal(t, a, s.table[0])
		} else {
			assert.Equal(t, c, s.table[0])
		}
		require.NoError(t, s.Check())
		for _, y := range []Term{a, b, c, x} {
			s.DelRef(y)
		}
		require.NoError(t, s.CheckEmpty())
	}
}
