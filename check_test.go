// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CheckEmpty())

	x := mustInt(t, s, 1)
	require.NoError(t, s.Check())
	require.ErrorIs(t, s.CheckEmpty(), ErrLeak)
	s.DelRef(x)
	require.NoError(t, s.CheckEmpty())

	f := s.Symbol("f", 0)
	err := s.CheckEmpty()
	require.ErrorIs(t, err, ErrLeak)
	assert.Contains(t, err.Error(), `"f"/0`)
	s.ReleaseSymbol(f)
	require.NoError(t, s.CheckEmpty())
}

func TestCheckCorruption(t *testing.T) {
	s := newTestStore(t, Tablesize(16))
	f := s.Symbol("f", 2)
	a := mustInt(t, s, 1)
	b := mustInt(t, s, 2)
	fab := mustApply(t, s, f, a, b)
	require.NoError(t, s.Check())

	tests := []struct {
		name    string
		corrupt func() func()
	}{
		{"dead term in table", func() func() {
			w := s.node(fab)
			w[_REFCOU] = 0
			return func() { w[_REFCOU] = 1 }
		}},
		{"refcount below parents", func() func() {
			w := s.node(a)
			w[_REFCOU] = 0
			return func() { w[_REFCOU] = 2 }
		}},
		{"wrong bucket", func() func() {
			k := ptrhash(s.node(fab)) & s.mask
			j := k ^ 1
			s.table[k], s.table[j] = s.table[j], s.table[k]
			return func() { s.table[k], s.table[j] = s.table[j], s.table[k] }
		}},
		{"bad live count", func() func() {
			s.livenodes++
			return func() { s.livenodes-- }
		}},
		{"lost free slot", func() func() {
			s.terminfo[_INTSIZE].freenum++
			return func() { s.terminfo[_INTSIZE].freenum-- }
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore := tt.corrupt()
			assert.ErrorIs(t, s.Check(), ErrCorrupt)
			restore()
			require.NoError(t, s.Check())
		})
	}
}
