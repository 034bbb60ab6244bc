// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import (
	"fmt"
	"log/slog"
	"strings"
)

// Stats is a snapshot of the status of a Store.
type Stats struct {
	Live           int         // number of live terms
	Produced       int         // total number of nodes ever built
	Destroyed      int         // total number of nodes reclaimed
	Capacity       int         // number of buckets in the term table
	Resizes        int         // number of times the term table doubled
	ResizeFailures int         // number of resizes that were abandoned
	Access         int         // number of requests for a term
	Hit            int         // requests answered with an existing term
	Miss           int         // requests that built a new term
	Chain          int         // steps through hash chains (only counted with the debug tag)
	Symbols        int         // number of live function symbols
	Blocks         int         // number of blocks, over all size classes
	Words          int         // number of words in all the blocks
	Sizes          []SizeStats // status of each size class in use
}

// SizeStats gives the status of the allocator for one size class.
type SizeStats struct {
	Size   int // size of nodes, in words
	Blocks int // number of blocks
	Slots  int // number of slots carved out of the blocks so far
	Free   int // number of slots in the free list
}

// Stats returns information about the store.
func (s *Store) Stats() Stats {
	s.checkopen()
	res := Stats{
		Live:           s.livenodes,
		Produced:       s.produced,
		Destroyed:      s.destroyed,
		Capacity:       len(s.table),
		Resizes:        s.resizes,
		ResizeFailures: s.resizeFailures,
		Access:         s.uniqueAccess,
		Hit:            s.uniqueHit,
		Miss:           s.uniqueMiss,
		Chain:          s.uniqueChain,
		Symbols:        s.symbols.count,
		Blocks:         s.nblocks,
	}
	for size := range s.terminfo {
		ti := &s.terminfo[size]
		if len(ti.blocks) == 0 {
			continue
		}
		slots := (len(ti.blocks)-1)*(ti.end/size) + ti.top/size
		res.Sizes = append(res.Sizes, SizeStats{
			Size:   size,
			Blocks: len(ti.blocks),
			Slots:  slots,
			Free:   ti.freenum,
		})
		res.Words += len(ti.blocks) * ti.blockwords
	}
	return res
}

// String returns a textual representation of the statistics.
func (st Stats) String() string {
	res := fmt.Sprintf("Live:       %d\n", st.Live)
	res += fmt.Sprintf("Produced:   %d\n", st.Produced)
	res += fmt.Sprintf("Destroyed:  %d\n", st.Destroyed)
	res += fmt.Sprintf("Symbols:    %d\n", st.Symbols)
	res += "==============\n"
	r := 0.0
	if st.Capacity > 0 {
		r = float64(st.Live) / float64(st.Capacity) * 100
	}
	res += fmt.Sprintf("Buckets:    %d  (load %.3g %%)\n", st.Capacity, r)
	res += fmt.Sprintf("Resizes:    %d  (%d failed)\n", st.Resizes, st.ResizeFailures)
	res += fmt.Sprintf("Blocks:     %d\n", st.Blocks)
	res += fmt.Sprintf("Size:       %s\n", humanSize(st.Words, 8))
	for _, z := range st.Sizes {
		res += fmt.Sprintf("  size %-4d %d blocks, %d slots, %d free\n", z.Size, z.Blocks, z.Slots, z.Free)
	}
	res += "==============\n"
	res += fmt.Sprintf("Unique Access:  %d\n", st.Access)
	res += fmt.Sprintf("Unique Chain:   %d\n", st.Chain)
	res += fmt.Sprintf("Unique Hit:     %d\n", st.Hit)
	res += fmt.Sprintf("Unique Miss:    %d", st.Miss)
	return res
}

// humanSize returns a human readable version of the memory used by n objects
// of the given size (in bytes).
func humanSize(n int, size uintptr) string {
	b := float64(n) * float64(size)
	units := []string{"B", "KB", "MB", "GB", "TB"}
	k := 0
	for b >= 1024 && k < len(units)-1 {
		b /= 1024
		k++
	}
	return fmt.Sprintf("%.4g %s", b, units[k])
}

// logTable outputs the live content of the term table, one bucket per line.
// It is only used for debugging small stores.
func (s *Store) logTable() {
	for k, first := range s.table {
		if first == Nil {
			continue
		}
		var b strings.Builder
		for cur := first; cur != Nil; cur = s.chainnext(cur) {
			w := s.node(cur)
			fmt.Fprintf(&b, " %s[%s/%d %v]", cur, s.symbols.entries[w[_SYMBOL]].name, w[_REFCOU], w[_ARGS:])
		}
		s.logger.Debug("bucket", slog.Int("index", k), slog.String("chain", b.String()))
	}
}
