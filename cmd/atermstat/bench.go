// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dalzilio/aterm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// benchOptions are the parameters of the random workload.
type benchOptions struct {
	terms       int     // number of terms built
	depth       int     // maximal depth of terms
	symbols     int     // number of function symbols (besides integers)
	seed        int64   // seed of the random generator
	release     float64 // fraction of terms released before rebuilding
	metricsAddr string  // address of the metrics endpoint, if any
}

var bench benchOptions

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&bench.terms, "terms", 10000, "Number of random terms to build")
	cmd.Flags().IntVar(&bench.depth, "depth", 8, "Maximal depth of the terms")
	cmd.Flags().IntVar(&bench.symbols, "symbols", 16, "Number of function symbols")
	cmd.Flags().Int64Var(&bench.seed, "seed", 1, "Seed of the random generator")
	cmd.Flags().Float64Var(&bench.release, "release", 0.5, "Fraction of terms released before rebuilding")
	cmd.Flags().StringVar(&bench.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address after the run (e.g. :9090)")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Run a random workload on a term store",
		Long: `The bench command builds random terms, releases a fraction of them and
builds them again, checking that equal terms get the same handle. It then
verifies the consistency of the store and prints its statistics.

Example:
  atermstat bench --terms 100000 --depth 10
  atermstat bench --config aterm.yaml --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := aterm.LoadConfig(configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBench(ctx, config, bench, newLogger(), cmd.OutOrStdout())
		},
	}
}

func runBench(ctx context.Context, config aterm.Config, opts benchOptions, logger *slog.Logger, out io.Writer) error {
	if opts.terms < 0 || opts.depth < 0 || opts.symbols < 1 {
		return fmt.Errorf("bench: terms and depth must be non negative and symbols positive")
	}
	if opts.release < 0 || opts.release > 1 {
		return fmt.Errorf("bench: release must be in [0, 1], got %g", opts.release)
	}
	s, err := aterm.New(append(config.Options(), aterm.Logger(logger))...)
	if err != nil {
		return err
	}
	defer s.Close()
	syms := make([]aterm.Symbol, opts.symbols)
	for i := range syms {
		syms[i] = s.Symbol(fmt.Sprintf("f%d", i), i%4)
	}

	start := time.Now()
	w := &workload{s: s, syms: syms, depth: opts.depth}
	terms := make([]aterm.Term, opts.terms)
	w.rng = rand.New(rand.NewSource(opts.seed))
	for i := range terms {
		if terms[i], err = w.term(0); err != nil {
			return fmt.Errorf("bench: building term %d: %w", i, err)
		}
	}
	built := s.Len()
	logger.Info("terms built", slog.Int("terms", opts.terms), slog.Int("nodes", built), slog.Duration("elapsed", time.Since(start)))

	rng := rand.New(rand.NewSource(opts.seed + 1))
	for i, t := range terms {
		if rng.Float64() < opts.release {
			s.DelRef(t)
			terms[i] = aterm.Nil
		}
	}
	logger.Info("terms released", slog.Int("nodes", s.Len()))

	// The same seed gives the same terms, hence the same handles for the
	// terms that are still live.
	w.rng = rand.New(rand.NewSource(opts.seed))
	for i := range terms {
		t, err := w.term(0)
		if err != nil {
			return fmt.Errorf("bench: rebuilding term %d: %w", i, err)
		}
		if terms[i] == aterm.Nil {
			terms[i] = t
			continue
		}
		s.DelRef(t)
		if t != terms[i] {
			return fmt.Errorf("bench: term %d rebuilt as %s instead of %s", i, t, terms[i])
		}
	}
	if s.Len() != built {
		return fmt.Errorf("bench: %d nodes after rebuilding, %d expected", s.Len(), built)
	}
	if err := s.Check(); err != nil {
		return err
	}
	fmt.Fprintln(out, s.Stats())

	for _, t := range terms {
		s.DelRef(t)
	}
	for _, f := range syms {
		s.ReleaseSymbol(f)
	}
	if err := s.CheckEmpty(); err != nil {
		return err
	}
	logger.Info("workload done", slog.Duration("elapsed", time.Since(start)))

	if opts.metricsAddr == "" {
		return nil
	}
	return serveMetrics(ctx, s, opts.metricsAddr, logger)
}

// serveMetrics exports the statistics of s until ctx is done. The store is not
// modified while the server runs.
func serveMetrics(ctx context.Context, s *aterm.Store, addr string, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(aterm.NewCollector(s, "aterm")); err != nil {
		return fmt.Errorf("register collector: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", slog.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// workload builds random terms. Symbol syms[i] has arity i%4.
type workload struct {
	s     *aterm.Store
	rng   *rand.Rand
	syms  []aterm.Symbol
	depth int
}

// term returns a random term owned by the caller.
func (w *workload) term(depth int) (aterm.Term, error) {
	if depth >= w.depth || w.rng.Intn(4) == 0 {
		return w.s.Int(uint64(w.rng.Intn(64)))
	}
	f := w.syms[w.rng.Intn(len(w.syms))]
	args := make([]aterm.Term, w.s.SymbolArity(f))
	for i := range args {
		a, err := w.term(depth + 1)
		if err != nil {
			release(w.s, args[:i])
			return aterm.Nil, err
		}
		args[i] = a
	}
	t, err := w.s.ApplyList(f, args)
	release(w.s, args)
	return t, err
}

func release(s *aterm.Store, terms []aterm.Term) {
	for _, t := range terms {
		s.DelRef(t)
	}
}
