package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/crillab/gophersat/bf"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ggp-go/propnet/analysis"
	"github.com/ggp-go/propnet/config"
	"github.com/ggp-go/propnet/metrics"
	"github.com/ggp-go/propnet/statemachine"
)

var (
	benchDuration time.Duration
	benchWorkers  int
	benchMode     string
	metricsAddr   string
)

var benchCmd = &cobra.Command{
	Use:   "bench game",
	Short: "Run random playouts on a game and report their throughput",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cfg
		if benchMode != "" {
			c.Propagation = benchMode
		}
		g, m, err := machine(args[0], c)
		if err != nil {
			return err
		}
		collector := metrics.NewCollector()
		if metricsAddr != "" {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collector)
			srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Errorf("metrics server stopped: %v", err)
				}
			}()
			defer srv.Close()
			logger.Infof("serving metrics on %s/metrics", metricsAddr)
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), benchDuration)
		defer cancel()
		var charges, moves int64
		eg, ctx := errgroup.WithContext(ctx)
		for w := 0; w < benchWorkers; w++ {
			w := w
			wm := m.Clone()
			eg.Go(func() error {
				rng := rand.New(rand.NewSource(int64(w)))
				start := wm.InitialState()
				var last statemachine.Stats
				for ctx.Err() == nil {
					_, depth, err := wm.PerformDepthCharge(ctx, start, rng)
					if err != nil {
						if ctx.Err() != nil {
							break
						}
						return err
					}
					atomic.AddInt64(&charges, 1)
					atomic.AddInt64(&moves, int64(depth))
					collector.Add(g.Name, wm.Stats.Sub(last))
					last = wm.Stats
				}
				collector.Add(g.Name, wm.Stats.Sub(last))
				return nil
			})
		}
		start := time.Now()
		if err := eg.Wait(); err != nil {
			return err
		}
		elapsed := time.Since(start).Seconds()
		tot := collector.Totals(g.Name)
		fmt.Printf("c game: %s, propagation: %s, workers: %d\n", g.Name, m.Mode(), benchWorkers)
		fmt.Printf("c nb depth charges: %d (%.0f/s)\n", charges, float64(charges)/elapsed)
		fmt.Printf("c nb moves: %d (%.0f/s)\n", moves, float64(moves)/elapsed)
		fmt.Printf("c nb full updates: %d\nc nb differential updates: %d\n", tot.NbFullUpdates, tot.NbDifferentialUpdates)
		fmt.Printf("c nb props recomputed: %d\n", tot.NbPropsRecomputed)
		fmt.Printf("c nb cache hits: %d\nc nb cache misses: %d\n", tot.NbCacheHits, tot.NbCacheMisses)
		return nil
	},
}

var (
	verifyPlayouts int
	verifySeed     int64
)

var verifyCmd = &cobra.Command{
	Use:   "verify game",
	Short: "Check that full and differential propagation agree on random playouts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, dc := cfg, cfg
		fc.Propagation = config.Full
		dc.Propagation = config.Differential
		_, full, err := machine(args[0], fc)
		if err != nil {
			return err
		}
		_, diff, err := machine(args[0], dc)
		if err != nil {
			return err
		}
		nbStates, err := agree(full, diff, verifyPlayouts, rand.New(rand.NewSource(verifySeed)))
		if err != nil {
			return err
		}
		fmt.Printf("c %d playouts, %d states: full and differential propagation agree\n", verifyPlayouts, nbStates)
		return nil
	},
}

// agree plays random games on full and diff and returns an error on the first query
// they answer differently. It returns the number of states played.
func agree(full, diff *statemachine.Machine, playouts int, rng *rand.Rand) (int, error) {
	nbStates := 0
	for i := 0; i < playouts; i++ {
		s := full.InitialState()
		if ds := diff.InitialState(); ds != s {
			return nbStates, errors.Errorf("initial states differ: %v and %v", s, ds)
		}
		for {
			term := full.IsTerminal(s)
			if term != diff.IsTerminal(s) {
				return nbStates, errors.Errorf("playout %d: terminal differs on %v", i, s)
			}
			fg, ferr := full.Goals(s)
			dg, derr := diff.Goals(s)
			if fmt.Sprint(fg, ferr) != fmt.Sprint(dg, derr) {
				return nbStates, errors.Errorf("playout %d: goals differ on %v: %v and %v", i, s, fg, dg)
			}
			if term {
				break
			}
			for _, r := range full.Roles() {
				fl, err := full.LegalMoves(s, r)
				if err != nil {
					return nbStates, err
				}
				dl, err := diff.LegalMoves(s, r)
				if err != nil {
					return nbStates, err
				}
				if fmt.Sprint(fl) != fmt.Sprint(dl) {
					return nbStates, errors.Errorf("playout %d: legal moves of %s differ on %v: %v and %v", i, r, s, fl, dl)
				}
			}
			joint, err := full.RandomJointMove(s, rng)
			if err != nil {
				return nbStates, err
			}
			fs, err := full.NextState(s, joint)
			if err != nil {
				return nbStates, err
			}
			ds, err := diff.NextState(s, joint)
			if err != nil {
				return nbStates, err
			}
			if fs != ds {
				return nbStates, errors.Errorf("playout %d: next states differ from %v: %v and %v", i, s, fs, ds)
			}
			s = fs
			nbStates++
		}
	}
	return nbStates, nil
}

var dimacsValue bool

var dimacsCmd = &cobra.Command{
	Use:   "dimacs game slot",
	Short: "Write the DIMACS formula refuting that a base proposition is a latch",
	Long: `dimacs writes, in DIMACS CNF format, the formula that is unsatisfiable iff the base
proposition in the given slot is a latch. It can be fed to any SAT solver.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, m, err := machine(args[0], cfg)
		if err != nil {
			return err
		}
		slot, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrapf(err, "invalid slot %q", args[1])
		}
		f, err := analysis.LatchRefutation(m.Net(), slot, dimacsValue)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "c latch claim for %v = %t\n", m.Net().Term(slot), dimacsValue)
		return bf.Dimacs(f, cmd.OutOrStdout())
	},
}

func init() {
	benchCmd.Flags().DurationVar(&benchDuration, "duration", 5*time.Second, "how long to run playouts")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 1, "number of concurrent workers")
	benchCmd.Flags().StringVar(&benchMode, "mode", "", "propagation policy (auto, full, differential), overrides the configuration")
	benchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on, e.g :9090")
	verifyCmd.Flags().IntVar(&verifyPlayouts, "playouts", 100, "number of random playouts")
	verifyCmd.Flags().Int64Var(&verifySeed, "seed", 1, "random seed")
	dimacsCmd.Flags().BoolVar(&dimacsValue, "value", true, "latch value to refute")
}
