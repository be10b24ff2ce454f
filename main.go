package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ggp-go/propnet/config"
	"github.com/ggp-go/propnet/games"
	"github.com/ggp-go/propnet/statemachine"
)

var (
	cfgPath string
	verbose bool
	cfg     config.Config
	logger  = logrus.New()
)

func main() {
	debug.SetGCPercent(300)
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "sets verbose mode on")
	rootCmd.AddCommand(gamesCmd, statsCmd, benchCmd, verifyCmd, dimacsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "propnet",
	Short: "Propositional network game engine",
	Long: `propnet builds propositional networks for a few games and answers game queries
(initial state, legal moves, next state, goals) on them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
		var err error
		cfg, err = config.LoadFile(cfgPath)
		return err
	},
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List available games",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range games.Names() {
			fmt.Println(name)
		}
	},
}

// machine builds the machine for the game with the given name.
func machine(name string, c config.Config) (*games.Game, *statemachine.Machine, error) {
	g, err := games.ByName(name)
	if err != nil {
		return nil, nil, err
	}
	logger.Debugf("building %s", g.Name)
	m, err := statemachine.Build(g.Graph, g.Roles, statemachine.WithConfig(c), statemachine.WithLogger(logger))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "could not build %s", g.Name)
	}
	return g, m, nil
}

var statsCmd = &cobra.Command{
	Use:   "stats game",
	Short: "Print statistics about the network of a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, m, err := machine(args[0], cfg)
		if err != nil {
			return err
		}
		gs := g.Graph.Stats()
		ns := m.Net().Stats()
		res := m.Analysis()
		fmt.Printf("c ======================================================================================\n")
		fmt.Printf("c | Game                : %20s                                         |\n", g.Name)
		fmt.Printf("c | Number of components: %9d                                                    |\n", gs.NbComponents)
		fmt.Printf("c | Number of links     : %9d                                                    |\n", gs.NbLinks)
		fmt.Printf("c | Gates (and/or/not)  : %9d %9d %9d                                |\n", gs.NbAnds, gs.NbOrs, gs.NbNots)
		fmt.Printf("c | Propositions        : %9d                                                    |\n", ns.NbProps)
		fmt.Printf("c | Bases/inputs/views  : %9d %9d %9d                                |\n", ns.NbBases, ns.NbInputs, ns.NbViews)
		fmt.Printf("c | Legals/goals        : %9d %9d                                          |\n", ns.NbLegals, ns.NbGoals)
		fmt.Printf("c | Dependencies        : %9d                                                    |\n", ns.NbDeps)
		fmt.Printf("c ======================================================================================\n")
		fmt.Printf("c propagation: %s\n", m.Mode())
		switch {
		case res.Skipped:
			fmt.Printf("c analysis: skipped\n")
		case res.Partial:
			fmt.Printf("c analysis (%s): %d bases out of %d tested\n", res.Method, res.Tested, ns.NbBases)
		default:
			fmt.Printf("c analysis (%s): all bases tested\n", res.Method)
		}
		fmt.Printf("c nb latches: %d\n", len(res.Latches()))
		for _, r := range m.Roles() {
			inh, err := m.Inhibitors(r)
			if err != nil {
				return err
			}
			fmt.Printf("c nb inhibitors for %s: %d\n", r, len(inh))
			if verbose {
				for _, t := range inh {
					fmt.Printf("c   %v\n", t)
				}
			}
		}
		return nil
	},
}
