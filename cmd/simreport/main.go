package main

import (
	"fmt"
	"os"

	"github.com/rpgo/simreport/internal/logging"
	"github.com/spf13/cobra"
)

var version = "dev"

// globalOptions are shared by every subcommand.
type globalOptions struct {
	logLevel  string
	logPretty bool
}

func (g *globalOptions) logger(cmd *cobra.Command) (logging.Logger, error) {
	return logging.New(cmd.ErrOrStderr(), g.logLevel, g.logPretty)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "simreport",
		Short: "Render Monte Carlo retirement simulation results as reports",
		Long: `simreport turns the per-year records of simulated retirement runs into
reports. It selects runs by percentile of their terminal outcome or by index,
lays them out through a named column view, and writes spreadsheet, HTML, PDF,
console, CSV and JSON renditions.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.logPretty, "log-pretty", true, "human-readable log output")

	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newViewsCmd())
	root.AddCommand(newColumnsCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newExampleCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "simreport %s\n", version)
		},
	})
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
