package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/sluggish/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "sluggish: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:   "sluggish",
		Short: "Terminal demo of reactive UI performance anti-patterns",
		Long: `sluggish runs a small reactive runtime with deliberately wasteful panels:
effects without dependency lists, leaked intervals and listeners, unmemoized
derivations, full-clone nested updates and an ever-growing data set.

Watch the counters climb, then toggle memoization, unmount panels and reset
leaks to see each cost come and go.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/sluggish/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "UI preferences file (default ~/.config/sluggish/prefs.toml)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")
	flags.BoolVar(&opts.Offline, "offline", false, "never contact the posts endpoint")

	root.AddCommand(newBenchCmd(&opts))
	return root
}

func newBenchCmd(opts *app.Options) *cobra.Command {
	var bench app.BenchOptions

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a scripted headless session and print probe counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bench.Options = *opts
			bench.Out = cmd.OutOrStdout()
			return app.Bench(cmd.Context(), bench)
		},
	}
	cmd.Flags().IntVar(&bench.Cycles, "cycles", 100, "scripted steps to run")
	cmd.Flags().StringVar(&bench.CPUProfile, "cpuprofile", "", "write a CPU profile to this file")
	return cmd
}
