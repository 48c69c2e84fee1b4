package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/timeloop/parameter"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "timeloop",
		Short:        "A looping-timeline game scheduler",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&opts.assets, "assets", "", "asset directory (default: embedded content)")
	pf.StringVar(&opts.entry, "entry", parameter.DefaultEntryTimeline, "entry timeline path")
	pf.StringSliceVar(&opts.timelines, "timelines", nil, "timeline paths to load (default: every "+parameter.TimelineExt+" under "+parameter.TimelineDir+"/)")
	pf.StringVar(&opts.logPath, "log", "", "log file (default: stderr, discarded in run mode)")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")

	root.AddCommand(runCmd(opts))
	root.AddCommand(simulateCmd(opts))
	root.AddCommand(validateCmd(opts))
	root.AddCommand(dumpCmd(opts))
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
