package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/timeloop/happen"
	"github.com/lixenwraith/timeloop/timeline"
)

func validateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load every timeline and check links between them",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closer, err := setupLogging(o.logPath, o.logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			lib, loadErrs, err := loadLibrary(o, happen.NewRegistry(), log)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			problems := 0
			for _, e := range loadErrs {
				fmt.Fprintf(out, "load: %v\n", e)
				problems++
			}
			for _, issue := range timeline.ValidateLinks(lib) {
				fmt.Fprintf(out, "link: %s\n", issue)
				problems++
			}
			if _, ok := lib.Get(timeline.CleanID(o.entry)); !ok {
				fmt.Fprintf(out, "entry: %s not loaded\n", o.entry)
				problems++
			}
			if problems > 0 {
				return fmt.Errorf("%d problem(s) in %d timeline(s)", problems, lib.Len())
			}
			fmt.Fprintf(out, "ok: %d timeline(s)\n", lib.Len())
			return nil
		},
	}
}
