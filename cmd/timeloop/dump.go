package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/timeloop/happen"
	"github.com/lixenwraith/timeloop/timeline"
)

func dumpCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dump [timeline...]",
		Short: "Print timelines in normalized content form",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closer, err := setupLogging(o.logPath, o.logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			lib, _, err := loadLibrary(o, happen.NewRegistry(), log)
			if err != nil {
				return err
			}
			ids := lib.IDs()
			if len(args) > 0 {
				ids = ids[:0]
				for _, a := range args {
					ids = append(ids, timeline.CleanID(a))
				}
			}

			out := cmd.OutOrStdout()
			for i, id := range ids {
				tl, ok := lib.Get(id)
				if !ok {
					return fmt.Errorf("timeline %q not loaded", id)
				}
				body, err := timeline.Encode(tl)
				if err != nil {
					return fmt.Errorf("encode %s: %w", id, err)
				}
				if i > 0 {
					fmt.Fprintln(out, "---")
				}
				fmt.Fprintf(out, "# %s\n%s", id, body)
			}
			return nil
		},
	}
}
