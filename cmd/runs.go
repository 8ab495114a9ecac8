package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stagelist/venue-cli/internal/store"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent enrichment run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := store.NewCache(cfg.Store.CachePath)
		if err != nil {
			return err
		}
		defer cache.Close() //nolint:errcheck

		if err := cache.Migrate(cmd.Context()); err != nil {
			return err
		}

		runs, err := cache.LastRuns(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tSTATUS\tPROCESSED\tUPDATED\tREMAINING\tERROR")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				r.Status, r.Processed, r.Updated, r.Remaining, r.Error)
		}
		return w.Flush()
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 10, "number of runs to show")
	rootCmd.AddCommand(runsCmd)
}
