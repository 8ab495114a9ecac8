package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stagelist/venue-cli/internal/enrich"
)

var (
	enrichLimit int
	enrichQuick bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Crawl venue websites and fill missing directory fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		limit := enrichLimit
		if enrichQuick && limit == 0 {
			limit = cfg.Crawl.QuickLimit
		}

		stats, err := enrich.RunOnce(ctx, cfg, limit)
		if stats != nil {
			zap.L().Info("enrichment pass complete",
				zap.Int("processed", stats.Processed),
				zap.Int("updated", stats.Updated),
				zap.Int("remaining", stats.Remaining),
			)
			fmt.Printf("Processed %d venues, updated %d, %d still have gaps\n",
				stats.Processed, stats.Updated, stats.Remaining)
		}
		return err
	},
}

func init() {
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "cap the number of venues processed (0 = all)")
	enrichCmd.Flags().BoolVar(&enrichQuick, "quick", false, "short pass over the first few venues with gaps")
	rootCmd.AddCommand(enrichCmd)
}
