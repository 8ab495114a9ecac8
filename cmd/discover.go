package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stagelist/venue-cli/internal/discovery"
	"github.com/stagelist/venue-cli/internal/store"
)

var (
	discoverCity string
	discoverMax  int
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Search the web for venues in a city and queue them for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d := discovery.NewDiscoverer(
			store.NewDiscoveredStore(cfg.Store.DiscoveredPath),
			discovery.NewHTTPSearchClient(time.Duration(cfg.Discovery.TimeoutSecs)*time.Second),
			cfg.Discovery,
		)

		added, err := d.Discover(ctx, discoverCity, discoverMax)
		if err != nil {
			return err
		}

		fmt.Printf("Discovered %d new venues in %s (pending review)\n", len(added), discoverCity)
		for _, v := range added {
			fmt.Printf("  %s  [%s]  %s\n", v.Name, v.VenueType, v.Website)
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverCity, "city", "", "city to search (required)")
	discoverCmd.Flags().IntVar(&discoverMax, "max", 0, "max new venues to queue (default from config)")
	_ = discoverCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(discoverCmd)
}
