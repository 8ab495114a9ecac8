package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/stagelist/venue-cli/internal/discovery"
	"github.com/stagelist/venue-cli/internal/model"
	"github.com/stagelist/venue-cli/internal/store"
)

var discoveredStatus string

var discoveredCmd = &cobra.Command{
	Use:   "discovered",
	Short: "Review the queue of discovered venues",
}

var discoveredListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered venues, optionally filtered by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := store.NewDiscoveredStore(cfg.Store.DiscoveredPath).Load()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLOCATION\tTYPE\tSTATUS\tWEBSITE")
		for _, d := range records {
			if discoveredStatus != "" && string(d.Status) != discoveredStatus {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				d.Name, d.Location, d.VenueType, d.Status, d.Website)
		}
		return w.Flush()
	},
}

var discoveredApproveCmd = &cobra.Command{
	Use:   "approve <name> <location>",
	Short: "Approve a discovered venue for promotion",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDiscoveredStatus(args[0], args[1], model.StatusApproved)
	},
}

var discoveredRejectCmd = &cobra.Command{
	Use:   "reject <name> <location>",
	Short: "Reject a discovered venue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDiscoveredStatus(args[0], args[1], model.StatusRejected)
	},
}

var discoveredPromoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Copy approved venues into the main directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := discovery.Promote(
			store.NewDiscoveredStore(cfg.Store.DiscoveredPath),
			store.NewVenueStore(cfg.Store.VenuesPath),
		)
		if err != nil {
			return err
		}
		fmt.Printf("Promoted %d venues, skipped %d already in the directory\n",
			res.Promoted, res.Skipped)
		return nil
	},
}

func setDiscoveredStatus(name, location string, status model.DiscoveryStatus) error {
	found, err := store.NewDiscoveredStore(cfg.Store.DiscoveredPath).SetStatus(name, location, status)
	if err != nil {
		return err
	}
	if !found {
		return eris.Errorf("no discovered venue matches %q in %q", name, location)
	}
	fmt.Printf("%s / %s -> %s\n", name, location, status)
	return nil
}

func init() {
	discoveredListCmd.Flags().StringVar(&discoveredStatus, "status", "", "filter by status (pending, approved, rejected)")
	discoveredCmd.AddCommand(discoveredListCmd, discoveredApproveCmd, discoveredRejectCmd, discoveredPromoteCmd)
	rootCmd.AddCommand(discoveredCmd)
}
