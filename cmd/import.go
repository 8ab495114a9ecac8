package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stagelist/venue-cli/internal/store"
	"github.com/stagelist/venue-cli/internal/venueimport"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a master venue list from a CSV or XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := venueimport.ImportFile(store.NewVenueStore(cfg.Store.VenuesPath), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Imported %s: %d added, %d merged, %d skipped\n",
			args[0], res.Added, res.Merged, res.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
