package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stagelist/venue-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "venue-cli",
	Short: "Music venue directory enrichment",
	Long:  "Crawls venue websites with a headless browser, extracts contact and capacity details, discovers new venues from web search, and maintains the directory files.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
