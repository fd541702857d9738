package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"elvalg/config"
	"elvalg/internal/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "elvalg",
	Short: "Electricity contract comparison service",
	Long: `elvalg serves the lead, contract and price API for comparing Norwegian
electricity contracts, and sends renewal reminders before fixed-price
contracts run out.

Configuration is read from .env, config.yaml and the environment.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, cacheCmd, zoneCmd, reminderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config and points the default logger at it.
func loadConfig() (config.Config, error) {
	cfg, err := config.InitConfig()
	if err != nil {
		return config.Config{}, err
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}
