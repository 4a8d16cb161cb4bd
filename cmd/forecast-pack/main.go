package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"crypto-forecast-backend/internal/config"
	"crypto-forecast-backend/pkg/packgen"
)

func init() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("forecast-pack failed: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile string
		dataDir    string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "forecast-pack",
		Short: "Pack the static forecast files into a read-only SQLite bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if dataDir == "" {
				dataDir = cfg.Data.Dir
			}
			if output == "" {
				output = cfg.Data.Bundle
			}
			if output == "" {
				return fmt.Errorf("--output or FORECAST_DB is required")
			}

			stats, err := packgen.Build(context.Background(), packgen.Options{
				DataDir:    dataDir,
				Files:      cfg.Data.Files,
				OutputPath: output,
			})
			if err != nil {
				return err
			}
			for _, s := range stats {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-24s %d\n", s.Key, s.File, s.Points)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"), "YAML config file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "static data directory (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "bundle path or directory (default FORECAST_DB)")
	return cmd
}
