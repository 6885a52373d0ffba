// Package main provides the entry point for the interview practice server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interview_prep",
	Short: "Interview practice question bank and answer scoring",
	Long: "interview_prep manages per-company interview question banks, scores spoken answers " +
		"against reference answers, and serves both over a REST API.",
	SilenceUsage: true,
}

var (
	configPath  string
	storeDriver string
	storeDSN    string
	dataDir     string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "driver", "", "Store driver: file, sqlite, postgres or memory")
	rootCmd.PersistentFlags().StringVar(&storeDSN, "dsn", "", "SQLite DSN or PostgreSQL URL")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory for the file driver")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
