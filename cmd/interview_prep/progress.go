package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/interview-prep/internal/observability"
	"github.com/jonathan/interview-prep/internal/server"
	"github.com/spf13/cobra"
)

var progressServer string

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show practice progress from a running server",
	Long: `Practice progress lives in the server's session and is never persisted, so this
command asks a running server for the current company's bank and prints completion per
main category and category.`,
	Args: cobra.NoArgs,
	RunE: runProgress,
}

func init() {
	progressCmd.Flags().StringVar(&progressServer, "server", "http://localhost:8080", "Base URL of the running server")
	rootCmd.AddCommand(progressCmd)
}

func runProgress(cmd *cobra.Command, _ []string) error {
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, strings.TrimSuffix(progressServer, "/")+"/bank", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var bankResp server.BankResponse
	if err := json.NewDecoder(resp.Body).Decode(&bankResp); err != nil {
		return fmt.Errorf("failed to decode bank response: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", bankResp.CompanyName, bankResp.CompanyID)
	observability.NewPrinter(cmd.OutOrStdout()).PrintProgress(bankResp.Progress, bankResp.Groups)
	return nil
}
