package main

import (
	"fmt"

	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/server"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Issue a bearer token for the write endpoints",
	Long: `Issue a signed JWT for subject using JWT_SECRET and JWT_EXPIRATION_HOURS. The server
accepts it on every write endpoint when started with the same secret.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jwtCfg, err := config.NewJWTConfig()
		if err != nil {
			return err
		}
		token, err := server.NewJWTService(jwtCfg).GenerateToken(args[0])
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
