package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/store"
	"github.com/spf13/cobra"
)

// resolveConfig layers command-line flags over the environment over the config file
// over the built-in defaults.
func resolveConfig() (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}

	if configPath != "" {
		file, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*file)
	}
	cfg = cfg.MergeWithDefaults(config.Defaults())

	if storeDriver != "" {
		cfg.StoreDriver = storeDriver
	}
	if storeDSN != "" {
		cfg.StoreDSN = storeDSN
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openKV opens the configured storage backend.
func openKV(ctx context.Context, cfg config.Config) (db.KV, error) {
	kv, err := db.Open(ctx, db.Driver(cfg.StoreDriver), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}
	return kv, nil
}

// withStore opens the configured store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, st *store.Store) error) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	kv, err := openKV(ctx, cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	st, err := store.Open(ctx, kv)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	return fn(ctx, st)
}

// applyBank runs one edit against the current company's bank and prints done on success.
func applyBank(cmd *cobra.Command, done string, fn func(bank.Snapshot) (bank.Snapshot, error)) error {
	return withStore(cmd, func(ctx context.Context, st *store.Store) error {
		if _, err := st.Apply(ctx, fn); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), done)
		return nil
	})
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
}
