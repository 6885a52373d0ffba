package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/server"
	"github.com/jonathan/interview-prep/internal/session"
	"github.com/jonathan/interview-prep/internal/store"
	"github.com/spf13/cobra"
)

var (
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the question bank, practice progress, recordings
and scoring. Write endpoints require a bearer token when JWT_SECRET is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload when the data directory changes on disk")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	cfg.WatchStore = cfg.WatchStore || serveWatch
	if err := cfg.Validate(); err != nil {
		return err
	}

	jwtCfg, err := config.OptionalJWTConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := openKV(ctx, cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	st, err := store.Open(ctx, kv)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	srvCfg := server.Config{
		Port:        cfg.Port,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
		JWT:         jwtCfg,
	}
	if cfg.WatchStore {
		if f, ok := kv.(*db.File); ok {
			srvCfg.Watcher = f
		}
	}

	if cfg.Verbose {
		log.Printf("[serve] driver=%s addr=%s auth=%t watch=%t", cfg.StoreDriver, cfg.Addr(), jwtCfg != nil, srvCfg.Watcher != nil)
	}

	return server.New(st, session.New(), srvCfg).Start(ctx)
}
