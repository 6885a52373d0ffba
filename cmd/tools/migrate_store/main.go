// Command migrate_store copies the question-bank slots from one storage backend to another,
// for example from a local data directory into PostgreSQL.
//
// Usage:
//
//	go run cmd/tools/migrate_store/main.go
//
// The source is FROM_DRIVER/FROM_DSN (default: file driver on ./data) and the destination
// is TO_DRIVER/TO_DSN (default: postgres on DATABASE_URL). Existing destination slots are
// overwritten.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/store"
)

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()

	fromDriver := db.Driver(envOr("FROM_DRIVER", string(db.DriverFile)))
	fromDSN := envOr("FROM_DSN", "data")
	toDriver := db.Driver(envOr("TO_DRIVER", string(db.DriverPostgres)))
	toDSN := envOr("TO_DSN", os.Getenv("DATABASE_URL"))
	if toDSN == "" {
		fmt.Fprintln(os.Stderr, "ERROR: TO_DSN or DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()

	src, err := db.Open(ctx, fromDriver, fromDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to open source %s store: %v\n", fromDriver, err)
		os.Exit(1)
	}
	defer src.Close()

	dst, err := db.Open(ctx, toDriver, toDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to open destination %s store: %v\n", toDriver, err)
		os.Exit(1)
	}
	defer dst.Close()

	fmt.Println("=== Store Migration ===")
	fmt.Printf("  From: %s (%s)\n", fromDriver, fromDSN)
	fmt.Printf("  To:   %s\n", toDriver)
	fmt.Println()

	copied := 0
	for _, key := range []string{db.KeyCompanies, db.KeyCurrentCompany} {
		value, ok, err := src.Get(ctx, key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to read %s: %v\n", key, err)
			os.Exit(1)
		}
		if !ok {
			fmt.Printf("  • Skipped: %s (not present in source)\n", key)
			continue
		}
		if err := dst.Put(ctx, key, value); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to write %s: %v\n", key, err)
			os.Exit(1)
		}
		fmt.Printf("  ✓ Copied: %s (%d bytes)\n", key, len(value))
		copied++
	}

	// Loading through the store repairs missing ids and validates the copy
	st, err := store.Open(ctx, dst)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Destination does not load: %v\n", err)
		os.Exit(1)
	}

	questions := 0
	for _, c := range st.Companies() {
		questions += c.Data.TotalQuestions
	}

	fmt.Println()
	fmt.Println("=== Migration Summary ===")
	fmt.Printf("  Slots copied: %d\n", copied)
	fmt.Printf("  Companies: %d\n", len(st.Companies()))
	fmt.Printf("  Questions: %d\n", questions)
	fmt.Printf("  Current: %s\n", st.CurrentID())
	fmt.Println()
	fmt.Println("=== Migration Complete ===")
}
