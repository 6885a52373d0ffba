// Package db provides key-value storage backends for the question-bank store.
// Each logical slot is one key holding one JSON blob, overwritten as a whole.
package db

import (
	"context"
	"fmt"
)

// Storage slot keys.
const (
	KeyCompanies      = "interview_companies"
	KeyCurrentCompany = "interview_current_company"
)

// KV is a durable key-value store of whole blobs.
type KV interface {
	// Get returns the value for key. ok is false when the key has never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Put overwrites the value for key.
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Driver selects a storage backend.
type Driver string

const (
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMemory   Driver = "memory"
)

// Open opens a KV backend. For the file driver dsn is a directory; for sqlite a
// database file or DSN; for postgres a connection URL.
func Open(ctx context.Context, driver Driver, dsn string) (KV, error) {
	var (
		kv  KV
		err error
	)
	switch driver {
	case DriverFile, "":
		kv, err = OpenFile(dsn)
	case DriverSQLite:
		kv, err = OpenSQLite(ctx, dsn)
	case DriverPostgres:
		kv, err = Connect(ctx, dsn)
	case DriverMemory:
		kv = NewMemory()
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
	if err != nil {
		return nil, err
	}
	return kv, nil
}

// StorageError wraps a failed read or write of a storage slot.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
