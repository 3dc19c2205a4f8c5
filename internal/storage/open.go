package storage

import (
	"context"
	"fmt"
	"time"
)

// Supported storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// OpenOptions selects and configures a backend.
type OpenOptions struct {
	Driver        string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
}

// Open builds the backend named by opts.Driver. The returned close function
// releases the backend's resources and is never nil.
func Open(ctx context.Context, opts OpenOptions) (PostRepository, func() error, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		db, err := OpenDatabase(opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		store := NewStore(db)
		return store, store.Close, nil

	case DriverMongo:
		store, err := ConnectMongo(ctx, opts.MongoURI, opts.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return store.Close(ctx)
		}
		return store, closeFn, nil

	case DriverMemory:
		return NewMemoryStore(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage driver: %s", opts.Driver)
	}
}
