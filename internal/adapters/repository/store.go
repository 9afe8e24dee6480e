// Package repository defines the catalog and event-log store contract and
// its drivers. Drivers only read, replace and append; they never compute.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/salesboard/internal/domain/model"
)

// Catalogs holds the member and activity catalogs as stored.
type Catalogs struct {
	Members    []model.Member
	Activities []model.Activity
}

// Store provides access to the catalogs and the append-only activity log.
//
// Read errors wrap ErrStoreUnavailable and write errors wrap ErrStoreWrite.
// Every write either fully succeeds or leaves the stored state unchanged.
type Store interface {
	// LoadCatalogs returns the current members and activities.
	LoadCatalogs(ctx context.Context) (Catalogs, error)
	// LoadEvents returns the whole activity log in insertion order.
	LoadEvents(ctx context.Context) ([]model.ActivityEvent, error)

	// ReplaceMembers swaps the member catalog wholesale.
	ReplaceMembers(ctx context.Context, members []model.Member) error
	// ReplaceActivities swaps the scoring table wholesale.
	ReplaceActivities(ctx context.Context, activities []model.Activity) error
	// AppendEvent adds e to the end of the log.
	AppendEvent(ctx context.Context, e model.ActivityEvent) error
}

// Supported driver names.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Drivers lists every supported driver name.
var Drivers = []string{DriverFile, DriverMemory, DriverRedis, DriverPostgres}

// Open constructs the store for driver. Network-backed drivers verify
// connectivity before returning.
func Open(ctx context.Context, driver string, opts ...Option) (Store, error) {
	o := newOptions(opts...)
	switch driver {
	case DriverFile:
		return NewFileStore(o.dataDir)
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverRedis:
		return NewRedisStore(ctx, o.redis)
	case DriverPostgres:
		return NewPostgresStore(ctx, o.postgresDSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func unavailable(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, what, err)
}

func writeFailed(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreWrite, what, err)
}
