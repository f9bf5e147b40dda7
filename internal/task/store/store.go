// Package store persists todo list snapshots per owner.
package store

import (
	"context"

	"github.com/google/uuid"

	"todotrack/internal/todolist"
)

// Store loads and saves one owner's list as a whole. The aggregate enforces
// every rule in memory, so the store only ever sees state that already passed
// the gates; Replace swaps the stored state for the new snapshot atomically.
type Store interface {
	// Load returns the owner's item snapshots, empty when the owner has no
	// list yet.
	Load(ctx context.Context, ownerID uuid.UUID) ([]todolist.ItemSnapshot, error)
	// Replace overwrites the owner's stored list with the given snapshots.
	Replace(ctx context.Context, ownerID uuid.UUID, snapshots []todolist.ItemSnapshot) error
}
