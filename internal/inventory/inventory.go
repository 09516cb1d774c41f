package inventory

import (
	"context"
	"time"
)

// Item represents a single tracked food item.
// Items are read-only from the recommendation pipeline's point of view:
// once a snapshot is classified, nothing mutates it for the rest of the run.
type Item struct {
	ID        int64
	Name      string
	ExpiresAt time.Time
	AddedAt   time.Time
}

// Store is the persistence boundary for inventory items. The recommendation
// pipeline only ever reads from it; writes belong to the CLI/UI layer.
type Store interface {
	AddItem(ctx context.Context, name string, expiresAt time.Time) (*Item, error)
	ListItems(ctx context.Context) ([]*Item, error)
	RemoveItem(ctx context.Context, id int64) error
}
