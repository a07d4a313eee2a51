package cashbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/amare53/school-sub001/internal/model"
)

const (
	snapshotKeyPrefix = "cashbox:snapshot:"
	snapshotTTL       = 24 * time.Hour
)

// Snapshot is the serialized form of a cashier's store contents.
type Snapshot struct {
	Session   *model.CashSession   `json:"session"`
	Payments  []model.Payment      `json:"payments"`
	Movements []model.CashMovement `json:"movements"`
	SavedAt   time.Time            `json:"savedAt"`
}

// SnapshotCache persists a best-effort copy of each cashier's active session
// view in Redis so a process restart does not blank the current-session
// endpoint before the next DB load. Snapshots are never authoritative:
// callers must verify the session row against the database before trusting
// one.
type SnapshotCache struct {
	rdb *redis.Client
}

func NewSnapshotCache(rdb *redis.Client) *SnapshotCache {
	return &SnapshotCache{rdb: rdb}
}

// Save stores the cashier's current view. Errors are returned for logging
// only — a failed save must never fail the originating operation.
func (c *SnapshotCache) Save(ctx context.Context, cashierID uuid.UUID, store *Store) error {
	snap := Snapshot{
		Session:   store.Session(),
		Payments:  store.Payments(),
		Movements: store.Movements(),
		SavedAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, snapshotKeyPrefix+cashierID.String(), data, snapshotTTL).Err()
}

// Load returns the last saved snapshot, or nil when none exists.
func (c *SnapshotCache) Load(ctx context.Context, cashierID uuid.UUID) (*Snapshot, error) {
	data, err := c.rdb.Get(ctx, snapshotKeyPrefix+cashierID.String()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Delete removes the snapshot (called on session close or clear).
func (c *SnapshotCache) Delete(ctx context.Context, cashierID uuid.UUID) error {
	return c.rdb.Del(ctx, snapshotKeyPrefix+cashierID.String()).Err()
}
