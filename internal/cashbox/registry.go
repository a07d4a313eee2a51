package cashbox

import (
	"sync"

	"github.com/google/uuid"
)

// Registry hands out one Store per cashier. It is explicitly constructed —
// no package-level state — so tests and multi-tenant deployments can run
// isolated registries.
type Registry struct {
	mu     sync.Mutex
	stores map[uuid.UUID]*Store
}

func NewRegistry() *Registry {
	return &Registry{stores: make(map[uuid.UUID]*Store)}
}

// For returns the cashier's store, creating an empty one on first use.
func (r *Registry) For(cashierID uuid.UUID) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.stores[cashierID]
	if !ok {
		store = NewStore()
		r.stores[cashierID] = store
	}
	return store
}

// Drop discards the cashier's store entirely (used after session close).
func (r *Registry) Drop(cashierID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, cashierID)
}
