package dealer

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownTable = errors.New("unknown table")

type Table struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Dealer    *Dealer   `json:"-"`
}

// Registry maps table ids to their dealers.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*Table
	seed   func() int64
}

// NewRegistry builds a registry; seed supplies each new table's PRNG seed
// and may be nil for time seeding.
func NewRegistry(seed func() int64) *Registry {
	if seed == nil {
		seed = func() int64 { return 0 }
	}
	return &Registry{tables: make(map[string]*Table), seed: seed}
}

func (r *Registry) Open() *Table {
	t := &Table{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Dealer:    New(r.seed()),
	}
	r.mu.Lock()
	r.tables[t.ID] = t
	r.mu.Unlock()
	return t
}

func (r *Registry) Get(id string) (*Table, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUnknownTable
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, ErrUnknownTable
	}
	return t, nil
}

func (r *Registry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[id]; !ok {
		return ErrUnknownTable
	}
	delete(r.tables, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}
