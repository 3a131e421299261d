package api

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warp/savings-engine/account"
)

// =============================================================================
// REGISTRY - In-memory account table
// =============================================================================

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateID     = errors.New("account id already exists")
)

// Registry holds the accounts served over HTTP. The map is guarded by its
// own RWMutex; each account is guarded by the mutex of its entry, so callers
// on different accounts never wait for each other.
type Registry struct {
	mu       sync.RWMutex
	accounts map[string]*Entry
}

// Entry is one registered account.
type Entry struct {
	ID        string
	CreatedAt time.Time

	mu  sync.Mutex
	acc account.Account
}

func NewRegistry() *Registry {
	return &Registry{accounts: make(map[string]*Entry)}
}

// Add registers acc under id. An empty id gets a fresh UUID.
func (r *Registry) Add(id string, acc account.Account) (*Entry, error) {
	if id == "" {
		id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[id]; exists {
		return nil, ErrDuplicateID
	}
	e := &Entry{ID: id, CreatedAt: time.Now().UTC(), acc: acc}
	r.accounts[id] = e
	return e, nil
}

func (r *Registry) Get(id string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return e, nil
}

// List returns every entry, oldest first.
func (r *Registry) List() []*Entry {
	r.mu.RLock()
	entries := make([]*Entry, 0, len(r.accounts))
	for _, e := range r.accounts {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

// Reset drops every account.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = make(map[string]*Entry)
}

// With runs fn while holding the entry's lock. Summarize rewrites the
// ledger's derived cache, so reads take the lock as well.
func (e *Entry) With(fn func(acc account.Account) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.acc)
}
