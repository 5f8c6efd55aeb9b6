package battle

import (
	"sync"
)

// Registry holds the active encounter of every hunter.
// Thread-safe: uses RWMutex for the encounter map.
type Registry struct {
	mu         sync.RWMutex
	encounters map[string]*Encounter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		encounters: make(map[string]*Encounter),
	}
}

// Begin registers enc for its hunter. Fails with ErrAlreadyEngaged if the
// hunter already has an encounter; the check and insert are atomic.
func (r *Registry) Begin(enc *Encounter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[enc.HunterID]; exists {
		return ErrAlreadyEngaged
	}
	r.encounters[enc.HunterID] = enc
	return nil
}

// Get returns the hunter's encounter, or nil if not engaged.
func (r *Registry) Get(hunterID string) *Encounter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.encounters[hunterID]
}

// End removes the hunter's encounter.
func (r *Registry) End(hunterID string) {
	r.mu.Lock()
	delete(r.encounters, hunterID)
	r.mu.Unlock()
}

// Count returns the number of active encounters.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.encounters)
}
