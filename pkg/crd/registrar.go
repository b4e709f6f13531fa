package crd

import (
	"sync"

	"github.com/pkg/errors"
)

// Key identifies an activity by the name used in experiment documents
// e.g. create_custom_object
type Key string

// EntityType defines the type of activity
type EntityType string

const (
	// EntityTypeAction mutates the cluster
	EntityTypeAction EntityType = "action"

	// EntityTypeProbe only reads from the cluster
	EntityTypeProbe EntityType = "probe"
)

// Registrar exposes the contract(s) to store & retrieve activities
type Registrar interface {
	// Get fetches the activity corresponding to the provided key
	Get(key Key) *Activity

	// GetKeys fetches all keys based on their insertion order
	GetKeys() []Key

	// GetActivities fetches all activities based on their insertion
	// order
	GetActivities() []*Activity

	// Register the provided activity
	Register(a *Activity) error

	// IsRegistered returns true if the provided key was registered
	// earlier
	IsRegistered(key Key) bool
}

// BaseRegistrar is a thread safe in-memory Registrar
type BaseRegistrar struct {
	store map[Key]*Activity

	// keys that follow the insertion order
	orderedEntries []Key

	mu sync.Mutex
}

// compile time check to assert if BaseRegistrar
// implements the interface Registrar
var _ Registrar = (*BaseRegistrar)(nil)

// NewRegistrar returns an empty registrar
func NewRegistrar() *BaseRegistrar {
	return &BaseRegistrar{store: map[Key]*Activity{}}
}

// Get the activity corresponding to the given key
func (r *BaseRegistrar) Get(key Key) *Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store[key]
}

// GetKeys returns the activity keys based on their inserted order
func (r *BaseRegistrar) GetKeys() []Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Key(nil), r.orderedEntries...)
}

// GetActivities returns the registered activities based on their
// insertion order
func (r *BaseRegistrar) GetActivities() []*Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	var activities = make([]*Activity, 0, len(r.orderedEntries))
	for _, key := range r.orderedEntries {
		activities = append(activities, r.store[key])
	}
	return activities
}

// Register the provided activity to be retrieved later
func (r *BaseRegistrar) Register(a *Activity) error {
	if a == nil {
		return errors.New("failed to register: nil activity")
	}
	if err := a.Validate(); err != nil {
		return errors.Wrap(err, "failed to register")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.store == nil {
		r.store = map[Key]*Activity{}
	}
	if _, duplicate := r.store[a.Name]; duplicate {
		return errors.Errorf("duplicate activity: type %q: key %q", a.Type, a.Name)
	}
	r.orderedEntries = append(r.orderedEntries, a.Name)
	r.store[a.Name] = a
	return nil
}

// IsRegistered returns true if the provided key has an entry
// in the registry
func (r *BaseRegistrar) IsRegistered(key Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, found := r.store[key]
	return found
}
