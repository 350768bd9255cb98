// Package record describes the backing record a leaflet field reads its
// initial geometry from and writes the submitted geometry back into.
package record

import (
	"fmt"
	"strings"
	"sync"
)

// Record exposes get/set-by-name semantics. SetCastedField applies whatever
// casting the record layer performs for the named attribute; validation of the
// geometry, if any, belongs there too.
type Record interface {
	Get(name string) any
	SetCastedField(name string, value any) error
}

// MapRecord is an in-memory record keyed by attribute name.
type MapRecord struct {
	mu     sync.RWMutex
	values map[string]any
}

var _ Record = (*MapRecord)(nil)

// NewMapRecord copies values into a new record.
func NewMapRecord(values map[string]any) *MapRecord {
	rec := &MapRecord{values: make(map[string]any, len(values))}
	for key, value := range values {
		rec.values[key] = value
	}
	return rec
}

func (r *MapRecord) Get(name string) any {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values[name]
}

func (r *MapRecord) SetCastedField(name string, value any) error {
	if r == nil {
		return fmt.Errorf("record: map record is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("record: attribute name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.values == nil {
		r.values = make(map[string]any)
	}
	r.values[name] = value
	return nil
}

// Values returns a copy of the stored attributes.
func (r *MapRecord) Values() map[string]any {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.values))
	for key, value := range r.values {
		out[key] = value
	}
	return out
}
