// Package resource provides the handle table for live device resources.
//
// Engine implementations register every stream, execution context, and device
// buffer they hand out, so leaks are observable and teardown is a single
// Close. Handles are opaque integers; values carry a type id so lookups can
// be type-checked.
package resource

import (
	"sync"
)

type entry struct {
	value  any
	typeID uint32
}

// Table maps integer handles to live device resources.
type Table struct {
	mu        sync.RWMutex
	entries   map[Handle]entry
	observers []Observer
	next      Handle
	closed    bool
}

// NewTable creates an empty resource table.
func NewTable() *Table {
	return &Table{entries: make(map[Handle]entry)}
}

// Insert adds a value and returns its handle, zero if the table is closed.
func (t *Table) Insert(typeID uint32, value any) Handle {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0
	}
	t.next++
	h := t.next
	t.entries[h] = entry{value: value, typeID: typeID}
	t.mu.Unlock()

	t.notify(Event{Type: EventCreated, Handle: h, TypeID: typeID, Value: value})
	return h
}

// Get retrieves a value by handle.
func (t *Table) Get(h Handle) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[h]
	return e.value, ok
}

// GetTyped retrieves a value only if it matches the expected type id.
func (t *Table) GetTyped(h Handle, typeID uint32) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[h]
	if !ok || e.typeID != typeID {
		return nil, false
	}
	return e.value, true
}

// Remove drops a resource, running its Dropper, and returns (value, true) if
// it was present.
func (t *Table) Remove(h Handle) (any, bool) {
	t.mu.Lock()
	e, ok := t.entries[h]
	if ok {
		delete(t.entries, h)
	}
	t.mu.Unlock()
	if !ok {
		return nil, false
	}

	if d, ok := e.value.(Dropper); ok {
		d.Drop()
	}
	t.notify(Event{Type: EventDropped, Handle: h, TypeID: e.typeID, Value: e.value})
	return e.value, true
}

// Len returns the number of live resources.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// CountByType returns the number of live resources with the given type id.
func (t *Table) CountByType(typeID uint32) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, e := range t.entries {
		if e.typeID == typeID {
			n++
		}
	}
	return n
}

// Each visits every live resource until fn returns false.
func (t *Table) Each(fn func(h Handle, typeID uint32, value any) bool) {
	t.mu.RLock()
	snapshot := make(map[Handle]entry, len(t.entries))
	for h, e := range t.entries {
		snapshot[h] = e
	}
	t.mu.RUnlock()

	for h, e := range snapshot {
		if !fn(h, e.typeID, e.value) {
			return
		}
	}
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Close drops every resource and stops accepting inserts.
func (t *Table) Close() error {
	t.mu.Lock()
	t.closed = true
	handles := make([]Handle, 0, len(t.entries))
	for h := range t.entries {
		handles = append(handles, h)
	}
	t.mu.Unlock()

	for _, h := range handles {
		t.Remove(h)
	}
	return nil
}

func (t *Table) notify(e Event) {
	t.mu.RLock()
	obs := make([]Observer, len(t.observers))
	copy(obs, t.observers)
	t.mu.RUnlock()
	for _, o := range obs {
		o.OnResourceEvent(e)
	}
}
