// Package runtime models Core program memory: integer and object variables,
// reference-counted object handles, scopes, frames and the call stack.
package runtime

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

var (
	// ErrNullReference is returned when an object variable without a handle
	// is read or written.
	ErrNullReference = errors.New("null reference")
	// ErrMissingKey is returned when an object lookup names an absent key.
	ErrMissingKey = errors.New("missing key")
)

// Object is a shared key to integer map. Its reference count is the number of
// object variables currently holding it.
type Object struct {
	entries map[string]int
	refs    int
}

func newObject(key string, value int) *Object {
	return &Object{entries: map[string]int{key: value}}
}

// Refs reports how many variables hold the object.
func (o *Object) Refs() int { return o.refs }

// Get returns the value stored under key.
func (o *Object) Get(key string) (int, bool) {
	v, ok := o.entries[key]
	return v, ok
}

// Keys returns the object's keys sorted.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.entries))
	for k := range o.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tracker counts reachable objects. Every 0 to 1 and 1 to 0 transition of an
// object's reference count moves the counter by one and is reported as
// gc:<count> on the log writer.
type Tracker struct {
	reachable int
	log       io.Writer
	err       error
}

// NewTracker returns a tracker writing transitions to log. A nil log
// suppresses output.
func NewTracker(log io.Writer) *Tracker {
	return &Tracker{log: log}
}

// Retain records a new holder of o.
func (t *Tracker) Retain(o *Object) {
	if o == nil {
		return
	}
	o.refs++
	if o.refs == 1 {
		t.reachable++
		t.emit()
	}
}

// Release drops a holder of o.
func (t *Tracker) Release(o *Object) {
	if o == nil || o.refs == 0 {
		return
	}
	o.refs--
	if o.refs == 0 {
		t.reachable--
		t.emit()
	}
}

// Reachable is the number of objects with at least one holder.
func (t *Tracker) Reachable() int { return t.reachable }

// Err returns the first error writing the transition log.
func (t *Tracker) Err() error { return t.err }

func (t *Tracker) emit() {
	if t.log == nil || t.err != nil {
		return
	}
	if _, err := fmt.Fprintf(t.log, "gc:%d\n", t.reachable); err != nil {
		t.err = fmt.Errorf("runtime: write gc log: %w", err)
	}
}
