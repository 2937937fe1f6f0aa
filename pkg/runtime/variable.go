package runtime

import "fmt"

// Variable is a named runtime storage cell.
type Variable interface {
	Name() string
}

// IntegerVar holds a signed integer, zero on declaration.
type IntegerVar struct {
	name  string
	Value int
}

func NewIntegerVar(name string) *IntegerVar { return &IntegerVar{name: name} }

func (v *IntegerVar) Name() string { return v.name }

// ObjectVar holds a possibly unset handle to a shared Object plus the default
// key used when the variable appears without an index.
type ObjectVar struct {
	name       string
	ref        *Object
	defaultKey string
	tracker    *Tracker
}

func NewObjectVar(name string, tracker *Tracker) *ObjectVar {
	return &ObjectVar{name: name, tracker: tracker}
}

func (v *ObjectVar) Name() string { return v.name }

// IsNull reports whether the variable holds no object.
func (v *ObjectVar) IsNull() bool { return v.ref == nil }

// Ref returns the held object, or nil.
func (v *ObjectVar) Ref() *Object { return v.ref }

func (v *ObjectVar) DefaultKey() string { return v.defaultKey }

// Construct replaces the held object with a fresh one containing a single
// entry. key becomes the default key.
func (v *ObjectVar) Construct(key string, value int) {
	fresh := newObject(key, value)
	v.tracker.Retain(fresh)
	v.tracker.Release(v.ref)
	v.ref = fresh
	v.defaultKey = key
}

// AliasTo makes v share src's object and default key. The new handle is
// retained before the old one is released, so aliasing a variable to itself
// or to another holder of the same object emits nothing.
func (v *ObjectVar) AliasTo(src *ObjectVar) {
	v.tracker.Retain(src.ref)
	v.tracker.Release(v.ref)
	v.ref = src.ref
	v.defaultKey = src.defaultKey
}

// Set stores value under key, adding the key if absent.
func (v *ObjectVar) Set(key string, value int) error {
	if v.ref == nil {
		return v.nullError()
	}
	v.ref.entries[key] = value
	return nil
}

// Get reads the value stored under key.
func (v *ObjectVar) Get(key string) (int, error) {
	if v.ref == nil {
		return 0, v.nullError()
	}
	value, ok := v.ref.entries[key]
	if !ok {
		return 0, fmt.Errorf("key '%s' for object %s does not exist: %w", key, v.name, ErrMissingKey)
	}
	return value, nil
}

// SetDefault writes through the default key.
func (v *ObjectVar) SetDefault(value int) error { return v.Set(v.defaultKey, value) }

// GetDefault reads through the default key.
func (v *ObjectVar) GetDefault() (int, error) { return v.Get(v.defaultKey) }

// Release drops the held object.
func (v *ObjectVar) Release() {
	v.tracker.Release(v.ref)
	v.ref = nil
}

func (v *ObjectVar) nullError() error {
	return fmt.Errorf("object %s has a null reference value: %w", v.name, ErrNullReference)
}

// Assign stores an integer into v: the value itself for integers, the
// default key entry for objects.
func Assign(v Variable, value int) error {
	switch tv := v.(type) {
	case *IntegerVar:
		tv.Value = value
		return nil
	case *ObjectVar:
		return tv.SetDefault(value)
	}
	return fmt.Errorf("runtime: cannot assign to %T", v)
}

// Value reads an integer from v, through the default key for objects.
func Value(v Variable) (int, error) {
	switch tv := v.(type) {
	case *IntegerVar:
		return tv.Value, nil
	case *ObjectVar:
		return tv.GetDefault()
	}
	return 0, fmt.Errorf("runtime: cannot read %T", v)
}
