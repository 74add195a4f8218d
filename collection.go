package loadstate

import "fmt"

// Collection is a named group of asset handles with a recipe for starting
// their loads and finishing into a usable value. Concrete collection types
// are declared by application code; the driver only sees this contract.
//
// StartLoad resolves every declared field (static path or dynamic key),
// issues the engine loads, and returns the handles. It is called once per
// phase activation. An optional field whose key is unset is skipped, not an
// error; an unset non-optional key aborts the call with MissingKeyError and
// starts nothing for this collection.
//
// Finish is called only after every handle from StartLoad reports loaded.
// It must not block or poll. The finished collection itself is published as
// the resource value.
type Collection interface {
	Name() string
	StartLoad(keys *DynamicKeys, engine Engine) ([]Handle, error)
	Finish(engine Engine) error
}

// Field declares one asset slot in a collection: either a static path or a
// dynamic key resolved at load start.
type Field struct {
	Path     string // static path; empty when Key is set
	Key      string // dynamic key; resolved through DynamicKeys
	Optional bool   // keyed field that may be left unregistered
}

// Static declares a field with a hard-coded asset path.
func Static(path string) Field {
	return Field{Path: path}
}

// Keyed declares a field whose path is resolved from a dynamic key.
func Keyed(key string) Field {
	return Field{Key: key}
}

// OptionalKeyed declares a keyed field that is skipped when its key is not
// registered.
func OptionalKeyed(key string) Field {
	return Field{Key: key, Optional: true}
}

// FieldSet implements the resolve-and-issue half of the Collection contract
// for a declared field list. Concrete collections embed one, delegate
// StartLoad to Start, and read their handles back by field index in Finish.
type FieldSet struct {
	fields  []Field
	handles []Handle // parallel to fields; valid when started[i]
	started []bool
}

func NewFieldSet(fields ...Field) *FieldSet {
	return &FieldSet{
		fields:  fields,
		handles: make([]Handle, len(fields)),
		started: make([]bool, len(fields)),
	}
}

// Start resolves every field and issues its load, returning the issued
// handles in field order. Skipped optional fields leave a gap in the index
// mapping but not in the returned slice. Resolution runs before any load is
// issued: a missing non-optional key aborts the whole call with zero handles
// started.
func (f *FieldSet) Start(keys *DynamicKeys, engine Engine) ([]Handle, error) {
	paths := make([]string, len(f.fields))
	include := make([]bool, len(f.fields))
	for i, field := range f.fields {
		path := field.Path
		if field.Key != "" {
			resolved, err := keys.Get(field.Key)
			if err != nil {
				if field.Optional {
					continue
				}
				return nil, err
			}
			path = resolved
		}
		paths[i] = path
		include[i] = true
	}
	issued := make([]Handle, 0, len(f.fields))
	for i := range f.started {
		f.started[i] = false
	}
	for i := range f.fields {
		if !include[i] {
			continue
		}
		h, err := engine.IssueLoad(paths[i])
		if err != nil {
			return nil, fmt.Errorf("issue load %s: %w", paths[i], err)
		}
		f.handles[i] = h
		f.started[i] = true
		issued = append(issued, h)
	}
	return issued, nil
}

// Handle returns the handle issued for field i, or false when the field was
// skipped (optional, key unset) or Start has not run.
func (f *FieldSet) Handle(i int) (Handle, bool) {
	if i < 0 || i >= len(f.fields) || !f.started[i] {
		return 0, false
	}
	return f.handles[i], true
}

// Len returns the number of declared fields, including skipped ones.
func (f *FieldSet) Len() int {
	return len(f.fields)
}
