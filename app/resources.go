package app

// Resources is the name-keyed store finished collections and initializer
// outputs are published into. Publishing an existing name replaces its
// value. Single-goroutine access from the tick loop, no locks.
type Resources struct {
	values map[string]any
}

func NewResources() *Resources {
	return &Resources{values: make(map[string]any, 16)}
}

func (r *Resources) Publish(name string, value any) {
	r.values[name] = value
}

func (r *Resources) Lookup(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r *Resources) Remove(name string) {
	delete(r.values, name)
}

func (r *Resources) Len() int {
	return len(r.values)
}

// Res returns the resource under name typed as T. False when the name is
// absent or holds a different type.
func Res[T any](r *Resources, name string) (T, bool) {
	var zero T
	v, ok := r.values[name]
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
