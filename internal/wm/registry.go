package wm

// Entry is one open application.
type Entry struct {
	ID          string
	Window      Window
	Button      TaskbarButton
	Initialized bool

	loading bool
	gen     uint64
}

// Registry is the ordered set of open applications. It is not safe for
// concurrent use.
type Registry struct {
	order   []string
	entries map[string]*Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Get returns the entry for id.
func (r *Registry) Get(id string) (*Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// Set inserts or replaces the entry for id. Entries without both handles
// are ignored. A replaced entry keeps its original position.
func (r *Registry) Set(id string, e *Entry) {
	if e == nil || e.Window == nil || e.Button == nil {
		return
	}
	if _, ok := r.entries[id]; !ok {
		r.order = append(r.order, id)
	}
	r.entries[id] = e
}

// Delete removes the entry for id. Deleting a missing id is a no-op.
func (r *Registry) Delete(id string) {
	if _, ok := r.entries[id]; !ok {
		return
	}
	delete(r.entries, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Each visits entries in insertion order. The order is fixed when Each is
// called, so visit may delete entries.
func (r *Registry) Each(visit func(e *Entry)) {
	ids := r.IDs()
	for _, id := range ids {
		if e, ok := r.entries[id]; ok {
			visit(e)
		}
	}
}

// IDs returns the open application identifiers in insertion order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of open applications.
func (r *Registry) Len() int {
	return len(r.entries)
}
