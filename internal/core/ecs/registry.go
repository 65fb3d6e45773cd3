package ecs

import "fmt"

// Removable is a component store the Registry can purge on destroy.
type Removable interface {
	Has(id EntityID) bool
	Remove(id EntityID)
}

// Registry holds the named stores an entity's records may live in. Names are
// unique; they only serve diagnostics.
type Registry struct {
	names  []string
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds store under name. Registering a name twice is a wiring bug
// and panics.
func (r *Registry) Register(name string, store Removable) {
	for _, n := range r.names {
		if n == name {
			panic(fmt.Sprintf("ecs: store %q registered twice", name))
		}
	}
	r.names = append(r.names, name)
	r.stores = append(r.stores, store)
}

// Names lists the registered stores in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// RemoveAll drops id from every store and returns how many records it held.
func (r *Registry) RemoveAll(id EntityID) int {
	n := 0
	for _, s := range r.stores {
		if s.Has(id) {
			s.Remove(id)
			n++
		}
	}
	return n
}
