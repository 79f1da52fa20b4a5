// Package registry maps Go types to the names under which the tool surface
// exposes them, both for plain types and for generic instantiations keyed by
// a name and an ordered type pack.
package registry

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// TypeError reports a failed lookup.
type TypeError struct {
	msg string
}

func (e *TypeError) Error() string { return e.msg }

// Registry is safe for concurrent use. Exposure is the only mutation.
type Registry struct {
	mu      sync.RWMutex
	types   map[reflect.Type]string
	names   map[string]reflect.Type
	generic map[string]reflect.Type
}

func New() *Registry {
	return &Registry{
		types:   map[reflect.Type]string{},
		names:   map[string]reflect.Type{},
		generic: map[string]reflect.Type{},
	}
}

// Expose registers t under name. A type or a name can only be exposed once.
func (r *Registry) Expose(t reflect.Type, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.types[t]; ok {
		return fmt.Errorf("the type '%s' has already been exposed as '%s'", t, old)
	}
	if _, ok := r.names[name]; ok {
		return fmt.Errorf("the name '%s' is already in use", name)
	}
	r.types[t] = name
	r.names[name] = t
	return nil
}

// Lookup returns the name t was exposed under.
func (r *Registry) Lookup(t reflect.Type) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.types[t]
	if !ok {
		return "", &TypeError{msg: fmt.Sprintf("the type '%s' has not been exposed", t)}
	}
	return name, nil
}

// LookupName returns the type exposed under name.
func (r *Registry) LookupName(name string) (reflect.Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.names[name]
	if !ok {
		return nil, &TypeError{msg: fmt.Sprintf("no type has been exposed under the name '%s'", name)}
	}
	return t, nil
}

// ExposeGeneric registers t as the instantiation of the generic getter name
// for the type pack.
func (r *Registry) ExposeGeneric(name string, pack []reflect.Type, t reflect.Type) error {
	key := genericKey(name, pack)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.generic[key]; ok {
		return fmt.Errorf("the generic type getter '%s' has already been instantiated with the type pack %s", name, packString(pack))
	}
	r.generic[key] = t
	return nil
}

// LookupGeneric returns the instantiation of name for pack.
func (r *Registry) LookupGeneric(name string, pack []reflect.Type) (reflect.Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.generic[genericKey(name, pack)]
	if !ok {
		return nil, &TypeError{msg: fmt.Sprintf("the generic type getter '%s' has not been instantiated with the type pack %s", name, packString(pack))}
	}
	return t, nil
}

// Names returns every exposed name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.names))
	for n := range r.names {
		out = append(out, n)
	}
	return out
}

func genericKey(name string, pack []reflect.Type) string {
	return name + "\x00" + packString(pack)
}

func packString(pack []reflect.Type) string {
	parts := make([]string, len(pack))
	for i, t := range pack {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
