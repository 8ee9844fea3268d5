// Package registry maps model family names to their configuration
// descriptors. A Registry is built once and is read-only afterwards, so it can
// be shared between goroutines without locking.
package registry

import (
	"fmt"
	"sort"

	"modelcfg/internal/errs"
	"modelcfg/internal/modelconfig"
)

// Registry is an immutable set of model family descriptors.
type Registry struct {
	byName    map[string]modelconfig.Descriptor
	byModelID map[string]string
	names     []string
}

// New validates descs and builds a registry from them. Duplicate family names
// and model ids claimed by two families are rejected.
func New(descs ...modelconfig.Descriptor) (*Registry, error) {
	r := &Registry{
		byName:    make(map[string]modelconfig.Descriptor, len(descs)),
		byModelID: make(map[string]string),
	}
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, errs.Validation("name", "duplicate model family %q", d.Name)
		}
		for _, id := range d.ModelIDs {
			if owner, taken := r.byModelID[id]; taken {
				return nil, errs.Validation("model_ids", "model id %q is listed by both %q and %q", id, owner, d.Name)
			}
			r.byModelID[id] = d.Name
		}
		r.byName[d.Name] = d.Clone()
		r.names = append(r.names, d.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Builtin returns a registry holding only the built-in families.
func Builtin() *Registry {
	r, err := New(modelconfig.Builtin()...)
	if err != nil {
		panic(fmt.Sprintf("registry: invalid built-in descriptor: %v", err))
	}
	return r
}

// WithDir returns a registry holding the built-in families plus every
// descriptor found in dir. An empty dir yields the built-ins alone.
func WithDir(dir string) (*Registry, error) {
	descs := modelconfig.Builtin()
	if dir != "" {
		loaded, err := LoadDir(dir)
		if err != nil {
			return nil, err
		}
		descs = append(descs, loaded...)
	}
	return New(descs...)
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (modelconfig.Descriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return modelconfig.Descriptor{}, errs.NotFound("model family", name)
	}
	return d.Clone(), nil
}

// Names returns the registered family names, sorted.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// List returns copies of every descriptor, sorted by name.
func (r *Registry) List() []modelconfig.Descriptor {
	out := make([]modelconfig.Descriptor, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.byName[n].Clone())
	}
	return out
}

// Len returns the number of families.
func (r *Registry) Len() int { return len(r.names) }

// FamilyForModelID returns the family that lists id among its model ids.
func (r *Registry) FamilyForModelID(id string) (string, bool) {
	name, ok := r.byModelID[id]
	return name, ok
}
