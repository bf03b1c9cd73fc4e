package ops

import (
	"sort"

	"github.com/damianoneill/ncdevice/netconf/common"
)

// Registry maps operation names to the factories that instantiate them.
// A Registry is immutable once created, and may be read concurrently.
type Registry struct {
	factories map[string]Factory
}

// Extender is implemented by dialects that contribute operations beyond the standard set.
type Extender interface {
	// AdditionalOperations delivers the operations to be merged over the standard set.
	AdditionalOperations() map[string]Factory
}

// BaseRegistry delivers a registry holding the standard netconf operations.
func BaseRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory, len(standardOperations))}
	for name, f := range standardOperations {
		r.factories[name] = f
	}
	return r
}

// EffectiveRegistry delivers the standard operations merged with those contributed by ext.
// An operation contributed by ext replaces a standard operation of the same name.
func EffectiveRegistry(ext Extender) (*Registry, error) {
	base := BaseRegistry()
	if ext == nil {
		return base, nil
	}
	return base.Merge(ext.AdditionalOperations())
}

// Merge delivers a new registry holding the entries of r overlaid with extra.
func (r *Registry) Merge(extra map[string]Factory) (*Registry, error) {
	merged := &Registry{factories: make(map[string]Factory, len(r.factories)+len(extra))}
	for name, f := range r.factories {
		merged.factories[name] = f
	}
	for name, f := range extra {
		if name == "" {
			return nil, common.ConfigurationErrorf("operation with empty name")
		}
		if f == nil {
			return nil, common.ConfigurationErrorf("operation %s has no factory", name)
		}
		merged.factories[name] = f
	}
	return merged, nil
}

// Resolve delivers the factory registered for name; the match is exact and case sensitive.
func (r *Registry) Resolve(name string) (Factory, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, common.UnsupportedOperationf("operation %s", name)
	}
	return f, nil
}

// Names delivers the registered operation names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len delivers the number of registered operations.
func (r *Registry) Len() int {
	return len(r.factories)
}
