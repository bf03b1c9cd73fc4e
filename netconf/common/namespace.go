package common

import (
	"sort"
)

// DefaultPrefix is the key of the default (unprefixed) namespace in a NamespaceMap.
const DefaultPrefix = ""

// NamespaceMap maps xml namespace prefixes to namespace URIs.
// The entry keyed by DefaultPrefix holds the base namespace.
type NamespaceMap map[string]string

// NewNamespaceMap builds a NamespaceMap from the vendor entries, then sets the base namespace
// against the default prefix, so the base entry is present even if vendor defines the default prefix.
func NewNamespaceMap(base string, vendor map[string]string) NamespaceMap {
	m := make(NamespaceMap, len(vendor)+1)
	for prefix, uri := range vendor {
		m[prefix] = uri
	}
	m[DefaultPrefix] = base
	return m
}

// Base returns the namespace bound to the default prefix.
func (m NamespaceMap) Base() string {
	return m[DefaultPrefix]
}

// Lookup returns the namespace bound to prefix.
func (m NamespaceMap) Lookup(prefix string) (uri string, ok bool) {
	uri, ok = m[prefix]
	return
}

// Prefixes returns the prefixes of the map in a stable order, the default prefix first.
func (m NamespaceMap) Prefixes() []string {
	prefixes := make([]string, 0, len(m))
	for p := range m {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}

// Copy returns an independent copy of the map.
func (m NamespaceMap) Copy() NamespaceMap {
	c := make(NamespaceMap, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// SerializationOptions defines the options applied when building the elements of a request.
type SerializationOptions struct {
	// Namespaces declares the namespaces (and prefixes) used for element construction.
	Namespaces NamespaceMap
}
