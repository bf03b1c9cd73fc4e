package ops

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncdevice/netconf/common"
)

// Args holds the named parameters of one operation invocation.
// Values may be supplied in their typed form, or as strings (e.g. from a command line).
type Args map[string]interface{}

// Expect checks that args holds no parameter other than those named.
func (a Args) Expect(names ...string) error {
	var unexpected []string
	for k := range a {
		found := false
		for _, n := range names {
			if k == n {
				found = true
				break
			}
		}
		if !found {
			unexpected = append(unexpected, k)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return common.InvalidArgumentf("unexpected parameters %s", strings.Join(unexpected, ","))
	}
	return nil
}

// Has reports whether the parameter is present.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String delivers an optional string parameter.
func (a Args) String(key string) (string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", nil
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	}
	return "", common.InvalidArgumentf("parameter %s: expected string, got %T", key, v)
}

// RequiredString delivers a string parameter that must be present and non-empty.
func (a Args) RequiredString(key string) (string, error) {
	s, err := a.String(key)
	if err == nil && s == "" {
		err = common.InvalidArgumentf("parameter %s is required", key)
	}
	return s, err
}

// Strings delivers an optional list parameter; a single string is treated as a list of one.
func (a Args) Strings(key string) ([]string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch s := v.(type) {
	case []string:
		return s, nil
	case string:
		return []string{s}, nil
	}
	return nil, common.InvalidArgumentf("parameter %s: expected string list, got %T", key, v)
}

// Bool delivers an optional boolean parameter.
func (a Args) Bool(key string) (bool, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return false, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, common.InvalidArgumentf("parameter %s: %q is not a boolean", key, b)
		}
		return parsed, nil
	}
	return false, common.InvalidArgumentf("parameter %s: expected bool, got %T", key, v)
}

// Uint delivers an unsigned integer parameter that must be present.
func (a Args) Uint(key string) (uint64, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return 0, common.InvalidArgumentf("parameter %s is required", key)
	}
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint32:
		return uint64(n), nil
	case uint:
		return uint64(n), nil
	case int:
		if n >= 0 {
			return uint64(n), nil
		}
	case int64:
		if n >= 0 {
			return uint64(n), nil
		}
	case string:
		if parsed, err := strconv.ParseUint(n, 10, 64); err == nil {
			return parsed, nil
		}
	}
	return 0, common.InvalidArgumentf("parameter %s: %v is not an unsigned integer", key, v)
}

// Elements delivers an xml content parameter that must be present, supplied either as an xml
// fragment string or as elements. Supplied elements are copied, leaving the caller's tree untouched.
func (a Args) Elements(key string) ([]*etree.Element, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, common.InvalidArgumentf("parameter %s is required", key)
	}
	switch c := v.(type) {
	case string:
		return Subtree(c)
	case *etree.Element:
		if c == nil {
			return nil, common.InvalidArgumentf("parameter %s is required", key)
		}
		return []*etree.Element{c.Copy()}, nil
	case []*etree.Element:
		if len(c) == 0 {
			return nil, common.InvalidArgumentf("parameter %s holds no elements", key)
		}
		copies := make([]*etree.Element, len(c))
		for i, e := range c {
			if e == nil {
				return nil, common.InvalidArgumentf("parameter %s: element %d is nil", key, i)
			}
			copies[i] = e.Copy()
		}
		return copies, nil
	}
	return nil, common.InvalidArgumentf("parameter %s: expected xml content, got %T", key, v)
}

// Source delivers a datastore-or-url parameter that must be present.
// A string value is interpreted with ParseSource.
func (a Args) Source(key string) (Source, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return Source{}, common.InvalidArgumentf("parameter %s is required", key)
	}
	switch s := v.(type) {
	case Source:
		return s, nil
	case *Source:
		if s == nil {
			return Source{}, common.InvalidArgumentf("parameter %s is required", key)
		}
		return *s, nil
	case string:
		return ParseSource(s), nil
	}
	return Source{}, common.InvalidArgumentf("parameter %s: expected datastore or url, got %T", key, v)
}

// Source identifies either a named configuration datastore, or a URL.
// Exactly one of the fields must be set.
type Source struct {
	Datastore string
	URL       string
}

// Datastore returns a Source identifying the named datastore.
func Datastore(name string) Source {
	return Source{Datastore: name}
}

// URL returns a Source identifying the configuration at url.
func URL(url string) Source {
	return Source{URL: url}
}

// ParseSource interprets loc as a URL if it holds a scheme separator, and as a datastore name otherwise.
func ParseSource(loc string) Source {
	if strings.Contains(loc, "://") {
		return URL(loc)
	}
	return Datastore(loc)
}

func (s Source) String() string {
	if s.URL != "" {
		return s.URL
	}
	return s.Datastore
}

var datastoreName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// validate checks that exactly one of the datastore and url is defined.
func (s Source) validate() error {
	switch {
	case s.Datastore != "" && s.URL != "":
		return common.InvalidArgumentf("both datastore %q and url %q specified", s.Datastore, s.URL)
	case s.Datastore == "" && s.URL == "":
		return common.InvalidArgumentf("neither datastore nor url specified")
	case s.Datastore != "" && !datastoreName.MatchString(s.Datastore):
		return common.InvalidArgumentf("invalid datastore name %q", s.Datastore)
	}
	return nil
}

// DatastoreOrURL builds the wha element (e.g. source or target) holding the datastore or url identified
// by src. A url requires the server to support the :url capability.
func (r *RPC) DatastoreOrURL(wha string, src Source) (*etree.Element, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}
	node := etree.NewElement(wha)
	if src.URL != "" {
		if err := r.Assert(":url"); err != nil {
			return nil, err
		}
		node.CreateElement("url").SetText(src.URL)
	} else {
		node.CreateElement(src.Datastore)
	}
	return node, nil
}

// Datastore builds the wha element holding the datastore identified by src; a url is rejected.
func (r *RPC) Datastore(wha string, src Source) (*etree.Element, error) {
	if src.URL != "" {
		return nil, common.InvalidArgumentf("%s must be a datastore, not url %q", wha, src.URL)
	}
	return r.DatastoreOrURL(wha, src)
}
