// Package device defines the device handlers that adapt a netconf session to the dialect of a
// particular vendor implementation.
package device

import (
	"regexp"
	"sort"
	"strings"

	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/ncdevice/netconf/ops"
)

// Handler defines the device specific behaviour of a netconf session.
// A Handler holds only the configuration it was created with; its methods may be called
// repeatedly, and concurrently.
type Handler interface {
	// Name delivers the device type identifier of the handler.
	Name() string

	// Capabilities delivers the capabilities the client advertises in its hello message.
	Capabilities() []string

	// NamespaceContext delivers the namespace prefix map used when building requests.
	NamespaceContext() common.NamespaceMap

	// SerializationOptions delivers the options used when constructing request elements.
	SerializationOptions() common.SerializationOptions

	// AdditionalOperations delivers the operations the device supports beyond the standard set.
	AdditionalOperations() map[string]ops.Factory

	// QualifyCheck reports whether messages must be fully namespace qualified.
	QualifyCheck() bool
}

// Params defines the configuration of a device handler.
type Params struct {
	// Name is the device type identifier, e.g. "default", "iosxr", "junos", "nexus".
	Name string `yaml:"name"`
	// Profile selects a variant of the device dialect, where the device supports more than one.
	Profile string `yaml:"profile,omitempty"`
	// Namespaces defines additional namespace prefixes to be declared on requests.
	Namespaces map[string]string `yaml:"namespaces,omitempty"`
}

// Device type identifiers.
const (
	DefaultName = "default"
	IOSXRName   = "iosxr"
	JunosName   = "junos"
	NexusName   = "nexus"
)

var constructors = map[string]func(Params) (Handler, error){
	DefaultName: func(p Params) (Handler, error) { return NewDefault(p) },
	IOSXRName:   newIOSXR,
	JunosName:   newJunos,
	NexusName:   newNexus,
}

// New returns the handler identified by p.Name; the match is case insensitive.
func New(p Params) (Handler, error) {
	name := strings.ToLower(strings.TrimSpace(p.Name))
	if name == "" {
		return nil, common.ConfigurationErrorf("device name not defined")
	}
	ctor, ok := constructors[name]
	if !ok {
		return nil, common.ConfigurationErrorf("unknown device %q", p.Name)
	}
	p.Name = name
	return ctor(p)
}

// Names delivers the supported device type identifiers, in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var prefixPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9._-]*$`)

func validateNamespaces(device string, ns map[string]string) error {
	for prefix, uri := range ns {
		switch {
		case prefix == common.DefaultPrefix:
			return common.ConfigurationErrorf("device %s: default prefix is reserved for the base namespace", device)
		case !prefixPattern.MatchString(prefix) || strings.HasPrefix(strings.ToLower(prefix), "xml"):
			return common.ConfigurationErrorf("device %s: invalid namespace prefix %q", device, prefix)
		case uri == "":
			return common.ConfigurationErrorf("device %s: namespace prefix %q has no uri", device, prefix)
		}
	}
	return nil
}
