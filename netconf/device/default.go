package device

import (
	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/ncdevice/netconf/ops"
)

// Default is the handler for devices that implement the netconf standards without vendor specifics.
// Vendor handlers delegate to a Default for the behaviour they extend.
type Default struct {
	name  string
	extra map[string]string
}

// NewDefault returns the default handler; p.Namespaces defines any additional prefixes to be declared.
func NewDefault(p Params) (*Default, error) {
	name := p.Name
	if name == "" {
		name = DefaultName
	}
	if name == DefaultName && p.Profile != "" {
		return nil, common.ConfigurationErrorf("device %s: unknown profile %q", name, p.Profile)
	}
	if err := validateNamespaces(name, p.Namespaces); err != nil {
		return nil, err
	}
	extra := make(map[string]string, len(p.Namespaces))
	for k, v := range p.Namespaces {
		extra[k] = v
	}
	return &Default{name: name, extra: extra}, nil
}

func (d *Default) Name() string {
	return d.name
}

// Capabilities delivers a copy of the standard netconf 1.0 capability set.
func (d *Default) Capabilities() []string {
	caps := make([]string, len(common.DefaultCapabilities))
	copy(caps, common.DefaultCapabilities)
	return caps
}

// capabilities appends the vendor capabilities to the default set, skipping any already present.
func (d *Default) capabilities(vendor ...string) []string {
	caps := d.Capabilities()
	for _, c := range vendor {
		if !contains(caps, c) {
			caps = append(caps, c)
		}
	}
	return caps
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func (d *Default) NamespaceContext() common.NamespaceMap {
	return d.namespaceContext(nil)
}

func (d *Default) SerializationOptions() common.SerializationOptions {
	return common.SerializationOptions{Namespaces: d.NamespaceContext()}
}

func (d *Default) AdditionalOperations() map[string]ops.Factory {
	return map[string]ops.Factory{}
}

func (d *Default) QualifyCheck() bool {
	return true
}

// namespaceContext builds the namespace map from the vendor entries, the configured entries and
// finally the base entry.
func (d *Default) namespaceContext(vendor map[string]string) common.NamespaceMap {
	entries := make(map[string]string, len(vendor)+len(d.extra))
	for k, v := range vendor {
		entries[k] = v
	}
	for k, v := range d.extra {
		entries[k] = v
	}
	return common.NewNamespaceMap(common.NetconfNS, entries)
}

func copyOperations(src map[string]ops.Factory) map[string]ops.Factory {
	dst := make(map[string]ops.Factory, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
