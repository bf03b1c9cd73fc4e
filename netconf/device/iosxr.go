package device

import (
	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/ncdevice/netconf/ops"
	"github.com/damianoneill/ncdevice/netconf/ops/thirdparty/iosxr"
)

// IOS-XR profiles.
const (
	IOSXRMinimal  = "minimal"
	IOSXRExtended = "extended"
)

type iosxrProfile struct {
	namespaces map[string]string
	operations map[string]ops.Factory
}

const ciscoYang = "http://cisco.com/ns/yang/Cisco-IOS-XR-"

var iosxrProfiles = map[string]iosxrProfile{
	IOSXRMinimal: {
		namespaces: map[string]string{"if": iosxr.IfmgrCfgNS},
		operations: iosxr.Operations(),
	},
	IOSXRExtended: {
		namespaces: ciscoModels(
			"aaa-lib-cfg",
			"clns-isis-cfg",
			"crypto-ssh-cfg",
			"drivers-media-eth-cfg",
			"ifmgr-cfg",
			"ifmgr-oper",
			"infra-rsi-cfg",
			"infra-syslog-cfg",
			"ipv4-bgp-cfg",
			"ipv4-bgp-oper",
			"ipv4-io-cfg",
			"ipv4-ospf-cfg",
			"ipv6-ma-cfg",
			"l2vpn-cfg",
			"man-netconf-cfg",
			"mpls-ldp-cfg",
			"pfi-im-cmd-oper",
			"qos-ma-cfg",
			"shellutil-cfg",
			"snmp-agent-cfg",
		),
	},
}

func ciscoModels(models ...string) map[string]string {
	m := make(map[string]string, len(models))
	for _, model := range models {
		m[model] = ciscoYang + model
	}
	return m
}

// IOSXR is the handler for Cisco IOS-XR devices.
type IOSXR struct {
	base    *Default
	profile iosxrProfile
}

func newIOSXR(p Params) (Handler, error) {
	return NewIOSXR(p)
}

// NewIOSXR returns the IOS-XR handler for the profile named in p; the minimal profile is used by default.
func NewIOSXR(p Params) (*IOSXR, error) {
	name := p.Profile
	if name == "" {
		name = IOSXRMinimal
	}
	profile, ok := iosxrProfiles[name]
	if !ok {
		return nil, common.ConfigurationErrorf("device %s: unknown profile %q", IOSXRName, p.Profile)
	}
	base, err := NewDefault(Params{Name: IOSXRName, Namespaces: p.Namespaces})
	if err != nil {
		return nil, err
	}
	return &IOSXR{base: base, profile: profile}, nil
}

func (h *IOSXR) Name() string {
	return h.base.Name()
}

// Capabilities delivers the default capabilities with base:1.1 appended.
func (h *IOSXR) Capabilities() []string {
	return h.base.capabilities(common.CapBase11)
}

func (h *IOSXR) NamespaceContext() common.NamespaceMap {
	return h.base.namespaceContext(h.profile.namespaces)
}

func (h *IOSXR) SerializationOptions() common.SerializationOptions {
	return common.SerializationOptions{Namespaces: h.NamespaceContext()}
}

func (h *IOSXR) AdditionalOperations() map[string]ops.Factory {
	return copyOperations(h.profile.operations)
}

func (h *IOSXR) QualifyCheck() bool {
	return false
}
