package device

import (
	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/ncdevice/netconf/ops"
	"github.com/damianoneill/ncdevice/netconf/ops/thirdparty/nexus"
)

// Nexus is the handler for Cisco Nexus (NX-OS) devices.
type Nexus struct {
	base *Default
}

func newNexus(p Params) (Handler, error) {
	if p.Profile != "" {
		return nil, common.ConfigurationErrorf("device %s: unknown profile %q", NexusName, p.Profile)
	}
	base, err := NewDefault(Params{Name: NexusName, Namespaces: p.Namespaces})
	if err != nil {
		return nil, err
	}
	return &Nexus{base: base}, nil
}

func (h *Nexus) Name() string {
	return h.base.Name()
}

func (h *Nexus) Capabilities() []string {
	return h.base.capabilities(nexus.CapBaseNS, nexus.CapStartupNS)
}

func (h *Nexus) NamespaceContext() common.NamespaceMap {
	return h.base.namespaceContext(map[string]string{
		"nxos":         nexus.NXOSNS,
		"if":           nexus.IfManagerNS,
		"nfcli":        nexus.NfcliNS,
		"vlan_mgr_cli": nexus.VlanMgrCliNS,
	})
}

func (h *Nexus) SerializationOptions() common.SerializationOptions {
	return common.SerializationOptions{Namespaces: h.NamespaceContext()}
}

func (h *Nexus) AdditionalOperations() map[string]ops.Factory {
	return nexus.Operations()
}

func (h *Nexus) QualifyCheck() bool {
	return false
}
