package device

import (
	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/ncdevice/netconf/ops"
	"github.com/damianoneill/ncdevice/netconf/ops/thirdparty/junos"
)

// Junos is the handler for Juniper Junos devices.
type Junos struct {
	base *Default
}

func newJunos(p Params) (Handler, error) {
	if p.Profile != "" {
		return nil, common.ConfigurationErrorf("device %s: unknown profile %q", JunosName, p.Profile)
	}
	base, err := NewDefault(Params{Name: JunosName, Namespaces: p.Namespaces})
	if err != nil {
		return nil, err
	}
	return &Junos{base: base}, nil
}

func (h *Junos) Name() string {
	return h.base.Name()
}

func (h *Junos) Capabilities() []string {
	return h.base.capabilities(junos.CapJunos, junos.CapDMISystem)
}

func (h *Junos) NamespaceContext() common.NamespaceMap {
	return h.base.namespaceContext(map[string]string{"junos": junos.JunosNS})
}

func (h *Junos) SerializationOptions() common.SerializationOptions {
	return common.SerializationOptions{Namespaces: h.NamespaceContext()}
}

func (h *Junos) AdditionalOperations() map[string]ops.Factory {
	return junos.Operations()
}

func (h *Junos) QualifyCheck() bool {
	return h.base.QualifyCheck()
}
