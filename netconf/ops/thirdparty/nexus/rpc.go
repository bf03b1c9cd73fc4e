// Package nexus defines the netconf operations specific to Cisco Nexus (NX-OS) devices.
package nexus

import (
	"github.com/beevik/etree"
	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/ncdevice/netconf/ops"
)

// OpExecCommand executes cli commands on the device, returning their output as xml.
const OpExecCommand = "exec_command"

// ArgCommands holds the cli commands to be executed.
const ArgCommands = "cmds"

// NX-OS namespaces.
const (
	NXOSNS       = "http://www.cisco.com/nxos:1.0"
	IfManagerNS  = "http://www.cisco.com/nxos:1.0:if_manager"
	NfcliNS      = "http://www.cisco.com/nxos:1.0:nfcli"
	VlanMgrCliNS = "http://www.cisco.com/nxos:1.0:vlan_mgr_cli"
)

// Capabilities advertised by NX-OS clients in addition to the standard set.
const (
	CapBaseNS    = "urn:ietf:params:xml:ns:netconf:base:1.0"
	CapStartupNS = "urn:ietf:params:xml:ns:netconf:capability:startup:1.0"
)

// Operations delivers the NX-OS operations, keyed by name.
func Operations() map[string]ops.Factory {
	return map[string]ops.Factory{
		OpExecCommand: NewExecCommand,
	}
}

// NewExecCommand returns an operation executing a sequence of cli commands.
func NewExecCommand(rpc *ops.RPC) ops.Operation {
	return ops.OperationFunc(func(args ops.Args) (*etree.Element, error) {
		if err := args.Expect(ArgCommands); err != nil {
			return nil, err
		}
		cmds, err := args.Strings(ArgCommands)
		if err != nil {
			return nil, err
		}
		if len(cmds) == 0 {
			return nil, common.InvalidArgumentf("parameter %s is required", ArgCommands)
		}
		root := rpc.Builder().Root("nxos:exec-command")
		for _, cmd := range cmds {
			root.CreateElement("nxos:cmd").SetText(cmd)
		}
		return rpc.Builder().Finish(root)
	})
}
