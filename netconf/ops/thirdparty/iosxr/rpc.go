// Package iosxr defines the netconf operations specific to Cisco IOS-XR devices.
package iosxr

import (
	"github.com/beevik/etree"
	"github.com/damianoneill/ncdevice/netconf/ops"
)

// OpGetConfigConfiguration retrieves the configuration held by a datastore, or at a url.
const OpGetConfigConfiguration = "get_config_configuration"

// IfmgrCfgNS is the namespace of the IOS-XR interface manager configuration model.
const IfmgrCfgNS = "http://cisco.com/ns/yang/Cisco-IOS-XR-ifmgr-cfg"

// Operations delivers the IOS-XR operations, keyed by name.
func Operations() map[string]ops.Factory {
	return map[string]ops.Factory{
		OpGetConfigConfiguration: NewGetConfigConfiguration,
	}
}

// NewGetConfigConfiguration returns an operation building a get-config request for the
// "source" parameter, which identifies either a datastore or a url.
func NewGetConfigConfiguration(rpc *ops.RPC) ops.Operation {
	return ops.OperationFunc(func(args ops.Args) (*etree.Element, error) {
		if err := args.Expect(ops.ArgSource); err != nil {
			return nil, err
		}
		source, err := args.Source(ops.ArgSource)
		if err != nil {
			return nil, err
		}
		node, err := rpc.DatastoreOrURL("source", source)
		if err != nil {
			return nil, err
		}
		root := rpc.Builder().Root("get-config")
		root.AddChild(node)
		return rpc.Builder().Finish(root)
	})
}
