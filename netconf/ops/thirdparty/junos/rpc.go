// Package junos defines the netconf operations specific to Juniper Junos devices.
package junos

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/ncdevice/netconf/ops"
)

const (
	OpCommand          = "command"
	OpGetConfiguration = "get_configuration"
)

// Parameter names.
const (
	ArgCommand         = "command"
	ArgFormat          = "format"
	ArgFilter          = "filter"
	ArgCompareRollback = "compare_rollback"
)

const (
	JunosNS      = "http://xml.juniper.net/junos/*/junos"
	CapJunos     = "http://xml.juniper.net/netconf/junos/1.0"
	CapDMISystem = "http://xml.juniper.net/dmi/system/1.0"
)

var formats = map[string]bool{"xml": true, "text": true, "set": true, "json": true}

// Operations delivers the Junos operations, keyed by name.
func Operations() map[string]ops.Factory {
	return map[string]ops.Factory{
		OpCommand:          NewCommand,
		OpGetConfiguration: NewGetConfiguration,
	}
}

// NewCommand returns an operation executing a cli command, with output in the requested format (xml by default).
func NewCommand(rpc *ops.RPC) ops.Operation {
	return ops.OperationFunc(func(args ops.Args) (*etree.Element, error) {
		if err := args.Expect(ArgCommand, ArgFormat); err != nil {
			return nil, err
		}
		cmd, err := args.RequiredString(ArgCommand)
		if err != nil {
			return nil, err
		}
		format, err := outputFormat(args)
		if err != nil {
			return nil, err
		}
		root := rpc.Builder().Root("command")
		root.CreateAttr("format", format)
		root.SetText(cmd)
		return rpc.Builder().Finish(root)
	})
}

// NewGetConfiguration returns an operation retrieving the committed configuration, optionally filtered, or
// compared against a rollback revision.
func NewGetConfiguration(rpc *ops.RPC) ops.Operation {
	return ops.OperationFunc(func(args ops.Args) (*etree.Element, error) {
		if err := args.Expect(ArgFormat, ArgFilter, ArgCompareRollback); err != nil {
			return nil, err
		}
		format, err := outputFormat(args)
		if err != nil {
			return nil, err
		}
		root := rpc.Builder().Root("get-configuration")
		root.CreateAttr("format", format)
		if args.Has(ArgCompareRollback) {
			rev, err := args.Uint(ArgCompareRollback)
			if err != nil {
				return nil, err
			}
			if rev > 49 {
				return nil, common.InvalidArgumentf("rollback revision %d out of range", rev)
			}
			root.CreateAttr("compare", "rollback")
			root.CreateAttr("rollback", strconv.FormatUint(rev, 10))
		}
		if args.Has(ArgFilter) {
			elements, err := args.Elements(ArgFilter)
			if err != nil {
				return nil, err
			}
			for _, e := range elements {
				root.AddChild(e)
			}
		}
		return rpc.Builder().Finish(root)
	})
}

func outputFormat(args ops.Args) (string, error) {
	f, err := args.String(ArgFormat)
	if err != nil {
		return "", err
	}
	if f == "" {
		return "xml", nil
	}
	if !formats[f] {
		return "", common.InvalidArgumentf("unsupported format %q", f)
	}
	return f, nil
}
