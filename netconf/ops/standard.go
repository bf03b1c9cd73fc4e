package ops

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncdevice/netconf/common"
)

var standardOperations = map[string]Factory{
	OpGet:            newGet,
	OpGetConfig:      newGetConfig,
	OpEditConfig:     newEditConfig,
	OpCopyConfig:     newCopyConfig,
	OpDeleteConfig:   newDeleteConfig,
	OpLock:           newLock,
	OpUnlock:         newUnlock,
	OpValidate:       newValidate,
	OpCommit:         newCommit,
	OpDiscardChanges: newDiscardChanges,
	OpCloseSession:   newCloseSession,
	OpKillSession:    newKillSession,
	OpGetSchema:      newGetSchema,
}

var (
	defaultOperations = []string{MergeOp, ReplaceOp, NoneOp}
	testOptions       = []string{TestThenSetOpt, SetOpt, TestOnlyOpt}
	errorOptions      = []string{StopOnErrorErrOpt, ContinueOnErrorErrOpt, RollbackOnErrorErrOpt}
)

func newGet(rpc *RPC) Operation {
	return OperationFunc(func(args Args) (*etree.Element, error) {
		if err := args.Expect(ArgFilter, ArgXPath); err != nil {
			return nil, err
		}
		root := rpc.Builder().Root("get")
		if err := rpc.addFilter(root, args); err != nil {
			return nil, err
		}
		return rpc.Builder().Finish(root)
	})
}

func newGetConfig(rpc *RPC) Operation {
	return OperationFunc(func(args Args) (*etree.Element, error) {
		if err := args.Expect(ArgSource, ArgFilter, ArgXPath); err != nil {
			return nil, err
		}
		source, err := args.Source(ArgSource)
		if err != nil {
			return nil, err
		}
		node, err := rpc.DatastoreOrURL("source", source)
		if err != nil {
			return nil, err
		}
		root := rpc.Builder().Root("get-config")
		root.AddChild(node)
		if err := rpc.addFilter(root, args); err != nil {
			return nil, err
		}
		return rpc.Builder().Finish(root)
	})
}

func newEditConfig(rpc *RPC) Operation {
	return OperationFunc(func(args Args) (*etree.Element, error) {
		err := args.Expect(ArgTarget, ArgConfig, ArgURL, ArgDefaultOperation, ArgTestOption, ArgErrorOption)
		if err != nil {
			return nil, err
		}
		target, err := args.Source(ArgTarget)
		if err != nil {
			return nil, err
		}
		node, err := rpc.Datastore("target", target)
		if err != nil {
			return nil, err
		}
		root := rpc.Builder().Root("edit-config")
		root.AddChild(node)

		defop, err := oneOf(args, ArgDefaultOperation, defaultOperations)
		if err != nil {
			return nil, err
		}
		if defop != "" {
			root.CreateElement("default-operation").SetText(defop)
		}

		testopt, err := oneOf(args, ArgTestOption, testOptions)
		if err != nil {
			return nil, err
		}
		if testopt != "" {
			if err := rpc.Assert(":validate"); err != nil {
				return nil, err
			}
			root.CreateElement("test-option").SetText(testopt)
		}

		erropt, err := oneOf(args, ArgErrorOption, errorOptions)
		if err != nil {
			return nil, err
		}
		if erropt == RollbackOnErrorErrOpt {
			if err := rpc.Assert(":rollback-on-error"); err != nil {
				return nil, err
			}
		}
		if erropt != "" {
			root.CreateElement("error-option").SetText(erropt)
		}

		switch {
		case args.Has(ArgConfig) && args.Has(ArgURL):
			return nil, common.InvalidArgumentf("config and url are mutually exclusive")
		case args.Has(ArgURL):
			url, err := args.RequiredString(ArgURL)
			if err != nil {
				return nil, err
			}
			if err := rpc.Assert(":url"); err != nil {
				return nil, err
			}
			root.CreateElement("url").SetText(url)
		case args.Has(ArgConfig):
			elements, err := args.Elements(ArgConfig)
			if err != nil {
				return nil, err
			}
			if len(elements) == 1 && elements[0].Tag == "config" {
				root.AddChild(elements[0])
			} else {
				cfg := root.CreateElement("config")
				for _, e := range elements {
					cfg.AddChild(e)
				}
			}
		default:
			return nil, common.InvalidArgumentf("one of config or url is required")
		}
		return rpc.Builder().Finish(root)
	})
}

func newCopyConfig(rpc *RPC) Operation {
	return OperationFunc(func(args Args) (*etree.Element, error) {
		if err := args.Expect(ArgSource, ArgTarget); err != nil {
			return nil, err
		}
		target, err := args.Source(ArgTarget)
		if err != nil {
			return nil, err
		}
		tnode, err := rpc.DatastoreOrURL("target", target)
		if err != nil {
			return nil, err
		}
		source, err := args.Source(ArgSource)
		if err != nil {
			return nil, err
		}
		snode, err := rpc.DatastoreOrURL("source", source)
		if err != nil {
			return nil, err
		}
		root := rpc.Builder().Root("copy-config")
		root.AddChild(tnode)
		root.AddChild(snode)
		return rpc.Builder().Finish(root)
	})
}

func newDeleteConfig(rpc *RPC) Operation {
	return targetOperation(rpc, "delete-config", rpc.DatastoreOrURL)
}

func newLock(rpc *RPC) Operation {
	return targetOperation(rpc, "lock", rpc.Datastore)
}

func newUnlock(rpc *RPC) Operation {
	return targetOperation(rpc, "unlock", rpc.Datastore)
}

func targetOperation(rpc *RPC, tag string, target func(string, Source) (*etree.Element, error)) Operation {
	return OperationFunc(func(args Args) (*etree.Element, error) {
		if err := args.Expect(ArgTarget); err != nil {
			return nil, err
		}
		src, err := args.Source(ArgTarget)
		if err != nil {
			return nil, err
		}
		node, err := target("target", src)
		if err != nil {
			return nil, err
		}
		root := rpc.Builder().Root(tag)
		root.AddChild(node)
		return rpc.Builder().Finish(root)
	})
}

func newValidate(rpc *RPC) Operation {
	return OperationFunc(func(args Args) (*etree.Element, error) {
		if err := args.Expect(ArgSource); err != nil {
			return nil, err
		}
		if err := rpc.Assert(":validate"); err != nil {
			return nil, err
		}
		source, err := args.Source(ArgSource)
		if err != nil {
			return nil, err
		}
		node, err := rpc.DatastoreOrURL("source", source)
		if err != nil {
			return nil, err
		}
		root := rpc.Builder().Root("validate")
		root.AddChild(node)
		return rpc.Builder().Finish(root)
	})
}

func newCommit(rpc *RPC) Operation {
	return OperationFunc(func(args Args) (*etree.Element, error) {
		if err := args.Expect(ArgConfirmed, ArgConfirmTimeout, ArgPersist); err != nil {
			return nil, err
		}
		if err := rpc.Assert(":candidate"); err != nil {
			return nil, err
		}
		confirmed, err := args.Bool(ArgConfirmed)
		if err != nil {
			return nil, err
		}
		persist, err := args.String(ArgPersist)
		if err != nil {
			return nil, err
		}
		if !confirmed && (args.Has(ArgConfirmTimeout) || persist != "") {
			return nil, common.InvalidArgumentf("%s and %s require a confirmed commit", ArgConfirmTimeout, ArgPersist)
		}

		root := rpc.Builder().Root("commit")
		if confirmed {
			if err := rpc.Assert(":confirmed-commit"); err != nil {
				return nil, err
			}
			root.CreateElement("confirmed")
		}
		if args.Has(ArgConfirmTimeout) {
			timeout, err := args.Uint(ArgConfirmTimeout)
			if err != nil {
				return nil, err
			}
			root.CreateElement("confirm-timeout").SetText(strconv.FormatUint(timeout, 10))
		}
		if persist != "" {
			root.CreateElement("persist").SetText(persist)
		}
		return rpc.Builder().Finish(root)
	})
}

func newDiscardChanges(rpc *RPC) Operation {
	return OperationFunc(func(args Args) (*etree.Element, error) {
		if err := args.Expect(); err != nil {
			return nil, err
		}
		if err := rpc.Assert(":candidate"); err != nil {
			return nil, err
		}
		return rpc.Builder().Finish(rpc.Builder().Root("discard-changes"))
	})
}

func newCloseSession(rpc *RPC) Operation {
	return OperationFunc(func(args Args) (*etree.Element, error) {
		if err := args.Expect(); err != nil {
			return nil, err
		}
		return rpc.Builder().Finish(rpc.Builder().Root("close-session"))
	})
}

func newKillSession(rpc *RPC) Operation {
	return OperationFunc(func(args Args) (*etree.Element, error) {
		if err := args.Expect(ArgSessionID); err != nil {
			return nil, err
		}
		id, err := args.Uint(ArgSessionID)
		if err != nil {
			return nil, err
		}
		root := rpc.Builder().Root("kill-session")
		root.CreateElement("session-id").SetText(strconv.FormatUint(id, 10))
		return rpc.Builder().Finish(root)
	})
}

func newGetSchema(rpc *RPC) Operation {
	return OperationFunc(func(args Args) (*etree.Element, error) {
		if err := args.Expect(ArgIdentifier, ArgVersion, ArgFormat); err != nil {
			return nil, err
		}
		id, err := args.RequiredString(ArgIdentifier)
		if err != nil {
			return nil, err
		}
		version, err := args.String(ArgVersion)
		if err != nil {
			return nil, err
		}
		format, err := args.String(ArgFormat)
		if err != nil {
			return nil, err
		}
		root := rpc.Builder().Root("get-schema")
		root.CreateAttr("xmlns", common.NetconfMonitoringNS)
		root.CreateElement("identifier").SetText(id)
		if version != "" {
			root.CreateElement("version").SetText(version)
		}
		if format != "" {
			root.CreateElement("format").SetText(format)
		}
		return rpc.Builder().Finish(root)
	})
}

// addFilter appends the subtree or xpath filter requested by args to parent.
func (r *RPC) addFilter(parent *etree.Element, args Args) error {
	switch {
	case args.Has(ArgFilter) && args.Has(ArgXPath):
		return common.InvalidArgumentf("filter and xpath are mutually exclusive")
	case args.Has(ArgXPath):
		xpath, err := args.RequiredString(ArgXPath)
		if err != nil {
			return err
		}
		if err := r.Assert(":xpath"); err != nil {
			return err
		}
		f := parent.CreateElement("filter")
		f.CreateAttr("type", "xpath")
		f.CreateAttr("select", xpath)
	case args.Has(ArgFilter):
		elements, err := args.Elements(ArgFilter)
		if err != nil {
			return err
		}
		f := parent.CreateElement("filter")
		f.CreateAttr("type", "subtree")
		for _, e := range elements {
			f.AddChild(e)
		}
	}
	return nil
}

func oneOf(args Args, key string, allowed []string) (string, error) {
	v, err := args.String(key)
	if err != nil || v == "" {
		return v, err
	}
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", common.InvalidArgumentf("parameter %s: unsupported value %q", key, v)
}
