package ops

import (
	"io"
	"testing"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"

	assert "github.com/stretchr/testify/require"
)

var baseOnly = []string{common.CapBase10}

func TestStandardOperations(t *testing.T) {
	tests := []struct {
		name string
		op   string
		caps []string
		args Args
		want string
		err  error
	}{
		{name: "get", op: OpGet, want: `<get ` + baseNS + `/>`},
		{name: "get subtree", op: OpGet, args: Args{ArgFilter: `<interfaces/>`},
			want: `<get ` + baseNS + `><filter type="subtree"><interfaces/></filter></get>`},
		{name: "get xpath", op: OpGet, args: Args{ArgXPath: "/interfaces"},
			want: `<get ` + baseNS + `><filter type="xpath" select="/interfaces"/></get>`},
		{name: "get xpath unsupported", op: OpGet, caps: baseOnly, args: Args{ArgXPath: "/interfaces"},
			err: common.ErrMissingCapability},
		{name: "get both filters", op: OpGet, args: Args{ArgXPath: "/interfaces", ArgFilter: `<interfaces/>`},
			err: common.ErrInvalidArgument},
		{name: "get unknown parameter", op: OpGet, args: Args{"depth": 1}, err: common.ErrInvalidArgument},

		{name: "get-config", op: OpGetConfig, args: Args{ArgSource: RunningCfg},
			want: `<get-config ` + baseNS + `><source><running/></source></get-config>`},
		{name: "get-config url", op: OpGetConfig, args: Args{ArgSource: "ftp://host/cfg.xml"},
			want: `<get-config ` + baseNS + `><source><url>ftp://host/cfg.xml</url></source></get-config>`},
		{name: "get-config url unsupported", op: OpGetConfig, caps: baseOnly, args: Args{ArgSource: "ftp://host/cfg.xml"},
			err: common.ErrMissingCapability},
		{name: "get-config filtered", op: OpGetConfig, args: Args{ArgSource: Datastore(CandidateCfg), ArgFilter: `<users/>`},
			want: `<get-config ` + baseNS + `><source><candidate/></source><filter type="subtree"><users/></filter></get-config>`},
		{name: "get-config ambiguous source", op: OpGetConfig,
			args: Args{ArgSource: Source{Datastore: RunningCfg, URL: "ftp://host/cfg.xml"}}, err: common.ErrInvalidArgument},
		{name: "get-config no source", op: OpGetConfig, err: common.ErrInvalidArgument},

		{name: "edit-config", op: OpEditConfig,
			args: Args{ArgTarget: CandidateCfg, ArgConfig: `<top><a>1</a></top>`, ArgDefaultOperation: MergeOp,
				ArgTestOption: TestThenSetOpt, ArgErrorOption: RollbackOnErrorErrOpt},
			want: `<edit-config ` + baseNS + `><target><candidate/></target><default-operation>merge</default-operation>` +
				`<test-option>test-then-set</test-option><error-option>rollback-on-error</error-option>` +
				`<config><top><a>1</a></top></config></edit-config>`},
		{name: "edit-config wrapped config", op: OpEditConfig, args: Args{ArgTarget: RunningCfg, ArgConfig: `<config><top/></config>`},
			want: `<edit-config ` + baseNS + `><target><running/></target><config><top/></config></edit-config>`},
		{name: "edit-config url", op: OpEditConfig, args: Args{ArgTarget: RunningCfg, ArgURL: "file:///cfg.xml"},
			want: `<edit-config ` + baseNS + `><target><running/></target><url>file:///cfg.xml</url></edit-config>`},
		{name: "edit-config url target", op: OpEditConfig, args: Args{ArgTarget: "ftp://host/cfg.xml", ArgConfig: `<top/>`},
			err: common.ErrInvalidArgument},
		{name: "edit-config no content", op: OpEditConfig, args: Args{ArgTarget: RunningCfg}, err: common.ErrInvalidArgument},
		{name: "edit-config config and url", op: OpEditConfig,
			args: Args{ArgTarget: RunningCfg, ArgConfig: `<top/>`, ArgURL: "file:///cfg.xml"}, err: common.ErrInvalidArgument},
		{name: "edit-config bad default operation", op: OpEditConfig,
			args: Args{ArgTarget: RunningCfg, ArgConfig: `<top/>`, ArgDefaultOperation: "delete"}, err: common.ErrInvalidArgument},
		{name: "edit-config rollback unsupported", op: OpEditConfig, caps: baseOnly,
			args: Args{ArgTarget: RunningCfg, ArgConfig: `<top/>`, ArgErrorOption: RollbackOnErrorErrOpt}, err: common.ErrMissingCapability},
		{name: "edit-config test option unsupported", op: OpEditConfig, caps: baseOnly,
			args: Args{ArgTarget: RunningCfg, ArgConfig: `<top/>`, ArgTestOption: TestOnlyOpt}, err: common.ErrMissingCapability},

		{name: "copy-config", op: OpCopyConfig, args: Args{ArgSource: RunningCfg, ArgTarget: StartupCfg},
			want: `<copy-config ` + baseNS + `><target><startup/></target><source><running/></source></copy-config>`},
		{name: "copy-config to url", op: OpCopyConfig, args: Args{ArgSource: RunningCfg, ArgTarget: URL("sftp://host/backup.xml")},
			want: `<copy-config ` + baseNS + `><target><url>sftp://host/backup.xml</url></target><source><running/></source></copy-config>`},
		{name: "delete-config", op: OpDeleteConfig, args: Args{ArgTarget: StartupCfg},
			want: `<delete-config ` + baseNS + `><target><startup/></target></delete-config>`},
		{name: "lock", op: OpLock, args: Args{ArgTarget: CandidateCfg},
			want: `<lock ` + baseNS + `><target><candidate/></target></lock>`},
		{name: "lock url", op: OpLock, args: Args{ArgTarget: "ftp://host/cfg.xml"}, err: common.ErrInvalidArgument},
		{name: "unlock", op: OpUnlock, args: Args{ArgTarget: RunningCfg},
			want: `<unlock ` + baseNS + `><target><running/></target></unlock>`},

		{name: "validate", op: OpValidate, args: Args{ArgSource: CandidateCfg},
			want: `<validate ` + baseNS + `><source><candidate/></source></validate>`},
		{name: "validate unsupported", op: OpValidate, caps: baseOnly, args: Args{ArgSource: CandidateCfg},
			err: common.ErrMissingCapability},

		{name: "commit", op: OpCommit, want: `<commit ` + baseNS + `/>`},
		{name: "commit confirmed", op: OpCommit, args: Args{ArgConfirmed: true, ArgConfirmTimeout: 120, ArgPersist: "abc"},
			want: `<commit ` + baseNS + `><confirmed/><confirm-timeout>120</confirm-timeout><persist>abc</persist></commit>`},
		{name: "commit timeout unconfirmed", op: OpCommit, args: Args{ArgConfirmTimeout: 120}, err: common.ErrInvalidArgument},
		{name: "commit unsupported", op: OpCommit, caps: baseOnly, err: common.ErrMissingCapability},
		{name: "discard-changes", op: OpDiscardChanges, want: `<discard-changes ` + baseNS + `/>`},

		{name: "close-session", op: OpCloseSession, want: `<close-session ` + baseNS + `/>`},
		{name: "kill-session", op: OpKillSession, args: Args{ArgSessionID: "17"},
			want: `<kill-session ` + baseNS + `><session-id>17</session-id></kill-session>`},
		{name: "kill-session no id", op: OpKillSession, err: common.ErrInvalidArgument},

		{name: "get-schema", op: OpGetSchema, args: Args{ArgIdentifier: "ietf-interfaces", ArgVersion: "2014-05-08", ArgFormat: "yang"},
			want: `<get-schema xmlns="urn:ietf:params:xml:ns:yang:ietf-netconf-monitoring"><identifier>ietf-interfaces</identifier>` +
				`<version>2014-05-08</version><format>yang</format></get-schema>`},
		{name: "get-schema no identifier", op: OpGetSchema, err: common.ErrInvalidArgument},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			caps := tc.caps
			if caps == nil {
				caps = common.DefaultCapabilities
			}
			rpc, _ := newTestRPC(t, strictDialect, caps)
			f, err := BaseRegistry().Resolve(tc.op)
			assert.NoError(t, err)

			req, err := f(rpc).Build(tc.args)
			if tc.err != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tc.err), "Unexpected error %v", err)
				assert.Nil(t, req, "No partial document expected")
				return
			}
			assert.NoError(t, err)
			body, err := Serialize(req)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, body)
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	ns := common.NewNamespaceMap(common.NetconfNS, map[string]string{"if": "http://example.com/if", "a": "http://example.com/a"})
	rpc, _ := newTestRPC(t, testDialect{ns: ns, qualify: true}, common.DefaultCapabilities)

	filter := etree.NewElement("if:interfaces")
	args := Args{ArgSource: RunningCfg, ArgFilter: filter}
	f, err := BaseRegistry().Resolve(OpGetConfig)
	assert.NoError(t, err)

	first, err := f(rpc).Build(args)
	assert.NoError(t, err)
	second, err := f(rpc).Build(args)
	assert.NoError(t, err)

	b1, _ := Serialize(first)
	b2, _ := Serialize(second)
	assert.Equal(t, b1, b2)
	assert.Nil(t, filter.Parent(), "Caller's filter should not be attached to the request")
}

func TestQualifiedFilter(t *testing.T) {
	ns := common.NewNamespaceMap(common.NetconfNS, map[string]string{"if": "http://example.com/if"})
	f, err := BaseRegistry().Resolve(OpGet)
	assert.NoError(t, err)

	rpc, _ := newTestRPC(t, testDialect{ns: ns, qualify: true}, common.DefaultCapabilities)
	_, err = f(rpc).Build(Args{ArgFilter: `<if:interfaces/>`})
	assert.NoError(t, err, "Declared prefix should be accepted")

	req, err := f(rpc).Build(Args{ArgFilter: `<ifx:interfaces/>`})
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))
	assert.Nil(t, req)

	rpc, _ = newTestRPC(t, testDialect{ns: ns, qualify: false}, common.DefaultCapabilities)
	_, err = f(rpc).Build(Args{ArgFilter: `<ifx:interfaces/>`})
	assert.NoError(t, err, "Unchecked dialect should accept undeclared prefix")
}

func TestInvoke(t *testing.T) {
	rpc, exec := newTestRPC(t, strictDialect, common.DefaultCapabilities)
	f, err := BaseRegistry().Resolve(OpLock)
	assert.NoError(t, err)

	reply := &common.RPCReply{MessageID: "1", Ok: true}
	exec.EXPECT().Execute(`<lock `+baseNS+`><target><candidate/></target></lock>`).Return(reply, nil)

	r, err := rpc.Invoke(f(rpc), Args{ArgTarget: CandidateCfg})
	assert.NoError(t, err)
	assert.Equal(t, reply, r)
}

func TestInvokePropagatesSessionError(t *testing.T) {
	rpc, exec := newTestRPC(t, strictDialect, common.DefaultCapabilities)
	f, err := BaseRegistry().Resolve(OpCloseSession)
	assert.NoError(t, err)

	rpcErr := &common.RPCError{Severity: "error", Message: "oops"}
	exec.EXPECT().Execute(gomock.Any()).Return(nil, io.ErrUnexpectedEOF)
	exec.EXPECT().Execute(gomock.Any()).Return(&common.RPCReply{}, rpcErr)

	_, err = rpc.Invoke(f(rpc), nil)
	assert.Equal(t, io.ErrUnexpectedEOF, err, "Transport error should be returned unmodified")

	_, err = rpc.Invoke(f(rpc), nil)
	assert.Equal(t, rpcErr, err, "Peer error should be returned unmodified")
}

func TestInvokeDoesNotSendInvalidRequest(t *testing.T) {
	// Execute is not expected; gomock fails the test if it is called.
	rpc, _ := newTestRPC(t, strictDialect, baseOnly)
	f, err := BaseRegistry().Resolve(OpGetConfig)
	assert.NoError(t, err)

	_, err = rpc.Invoke(f(rpc), Args{ArgSource: "ftp://host/cfg.xml"})
	assert.True(t, errors.Is(err, common.ErrMissingCapability))
}
