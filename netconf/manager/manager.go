// Package manager composes a netconf client session with a device handler, dispatching named
// operations through the registry that the handler defines.
package manager

import (
	"context"
	"encoding/xml"
	"time"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncdevice/netconf/client"
	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/ncdevice/netconf/config"
	"github.com/damianoneill/ncdevice/netconf/device"
	"github.com/damianoneill/ncdevice/netconf/ops"
	"golang.org/x/crypto/ssh"
)

// Manager represents a netconf session adapted to a particular device.
type Manager interface {
	client.Session

	// Handler delivers the device handler of the session.
	Handler() device.Handler

	// Registry delivers the operations available on the session.
	Registry() *ops.Registry

	// Build resolves the named operation and builds its request, without sending it.
	Build(name string, args ops.Args) (*etree.Element, error)

	// Call resolves the named operation, builds its request and executes it.
	Call(name string, args ops.Args) (*common.RPCReply, error)

	// Get issues a get request, with an optional subtree filter, and returns the content of the data element.
	Get(filter string) (string, error)

	// GetConfig issues a get-config request for the source datastore or url, with an optional subtree filter,
	// and returns the content of the data element.
	GetConfig(source, filter string) (string, error)

	// GetSchemas returns the schemas reported by the device's netconf monitoring model.
	GetSchemas() ([]ops.Schema, error)

	// Lock issues a lock request on the target datastore.
	Lock(target string) error

	// Unlock issues an unlock request on the target datastore.
	Unlock(target string) error
}

type mImpl struct {
	client.Session
	handler  device.Handler
	registry *ops.Registry
	rpc      *ops.RPC
	trace    *Trace
}

// Connect selects the device handler defined by params, connects to the target and establishes a
// netconf session that advertises the handler's capabilities.
func Connect(ctx context.Context, sshcfg *ssh.ClientConfig, target string, params device.Params, cfg *client.Config) (Manager, error) {
	h, err := device.New(params)
	if err != nil {
		return nil, err
	}
	ContextTrace(ctx).HandlerSelected(target, h.Name(), h.Capabilities())

	s, err := client.NewRPCSessionWithConfig(ctx, sshcfg, target, ClientConfig(h, cfg))
	if err != nil {
		return nil, err
	}
	m, err := NewManager(ctx, s, h)
	if err != nil {
		s.Close()
		return nil, err
	}
	return m, nil
}

// ConnectWithConfig establishes a session defined by a session profile.
func ConnectWithConfig(ctx context.Context, cfg *config.Session) (Manager, error) {
	sshcfg, err := cfg.SSHClientConfig()
	if err != nil {
		return nil, err
	}
	return Connect(ctx, sshcfg, cfg.Target, cfg.Device, &client.Config{SetupTimeoutSecs: cfg.SetupTimeoutSecs})
}

// ClientConfig derives the client configuration for a session with handler h from cfg; the
// advertised capabilities and reply qualification are defined by the handler.
func ClientConfig(h device.Handler, cfg *client.Config) *client.Config {
	resolved := client.ResolveConfig(cfg)
	resolved.Capabilities = h.Capabilities()
	resolved.UnqualifiedReplies = !h.QualifyCheck()
	return resolved
}

// NewManager adapts an established session to the device defined by h.
func NewManager(ctx context.Context, s client.Session, h device.Handler) (Manager, error) {
	registry, err := ops.EffectiveRegistry(h)
	if err != nil {
		return nil, err
	}
	return &mImpl{
		Session:  s,
		handler:  h,
		registry: registry,
		rpc:      ops.NewRPC(s, h),
		trace:    ContextTrace(ctx),
	}, nil
}

func (m *mImpl) Handler() device.Handler {
	return m.handler
}

func (m *mImpl) Registry() *ops.Registry {
	return m.registry
}

// Capabilities returns the capabilities advertised by the session, which are those of the handler.
func (m *mImpl) Capabilities() []string {
	return m.handler.Capabilities()
}

func (m *mImpl) Build(name string, args ops.Args) (*etree.Element, error) {
	op, err := m.operation(name)
	if err != nil {
		return nil, err
	}
	return op.Build(args)
}

func (m *mImpl) Call(name string, args ops.Args) (reply *common.RPCReply, err error) {
	defer func(begin time.Time) {
		m.trace.CallDone(name, reply, err, time.Since(begin))
	}(time.Now())

	op, err := m.operation(name)
	if err != nil {
		return nil, err
	}
	return m.rpc.Invoke(op, args)
}

// operation resolves the named operation, tracing the requests it builds.
func (m *mImpl) operation(name string) (ops.Operation, error) {
	f, err := m.registry.Resolve(name)
	m.trace.OperationResolved(name, err)
	if err != nil {
		return nil, err
	}
	op := f(m.rpc)
	return ops.OperationFunc(func(args ops.Args) (*etree.Element, error) {
		req, err := op.Build(args)
		m.trace.RequestBuilt(name, req, err)
		return req, err
	}), nil
}

func (m *mImpl) Get(filter string) (string, error) {
	args := ops.Args{}
	if filter != "" {
		args[ops.ArgFilter] = filter
	}
	return m.data(ops.OpGet, args)
}

func (m *mImpl) GetConfig(source, filter string) (string, error) {
	args := ops.Args{ops.ArgSource: source}
	if filter != "" {
		args[ops.ArgFilter] = filter
	}
	return m.data(ops.OpGetConfig, args)
}

func (m *mImpl) GetSchemas() ([]ops.Schema, error) {
	reply, err := m.Call(ops.OpGet, ops.Args{
		ops.ArgFilter: `<netconf-state xmlns="` + common.NetconfMonitoringNS + `"><schemas/></netconf-state>`,
	})
	if err != nil {
		return nil, err
	}
	ncs := &ops.NetconfState{}
	if err := xml.Unmarshal([]byte(reply.Data), &ops.Data{Body: ncs}); err != nil {
		return nil, err
	}
	return ncs.Schemas.Schema, nil
}

func (m *mImpl) Lock(target string) error {
	_, err := m.Call(ops.OpLock, ops.Args{ops.ArgTarget: target})
	return err
}

func (m *mImpl) Unlock(target string) error {
	_, err := m.Call(ops.OpUnlock, ops.Args{ops.ArgTarget: target})
	return err
}

func (m *mImpl) data(name string, args ops.Args) (string, error) {
	reply, err := m.Call(name, args)
	if err != nil {
		return "", err
	}
	data := &ops.Data{}
	if err := xml.Unmarshal([]byte(reply.Data), data); err != nil {
		return "", err
	}
	return data.Content, nil
}
