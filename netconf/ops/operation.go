package ops

import (
	"github.com/beevik/etree"
	"github.com/damianoneill/ncdevice/netconf/common"
)

// Operation builds the request document for one remote procedure call.
// Build must be deterministic, and must not return a partial document with an error.
type Operation interface {
	Build(args Args) (*etree.Element, error)
}

// OperationFunc adapts a function to the Operation interface.
type OperationFunc func(args Args) (*etree.Element, error)

// Build calls f(args).
func (f OperationFunc) Build(args Args) (*etree.Element, error) {
	return f(args)
}

// Factory instantiates an Operation bound to the supplied RPC.
type Factory func(rpc *RPC) Operation

// Executor submits requests on a netconf session; it is satisfied by client.Session.
type Executor interface {
	// Execute executes an RPC request on the server and returns the reply.
	Execute(req common.Request) (*common.RPCReply, error)

	// ServerCapabilities delivers the server-supplied capabilities.
	ServerCapabilities() []string
}

// Dialect defines the device specific rules consulted when building a request.
type Dialect interface {
	// SerializationOptions defines the options used to construct request elements.
	SerializationOptions() common.SerializationOptions

	// QualifyCheck reports whether request elements must be namespace qualified.
	QualifyCheck() bool
}

// RPC carries the session and dialect state shared by the operations of a session.
type RPC struct {
	exec    Executor
	builder *Builder
}

// NewRPC returns an RPC that builds requests for dialect d, and submits them with exec.
func NewRPC(exec Executor, d Dialect) *RPC {
	return &RPC{exec: exec, builder: NewBuilder(d.SerializationOptions(), d.QualifyCheck())}
}

// Builder delivers the element builder for the session's dialect.
func (r *RPC) Builder() *Builder {
	return r.builder
}

// Assert checks that the server advertised the capability, which may be given in shorthand
// form (e.g. ":url").
func (r *RPC) Assert(capability string) error {
	if r.exec == nil || !common.SupportsCapability(r.exec.ServerCapabilities(), capability) {
		return common.MissingCapabilityf("server does not support %s", capability)
	}
	return nil
}

// Invoke builds the request for op and submits it. Errors reported by the session are returned
// unmodified.
func (r *RPC) Invoke(op Operation, args Args) (*common.RPCReply, error) {
	req, err := op.Build(args)
	if err != nil {
		return nil, err
	}
	return r.Request(req)
}

// Request serializes the request document and submits it.
func (r *RPC) Request(req *etree.Element) (*common.RPCReply, error) {
	body, err := Serialize(req)
	if err != nil {
		return nil, err
	}
	return r.exec.Execute(common.Request(body))
}

// Serialize renders a request document as xml.
func Serialize(req *etree.Element) (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(req.Copy())
	return doc.WriteToString()
}
