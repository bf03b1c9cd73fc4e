package manager

import (
	"context"
	"log"
	"time"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/ncdevice/netconf/ops"
	"github.com/imdario/mergo"
)

type managerEventContextKey struct{}

// ContextTrace returns the Trace associated with the provided context. If none, it returns the
// no-op hooks. Any hook left undefined by the context trace is set to a no-op.
func ContextTrace(ctx context.Context) *Trace {
	trace, _ := ctx.Value(managerEventContextKey{}).(*Trace)
	if trace == nil {
		return NoOpLoggingHooks
	}
	resolved := *trace
	_ = mergo.Merge(&resolved, NoOpLoggingHooks)
	return &resolved
}

// WithTrace returns a new context based on the provided parent ctx. Managers created with the
// returned context will use the provided trace hooks.
func WithTrace(ctx context.Context, trace *Trace) context.Context {
	return context.WithValue(ctx, managerEventContextKey{}, trace)
}

// Trace defines a structure for handling manager trace events.
type Trace struct {
	// HandlerSelected is called when a device handler has been chosen for a session.
	HandlerSelected func(target, handler string, caps []string)

	// OperationResolved is called after an operation name has been looked up in the session registry.
	OperationResolved func(name string, err error)

	// RequestBuilt is called after an operation has built its request.
	RequestBuilt func(name string, req *etree.Element, err error)

	// CallDone is called when an operation call completes.
	CallDone func(name string, reply *common.RPCReply, err error, d time.Duration)
}

// DefaultLoggingHooks reports operations that could not be resolved, built or executed.
var DefaultLoggingHooks = &Trace{
	OperationResolved: func(name string, err error) {
		if err != nil {
			log.Printf("NETCONF-OperationResolved name:%s err:%v\n", name, err)
		}
	},
	RequestBuilt: func(name string, req *etree.Element, err error) {
		if err != nil {
			log.Printf("NETCONF-RequestBuilt name:%s err:%v\n", name, err)
		}
	},
	CallDone: func(name string, reply *common.RPCReply, err error, d time.Duration) {
		if err != nil {
			log.Printf("NETCONF-CallDone name:%s err:%v took:%dms\n", name, err, d.Milliseconds())
		}
	},
}

// DiagnosticLoggingHooks logs every manager event.
var DiagnosticLoggingHooks = &Trace{
	HandlerSelected: func(target, handler string, caps []string) {
		log.Printf("NETCONF-HandlerSelected target:%s handler:%s capabilities:%d\n", target, handler, len(caps))
	},
	OperationResolved: func(name string, err error) {
		log.Printf("NETCONF-OperationResolved name:%s err:%v\n", name, err)
	},
	RequestBuilt: func(name string, req *etree.Element, err error) {
		var body string
		if req != nil {
			body, _ = ops.Serialize(req)
		}
		log.Printf("NETCONF-RequestBuilt name:%s req:%s err:%v\n", name, body, err)
	},
	CallDone: func(name string, reply *common.RPCReply, err error, d time.Duration) {
		log.Printf("NETCONF-CallDone name:%s err:%v took:%dms\n", name, err, d.Milliseconds())
	},
}

// NoOpLoggingHooks provides set of hooks that do nothing.
var NoOpLoggingHooks = &Trace{
	HandlerSelected:   func(target, handler string, caps []string) {},
	OperationResolved: func(name string, err error) {},
	RequestBuilt:      func(name string, req *etree.Element, err error) {},
	CallDone:          func(name string, reply *common.RPCReply, err error, d time.Duration) {},
}
