package client

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/ncdevice/netconf/common/codec"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// The Message layer defines a set of base protocol operations
// invoked as RPC methods with XML-encoded parameters.

// Session represents a Netconf Session
type Session interface {
	// Execute executes an RPC request on the server and returns the reply.
	Execute(req common.Request) (*common.RPCReply, error)

	// ExecuteAsync submits an RPC request for execution on the server, arranging for the
	// reply to be sent to the supplied channel.
	ExecuteAsync(req common.Request, rchan chan *common.RPCReply) (err error)

	// Close closes the session and releases any associated resources.
	// When the session is closed, any outstanding execute requests will return nil.
	Close()

	// ID delivers the server-allocated id of the session.
	ID() uint64

	// ServerCapabilities delivers the server-supplied capabilities.
	ServerCapabilities() []string

	// Capabilities delivers the capabilities advertised by the client.
	Capabilities() []string
}

type sesImpl struct {
	cfg   *Config
	t     Transport
	dec   *codec.Decoder
	enc   *codec.Encoder
	trace *ClientTrace

	pool []chan *common.RPCReply

	hellochan chan bool
	responseq []chan *common.RPCReply

	hello   *common.HelloMessage
	reqLock sync.Mutex
	pchLock sync.Mutex
	rchLock sync.Mutex

	target string
}

// NewSession creates a new Netconf session, using the supplied Transport.
// The client hello advertises cfg.Capabilities; defaults are applied to any unspecified values.
func NewSession(ctx context.Context, t Transport, cfg *Config) (Session, error) {
	cfg = ResolveConfig(cfg)

	si := &sesImpl{
		cfg:    cfg,
		t:      t,
		target: transportTarget(t),
		dec:    codec.NewDecoder(t),
		enc:    codec.NewEncoder(t),
		trace:  ContextClientTrace(ctx),

		hellochan: make(chan bool)}

	// Send hello
	err := si.enc.Encode(&common.HelloMessage{Capabilities: cfg.Capabilities})
	if err != nil {
		si.trace.Error("Failed to encode hello", si.target, err)
		si.Close()
		return nil, err
	}

	// Launch goroutine to handle incoming messages from the server.
	go si.handleIncomingMessages()

	err = si.waitForServerHello()
	if err != nil {
		si.trace.Error("Failed to receive hello", si.target, err)
		si.Close()
		return nil, err
	}
	return si, nil
}

func transportTarget(t Transport) string {
	if ti, ok := t.(*tImpl); ok {
		return ti.target
	}
	return ""
}

func (si *sesImpl) Execute(req common.Request) (reply *common.RPCReply, err error) {

	si.trace.ExecuteStart(req, false)

	defer func(begin time.Time) {
		si.trace.ExecuteDone(req, false, reply, err, time.Since(begin))
	}(time.Now())

	// Allocate a response channel
	rchan := si.allocChan()
	defer si.relChan(rchan)

	// Submit the request
	err = si.execute(req, rchan)
	if err != nil {
		return nil, err
	}

	// Wait for the response.
	reply = <-rchan

	err = mapError(reply)
	return reply, err
}

func (si *sesImpl) ExecuteAsync(req common.Request, rchan chan *common.RPCReply) (err error) {

	si.trace.ExecuteStart(req, true)
	defer func(begin time.Time) {
		si.trace.ExecuteDone(req, true, nil, err, time.Since(begin))
	}(time.Now())

	return si.execute(req, rchan)
}

func (si *sesImpl) execute(req common.Request, rchan chan *common.RPCReply) (err error) {

	// Build the request to be submitted.
	msg := &common.RPCMessage{MessageID: uuid.New().String(), Union: common.GetUnion(req)}

	// Lock the request channel, so the request and response channel set up is atomic.
	si.reqLock.Lock()
	defer si.reqLock.Unlock()

	// Add the response channel to the response queue, but take it off if the request was not
	// submitted successfully.
	si.pushRespChan(rchan)
	if err = si.enc.Encode(msg); err != nil {
		si.popRespChan()
	}
	return
}

func (si *sesImpl) Close() {
	err := si.t.Close()
	if err != nil {
		si.trace.Error("Session close failed", si.target, err)
	}
}

func (si *sesImpl) ID() uint64 {
	return si.hello.SessionID
}

func (si *sesImpl) ServerCapabilities() []string {
	return si.hello.Capabilities
}

func (si *sesImpl) Capabilities() []string {
	return si.cfg.Capabilities
}

func (si *sesImpl) waitForServerHello() (err error) {

	select {
	case ok := <-si.hellochan:
		if !ok {
			err = errors.New("failed to decode hello from server")
		}
	case <-time.After(time.Duration(si.cfg.SetupTimeoutSecs) * time.Second):
		err = errors.New("failed to get hello from server")
	}
	return
}

func (si *sesImpl) handleIncomingMessages() {

	// When this goroutine finishes, make sure anybody waiting for an async response
	// gets informed.
	defer si.closeChannels()

	// Loop, looking for a start element type of hello or rpc-reply.
	for {
		token, err := si.dec.Token()
		if err != nil {
			break
		}

		if err = si.handleToken(token); err != nil {
			return
		}
	}
}

func (si *sesImpl) handleToken(token xml.Token) (err error) {
	start, ok := token.(xml.StartElement)
	if !ok {
		return
	}

	switch si.messageName(start.Name) {
	case common.NameHello: // <hello>
		err = si.handleHello(start)

	case common.NameRPCReply: // <rpc-reply>
		err = si.handleRPCReply(start)

	default:
		if start.Name.Local == common.NameRPCReply.Local || start.Name.Local == common.NameHello.Local {
			// A base message that is not qualified by the base namespace.
			si.trace.ReplyIgnored(si.target, start.Name.Local)
			err = si.dec.Skip()
		}
	}
	return
}

// messageName maps name to the qualified message name it represents.
// Unless the configuration allows unqualified replies, name is returned unchanged.
func (si *sesImpl) messageName(name xml.Name) xml.Name {
	if !si.cfg.UnqualifiedReplies || name.Space != "" {
		return name
	}
	switch name.Local {
	case common.NameHello.Local:
		return common.NameHello
	case common.NameRPCReply.Local:
		return common.NameRPCReply
	}
	return name
}

func (si *sesImpl) handleHello(token xml.StartElement) (err error) {
	// Decode the hello element and send it down the channel to trigger the rest of the session setup.

	// Decoded without reference to the hello namespace, which has already been checked.
	hello := &struct {
		Capabilities []string `xml:"capabilities>capability"`
		SessionID    uint64   `xml:"session-id"`
	}{}
	if err = si.decodeElement(hello, &token); err != nil {
		si.hellochan <- false
		return
	}
	si.hello = &common.HelloMessage{Capabilities: hello.Capabilities, SessionID: hello.SessionID}

	codec.Negotiate(si.dec, si.enc, si.cfg.Capabilities, si.hello.Capabilities)

	si.hellochan <- true
	si.trace.HelloDone(si.hello)
	return
}

func (si *sesImpl) handleRPCReply(token xml.StartElement) (err error) {
	reply := common.RPCReply{}
	if err = si.decodeElement(&reply, &token); err != nil {
		return
	}

	// Pop the channel off the head of the queue and send the reply to it.
	respch := si.popRespChan()
	if respch == nil {
		si.trace.Error("Unexpected rpc-reply", si.target, errors.Errorf("no request awaiting message-id %s", reply.MessageID))
		return
	}
	go func(ch chan *common.RPCReply, r *common.RPCReply) {
		ch <- r
	}(respch, &reply)
	return
}

func (si *sesImpl) decodeElement(v interface{}, start *xml.StartElement) (err error) {
	if err = si.dec.DecodeElement(v, start); err != nil {
		si.trace.Error(fmt.Sprintf("DecodeElement token:%s", start.Name.Local), si.target, err)
	}
	return
}

func (si *sesImpl) closeChannels() {
	close(si.hellochan)
	si.closeAllResponseChannels()
}

func (si *sesImpl) closeAllResponseChannels() {
	for {
		if ch := si.popRespChan(); ch != nil {
			close(ch)
		} else {
			return
		}
	}
}

func (si *sesImpl) allocChan() (ch chan *common.RPCReply) {
	si.pchLock.Lock()
	defer si.pchLock.Unlock()

	l := len(si.pool)
	if l == 0 {
		return make(chan *common.RPCReply)
	}

	si.pool, ch = si.pool[:l-1], si.pool[l-1]
	return
}

func (si *sesImpl) relChan(ch chan *common.RPCReply) {
	si.pchLock.Lock()
	defer si.pchLock.Unlock()
	si.pool = append(si.pool, ch)
}

func (si *sesImpl) pushRespChan(ch chan *common.RPCReply) {
	si.rchLock.Lock()
	defer si.rchLock.Unlock()
	si.responseq = append(si.responseq, ch)
}

func (si *sesImpl) popRespChan() (ch chan *common.RPCReply) {
	si.rchLock.Lock()
	defer si.rchLock.Unlock()
	if len(si.responseq) > 0 {
		si.responseq, ch = si.responseq[1:], si.responseq[0]
	}
	return
}

// Map an RPC reply to an error, if the reply is either null or contains any RPC error.
func mapError(r *common.RPCReply) (err error) {
	if r == nil {
		err = io.ErrUnexpectedEOF
	} else if r.Errors != nil {
		for i := 0; i < len(r.Errors); i++ {
			rpcErr := r.Errors[i]
			if rpcErr.Severity == "error" {
				err = &rpcErr
				break
			}
		}
	}
	return
}
