package testserver

import (
	"encoding/xml"
	"sync"
	"time"

	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/ncdevice/netconf/common/codec"

	assert "github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// RPCRequestMessage represents an RPC request from a client, where the element type of the
// request body is unknown.
type RPCRequestMessage struct {
	XMLName   xml.Name
	MessageID string     `xml:"message-id,attr"`
	Request   RPCRequest `xml:",any"`
}

// RPCRequest describes the operation element of an RPC request.
type RPCRequest struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Body    string     `xml:",innerxml"`
}

// RPCReplyMessage and ReplyData represent an rpc-reply message that will be sent to a client session, where the
// element type of the reply body (i.e. the content of the data element) is unknown.
type RPCReplyMessage struct {
	XMLName   xml.Name
	Errors    []common.RPCError `xml:"rpc-error,omitempty"`
	Data      *ReplyData        `xml:"data,omitempty"`
	MessageID string            `xml:"message-id,attr"`
}

// ReplyData holds the body of a data element.
type ReplyData struct {
	Data string `xml:",innerxml"`
}

// RequestHandler is a function type that will be invoked by the session handler to handle an RPC
// request.
type RequestHandler func(h *SessionHandler, req *RPCRequestMessage)

// EchoRequestHandler responds to a request with a reply containing a data element holding
// the body of the request.
var EchoRequestHandler = func(h *SessionHandler, req *RPCRequestMessage) {
	h.Reply(&RPCReplyMessage{MessageID: req.MessageID, Data: &ReplyData{Data: req.Request.Body}})
}

// FailingRequestHandler replies to a request with an error.
var FailingRequestHandler = func(h *SessionHandler, req *RPCRequestMessage) {
	h.Reply(&RPCReplyMessage{
		MessageID: req.MessageID,
		Errors:    []common.RPCError{{Severity: "error", Message: "oops"}},
	})
}

// CloseRequestHandler closes the transport channel on request receipt.
var CloseRequestHandler = func(h *SessionHandler, req *RPCRequestMessage) {
	h.Close()
}

// IgnoreRequestHandler does nothing on receipt of a request.
var IgnoreRequestHandler = func(h *SessionHandler, req *RPCRequestMessage) {}

// SessionHandler represents the server side of an active netconf SSH session.
type SessionHandler struct {
	// t is the testing context used for handling unexpected errors.
	t assert.TestingT

	// ch is the underlying transport channel.
	ch ssh.Channel

	// The codecs used to handle client i/o
	enc *codec.Encoder
	dec *codec.Decoder

	// Serialises access to encoder.
	encLock sync.Mutex

	// The capabilities advertised to the client.
	capabilities []string
	// The session id to be reported to the client.
	sid uint64
	// Send replies without the base namespace.
	unqualified bool

	// Channel used to signal receipt of client capabilities.
	hellochan chan bool

	// The HelloMessage sent by the connecting client.
	ClientHello *common.HelloMessage

	// startwg will be signalled when the session is started (specifically after client
	// capabilities have been received).
	startwg *sync.WaitGroup

	// The queue of handlers used to process incoming client requests.
	reqHandlers []RequestHandler

	reqLock sync.Mutex
	reqs    []*RPCRequestMessage
}

func newSessionHandler(t assert.TestingT, sid uint64, caps []string, handlers []RequestHandler, unqualified bool) *SessionHandler {
	wg := &sync.WaitGroup{}
	wg.Add(1)
	return &SessionHandler{
		t:            t,
		sid:          sid,
		capabilities: caps,
		reqHandlers:  append([]RequestHandler(nil), handlers...),
		unqualified:  unqualified,
		hellochan:    make(chan bool, 1),
		startwg:      wg,
	}
}

// Handle establishes a Netconf server session on a newly-connected SSH channel.
func (h *SessionHandler) Handle(ch ssh.Channel) {
	h.ch = ch
	h.dec = codec.NewDecoder(ch)
	h.enc = codec.NewEncoder(ch)

	wg := &sync.WaitGroup{}
	wg.Add(1)

	// Send server hello to client.
	if err := h.encode(&common.HelloMessage{Capabilities: h.capabilities, SessionID: h.sid}); err != nil {
		h.startwg.Done()
		return
	}

	go h.handleIncomingMessages(wg)

	h.waitForClientHello()

	// Signal server has completed setup
	h.startwg.Done()

	// Wait for message handling routine to finish.
	wg.Wait()
}

// WaitStart waits until the client hello has been received.
func (h *SessionHandler) WaitStart() {
	h.startwg.Wait()
}

// Close initiates session tear-down by closing the underlying transport channel.
func (h *SessionHandler) Close() {
	if h.ch != nil {
		_ = h.ch.Close()
	}
}

// Reply sends an rpc-reply to the client, qualified by the base namespace unless the server is
// configured for unqualified replies.
func (h *SessionHandler) Reply(reply *RPCReplyMessage) {
	reply.XMLName = common.NameRPCReply
	if h.unqualified {
		reply.XMLName = xml.Name{Local: common.NameRPCReply.Local}
	}
	err := h.encode(reply)
	assert.NoError(h.t, err, "Failed to encode response")
}

// ReqCount delivers the number of requests that have been received by the session.
func (h *SessionHandler) ReqCount() int {
	h.reqLock.Lock()
	defer h.reqLock.Unlock()
	return len(h.reqs)
}

// LastReq delivers the most recent request received by the session, or nil.
func (h *SessionHandler) LastReq() *RPCRequest {
	h.reqLock.Lock()
	defer h.reqLock.Unlock()
	if len(h.reqs) == 0 {
		return nil
	}
	return &h.reqs[len(h.reqs)-1].Request
}

func (h *SessionHandler) waitForClientHello() {

	// Wait for the input handler to send the client hello.
	select {
	case <-h.hellochan:
	case <-time.After(time.Duration(5) * time.Second):
	}

	assert.NotNil(h.t, h.ClientHello, "Failed to get client hello")
}

func (h *SessionHandler) handleIncomingMessages(wg *sync.WaitGroup) {

	defer wg.Done()

	// Loop, looking for a start element type of hello, rpc.
	for {
		token, err := h.dec.Token()
		if err != nil {
			break
		}
		if start, ok := token.(xml.StartElement); ok {
			switch start.Name {
			case common.NameHello:
				h.handleHello(start)
			case common.NameRPC:
				h.handleRPC(start)
			}
		}
	}
}

func (h *SessionHandler) handleHello(start xml.StartElement) {
	hello := &common.HelloMessage{}
	if err := h.dec.DecodeElement(hello, &start); err != nil {
		h.hellochan <- false
		return
	}
	h.ClientHello = hello

	codec.Negotiate(h.dec, h.enc, h.capabilities, hello.Capabilities)
	h.hellochan <- true
}

func (h *SessionHandler) handleRPC(start xml.StartElement) {
	req := &RPCRequestMessage{}
	if err := h.dec.DecodeElement(req, &start); err != nil {
		return
	}

	h.reqLock.Lock()
	h.reqs = append(h.reqs, req)
	handler := EchoRequestHandler
	if len(h.reqHandlers) > 0 {
		handler, h.reqHandlers = h.reqHandlers[0], h.reqHandlers[1:]
	}
	h.reqLock.Unlock()

	handler(h, req)
}

func (h *SessionHandler) encode(m interface{}) error {
	h.encLock.Lock()
	defer h.encLock.Unlock()
	return h.enc.Encode(m)
}
