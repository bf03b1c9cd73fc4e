package testserver

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"net"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/damianoneill/ncdevice/netconf/common"

	assert "github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// Defines credentials used for test sessions.
const (
	TestUserName = "testUser"
	TestPassword = "testPassword"
)

// DefaultCapabilities are advertised by the server unless overridden with WithCapabilities.
var DefaultCapabilities = []string{
	common.CapBase10,
	common.CapBase11,
	common.CapCandidate,
	common.CapConfirmedCommit,
	common.CapURL,
	common.CapValidate,
	common.CapXpath,
}

// TestNCServer represents a Netconf Server that can be used for 'on-board' testing.
// It accepts SSH connections on a localhost ephemeral port and runs a netconf session handler on
// each netconf subsystem channel.
type TestNCServer struct {
	listener net.Listener
	config   *ssh.ServerConfig
	tctx     assert.TestingT

	mu              sync.Mutex
	sessionHandlers map[uint64]*SessionHandler
	nextSid         uint64

	caps        []string
	reqHandlers []RequestHandler
	unqualified bool
}

// NewTestNetconfServer creates a new TestNCServer that will accept Netconf localhost connections on an ephemeral port (available
// via Port(), with credentials defined by TestUserName and TestPassword.
// tctx will be used for handling failures; if the supplied value is nil, a default test context will be used.
func NewTestNetconfServer(tctx assert.TestingT) *TestNCServer {

	ncs := &TestNCServer{sessionHandlers: make(map[uint64]*SessionHandler), caps: DefaultCapabilities}

	if tctx == nil {
		// Default test context to built-in implementation.
		tctx = ncs
	}
	ncs.tctx = tctx

	var err error
	ncs.config, err = passwordConfig(TestUserName, TestPassword)
	assert.NoError(tctx, err, "Failed to create ssh server configuration")

	ncs.listener, err = net.Listen("tcp", "localhost:0")
	assert.NoError(tctx, err, "Failed to listen")

	go ncs.acceptConnections()

	return ncs
}

// WithRequestHandler adds a request handler to the server's queue of handlers.
// Each request is handled by the next handler in the queue; once the queue is exhausted, requests
// are handled by EchoRequestHandler.
func (ncs *TestNCServer) WithRequestHandler(rh RequestHandler) *TestNCServer {
	ncs.mu.Lock()
	defer ncs.mu.Unlock()
	ncs.reqHandlers = append(ncs.reqHandlers, rh)
	return ncs
}

// WithCapabilities define the capabilities that the server will advertise when a netconf client connects.
func (ncs *TestNCServer) WithCapabilities(caps []string) *TestNCServer {
	ncs.mu.Lock()
	defer ncs.mu.Unlock()
	ncs.caps = caps
	return ncs
}

// WithUnqualifiedReplies makes the server send rpc-reply elements with no namespace.
func (ncs *TestNCServer) WithUnqualifiedReplies() *TestNCServer {
	ncs.mu.Lock()
	defer ncs.mu.Unlock()
	ncs.unqualified = true
	return ncs
}

// Port delivers the tcp port number on which the server is listening.
func (ncs *TestNCServer) Port() int {
	return ncs.listener.Addr().(*net.TCPAddr).Port
}

// Address delivers the host:port address on which the server is listening.
func (ncs *TestNCServer) Address() string {
	return fmt.Sprintf("localhost:%d", ncs.Port())
}

// ClientConfig delivers an ssh client configuration that will authenticate with the server.
func (ncs *TestNCServer) ClientConfig() *ssh.ClientConfig {
	return &ssh.ClientConfig{
		User:            TestUserName,
		Auth:            []ssh.AuthMethod{ssh.Password(TestPassword)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // nolint: gosec
	}
}

// SessionHandler delivers the netconf session handler associated with the specified session id.
func (ncs *TestNCServer) SessionHandler(id uint64) *SessionHandler {
	ncs.mu.Lock()
	defer ncs.mu.Unlock()
	sh, ok := ncs.sessionHandlers[id]
	if !ok {
		ncs.tctx.Errorf("Failed to get handler for session %d", id)
		ncs.tctx.FailNow()
	}
	return sh
}

// Close closes any active transport to the test server and prevents subsequent connections.
func (ncs *TestNCServer) Close() {
	_ = ncs.listener.Close()

	ncs.mu.Lock()
	defer ncs.mu.Unlock()
	for _, sh := range ncs.sessionHandlers {
		sh.Close()
	}
}

// Errorf provides testing.T compatibility if a test context is not provided when the test server is
// created.
func (ncs *TestNCServer) Errorf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// FailNow provides testing.T compatibility if a test context is not provided when the test server is
// created.
func (ncs *TestNCServer) FailNow() {
	runtime.Goexit()
}

func (ncs *TestNCServer) acceptConnections() {
	for {
		nConn, err := ncs.listener.Accept()
		if err != nil {
			return
		}
		go ncs.serveConnection(nConn)
	}
}

func (ncs *TestNCServer) serveConnection(nConn net.Conn) {
	_, chch, reqch, err := ssh.NewServerConn(nConn, ncs.config)
	if err != nil {
		return
	}

	go ssh.DiscardRequests(reqch)

	for newChannel := range chch {
		ch, requests, err := newChannel.Accept()
		if err != nil {
			continue
		}

		// Accept the "subsystem" request.
		go func(in <-chan *ssh.Request) {
			for req := range in {
				_ = req.Reply(req.Type == "subsystem", nil)
			}
		}(requests)

		go func() {
			defer ch.Close() // nolint: errcheck
			ncs.newSessionHandler().Handle(ch)
		}()
	}
}

func (ncs *TestNCServer) newSessionHandler() *SessionHandler {
	sid := atomic.AddUint64(&ncs.nextSid, 1)

	ncs.mu.Lock()
	defer ncs.mu.Unlock()
	sh := newSessionHandler(ncs.tctx, sid, ncs.caps, ncs.reqHandlers, ncs.unqualified)
	ncs.sessionHandlers[sid] = sh
	return sh
}

func passwordConfig(uname, password string) (*ssh.ServerConfig, error) {
	config := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if c.User() == uname && string(pass) == password {
				return nil, nil
			}
			return nil, fmt.Errorf("password rejected for %q", c.User())
		},
	}

	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	hostKey, err := ssh.NewSignerFromKey(key)
	if err != nil {
		return nil, err
	}
	config.AddHostKey(hostKey)
	return config, nil
}
