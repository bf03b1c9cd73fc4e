package common

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Defines structs representing netconf messages and notifications.

// Request represents the body of a Netconf RPC request.
type Request interface{}

// HelloMessage defines the message sent/received during session negotiation.
type HelloMessage struct {
	XMLName      xml.Name `xml:"urn:ietf:params:xml:ns:netconf:base:1.0 hello"`
	Capabilities []string `xml:"capabilities>capability"`
	SessionID    uint64   `xml:"session-id,omitempty"`
}

// RPCMessage defines an rpc request message
type RPCMessage struct {
	XMLName   xml.Name `xml:"urn:ietf:params:xml:ns:netconf:base:1.0 rpc"`
	MessageID string   `xml:"message-id,attr"`
	*Union
}

// RPCReply defines an rpc reply message
type RPCReply struct {
	XMLName   xml.Name   `xml:"rpc-reply"`
	Errors    []RPCError `xml:"rpc-error,omitempty"`
	Data      string     `xml:",innerxml"`
	Ok        bool       `xml:",omitempty"`
	RawReply  string     `xml:"-"`
	MessageID string     `xml:"message-id,attr"`
}

// RPCError defines an error reply to a RPC request
type RPCError struct {
	Type     string `xml:"error-type"`
	Tag      string `xml:"error-tag"`
	Severity string `xml:"error-severity"`
	Path     string `xml:"error-path"`
	Message  string `xml:"error-message"`
	Info     string `xml:",innerxml"`
}

// Error generates a string representation of the RPC error
func (re *RPCError) Error() string {
	return fmt.Sprintf("netconf rpc [%s] '%s'", re.Severity, re.Message)
}

// Union carries a request body that is either a value to be marshalled, or a verbatim xml string.
type Union struct {
	ValueStr interface{}
	ValueXML string `xml:",innerxml"`
}

// GetUnion wraps s as a request body; strings are sent verbatim.
func GetUnion(s interface{}) *Union {
	switch request := s.(type) {
	case string:
		return &Union{ValueXML: request}
	default:
		return &Union{ValueStr: request}
	}
}

// DefaultCapabilities defines the NETCONF 1.0 capability set advertised by a client that has no
// device specific requirements.
var DefaultCapabilities = []string{
	CapBase10,
	CapWritableRunning,
	CapCandidate,
	CapConfirmedCommit,
	CapRollbackOnError,
	CapStartup,
	CapURL,
	CapValidate,
	CapXpath,
	CapNotification,
	CapInterleave,
}

// Define xml names for different netconf messages.
var (
	NameHello    = xml.Name{Space: NetconfNS, Local: "hello"}
	NameRPC      = xml.Name{Space: NetconfNS, Local: "rpc"}
	NameRPCReply = xml.Name{Space: NetconfNS, Local: "rpc-reply"}
)

// Define netconf URNs.
const (
	NetconfNS           = "urn:ietf:params:xml:ns:netconf:base:1.0"
	NetconfNotifyNS     = "urn:ietf:params:xml:ns:netconf:notification:1.0"
	NetconfMonitoringNS = "urn:ietf:params:xml:ns:yang:ietf-netconf-monitoring"

	CapBase10          = "urn:ietf:params:netconf:base:1.0"
	CapBase11          = "urn:ietf:params:netconf:base:1.1"
	CapWritableRunning = "urn:ietf:params:netconf:capability:writable-running:1.0"
	CapCandidate       = "urn:ietf:params:netconf:capability:candidate:1.0"
	CapConfirmedCommit = "urn:ietf:params:netconf:capability:confirmed-commit:1.0"
	CapRollbackOnError = "urn:ietf:params:netconf:capability:rollback-on-error:1.0"
	CapStartup         = "urn:ietf:params:netconf:capability:startup:1.0"
	CapURL             = "urn:ietf:params:netconf:capability:url:1.0?scheme=http,ftp,file,https,sftp"
	CapValidate        = "urn:ietf:params:netconf:capability:validate:1.0"
	CapXpath           = "urn:ietf:params:netconf:capability:xpath:1.0"
	CapNotification    = "urn:ietf:params:netconf:capability:notification:1.0"
	CapInterleave      = "urn:ietf:params:netconf:capability:interleave:1.0"
)

// capabilityPrefix is prepended to shorthand capabilities, such as ":url".
const capabilityPrefix = "urn:ietf:params:netconf:capability"

// ExpandCapability converts a shorthand capability (":url", ":candidate"), to its URN form without a
// version suffix. Any other value is returned unchanged.
func ExpandCapability(capability string) string {
	if strings.HasPrefix(capability, ":") {
		return capabilityPrefix + capability
	}
	return capability
}

// SupportsCapability returns true if caps holds the capability, which may be given in shorthand form.
// Versions and query parameters are ignored when matching a shorthand capability.
func SupportsCapability(caps []string, capability string) bool {
	shorthand := strings.HasPrefix(capability, ":")
	want := ExpandCapability(capability)
	for _, c := range caps {
		if !shorthand {
			if c == want {
				return true
			}
			continue
		}
		if i := strings.IndexByte(c, '?'); i >= 0 {
			c = c[:i]
		}
		if c == want || strings.HasPrefix(c, want+":") {
			return true
		}
	}
	return false
}

// PeerSupportsChunkedFraming returns true if capability list indicates support for chunked framing.
func PeerSupportsChunkedFraming(caps []string) bool {
	for _, capability := range caps {
		if capability == CapBase11 {
			return true
		}
	}
	return false
}
