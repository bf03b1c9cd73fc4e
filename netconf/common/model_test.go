package common

import (
	"testing"

	"github.com/pkg/errors"
	assert "github.com/stretchr/testify/require"
)

func TestRPCErrorString(t *testing.T) {

	err := &RPCError{
		Severity: "Severity",
		Message:  "Message",
	}

	assert.Equal(t, "netconf rpc [Severity] 'Message'", err.Error())
}

func TestPeerSupportsChunkedFraming(t *testing.T) {
	assert.False(t, PeerSupportsChunkedFraming([]string{NetconfNS, NetconfNotifyNS, CapBase10}))
	assert.True(t, PeerSupportsChunkedFraming([]string{NetconfNS, NetconfNotifyNS, CapBase11}))
}

func TestDefaultCapabilitiesAreNetconf10(t *testing.T) {
	assert.Equal(t, CapBase10, DefaultCapabilities[0])
	assert.False(t, PeerSupportsChunkedFraming(DefaultCapabilities), "1.1 framing is not part of the default set")

	seen := map[string]bool{}
	for _, c := range DefaultCapabilities {
		assert.False(t, seen[c], "Duplicate capability %s", c)
		seen[c] = true
	}
}

func TestExpandCapability(t *testing.T) {
	assert.Equal(t, "urn:ietf:params:netconf:capability:url", ExpandCapability(":url"))
	assert.Equal(t, CapBase10, ExpandCapability(CapBase10))
}

func TestSupportsCapability(t *testing.T) {
	assert.True(t, SupportsCapability(DefaultCapabilities, ":url"), "Query parameters should be ignored")
	assert.True(t, SupportsCapability(DefaultCapabilities, ":candidate"), "Version should be ignored")
	assert.True(t, SupportsCapability(DefaultCapabilities, CapXpath))
	assert.False(t, SupportsCapability(DefaultCapabilities, ":with-defaults"))
	assert.False(t, SupportsCapability([]string{CapBase10}, ":url"))
	assert.False(t, SupportsCapability([]string{"urn:ietf:params:netconf:capability:urlx:1.0"}, ":url"))
	assert.False(t, SupportsCapability(nil, CapBase11))
}

func TestErrorConstructors(t *testing.T) {
	err := ConfigurationErrorf("device %q", "acme")
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Equal(t, `device "acme": configuration error`, err.Error())

	assert.Equal(t, ErrUnsupportedOperation, errors.Cause(UnsupportedOperationf("op %s", "x")))
	assert.True(t, errors.Is(InvalidArgumentf("bad"), ErrInvalidArgument))
	assert.True(t, errors.Is(MissingCapabilityf(":url"), ErrMissingCapability))
	assert.False(t, errors.Is(InvalidArgumentf("bad"), ErrConfiguration))
}

func TestNamespaceMapBaseAlwaysPresent(t *testing.T) {
	m := NewNamespaceMap(NetconfNS, map[string]string{
		DefaultPrefix: "urn:vendor:oops",
		"if":          "urn:vendor:if",
	})

	assert.Equal(t, NetconfNS, m.Base(), "Base entry must win over vendor default prefix")
	uri, ok := m.Lookup("if")
	assert.True(t, ok)
	assert.Equal(t, "urn:vendor:if", uri)
	assert.Equal(t, []string{DefaultPrefix, "if"}, m.Prefixes())
}

func TestNamespaceMapCopyIsIndependent(t *testing.T) {
	m := NewNamespaceMap(NetconfNS, nil)
	c := m.Copy()
	c["x"] = "urn:x"

	_, ok := m.Lookup("x")
	assert.False(t, ok, "Copy should not alias the original")
	assert.Len(t, m, 1)
}
