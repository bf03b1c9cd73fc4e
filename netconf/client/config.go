package client

import "github.com/damianoneill/ncdevice/netconf/common"

// Defines structs describing netconf configuration.

// Config defines properties that configure netconf session behaviour.
type Config struct {
	// Defines the time in seconds that the client will wait to receive a hello message from the server.
	SetupTimeoutSecs int

	// Capabilities are advertised to the server in the client hello.
	// Normally supplied by the device handler selected for the session.
	Capabilities []string

	// UnqualifiedReplies allows hello and rpc-reply elements that are not qualified by the netconf
	// base namespace to be accepted, for devices that send them that way.
	UnqualifiedReplies bool
}

// DefaultConfig defines the values used for any Config property that is not set.
var DefaultConfig = &Config{
	SetupTimeoutSecs: 5,
	Capabilities:     common.DefaultCapabilities,
}
