package client

import (
	"context"

	"github.com/imdario/mergo"
	"golang.org/x/crypto/ssh"
)

// Defines a factory method for instantiating netconf rpc sessions.

// NewRPCSession connects to the  target using the ssh configuration, and establishes
// a netconf session with default configuration.
func NewRPCSession(ctx context.Context, sshcfg *ssh.ClientConfig, target string) (s Session, err error) {
	return NewRPCSessionWithConfig(ctx, sshcfg, target, DefaultConfig)
}

// NewRPCSessionWithConfig connects to the  target using the ssh configuration, and establishes
// a netconf session with the client configuration.
func NewRPCSessionWithConfig(ctx context.Context, sshcfg *ssh.ClientConfig, target string, cfg *Config) (s Session, err error) {
	resolvedConfig := ResolveConfig(cfg)

	var t Transport
	if t, err = createTransport(ctx, sshcfg, target); err != nil {
		return
	}

	if s, err = NewSession(ctx, t, resolvedConfig); err != nil {
		_ = t.Close()
	}
	return
}

// ResolveConfig returns a copy of cfg, with defaults applied to any unspecified values.
// The capability list of the result is never shared with cfg or the defaults.
func ResolveConfig(cfg *Config) *Config {
	resolvedConfig := &Config{}
	if cfg != nil {
		*resolvedConfig = *cfg
	}
	_ = mergo.Merge(resolvedConfig, DefaultConfig)
	resolvedConfig.Capabilities = append([]string(nil), resolvedConfig.Capabilities...)
	return resolvedConfig
}

func createTransport(ctx context.Context, clientConfig *ssh.ClientConfig, target string) (t Transport, err error) {
	return NewSSHTransport(ctx, clientConfig, target, "netconf")
}
