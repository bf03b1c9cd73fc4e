// Package config loads netconf session profiles from yaml.
//
// A profile looks like:
//
//	target: router1.example.com:830
//	username: admin
//	password_env: ROUTER_PASSWORD
//	known_hosts: /home/admin/.ssh/known_hosts
//	device:
//	  name: iosxr
//	  profile: minimal
package config

import (
	"io"
	"net"
	"os"
	"time"

	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/ncdevice/netconf/device"
	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
	"gopkg.in/yaml.v3"
)

// DefaultPort is the IANA assigned port for netconf over ssh.
const DefaultPort = "830"

// Session defines the configuration of a single netconf session.
type Session struct {
	// Target is the host[:port] address of the netconf server.
	Target   string `yaml:"target"`
	Username string `yaml:"username"`
	Password string `yaml:"password,omitempty"`
	// PasswordEnv names an environment variable holding the password, in place of Password.
	PasswordEnv string `yaml:"password_env,omitempty"`

	// KnownHosts names the OpenSSH known_hosts file used to verify the server host key.
	KnownHosts string `yaml:"known_hosts,omitempty"`
	// InsecureIgnoreHostKey disables host key verification; only for use against lab devices.
	InsecureIgnoreHostKey bool `yaml:"insecure_ignore_host_key,omitempty"`

	// SetupTimeoutSecs bounds the time taken to connect, and to receive the server hello.
	SetupTimeoutSecs int `yaml:"setup_timeout_secs,omitempty"`

	// Device selects the device handler for the session.
	Device device.Params `yaml:"device"`
}

// Defaults defines the values used for any Session property that is not set.
var Defaults = Session{
	SetupTimeoutSecs: 5,
	Device:           device.Params{Name: device.DefaultName},
}

// LoadFile loads a session profile from the named file.
func LoadFile(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(common.ErrConfiguration, "open %s: %v", path, err)
	}
	defer f.Close() // nolint: errcheck
	return Load(f)
}

// Load reads a session profile, applies defaults and validates the result.
func Load(r io.Reader) (*Session, error) {
	s := &Session{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, errors.Wrapf(common.ErrConfiguration, "decode session profile: %v", err)
	}
	if s.PasswordEnv != "" {
		if s.Password != "" {
			return nil, common.ConfigurationErrorf("password and password_env are both defined")
		}
		s.Password = os.Getenv(s.PasswordEnv)
		if s.Password == "" {
			return nil, common.ConfigurationErrorf("environment variable %s is not set", s.PasswordEnv)
		}
	}
	if err := s.Resolve(); err != nil {
		return nil, err
	}
	return s, nil
}

// Resolve applies defaults to any unspecified values, and validates the session.
func (s *Session) Resolve() error {
	if err := mergo.Merge(s, Defaults); err != nil {
		return errors.Wrap(common.ErrConfiguration, err.Error())
	}
	if s.Target == "" {
		return common.ConfigurationErrorf("target not defined")
	}
	if _, _, err := net.SplitHostPort(s.Target); err != nil {
		s.Target = net.JoinHostPort(s.Target, DefaultPort)
	}
	if s.Username == "" {
		return common.ConfigurationErrorf("username not defined for %s", s.Target)
	}
	if s.SetupTimeoutSecs < 0 {
		return common.ConfigurationErrorf("invalid setup timeout %d", s.SetupTimeoutSecs)
	}
	if s.KnownHosts == "" && !s.InsecureIgnoreHostKey {
		return common.ConfigurationErrorf("no host key verification defined for %s", s.Target)
	}
	if _, err := device.New(s.Device); err != nil {
		return err
	}
	return nil
}

// SSHClientConfig delivers the ssh configuration used to connect to the target.
func (s *Session) SSHClientConfig() (*ssh.ClientConfig, error) {
	cb, err := s.hostKeyCallback()
	if err != nil {
		return nil, err
	}
	return &ssh.ClientConfig{
		User:            s.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(s.Password)},
		HostKeyCallback: cb,
		Timeout:         time.Duration(s.SetupTimeoutSecs) * time.Second,
	}, nil
}

func (s *Session) hostKeyCallback() (ssh.HostKeyCallback, error) {
	switch {
	case s.KnownHosts != "":
		cb, err := knownhosts.New(s.KnownHosts)
		if err != nil {
			return nil, errors.Wrapf(common.ErrConfiguration, "known hosts %s: %v", s.KnownHosts, err)
		}
		return cb, nil
	case s.InsecureIgnoreHostKey:
		return ssh.InsecureIgnoreHostKey(), nil // nolint: gosec
	}
	return nil, common.ConfigurationErrorf("no host key verification defined for %s", s.Target)
}
