package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/ncdevice/netconf/manager"
	"github.com/damianoneill/ncdevice/netconf/ops"
	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
)

type shell struct {
	m   manager.Manager
	out io.Writer
}

func newShell(m manager.Manager, out io.Writer) *shell {
	return &shell{m: m, out: out}
}

// execute runs a single command line, returning false when the shell should exit.
func (s *shell) execute(line string) bool {
	fields, err := shellquote.Split(line)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return true
	}
	if len(fields) == 0 {
		return true
	}

	cmd, rest := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "help", "?":
		s.printHelp()
	case "caps":
		s.printList(s.m.Capabilities())
	case "server-caps":
		s.printList(s.m.ServerCapabilities())
	case "ops":
		s.printList(s.m.Registry().Names())
	case "build":
		s.cmdBuild(rest)
	case "call":
		s.cmdCall(rest)
	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *shell) printHelp() {
	fmt.Fprint(s.out, `
Commands:
  caps                     - Capabilities advertised by this client
  server-caps              - Capabilities advertised by the server
  ops                      - Operations available on this session
  build <op> [name=value]  - Show the request an operation would send
  call <op> [name=value]   - Execute an operation and show the reply
  help                     - Show this help
  quit                     - Close the session and exit
`)
}

func (s *shell) printList(items []string) {
	for _, i := range items {
		fmt.Fprintf(s.out, "  %s\n", i)
	}
}

func (s *shell) cmdBuild(fields []string) {
	name, args, err := parseInvocation(fields)
	if err != nil {
		s.printError(err)
		return
	}
	req, err := s.m.Build(name, args)
	if err != nil {
		s.printError(err)
		return
	}
	body, err := ops.Serialize(req)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, body)
}

func (s *shell) cmdCall(fields []string) {
	name, args, err := parseInvocation(fields)
	if err != nil {
		s.printError(err)
		return
	}
	reply, err := s.m.Call(name, args)
	if err != nil {
		s.printError(err)
		return
	}
	switch {
	case reply.Ok:
		fmt.Fprintln(s.out, "ok")
	default:
		fmt.Fprintln(s.out, strings.TrimSpace(reply.Data))
	}
}

func (s *shell) printError(err error) {
	switch errors.Cause(err) {
	case common.ErrUnsupportedOperation:
		fmt.Fprintf(s.out, "Unsupported: %v (type 'ops' for operations)\n", err)
	case common.ErrInvalidArgument, common.ErrMissingCapability:
		fmt.Fprintf(s.out, "Rejected: %v\n", err)
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

// parseInvocation interprets "<op> name=value..." fields. A repeated name collects its values into a list.
func parseInvocation(fields []string) (string, ops.Args, error) {
	if len(fields) == 0 {
		return "", nil, errors.New("operation name required")
	}
	args := ops.Args{}
	for _, f := range fields[1:] {
		kv := strings.SplitN(f, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return "", nil, errors.Errorf("expected name=value, got %q", f)
		}
		switch prev := args[kv[0]].(type) {
		case nil:
			args[kv[0]] = kv[1]
		case string:
			args[kv[0]] = []string{prev, kv[1]}
		case []string:
			args[kv[0]] = append(prev, kv[1])
		}
	}
	return fields[0], args, nil
}
