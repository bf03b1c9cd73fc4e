// Command ncshell opens a netconf session described by a yaml profile, and dispatches
// operations on it interactively.
//
// Usage:
//
//	ncshell -config router1.yaml [-trace default|metric|diagnostic|none]
//
// Example session:
//
//	netconf> ops
//	netconf> build get_config_configuration source=running
//	netconf> call get_config source=candidate filter="<interfaces/>"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/chzyer/readline"
	"github.com/damianoneill/ncdevice/netconf/client"
	"github.com/damianoneill/ncdevice/netconf/config"
	"github.com/damianoneill/ncdevice/netconf/manager"
)

var (
	configFile = flag.String("config", "", "Session profile (yaml)")
	traceLevel = flag.String("trace", "default", "Trace level: none, default, metric, diagnostic")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	if *configFile == "" {
		fmt.Fprintln(os.Stderr, "ncshell: -config is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadFile(*configFile)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, err := withTrace(context.Background(), *traceLevel)
	if err != nil {
		log.Fatalf("Invalid trace level: %v", err)
	}

	m, err := manager.ConnectWithConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", cfg.Target, err)
	}
	defer m.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "netconf> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatalf("Failed to create readline: %v", err)
	}
	defer rl.Close() // nolint: errcheck
	log.SetOutput(rl.Stderr())

	sh := newShell(m, rl.Stdout())
	fmt.Fprintf(rl.Stdout(), "Connected to %s (session %d, device %s)\n", cfg.Target, m.ID(), m.Handler().Name())
	sh.printHelp()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return
		}
		if !sh.execute(line) {
			return
		}
	}
}

func withTrace(ctx context.Context, level string) (context.Context, error) {
	switch level {
	case "none":
		return manager.WithTrace(client.WithClientTrace(ctx, client.NoOpLoggingHooks), manager.NoOpLoggingHooks), nil
	case "default":
		return manager.WithTrace(client.WithClientTrace(ctx, client.DefaultLoggingHooks), manager.DefaultLoggingHooks), nil
	case "metric":
		return manager.WithTrace(client.WithClientTrace(ctx, client.MetricLoggingHooks), manager.DefaultLoggingHooks), nil
	case "diagnostic":
		return manager.WithTrace(client.WithClientTrace(ctx, client.DiagnosticLoggingHooks), manager.DiagnosticLoggingHooks), nil
	}
	return nil, fmt.Errorf("unknown trace level %q", level)
}
