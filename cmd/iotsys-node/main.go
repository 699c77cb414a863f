// Command iotsys-node runs an oBIX/CoAP sensor node.
//
// The node serves its temperature, button, accelerometer, LED and battery
// resources as oBIX XML over CoAP/UDP, with chunked transfers, observe
// notifications and IPv6 multicast groups. Without real hardware the
// sensors are simulated.
//
// Usage:
//
//	iotsys-node [flags]
//
// Flags:
//
//	-config string        YAML configuration file
//	-listen string        UDP listen address (default "[::]:5683")
//	-interface string     Network interface for multicast and mDNS
//	-name string          Node name (default "iotsys")
//	-state-file string    State file for group memberships and actuators
//	-exchange-log string  CBOR exchange log file
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-mdns                 Advertise the node over mDNS (default true)
//	-interactive          Run the interactive console (default true)
//	-simulate             Drive the simulated sensors (default true)
//
// Flags given on the command line override values from the config file.
//
// Examples:
//
//	# Start a node with defaults and the interactive console
//	iotsys-node
//
//	# Headless node on eth0 keeping its group memberships
//	iotsys-node -interface eth0 -interactive=false -state-file /var/lib/iotsys/state.cbor
//
//	# Record all exchanges for iotsys-log
//	iotsys-node -exchange-log node.xlog -log-level debug
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iotsys/iotsys-go/cmd/iotsys-node/interactive"
	"github.com/iotsys/iotsys-go/pkg/discovery"
	ilog "github.com/iotsys/iotsys-go/pkg/log"
	"github.com/iotsys/iotsys-go/pkg/model"
	"github.com/iotsys/iotsys-go/pkg/persistence"
	"github.com/iotsys/iotsys-go/pkg/sensor"
	"github.com/iotsys/iotsys-go/pkg/service"
	"github.com/iotsys/iotsys-go/pkg/transport"
)

// Compile-time check that the UDP server serves as the node's transport.
var _ service.Transport = (*transport.Server)(nil)

// announceInterval is how often the mDNS records are compared with the
// node's group memberships.
const announceInterval = 10 * time.Second

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var (
		console *interactive.Console
		out     io.Writer = os.Stderr
	)
	if cfg.Interactive {
		c, err := interactive.New()
		if err != nil {
			return err
		}
		defer c.Close()
		console = c
		out = console.Stdout()
	}

	level, _ := parseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	exlog, closeLogs, err := exchangeLoggers(cfg, logger)
	if err != nil {
		return err
	}
	defer closeLogs()

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	sim := sensor.NewSimulator(seed)

	node, err := service.NewNode(sim, cfg.nodeConfig(logger, exlog))
	if err != nil {
		return fmt.Errorf("create node: %w", err)
	}
	if cfg.StateFile != "" {
		node.SetStateStore(persistence.NewNodeStateStore(cfg.StateFile))
	}

	server, err := transport.NewServer(transport.ServerConfig{
		Address:   cfg.Listen,
		Interface: cfg.Interface,
		Node:      cfg.Name,
		Logger:    exlog,
		OnError: func(from netip.AddrPort, err error) {
			logger.Debug("datagram dropped", "remote", from, "error", err)
		},
	}, node)
	if err != nil {
		return err
	}
	node.SetTransport(server)

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}
	defer server.Stop()
	logger.Info("listening", "address", server.Addr(), "interface", cfg.Interface)

	if err := node.Start(ctx); err != nil {
		return fmt.Errorf("start node: %w", err)
	}
	defer node.Stop()

	if cfg.MDNS {
		announcer := discovery.NewAnnouncer(discovery.NewMDNSAdvertiser(discovery.AdvertiserConfig{
			Interface: cfg.Interface,
			TTL:       discovery.DefaultAdvertiserConfig().TTL,
		}))
		defer announcer.Stop()
		go announcer.Run(ctx, func() discovery.NodeInfo {
			return nodeInfo(node, server)
		}, announceInterval, func(err error) {
			logger.Warn("mDNS advertising failed", "error", err)
		})
	}

	if cfg.Simulate {
		go runSimulation(ctx, sim, cfg.SimulationPeriod, logger)
	}

	if console != nil {
		console.Attach(node, sim)
		console.Run(ctx, cancel)
	} else {
		<-ctx.Done()
	}

	logger.Info("shutting down")
	return nil
}

// exchangeLoggers builds the exchange logger from the configuration. The
// returned function closes the log file.
func exchangeLoggers(cfg Config, logger *slog.Logger) (ilog.Logger, func(), error) {
	var loggers []ilog.Logger
	closer := func() {}

	if cfg.ExchangeLog != "" {
		fl, err := ilog.NewFileLogger(cfg.ExchangeLog)
		if err != nil {
			return nil, closer, err
		}
		loggers = append(loggers, fl)
		closer = func() {
			if n := fl.Dropped(); n > 0 {
				logger.Warn("exchange events dropped", "count", n)
			}
			_ = fl.Close()
		}
	}
	if cfg.TraceExchanges {
		loggers = append(loggers, ilog.NewSlogAdapter(logger))
	}

	switch len(loggers) {
	case 0:
		return nil, closer, nil
	case 1:
		return loggers[0], closer, nil
	default:
		return ilog.NewMultiLogger(loggers...), closer, nil
	}
}

func nodeInfo(node *service.Node, server *transport.Server) discovery.NodeInfo {
	return discovery.NodeInfo{
		Name:          node.Config().Name,
		NodeID:        node.ID(),
		Port:          server.Addr().Port(),
		ResourceTypes: model.Types(),
		Groups:        len(server.Groups()),
	}
}
