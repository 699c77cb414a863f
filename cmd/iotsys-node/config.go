package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	ilog "github.com/iotsys/iotsys-go/pkg/log"
	"github.com/iotsys/iotsys-go/pkg/service"
)

// Config holds the node configuration. Values come from the defaults, then
// the optional YAML file, then flags given on the command line.
type Config struct {
	Listen            string        `yaml:"listen"`
	Interface         string        `yaml:"interface"`
	Name              string        `yaml:"name"`
	BlockBudget       int           `yaml:"block_budget"`
	MaxChunkSize      int           `yaml:"max_chunk_size"`
	TemperaturePeriod time.Duration `yaml:"temperature_period"`
	BatteryPeriod     time.Duration `yaml:"battery_period"`
	SuppressUnchanged bool          `yaml:"suppress_unchanged"`
	MaxObservers      int           `yaml:"max_observers"`
	StateFile         string        `yaml:"state_file"`
	ExchangeLog       string        `yaml:"exchange_log"`
	TraceExchanges    bool          `yaml:"trace_exchanges"`
	LogLevel          string        `yaml:"log_level"`
	MDNS              bool          `yaml:"mdns"`
	Interactive       bool          `yaml:"interactive"`
	Simulate          bool          `yaml:"simulate"`
	SimulationPeriod  time.Duration `yaml:"simulation_period"`
	Seed              uint64        `yaml:"seed"`
}

func defaultConfig() Config {
	nc := service.DefaultNodeConfig()
	return Config{
		Listen:            "[::]:5683",
		Name:              nc.Name,
		BlockBudget:       nc.BlockBudget,
		MaxChunkSize:      nc.MaxChunkSize,
		TemperaturePeriod: nc.TemperaturePeriod,
		BatteryPeriod:     nc.BatteryPeriod,
		SuppressUnchanged: nc.SuppressUnchanged,
		MaxObservers:      nc.MaxObservers,
		LogLevel:          "info",
		MDNS:              true,
		Interactive:       true,
		Simulate:          true,
		SimulationPeriod:  2 * time.Second,
	}
}

func bindFlags(fs *flag.FlagSet, c *Config) {
	fs.StringVar(&c.Listen, "listen", c.Listen, "UDP listen address")
	fs.StringVar(&c.Interface, "interface", c.Interface, "Network interface for multicast and mDNS (default: system choice)")
	fs.StringVar(&c.Name, "name", c.Name, "Node name")
	fs.IntVar(&c.BlockBudget, "block-budget", c.BlockBudget, "Largest offset a chunked transfer may reach")
	fs.IntVar(&c.MaxChunkSize, "max-chunk", c.MaxChunkSize, "Largest chunk size (16-128, power of two)")
	fs.DurationVar(&c.TemperaturePeriod, "temp-period", c.TemperaturePeriod, "Temperature notification period")
	fs.DurationVar(&c.BatteryPeriod, "battery-period", c.BatteryPeriod, "Battery notification period")
	fs.BoolVar(&c.SuppressUnchanged, "suppress-unchanged", c.SuppressUnchanged, "Skip periodic notifications of unchanged values")
	fs.IntVar(&c.MaxObservers, "max-observers", c.MaxObservers, "Observer registry capacity")
	fs.StringVar(&c.StateFile, "state-file", c.StateFile, "State file for group memberships and actuators (default: none)")
	fs.StringVar(&c.ExchangeLog, "exchange-log", c.ExchangeLog, "CBOR exchange log file (default: none)")
	fs.BoolVar(&c.TraceExchanges, "trace", c.TraceExchanges, "Write exchange events to the debug log")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
	fs.BoolVar(&c.MDNS, "mdns", c.MDNS, "Advertise the node over mDNS")
	fs.BoolVar(&c.Interactive, "interactive", c.Interactive, "Run the interactive console")
	fs.BoolVar(&c.Simulate, "simulate", c.Simulate, "Drive the simulated sensors")
	fs.DurationVar(&c.SimulationPeriod, "sim-period", c.SimulationPeriod, "Simulation step period")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "Simulation seed (default: time based)")
}

// parseConfig parses args. Flags set on the command line override the
// config file.
func parseConfig(args []string) (Config, error) {
	cfg := defaultConfig()

	fs := flag.NewFlagSet("iotsys-node", flag.ContinueOnError)
	configFile := fs.String("config", "", "YAML configuration file")
	bindFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if *configFile != "" {
		set := make(map[string]string)
		fs.Visit(func(f *flag.Flag) {
			set[f.Name] = f.Value.String()
		})

		if err := loadConfigFile(*configFile, &cfg); err != nil {
			return cfg, err
		}
		for name, value := range set {
			if err := fs.Set(name, value); err != nil {
				return cfg, fmt.Errorf("flag -%s: %w", name, err)
			}
		}
	}

	return cfg, cfg.validate()
}

// loadConfigFile reads a YAML file over cfg. Keys missing from the file
// keep their current value.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Simulate && c.SimulationPeriod <= 0 {
		return errors.New("simulation period must be positive")
	}
	return c.nodeConfig(nil, nil).Validate()
}

func (c Config) nodeConfig(logger *slog.Logger, exlog ilog.Logger) service.NodeConfig {
	nc := service.DefaultNodeConfig()
	nc.Name = c.Name
	nc.BlockBudget = c.BlockBudget
	nc.MaxChunkSize = c.MaxChunkSize
	nc.TemperaturePeriod = c.TemperaturePeriod
	nc.BatteryPeriod = c.BatteryPeriod
	nc.SuppressUnchanged = c.SuppressUnchanged
	nc.MaxObservers = c.MaxObservers
	nc.Logger = logger
	nc.ExchangeLogger = exlog
	return nc
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
