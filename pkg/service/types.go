package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iotsys/iotsys-go/pkg/blockwise"
	"github.com/iotsys/iotsys-go/pkg/log"
	"github.com/iotsys/iotsys-go/pkg/subscription"
)

// Service errors.
var (
	ErrNotStarted     = errors.New("node not started")
	ErrAlreadyStarted = errors.New("node already started")
	ErrStopped        = errors.New("node stopped")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrNoHardware     = errors.New("no hardware")
)

// Error payloads sent with failed requests. They fit the smallest block.
const (
	MsgCreateFailed      = `ERROR while creating message :\`
	MsgLengthFailed      = "calculation of message length error"
	MsgBlockOutOfScope   = "BlockOutOfScope"
	MsgMalformedGroup    = "MalformedGroupAddress"
	MsgNotFound          = "NotFound"
	MsgMethodNotAllowed  = "MethodNotAllowed"
	MsgBadBlockOption    = "BadBlockOption"
	MsgServiceStopped    = "ServiceUnavailable"
	MsgUnsupportedMethod = "UnsupportedMethod"
)

// NodeState represents the node lifecycle state.
type NodeState uint8

const (
	// StateIdle - node created but not started.
	StateIdle NodeState = iota

	// StateRunning - the event loop is running.
	StateRunning

	// StateStopped - the node has stopped.
	StateStopped
)

// String returns the state name.
func (s NodeState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// NodeConfig configures a Node.
type NodeConfig struct {
	// Name identifies the node in logs and discovery.
	Name string

	// BlockBudget is the largest offset a chunked transfer may reach.
	BlockBudget int

	// MaxChunkSize caps the chunk size a client may request.
	MaxChunkSize int

	// TemperaturePeriod is the sampling period of temp/value.
	TemperaturePeriod time.Duration

	// BatteryPeriod is the sampling period of battery/value.
	BatteryPeriod time.Duration

	// SuppressUnchanged skips periodic notifications whose value did not
	// change since the last one.
	SuppressUnchanged bool

	// MaxObservers is the observer registry capacity.
	MaxObservers int

	// QueueSize is the capacity of the event queues.
	QueueSize int

	// Logger is the optional logger for operational output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ExchangeLogger receives exchange events. If nil, they are discarded.
	ExchangeLogger log.Logger
}

// DefaultNodeConfig returns a NodeConfig with the defaults of the node.
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		Name:              "iotsys",
		BlockBudget:       blockwise.DefaultBudget,
		MaxChunkSize:      blockwise.DefaultMaxChunkSize,
		TemperaturePeriod: 5 * time.Second,
		BatteryPeriod:     30 * time.Second,
		SuppressUnchanged: true,
		MaxObservers:      subscription.DefaultMaxSubscriptions,
		QueueSize:         16,
	}
}

// Validate checks the configuration.
func (c NodeConfig) Validate() error {
	if c.BlockBudget <= 0 {
		return fmt.Errorf("%w: block budget %d", ErrInvalidConfig, c.BlockBudget)
	}
	if c.MaxChunkSize < 16 || c.MaxChunkSize > blockwise.MaxETagChunkSize || c.MaxChunkSize&(c.MaxChunkSize-1) != 0 {
		return fmt.Errorf("%w: max chunk size %d is not a block size", ErrInvalidConfig, c.MaxChunkSize)
	}
	if c.TemperaturePeriod <= 0 || c.BatteryPeriod <= 0 {
		return fmt.Errorf("%w: notification periods must be positive", ErrInvalidConfig)
	}
	if c.MaxObservers <= 0 {
		return fmt.Errorf("%w: max observers %d", ErrInvalidConfig, c.MaxObservers)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue size %d", ErrInvalidConfig, c.QueueSize)
	}
	return nil
}
