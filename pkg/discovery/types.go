package discovery

import (
	"errors"
	"time"
)

// Service constants for mDNS.
const (
	// ServiceType is the DNS-SD service type of CoAP endpoints.
	ServiceType = "_coap._udp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the CoAP port.
	DefaultPort = 5683
)

// TXT record keys.
const (
	TXTKeyEndpoint      = "ep"  // Endpoint (node) name
	TXTKeyNodeID        = "id"  // Node instance ID
	TXTKeyResourceTypes = "rt"  // Resource types (comma-separated)
	TXTKeyGroups        = "grp" // Joined multicast groups (optional)
)

// Limits.
const (
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// MaxTXTRecordSize is the maximum total TXT record size.
	MaxTXTRecordSize = 400

	// BrowseTimeout is the default timeout for mDNS browsing.
	BrowseTimeout = 10 * time.Second
)

// Discovery errors.
var (
	ErrInvalidTXTRecord    = errors.New("invalid TXT record format")
	ErrMissingRequired     = errors.New("missing required field")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrTXTTooLarge         = errors.New("TXT records exceed size limit")
	ErrNotAdvertising      = errors.New("not advertising")
)

// NodeInfo is what a node advertises about itself.
type NodeInfo struct {
	// Name is the node name, used as instance name and endpoint name.
	Name string

	// NodeID is the instance ID of the node.
	NodeID string

	// Port is the CoAP port. Zero selects DefaultPort.
	Port uint16

	// ResourceTypes lists the resource types the node serves.
	ResourceTypes []string

	// Groups is the number of multicast groups the node listens on.
	Groups int
}

// NodeService is a node found by browsing.
type NodeService struct {
	InstanceName string
	Host         string
	Port         uint16
	Addresses    []string

	NodeInfo
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		TTL: 120 * time.Second,
	}
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// Interface specifies which network interface to browse on.
	// Empty string means all interfaces.
	Interface string
}
