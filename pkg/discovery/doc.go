// Package discovery advertises iotsys nodes over mDNS/DNS-SD.
//
// A node registers one instance of the CoAP service type (_coap._udp) named
// after the node. The instance carries the node's CoAP port and a small set
// of TXT records:
//
//   - ep: endpoint name (the node name)
//   - id: node instance ID (UUID)
//   - rt: resource types served, comma-separated (e.g. "obix:Real,obix:Bool")
//   - grp: number of multicast groups the node currently listens on
//
// The TXT records are refreshed when the node's group memberships change.
// Browsing collects the nodes on the local link, merging the addresses
// reported on multiple interfaces into one entry per instance.
package discovery
