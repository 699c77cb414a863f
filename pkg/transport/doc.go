// Package transport carries CoAP messages over UDP.
//
// The Server owns one UDP socket. On IPv6 sockets it reads the destination
// address of every datagram so that traffic sent to a joined multicast
// group can be told apart from unicast requests, and it manages the group
// memberships of the socket.
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│   oBIX XML / Link Format       │
//	├────────────────────────────────┤
//	│   CoAP (RFC 7252, 7641, 7959)  │
//	├────────────────────────────────┤
//	│           UDP                  │
//	├────────────────────────────────┤
//	│   IPv6 (unicast + FF12::/16)   │
//	└────────────────────────────────┘
//
// Requests are decoded and handed to a Handler one datagram at a time;
// the reply it returns is sent back to the peer. There is no
// retransmission layer: the node only sends non-confirmable messages and
// piggybacked acknowledgements.
package transport
