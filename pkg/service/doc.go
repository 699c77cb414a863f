// Package service runs a sensor node.
//
// A Node owns the resource state, the transfer slots, the observer
// registry and the multicast group table. All of it is touched by a single
// goroutine: requests, timer ticks and hardware interrupts are posted as
// events and processed one at a time.
//
// # Requests
//
// HandleMessage is the entry point for the transport. It decodes the CoAP
// request into a Request, runs it on the node loop and encodes the Response
// as a piggybacked acknowledgement (confirmable requests) or a
// non-confirmable reply. Representations larger than the preferred chunk
// size are delivered with the Block2 option; the rendered message is kept
// in a per-resource slot between the chunk requests of one transfer.
//
// # Notifications
//
// temp/value and battery/value are sampled periodically; button/value and
// acc/value change on accelerometer interrupts. Every change increments the
// resource sequence counter and is pushed to the registered observers.
// Periodic samples whose formatted value did not change are suppressed.
//
// # Groups
//
// leds/red, leds/green, leds/blue and button/value accept joinGroup and
// leaveGroup requests carrying an FF12::/16 multicast address. Payloads
// received on a joined group are applied like a PUT; button changes are
// sent to every group the button joined.
//
// Example usage:
//
//	sim := sensor.NewSimulator(1)
//	node, err := service.NewNode(sim, service.DefaultNodeConfig())
//	node.SetTransport(server)
//	node.Start(ctx)
//	defer node.Stop()
package service
