// Package subscription implements resource observation for a node.
//
// A client observes a resource by sending a GET with the Observe option set
// to 0 and stops with Observe set to 1 (RFC 7641). Each observer is keyed by
// its transport address and the resource path: registering again from the
// same address replaces the previous registration and its token.
//
// # Sequence Numbers
//
// Every resource has its own sequence counter. It is incremented on each
// notification and carried in the Observe option, which is three bytes
// wide, so the counter wraps from 0xFFFFFF to 0.
//
// # Suppression
//
// Periodic resources may skip a notification when the formatted value is
// byte-equal to the last notified one. The manager keeps the last notified
// token per resource for that comparison (see Unchanged and Record).
//
// # Lifecycle
//
// Observations do not survive a restart. A client that receives no
// notifications re-registers.
package subscription
