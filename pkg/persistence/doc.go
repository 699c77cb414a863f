// Package persistence stores the runtime state of a node that must survive
// a restart: multicast group memberships and actuator settings.
//
// The state file is CBOR with integer keys, written atomically through a
// temporary file in the same directory.
package persistence
