// Package wire implements the CoAP message format (RFC 7252) used by the
// node, including the Observe (RFC 7641) and Block2 (RFC 7959) options.
//
// # Message Layout
//
// A message is a 4-byte header (version, type, token length, code, message
// ID), the token, a sequence of options and an optional payload preceded by
// the 0xFF marker.
//
// # Options
//
// Options are encoded in ascending option number order as deltas against
// the previous number. Deltas and lengths above 12 use the extended 8-bit
// and 16-bit forms. Integer option values use the shortest big-endian form;
// zero is the empty value.
package wire
