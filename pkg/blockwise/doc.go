// Package blockwise splits a rendered representation into bounded chunks.
//
// A transfer is driven by the caller: every request carries a Cursor (the
// byte offset of the next chunk) and the Transmitter returns one chunk plus
// the cursor to use for the following request. Complete marks the last
// chunk. The Transmitter keeps no state between calls; the rendered message
// lives in a Slot owned by the resource so continuation requests reuse it.
//
// Offsets are capped by a global budget. A transfer never reaches past the
// budget: the chunk that would cross it is truncated and marked complete,
// and a cursor at or beyond it is rejected with ErrOutOfScope.
package blockwise
