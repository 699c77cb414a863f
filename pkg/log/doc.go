// Package log provides structured exchange logging for a node.
//
// This package defines the Logger interface and Event types for capturing
// CoAP exchanges at multiple layers (transport, wire, service). It is
// separate from operational logging (slog): the exchange log is a complete
// machine-readable trace of what the node received, sent and notified.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.ExchangeLogger = log.NewSlogAdapter(slog.Default())
//
//	// For the field: write to a binary file
//	cfg.ExchangeLogger, _ = log.NewFileLogger("/var/log/iotsys/node.xlog")
//
//	// Both
//	cfg.ExchangeLogger = log.NewMultiLogger(console, file)
//
// # Event Types
//
//   - Transport: datagrams (FrameEvent)
//   - Wire: decoded CoAP messages (MessageEvent)
//   - Service: chunked transfers (BlockEvent), observe notifications
//     (NotifyEvent) and group table activity (GroupEvent)
//
// Errors at any layer use ErrorEventData.
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys. The
// iotsys-log tool views, filters and exports them.
package log
