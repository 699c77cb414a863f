// Package commands implements the iotsys-log CLI commands.
package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iotsys/iotsys-go/pkg/log"
	"github.com/iotsys/iotsys-go/pkg/wire"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Layer      *log.Layer
	Direction  *log.Direction
	Category   *log.Category
	PathPrefix string
}

// match reports whether event passes the filter.
func (f ViewFilter) match(event log.Event) bool {
	if f.Layer != nil && event.Layer != *f.Layer {
		return false
	}
	if f.Direction != nil && event.Direction != *f.Direction {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	return f.PathPrefix == "" || strings.HasPrefix(event.Path, strings.Trim(f.PathPrefix, "/"))
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// timestamp [ex:id] DIRECTION LAYER Label path
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	header := fmt.Sprintf("%s [ex:%s] %-3s %s %s", ts, shortenID(event.ExchangeID),
		event.Direction.String(), event.Layer.String(), eventLabel(event))
	if event.Path != "" {
		header += " /" + event.Path
	}
	fmt.Fprintln(w, header)

	if event.RemoteAddr != "" {
		fmt.Fprintf(w, "  Remote: %s\n", event.RemoteAddr)
	}

	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.Message != nil:
		formatMessageDetails(w, event.Message)
	case event.Block != nil:
		formatBlockDetails(w, event.Block)
	case event.Notify != nil:
		formatNotifyDetails(w, event.Notify)
	case event.Group != nil:
		formatGroupDetails(w, event.Group)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// eventLabel names the payload carried by event.
func eventLabel(event log.Event) string {
	switch {
	case event.Frame != nil:
		if event.Frame.Multicast {
			return "Frame (multicast)"
		}
		return "Frame"
	case event.Message != nil:
		return event.Message.Type.String() + " " + event.Message.Code.String()
	case event.Block != nil:
		return "Block"
	case event.Notify != nil:
		return "Notify"
	case event.Group != nil:
		return "Group " + event.Group.Action.String()
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// shortenID returns the first 8 characters of an exchange ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}

func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
		if frame.Truncated {
			fmt.Fprint(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatMessageDetails(w io.Writer, msg *log.MessageEvent) {
	fmt.Fprintf(w, "  MessageID: %d\n", msg.MessageID)
	if len(msg.Token) > 0 {
		fmt.Fprintf(w, "  Token: %s\n", hex.EncodeToString(msg.Token))
	}
	if msg.Observe != nil {
		fmt.Fprintf(w, "  Observe: %d\n", *msg.Observe)
	}
	if msg.Block2 != nil {
		if b, err := wire.ParseBlock(*msg.Block2); err == nil {
			fmt.Fprintf(w, "  Block2: %s\n", b.String())
		} else {
			fmt.Fprintf(w, "  Block2: 0x%x (invalid)\n", *msg.Block2)
		}
	}
	if msg.ContentFormat != nil {
		fmt.Fprintf(w, "  Content-Format: %d\n", *msg.ContentFormat)
	}
	if msg.PayloadSize > 0 {
		fmt.Fprintf(w, "  Payload: %d bytes\n", msg.PayloadSize)
	}
	if msg.ProcessingTime != nil {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(*msg.ProcessingTime))
	}
}

func formatBlockDetails(w io.Writer, b *log.BlockEvent) {
	next := "complete"
	if b.Next >= 0 {
		next = fmt.Sprintf("%d", b.Next)
	}
	fmt.Fprintf(w, "  Cursor: %d  Length: %d  Next: %s  Total: %d\n", b.Cursor, b.Length, next, b.Total)
	if b.Rendered {
		fmt.Fprintln(w, "  Rendered")
	}
}

func formatNotifyDetails(w io.Writer, n *log.NotifyEvent) {
	fmt.Fprintf(w, "  Sequence: %d\n", n.Sequence)
	if n.Value != "" {
		fmt.Fprintf(w, "  Value: %s\n", n.Value)
	}
	if n.Suppressed {
		fmt.Fprintln(w, "  Suppressed (unchanged)")
		return
	}
	fmt.Fprintf(w, "  Observers: %d\n", n.Observers)
}

func formatGroupDetails(w io.Writer, g *log.GroupEvent) {
	fmt.Fprintf(w, "  Group: 0x%04x\n", g.GroupID)
	if g.Handler != "" {
		fmt.Fprintf(w, "  Handler: %s\n", g.Handler)
	}
	switch g.Action {
	case log.GroupJoin, log.GroupLeave:
		fmt.Fprintf(w, "  Applied: %t\n", g.Applied)
	case log.GroupDispatch:
		fmt.Fprintf(w, "  Handlers: %d\n", g.Handlers)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Code != nil {
		fmt.Fprintf(w, "  Code: %s\n", wire.Code(*err.Code).String())
	}
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseLayerFlag parses a layer name (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "wire":
		return log.LayerWire, nil
	case "service":
		return log.LayerService, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport, wire, or service)", s)
	}
}

// ParseDirectionFlag parses a direction name (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category name (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "block":
		return log.CategoryBlock, nil
	case "notify":
		return log.CategoryNotify, nil
	case "group":
		return log.CategoryGroup, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message, block, notify, group, or error)", s)
	}
}

// RunView writes every event of the log file at path that passes filter.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if errors.Is(err, log.ErrTruncatedLog) {
			fmt.Fprintln(output, "(log ends inside an event; the last event was not written completely)")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read event: %w", err)
		}
		if filter.match(event) {
			formatEvent(output, event)
		}
	}
}
