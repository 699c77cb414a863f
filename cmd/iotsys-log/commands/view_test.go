package commands

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/iotsys/iotsys-go/pkg/log"
	"github.com/iotsys/iotsys-go/pkg/wire"
)

func TestFormatFrameEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	event := log.Event{
		Timestamp:  ts,
		ExchangeID: "abc12345-6789-0123-4567-890abcdef012",
		Direction:  log.DirectionIn,
		Layer:      log.LayerTransport,
		Category:   log.CategoryMessage,
		RemoteAddr: "[fe80::1]:5683",
		Frame: &log.FrameEvent{
			Size:      128,
			Data:      []byte{0x40, 0x01, 0x00, 0x2a},
			Truncated: true,
			Multicast: true,
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{
		"2026-01-28T10:15:32.123456Z",
		"[ex:abc12345]",
		"IN ",
		"TRANSPORT",
		"Frame (multicast)",
		"Remote: [fe80::1]:5683",
		"128 bytes",
		"4001002a (truncated)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestFormatMessageEvent(t *testing.T) {
	obs := uint32(7)
	block := uint32(0x1a) // num 1, more, 64 bytes
	cf := uint16(wire.AppXML)
	d := 1500 * time.Microsecond
	event := log.Event{
		ExchangeID: "ex",
		Direction:  log.DirectionOut,
		Layer:      log.LayerWire,
		Category:   log.CategoryMessage,
		Path:       "temperature",
		Message: &log.MessageEvent{
			Type:           wire.Acknowledgement,
			Code:           wire.Content,
			MessageID:      42,
			Token:          []byte{0xbe, 0xef},
			Observe:        &obs,
			Block2:         &block,
			ContentFormat:  &cf,
			PayloadSize:    64,
			ProcessingTime: &d,
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{
		"[ex:ex]",
		"ACK 2.05 /temperature",
		"MessageID: 42",
		"Token: beef",
		"Observe: 7",
		"Block2: 1/1/64",
		"Payload: 64 bytes",
		"Duration: 1.500ms",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestFormatServiceEvents(t *testing.T) {
	code := int(wire.BadOption)
	tests := []struct {
		name  string
		event log.Event
		want  []string
	}{
		{
			name:  "block",
			event: log.Event{Block: &log.BlockEvent{Cursor: 64, Length: 26, Next: -1, Total: 90}},
			want:  []string{"Block", "Cursor: 64", "Next: complete", "Total: 90"},
		},
		{
			name:  "notify",
			event: log.Event{Notify: &log.NotifyEvent{Sequence: 3, Observers: 2, Value: "21.5"}},
			want:  []string{"Notify", "Sequence: 3", "Value: 21.5", "Observers: 2"},
		},
		{
			name:  "suppressed",
			event: log.Event{Notify: &log.NotifyEvent{Sequence: 3, Suppressed: true}},
			want:  []string{"Suppressed (unchanged)"},
		},
		{
			name:  "group join",
			event: log.Event{Group: &log.GroupEvent{Action: log.GroupJoin, GroupID: 0x1234, Handler: "leds/red", Applied: true}},
			want:  []string{"Group JOIN", "Group: 0x1234", "Handler: leds/red", "Applied: true"},
		},
		{
			name:  "group dispatch",
			event: log.Event{Group: &log.GroupEvent{Action: log.GroupDispatch, GroupID: 1, Handlers: 2}},
			want:  []string{"Group DISPATCH", "Handlers: 2"},
		},
		{
			name: "error",
			event: log.Event{Error: &log.ErrorEventData{
				Layer: log.LayerService, Message: "block out of scope", Code: &code, Context: "GET temperature",
			}},
			want: []string{"Error", "Layer: SERVICE", "Message: block out of scope", "Code: 4.02", "Context: GET temperature"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			formatEvent(&buf, tt.event)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("expected %q in output:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestRunViewFilters(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	path := createTestLogFile(t, exchangeEvents(ts))

	block := log.CategoryBlock
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Category: &block}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if strings.Contains(buf.String(), "MessageID") {
		t.Errorf("message event not filtered:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "Cursor: 0") {
		t.Errorf("block event missing:\n%s", buf.String())
	}

	buf.Reset()
	if err := RunView(path, ViewFilter{PathPrefix: "/leds"}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got:\n%s", buf.String())
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLayerFlag("Wire"); err != nil || l != log.LayerWire {
		t.Errorf("ParseLayerFlag = %v, %v", l, err)
	}
	if d, err := ParseDirectionFlag("OUT"); err != nil || d != log.DirectionOut {
		t.Errorf("ParseDirectionFlag = %v, %v", d, err)
	}
	if c, err := ParseCategoryFlag("notify"); err != nil || c != log.CategoryNotify {
		t.Errorf("ParseCategoryFlag = %v, %v", c, err)
	}
	if _, err := ParseCategoryFlag("control"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestRunViewTruncatedLog(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, exchangeEvents(ts))

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if err := os.Truncate(path, info.Size()-2); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "/temp") {
		t.Errorf("expected the intact first event in output:\n%s", out)
	}
	if !strings.Contains(out, "log ends inside an event") {
		t.Errorf("expected truncation notice in output:\n%s", out)
	}
}
