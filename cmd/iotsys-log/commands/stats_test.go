package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/iotsys/iotsys-go/pkg/log"
	"github.com/iotsys/iotsys-go/pkg/wire"
)

func TestStatsAggregation(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := exchangeEvents(base)
	events = append(events,
		log.Event{
			Timestamp: base.Add(time.Second), ExchangeID: "def67890", Direction: log.DirectionIn,
			Layer: log.LayerWire, Category: log.CategoryMessage, RemoteAddr: "[fe80::2]:5683", Path: "leds/red",
			Message: &log.MessageEvent{Type: wire.Confirmable, Code: wire.PUT, MessageID: 7},
		},
		log.Event{
			Timestamp: base.Add(2 * time.Second), Direction: log.DirectionOut, Layer: log.LayerService,
			Category: log.CategoryNotify, Path: "temperature",
			Notify: &log.NotifyEvent{Sequence: 1, Observers: 1},
		},
		log.Event{
			Timestamp: base.Add(3 * time.Second), Direction: log.DirectionOut, Layer: log.LayerService,
			Category: log.CategoryNotify, Path: "temperature",
			Notify: &log.NotifyEvent{Sequence: 1, Suppressed: true},
		},
		log.Event{
			Timestamp: base.Add(4 * time.Second), Direction: log.DirectionIn, Layer: log.LayerService,
			Category: log.CategoryGroup, Path: "leds/red",
			Group: &log.GroupEvent{Action: log.GroupJoin, GroupID: 0x0001, Handler: "leds/red", Applied: true},
		},
		log.Event{
			Timestamp: base.Add(5 * time.Second), ExchangeID: "def67890", Direction: log.DirectionOut,
			Layer: log.LayerService, Category: log.CategoryError, Path: "leds/red",
			Error: &log.ErrorEventData{Layer: log.LayerService, Message: "boom"},
		},
	)

	stats := newStats()
	for _, e := range events {
		stats.add(e)
	}

	if stats.TotalEvents != 7 {
		t.Errorf("TotalEvents = %d, want 7", stats.TotalEvents)
	}
	if len(stats.Exchanges) != 2 {
		t.Fatalf("Exchanges = %d, want 2", len(stats.Exchanges))
	}
	ex := stats.Exchanges["def67890"]
	if ex.Requests != 1 || ex.Errors != 1 || ex.RemoteAddr != "[fe80::2]:5683" {
		t.Errorf("unexpected exchange stats: %+v", ex)
	}
	if stats.Transfers != 1 {
		t.Errorf("Transfers = %d, want 1", stats.Transfers)
	}
	if stats.Notifications != 1 || stats.Suppressed != 1 {
		t.Errorf("Notifications = %d/%d, want 1/1", stats.Notifications, stats.Suppressed)
	}
	if stats.Groups[0x0001] != 1 {
		t.Errorf("Groups = %v", stats.Groups)
	}
	if stats.Paths["temperature"] != 4 {
		t.Errorf("Paths[temperature] = %d, want 4", stats.Paths["temperature"])
	}
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
}

func TestRunStatsOutput(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, exchangeEvents(base))

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 2",
		"WIRE:",
		"BLOCK:",
		"Transfers:     1",
		"/temperature:",
		"Exchanges: 1",
		"[abc12345] 2 events, 1 requests",
		"Remote: [fe80::1]:5683",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestRunStatsEmpty(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
