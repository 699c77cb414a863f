package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/iotsys/iotsys-go/pkg/wire"
)

func logJSON(t *testing.T, ev Event) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	NewSlogAdapter(slog.New(handler)).Log(ev)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestSlogAdapterMessage(t *testing.T) {
	obs := uint32(3)
	entry := logJSON(t, Event{
		Timestamp:  time.Now(),
		ExchangeID: "ex-1",
		Direction:  DirectionOut,
		Layer:      LayerWire,
		Category:   CategoryMessage,
		Path:       "temp/value",
		Message: &MessageEvent{
			Type:      wire.NonConfirmable,
			Code:      wire.Content,
			MessageID: 77,
			Token:     []byte{0xAB},
			Observe:   &obs,
		},
	})

	want := map[string]any{
		"msg":         "exchange",
		"level":       "DEBUG",
		"exchange_id": "ex-1",
		"direction":   "OUT",
		"layer":       "WIRE",
		"path":        "temp/value",
		"msg_type":    "NON",
		"code":        "2.05",
		"token":       "ab",
		"msg_id":      float64(77),
		"observe":     float64(3),
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s: got %v, want %v", k, entry[k], v)
		}
	}
}

func TestSlogAdapterServiceEvents(t *testing.T) {
	entry := logJSON(t, Event{Category: CategoryGroup, Group: &GroupEvent{Action: GroupSend, GroupID: 1, Handler: "button/value"}})
	if entry["action"] != "SEND" || entry["group"] != "0x0001" || entry["handler"] != "button/value" {
		t.Errorf("group entry = %v", entry)
	}

	entry = logJSON(t, Event{Category: CategoryNotify, Notify: &NotifyEvent{Sequence: 5, Observers: 2, Suppressed: true}})
	if entry["seq"] != float64(5) || entry["observers"] != float64(2) || entry["suppressed"] != true {
		t.Errorf("notify entry = %v", entry)
	}

	entry = logJSON(t, Event{Category: CategoryBlock, Block: &BlockEvent{Cursor: 64, Length: 22, Next: -1, Total: 86}})
	if entry["cursor"] != float64(64) || entry["next"] != float64(-1) {
		t.Errorf("block entry = %v", entry)
	}

	code := 160
	entry = logJSON(t, Event{Category: CategoryError, Error: &ErrorEventData{Layer: LayerService, Message: "boom", Code: &code}})
	if entry["error_msg"] != "boom" || entry["error_code"] != float64(160) {
		t.Errorf("error entry = %v", entry)
	}
}

func TestSlogAdapterBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	NewSlogAdapter(slog.New(handler)).Log(Event{Frame: &FrameEvent{Size: 1}})
	if buf.Len() != 0 {
		t.Errorf("debug event written at info level: %q", buf.String())
	}
}
