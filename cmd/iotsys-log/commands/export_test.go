package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iotsys/iotsys-go/pkg/log"
	"github.com/iotsys/iotsys-go/pkg/wire"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.xlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func exchangeEvents(ts time.Time) []log.Event {
	return []log.Event{
		{
			Timestamp:  ts,
			ExchangeID: "abc12345-0000",
			Direction:  log.DirectionIn,
			Layer:      log.LayerWire,
			Category:   log.CategoryMessage,
			Node:       "node-1",
			RemoteAddr: "[fe80::1]:5683",
			Path:       "temperature",
			Message: &log.MessageEvent{
				Type:      wire.Confirmable,
				Code:      wire.GET,
				MessageID: 42,
			},
		},
		{
			Timestamp:  ts.Add(time.Millisecond),
			ExchangeID: "abc12345-0000",
			Direction:  log.DirectionOut,
			Layer:      log.LayerService,
			Category:   log.CategoryBlock,
			Node:       "node-1",
			RemoteAddr: "[fe80::1]:5683",
			Path:       "temperature",
			Block:      &log.BlockEvent{Cursor: 0, Length: 64, Next: 64, Total: 90, Rendered: true},
		},
	}
}

func TestExportToJSONL(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	path := createTestLogFile(t, exchangeEvents(ts))
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if first["ExchangeID"] != "abc12345-0000" {
		t.Errorf("unexpected exchange ID: %v", first["ExchangeID"])
	}
	if first["Path"] != "temperature" {
		t.Errorf("unexpected path: %v", first["Path"])
	}
}

func TestExportToCSV(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	path := createTestLogFile(t, exchangeEvents(ts))
	out := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("unexpected header: %v", records[0])
	}

	row := records[1]
	if row[0] != "2026-01-28T10:15:32.123456Z" {
		t.Errorf("unexpected timestamp: %s", row[0])
	}
	if row[5] != "node-1" || row[6] != "[fe80::1]:5683" || row[7] != "temperature" {
		t.Errorf("unexpected node/remote/path: %v", row[5:8])
	}
	if row[8] != "CON GET" || row[9] != "42" {
		t.Errorf("unexpected type/message_id: %v", row[8:])
	}
	if records[2][8] != "block" || records[2][9] != "" {
		t.Errorf("unexpected block row: %v", records[2])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, nil)
	err := RunExport(path, "xml", "")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}
