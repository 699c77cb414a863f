package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/iotsys/iotsys-go/pkg/wire"
)

func TestEventRoundTrip(t *testing.T) {
	observe := uint32(12)
	block := uint32(0x1A)
	cf := uint16(wire.AppXML)
	took := 3 * time.Millisecond

	tests := []struct {
		name  string
		event Event
	}{
		{
			name: "frame",
			event: Event{
				ExchangeID: "ex-1",
				Direction:  DirectionIn,
				Layer:      LayerTransport,
				Category:   CategoryMessage,
				RemoteAddr: "[2001:db8::1]:5683",
				Frame:      &FrameEvent{Size: 3, Data: []byte{0x40, 0x01, 0x00}, Multicast: true},
			},
		},
		{
			name: "message",
			event: Event{
				ExchangeID: "ex-1",
				Direction:  DirectionOut,
				Layer:      LayerWire,
				Category:   CategoryMessage,
				Path:       "temp/value",
				Message: &MessageEvent{
					Type:           wire.Acknowledgement,
					Code:           wire.Content,
					MessageID:      0x1234,
					Token:          []byte{0x71},
					Observe:        &observe,
					Block2:         &block,
					ContentFormat:  &cf,
					PayloadSize:    64,
					ProcessingTime: &took,
				},
			},
		},
		{
			name: "block",
			event: Event{
				Layer:    LayerService,
				Category: CategoryBlock,
				Path:     "leds",
				Block:    &BlockEvent{Cursor: 64, Length: 64, Next: 128, Total: 150, Rendered: false},
			},
		},
		{
			name: "notify",
			event: Event{
				Layer:    LayerService,
				Category: CategoryNotify,
				Path:     "battery/value",
				Notify:   &NotifyEvent{Sequence: 0xFFFFFF, Observers: 2, Value: "100"},
			},
		},
		{
			name: "group",
			event: Event{
				Layer:    LayerService,
				Category: CategoryGroup,
				Group:    &GroupEvent{Action: GroupJoin, GroupID: 0x00AB, Handler: "leds/red", Applied: true},
			},
		},
		{
			name: "error",
			event: Event{
				Layer:    LayerService,
				Category: CategoryError,
				Error:    &ErrorEventData{Layer: LayerService, Message: "block out of scope", Context: "GET leds"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.event.Timestamp = time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)

			data, err := EncodeEvent(tt.event)
			if err != nil {
				t.Fatalf("EncodeEvent() error = %v", err)
			}
			got, err := DecodeEvent(data)
			if err != nil {
				t.Fatalf("DecodeEvent() error = %v", err)
			}

			if !got.Timestamp.Equal(tt.event.Timestamp) {
				t.Errorf("Timestamp = %v, want %v", got.Timestamp, tt.event.Timestamp)
			}
			again, err := EncodeEvent(got)
			if err != nil {
				t.Fatalf("EncodeEvent() error = %v", err)
			}
			if !bytes.Equal(data, again) {
				t.Error("re-encoding decoded event differs")
			}
		})
	}
}

func TestEventDeterministic(t *testing.T) {
	ev := Event{
		Timestamp: time.Unix(0, 1),
		Category:  CategoryGroup,
		Group:     &GroupEvent{Action: GroupDispatch, GroupID: 7, Handlers: 2},
	}
	a, _ := EncodeEvent(ev)
	b, _ := EncodeEvent(ev)
	if !bytes.Equal(a, b) {
		t.Error("encoding not deterministic")
	}
}

func TestDecodeEventGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xFF, 0x00}); err == nil {
		t.Error("DecodeEvent() accepted garbage")
	}
}

func TestDecodeEventRejectsDuplicateKeys(t *testing.T) {
	// {2: "a", 2: "b"}: the exchange ID key twice.
	data := []byte{0xA2, 0x02, 0x61, 'a', 0x02, 0x61, 'b'}
	if _, err := DecodeEvent(data); err == nil {
		t.Error("DecodeEvent() accepted duplicate keys")
	}
}

func TestDecodeEventRejectsIndefiniteLength(t *testing.T) {
	// Indefinite-length map holding {2: "a"}.
	data := []byte{0xBF, 0x02, 0x61, 'a', 0xFF}
	if _, err := DecodeEvent(data); err == nil {
		t.Error("DecodeEvent() accepted an indefinite-length map")
	}
}

func TestDecodeEventTruncated(t *testing.T) {
	data, err := EncodeEvent(Event{ExchangeID: "ex-1", Path: "temp/value"})
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}
	if _, err := DecodeEvent(data[:len(data)-3]); err == nil {
		t.Error("DecodeEvent() accepted a truncated event")
	}
}
