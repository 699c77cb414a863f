package subscription

import (
	"net/netip"
	"sync"
	"testing"
)

func observer(port uint16, token string) Observer {
	return Observer{
		Addr:  netip.AddrPortFrom(netip.MustParseAddr("2001:db8::1"), port),
		Token: []byte(token),
	}
}

func TestSubscriptionBasic(t *testing.T) {
	tok := []byte{1, 2}
	sub := NewSubscription(1, "temp/value", Observer{Token: tok})

	if sub.ID != 1 {
		t.Errorf("ID = %d, want 1", sub.ID)
	}
	if !sub.IsActive() {
		t.Error("IsActive() = false, want true")
	}

	tok[0] = 9
	if sub.Observer.Token[0] != 1 {
		t.Error("token not copied on registration")
	}

	sub.Deactivate()
	if sub.IsActive() {
		t.Error("IsActive() = true after deactivate, want false")
	}
}

func TestSubscriptionRecordNotification(t *testing.T) {
	sub := NewSubscription(1, "acc/value", observer(5683, "a"))

	sub.RecordNotification(7)
	sub.RecordNotification(8)

	if got := sub.Notifications(); got != 2 {
		t.Errorf("Notifications() = %d, want 2", got)
	}
	if got := sub.LastSequence(); got != 8 {
		t.Errorf("LastSequence() = %d, want 8", got)
	}
	if sub.TimeSinceLastNotification() < 0 {
		t.Error("TimeSinceLastNotification() negative")
	}
}

func TestNextSequenceWraps(t *testing.T) {
	tests := []struct {
		in, want uint32
	}{
		{0, 1},
		{41, 42},
		{0xFFFFFE, 0xFFFFFF},
		{0xFFFFFF, 0},
	}
	for _, tt := range tests {
		if got := nextSequence(tt.in); got != tt.want {
			t.Errorf("nextSequence(%#x) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestManagerObserve(t *testing.T) {
	m := NewManager()

	id, seq, err := m.Observe("temp/value", observer(1000, "t1"))
	if err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	if id == 0 {
		t.Error("Observe() returned ID = 0")
	}
	if seq != 0 {
		t.Errorf("Observe() sequence = %d, want 0", seq)
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}

	m.Notify("temp/value", []byte("x"))
	_, seq, _ = m.Observe("temp/value", observer(1001, "t2"))
	if seq != 1 {
		t.Errorf("Observe() sequence after one notification = %d, want 1", seq)
	}
}

func TestManagerObserveReplaces(t *testing.T) {
	m := NewManager()

	first, _, _ := m.Observe("temp/value", observer(1000, "old"))
	second, _, err := m.Observe("temp/value", observer(1000, "new"))
	if err != nil {
		t.Fatalf("Observe() error = %v", err)
	}

	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
	if _, err := m.Get(first); err != ErrSubscriptionNotFound {
		t.Errorf("Get(first) error = %v, want ErrSubscriptionNotFound", err)
	}
	sub, err := m.Get(second)
	if err != nil {
		t.Fatalf("Get(second) error = %v", err)
	}
	if string(sub.Observer.Token) != "new" {
		t.Errorf("token = %q, want %q", sub.Observer.Token, "new")
	}

	// Same address on another resource is a separate observation.
	m.Observe("battery/value", observer(1000, "new"))
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
}

func TestManagerInvalidToken(t *testing.T) {
	m := NewManager()
	_, _, err := m.Observe("temp/value", observer(1, "123456789"))
	if err != ErrInvalidToken {
		t.Errorf("Observe() error = %v, want ErrInvalidToken", err)
	}
}

func TestManagerResourceExhausted(t *testing.T) {
	config := DefaultConfig()
	config.MaxSubscriptions = 2
	m := NewManagerWithConfig(config)

	m.Observe("temp/value", observer(1, "a"))
	m.Observe("acc/value", observer(1, "b"))

	_, _, err := m.Observe("button/value", observer(1, "c"))
	if err != ErrResourceExhausted {
		t.Errorf("Third Observe error = %v, want ErrResourceExhausted", err)
	}

	// Re-registration is still possible at the limit.
	if _, _, err := m.Observe("temp/value", observer(1, "d")); err != nil {
		t.Errorf("re-registration error = %v", err)
	}
}

func TestManagerCancel(t *testing.T) {
	m := NewManager()

	id, _, _ := m.Observe("temp/value", observer(1, "a"))

	if err := m.Cancel(id); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if m.Count() != 0 {
		t.Errorf("Count() = %d after cancel, want 0", m.Count())
	}
	if err := m.Cancel(id); err != ErrSubscriptionNotFound {
		t.Errorf("Second Cancel() error = %v, want ErrSubscriptionNotFound", err)
	}
}

func TestManagerCancelObserver(t *testing.T) {
	m := NewManager()
	o := observer(1, "a")
	m.Observe("temp/value", o)
	m.Observe("battery/value", o)

	if err := m.CancelObserver("temp/value", o.Addr); err != nil {
		t.Fatalf("CancelObserver() error = %v", err)
	}
	if got := len(m.Observers("temp/value")); got != 0 {
		t.Errorf("Observers(temp/value) = %d, want 0", got)
	}
	if got := len(m.Observers("battery/value")); got != 1 {
		t.Errorf("Observers(battery/value) = %d, want 1", got)
	}
	if err := m.CancelObserver("temp/value", o.Addr); err != ErrSubscriptionNotFound {
		t.Errorf("CancelObserver() again error = %v, want ErrSubscriptionNotFound", err)
	}
}

func TestManagerCancelByToken(t *testing.T) {
	m := NewManager()
	m.Observe("temp/value", observer(1, "tok"))
	m.Observe("acc/value", observer(1, "tok"))
	m.Observe("button/value", observer(1, "other"))
	m.Observe("battery/value", observer(2, "tok"))

	if n := m.CancelByToken(observer(1, "").Addr, []byte("tok")); n != 2 {
		t.Errorf("CancelByToken() = %d, want 2", n)
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
}

func TestManagerNotify(t *testing.T) {
	m := NewManager()

	var notifications []Notification
	var mu sync.Mutex
	m.OnNotification(func(n Notification) {
		mu.Lock()
		notifications = append(notifications, n)
		mu.Unlock()
	})

	a := observer(1, "a")
	b := observer(2, "b")
	m.Observe("temp/value", a)
	m.Observe("temp/value", b)
	m.Observe("acc/value", observer(3, "c"))

	seq, n := m.Notify("temp/value", []byte("<real/>"))
	if seq != 1 || n != 2 {
		t.Errorf("Notify() = (%d, %d), want (1, 2)", seq, n)
	}

	mu.Lock()
	defer mu.Unlock()

	if len(notifications) != 2 {
		t.Fatalf("got %d notifications, want 2", len(notifications))
	}
	if !notifications[0].Observer.Equal(a) || !notifications[1].Observer.Equal(b) {
		t.Error("notifications not in registration order")
	}
	for _, got := range notifications {
		if got.Sequence != 1 || got.Path != "temp/value" || string(got.Payload) != "<real/>" {
			t.Errorf("notification = %+v", got)
		}
	}
}

func TestManagerNotifySequencePerResource(t *testing.T) {
	m := NewManager()

	for i := 0; i < 3; i++ {
		m.Notify("temp/value", nil)
	}
	m.Notify("battery/value", nil)

	if got := m.Sequence("temp/value"); got != 3 {
		t.Errorf("Sequence(temp/value) = %d, want 3", got)
	}
	if got := m.Sequence("battery/value"); got != 1 {
		t.Errorf("Sequence(battery/value) = %d, want 1", got)
	}

	m.mu.Lock()
	m.sequences["acc/value"] = SequenceMask
	m.mu.Unlock()
	if seq, _ := m.Notify("acc/value", nil); seq != 0 {
		t.Errorf("Notify() after 0xFFFFFF = %#x, want 0", seq)
	}
}

func TestManagerUnchanged(t *testing.T) {
	m := NewManager()

	if m.Unchanged("temp/value", []byte("25.0")) {
		t.Error("Unchanged() = true with nothing recorded")
	}

	token := []byte("25.0")
	m.Record("temp/value", token)
	token[0] = '9'

	if !m.Unchanged("temp/value", []byte("25.0")) {
		t.Error("Unchanged() = false for equal token")
	}
	if m.Unchanged("temp/value", []byte("25.1")) {
		t.Error("Unchanged() = true for different token")
	}

	config := DefaultConfig()
	config.SuppressUnchanged = false
	m = NewManagerWithConfig(config)
	m.Record("temp/value", []byte("25.0"))
	if m.Unchanged("temp/value", []byte("25.0")) {
		t.Error("Unchanged() = true with suppression disabled")
	}
}

func TestManagerClearAll(t *testing.T) {
	m := NewManager()

	m.Observe("temp/value", observer(1, "a"))
	m.Observe("acc/value", observer(1, "b"))
	m.Notify("temp/value", nil)

	m.ClearAll()

	if m.Count() != 0 {
		t.Errorf("Count() = %d after ClearAll, want 0", m.Count())
	}
	if got := m.Sequence("temp/value"); got != 1 {
		t.Errorf("Sequence() = %d after ClearAll, want 1", got)
	}
}
