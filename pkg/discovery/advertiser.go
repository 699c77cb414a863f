package discovery

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Advertiser provides mDNS service advertising capabilities.
type Advertiser interface {
	// Advertise starts advertising the node. An existing advertisement is
	// replaced.
	Advertise(ctx context.Context, info *NodeInfo) error

	// Update replaces the TXT records of the running advertisement.
	Update(info *NodeInfo) error

	// Stop stops advertising.
	Stop() error
}

// Announcer keeps a node's advertisement in line with its state. It only
// touches the advertiser when the advertised information changes.
type Announcer struct {
	mu sync.Mutex

	advertiser Advertiser
	current    *NodeInfo
	backoff    *Backoff
}

// NewAnnouncer creates an announcer using advertiser.
func NewAnnouncer(advertiser Advertiser) *Announcer {
	return &Announcer{advertiser: advertiser, backoff: NewBackoff()}
}

// SetBackoff replaces the retry delays used by Run.
func (a *Announcer) SetBackoff(b *Backoff) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.backoff = b
}

// Start advertises info.
func (a *Announcer) Start(ctx context.Context, info NodeInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.advertiser.Advertise(ctx, &info); err != nil {
		return err
	}
	a.current = &info
	return nil
}

// Refresh updates the advertisement when info differs from what is
// advertised. It reports whether an update was sent.
func (a *Announcer) Refresh(info NodeInfo) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return false, ErrNotAdvertising
	}
	if sameInfo(a.current, &info) {
		return false, nil
	}
	if err := a.advertiser.Update(&info); err != nil {
		return false, err
	}
	a.current = &info
	return true, nil
}

// Current returns the advertised information, or nil before Start.
func (a *Announcer) Current() *NodeInfo {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return nil
	}
	info := *a.current
	return &info
}

// Stop stops advertising. Stopping an idle announcer is a no-op.
func (a *Announcer) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return nil
	}
	a.current = nil
	return a.advertiser.Stop()
}

// Run keeps the node advertised until ctx is done. Until an advertisement
// succeeds, Start is retried with backoff. Afterwards info is polled every
// interval and published when it changes. Failures are passed to onErr,
// which may be nil.
func (a *Announcer) Run(ctx context.Context, info func() NodeInfo, interval time.Duration, onErr func(error)) {
	report := func(err error) {
		if onErr != nil {
			onErr(err)
		}
	}

	a.mu.Lock()
	backoff := a.backoff
	a.mu.Unlock()

	for a.Current() == nil {
		err := a.Start(ctx, info())
		if err == nil {
			backoff.Reset()
			break
		}
		report(err)

		timer := time.NewTimer(backoff.Next())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.Refresh(info()); err != nil {
				report(err)
			}
		}
	}
}

func sameInfo(a, b *NodeInfo) bool {
	return a.Name == b.Name &&
		a.NodeID == b.NodeID &&
		a.Port == b.Port &&
		a.Groups == b.Groups &&
		slices.Equal(a.ResourceTypes, b.ResourceTypes)
}
