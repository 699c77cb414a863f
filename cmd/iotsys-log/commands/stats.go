package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/iotsys/iotsys-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Exchanges         map[string]*ExchangeStats
	Paths             map[string]int
	Groups            map[uint16]int
	Transfers         int
	Notifications     int
	Suppressed        int
	Errors            int
	Truncated         bool
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ExchangeStats holds statistics for the events of one peer.
type ExchangeStats struct {
	FirstSeen  time.Time
	LastSeen   time.Time
	Events     int
	RemoteAddr string
	Requests   int
	Errors     int
}

func newStats() *Stats {
	return &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Exchanges:         make(map[string]*ExchangeStats),
		Paths:             make(map[string]int),
		Groups:            make(map[uint16]int),
	}
}

// add folds event into the statistics.
func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if event.Path != "" {
		s.Paths[event.Path]++
	}

	if event.ExchangeID != "" {
		ex, ok := s.Exchanges[event.ExchangeID]
		if !ok {
			ex = &ExchangeStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
			s.Exchanges[event.ExchangeID] = ex
		}
		ex.Events++
		if event.Timestamp.After(ex.LastSeen) {
			ex.LastSeen = event.Timestamp
		}
		if ex.RemoteAddr == "" {
			ex.RemoteAddr = event.RemoteAddr
		}
		if event.Message != nil && event.Message.Code.IsRequest() && event.Direction == log.DirectionIn {
			ex.Requests++
		}
		if event.Error != nil {
			ex.Errors++
		}
	}

	switch {
	case event.Block != nil:
		if event.Block.Rendered {
			s.Transfers++
		}
	case event.Notify != nil:
		if event.Notify.Suppressed {
			s.Suppressed++
		} else {
			s.Notifications++
		}
	case event.Group != nil:
		s.Groups[event.Group.GroupID]++
	case event.Error != nil:
		s.Errors++
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer reader.Close()

	stats := newStats()
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if errors.Is(err, log.ErrTruncatedLog) {
			stats.Truncated = true
			break
		}
		if err != nil {
			return fmt.Errorf("read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Exchange Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerWire, log.LayerService} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryMessage, log.CategoryBlock, log.CategoryNotify, log.CategoryGroup, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if stats.Transfers > 0 || stats.Notifications > 0 || stats.Suppressed > 0 {
		fmt.Fprintf(w, "Transfers:     %d\n", stats.Transfers)
		fmt.Fprintf(w, "Notifications: %d (%d suppressed)\n", stats.Notifications, stats.Suppressed)
		fmt.Fprintln(w)
	}

	if len(stats.Paths) > 0 {
		paths := make([]string, 0, len(stats.Paths))
		for p := range stats.Paths {
			paths = append(paths, p)
		}
		sort.Slice(paths, func(i, j int) bool {
			if stats.Paths[paths[i]] != stats.Paths[paths[j]] {
				return stats.Paths[paths[i]] > stats.Paths[paths[j]]
			}
			return paths[i] < paths[j]
		})
		fmt.Fprintln(w, "Events by Path:")
		for _, p := range paths {
			fmt.Fprintf(w, "  %-28s %d\n", "/"+p+":", stats.Paths[p])
		}
		fmt.Fprintln(w)
	}

	if len(stats.Groups) > 0 {
		ids := make([]uint16, 0, len(stats.Groups))
		for id := range stats.Groups {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		fmt.Fprintln(w, "Group Activity:")
		for _, id := range ids {
			fmt.Fprintf(w, "  0x%04x       %d\n", id, stats.Groups[id])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Exchanges: %d\n", len(stats.Exchanges))
	if len(stats.Exchanges) > 0 {
		type exInfo struct {
			id    string
			stats *ExchangeStats
		}
		exs := make([]exInfo, 0, len(stats.Exchanges))
		for id, es := range stats.Exchanges {
			exs = append(exs, exInfo{id, es})
		}
		sort.Slice(exs, func(i, j int) bool {
			return exs[i].stats.FirstSeen.Before(exs[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, e := range exs {
			duration := e.stats.LastSeen.Sub(e.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, %d requests, duration %s\n",
				shortenID(e.id), e.stats.Events, e.stats.Requests, duration)
			if e.stats.RemoteAddr != "" {
				fmt.Fprintf(w, "           Remote: %s\n", e.stats.RemoteAddr)
			}
			if e.stats.Errors > 0 {
				fmt.Fprintf(w, "           Errors: %d\n", e.stats.Errors)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}

	if stats.Truncated {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warning: log ends inside an event")
	}
}
