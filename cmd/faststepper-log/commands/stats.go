package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/harp-tech/faststepper-go/pkg/harp"
	"github.com/harp-tech/faststepper-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Registers         map[uint8]*RegisterStats
	Connections       map[string]*ConnectionStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// RegisterStats counts decoded messages for one register address.
type RegisterStats struct {
	Name   string
	Reads  int
	Writes int
	Events int
	Errors int
}

// ConnectionStats holds statistics for a single connection.
type ConnectionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Target    string
	WhoAmI    uint16
	Discarded int
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := newStats()
	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func newStats() *Stats {
	return &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Registers:         make(map[uint8]*RegisterStats),
		Connections:       make(map[string]*ConnectionStats),
	}
}

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

	conn, ok := s.Connections[event.ConnectionID]
	if !ok {
		conn = &ConnectionStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Connections[event.ConnectionID] = conn
	}
	conn.Events++
	if event.Timestamp.After(conn.LastSeen) {
		conn.LastSeen = event.Timestamp
	}
	if event.Target != "" && conn.Target == "" {
		conn.Target = event.Target
	}
	if event.WhoAmI != 0 {
		conn.WhoAmI = event.WhoAmI
	}
	if event.Frame != nil {
		conn.Discarded += event.Frame.Discarded
	}

	// Only wire-layer messages are counted per register; the client layer
	// mirrors the same exchanges.
	if event.Message != nil && event.Layer == log.LayerWire {
		msg := event.Message
		reg, ok := s.Registers[msg.Address]
		if !ok {
			reg = &RegisterStats{Name: msg.Register}
			if reg.Name == "" {
				reg.Name = registerName(msg.Address)
			}
			s.Registers[msg.Address] = reg
		}
		switch {
		case msg.Type.IsError():
			reg.Errors++
		case msg.Type.Base() == harp.Read:
			reg.Reads++
		case msg.Type.Base() == harp.Write:
			reg.Writes++
		default:
			reg.Events++
		}
	}

	if event.Error != nil {
		s.Errors++
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Harp Protocol Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerWire, log.LayerClient} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryMessage, log.CategoryState, log.CategoryError} {
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

	if len(stats.Registers) > 0 {
		fmt.Fprintln(w, "Registers:")
		addrs := make([]int, 0, len(stats.Registers))
		for addr := range stats.Registers {
			addrs = append(addrs, int(addr))
		}
		sort.Ints(addrs)
		for _, addr := range addrs {
			reg := stats.Registers[uint8(addr)]
			name := reg.Name
			if name == "" {
				name = "?"
			}
			fmt.Fprintf(w, "  %3d %-22s read=%d write=%d event=%d error=%d\n",
				addr, name, reg.Reads, reg.Writes, reg.Events, reg.Errors)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Connections: %d\n", len(stats.Connections))
	if len(stats.Connections) > 0 {
		type connInfo struct {
			id    string
			stats *ConnectionStats
		}
		conns := make([]connInfo, 0, len(stats.Connections))
		for id, cs := range stats.Connections {
			conns = append(conns, connInfo{id, cs})
		}
		sort.Slice(conns, func(i, j int) bool {
			return conns[i].stats.FirstSeen.Before(conns[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, c := range conns {
			duration := c.stats.LastSeen.Sub(c.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenConnID(c.id), c.stats.Events, duration)
			if c.stats.Target != "" {
				fmt.Fprintf(w, "           Target: %s\n", c.stats.Target)
			}
			if c.stats.WhoAmI != 0 {
				fmt.Fprintf(w, "           WhoAmI: %d\n", c.stats.WhoAmI)
			}
			if c.stats.Discarded > 0 {
				fmt.Fprintf(w, "           Discarded: %d bytes\n", c.stats.Discarded)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
