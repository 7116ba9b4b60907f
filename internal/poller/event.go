package poller

import (
	"context"
	"log/slog"
	"strings"
)

// A Notifier is told when the controller stops or starts responding, and when zones go missing.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

type EventType int

const (
	EventRefreshFailed EventType = iota
	EventRecovered
	EventZonesMissing
	EventZonesRecovered
)

func (t EventType) String() string {
	switch t {
	case EventRefreshFailed:
		return "refresh failed"
	case EventRecovered:
		return "refresh recovered"
	case EventZonesMissing:
		return "zones missing"
	case EventZonesRecovered:
		return "zones recovered"
	default:
		return "unknown"
	}
}

// Event describes a change in the controller's availability. Err is set for EventRefreshFailed;
// Zones holds the zone numbers for EventZonesMissing and EventZonesRecovered.
type Event struct {
	Type  EventType
	Err   error
	Zones []string
}

func (e Event) String() string {
	switch e.Type {
	case EventRefreshFailed:
		return "controller not responding: " + e.Err.Error()
	case EventRecovered:
		return "controller responding again"
	case EventZonesMissing:
		return "zones not responding: " + strings.Join(e.Zones, ", ")
	case EventZonesRecovered:
		return "zones responding again: " + strings.Join(e.Zones, ", ")
	default:
		return e.Type.String()
	}
}

func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("type", e.Type.String())}
	if e.Err != nil {
		attrs = append(attrs, slog.Any("err", e.Err))
	}
	if len(e.Zones) > 0 {
		attrs = append(attrs, slog.Any("zones", e.Zones))
	}
	return slog.GroupValue(attrs...)
}
