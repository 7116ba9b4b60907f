// Package notifier reports changes in the controller's availability.
package notifier

import (
	"context"

	"github.com/clambin/ezone-monitor/internal/poller"
)

var _ poller.Notifier = Notifiers{}

// Notifiers sends each event to all its Notifiers.
type Notifiers []poller.Notifier

func (n Notifiers) Notify(ctx context.Context, event poller.Event) {
	for _, l := range n {
		l.Notify(ctx, event)
	}
}

func color(event poller.Event) string {
	switch event.Type {
	case poller.EventRecovered, poller.EventZonesRecovered:
		return "good"
	case poller.EventRefreshFailed:
		return "danger"
	default:
		return "warning"
	}
}
