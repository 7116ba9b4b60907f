package notifier

import (
	"context"
	"log/slog"

	"github.com/clambin/ezone-monitor/internal/poller"
)

type SLogNotifier struct {
	Logger *slog.Logger
}

var _ poller.Notifier = SLogNotifier{}

func (s SLogNotifier) Notify(ctx context.Context, event poller.Event) {
	level := slog.LevelInfo
	if event.Type == poller.EventRefreshFailed || event.Type == poller.EventZonesMissing {
		level = slog.LevelWarn
	}
	s.Logger.Log(ctx, level, event.String(), slog.Any("event", event))
}
