package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/clambin/ezone-monitor/internal/poller"
)

type Poller interface {
	Subscribe() <-chan poller.Snapshot
	Unsubscribe(<-chan poller.Snapshot)
	RequestRefresh()
	State() (poller.State, error)
}

// Health serves the latest snapshot. It returns 503 until the first refresh succeeded.
type Health struct {
	Poller
	logger   *slog.Logger
	snapshot poller.Snapshot
	updated  bool
	lock     sync.RWMutex
}

type response struct {
	State    string          `json:"state"`
	Error    string          `json:"error,omitempty"`
	Snapshot poller.Snapshot `json:"snapshot"`
}

func New(p Poller, logger *slog.Logger) *Health {
	return &Health{
		Poller: p,
		logger: logger,
	}
}

func (h *Health) Run(ctx context.Context) error {
	h.logger.Debug("started")
	defer h.logger.Debug("stopped")

	ch := h.Poller.Subscribe()
	defer h.Poller.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot := <-ch:
			h.lock.Lock()
			h.snapshot = snapshot
			h.updated = true
			h.lock.Unlock()
		}
	}
}

func (h *Health) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.lock.RLock()
	defer h.lock.RUnlock()
	if !h.updated {
		http.Error(w, "no update yet", http.StatusServiceUnavailable)
		h.Poller.RequestRefresh()
		return
	}

	resp := response{Snapshot: h.snapshot}
	state, err := h.Poller.State()
	resp.State = state.String()
	if err != nil {
		resp.Error = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err = encoder.Encode(resp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
