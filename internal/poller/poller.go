package poller

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/clambin/ezone-monitor/pkg/ezone"
	"github.com/clambin/ezone-monitor/pkg/ezone/xmlnode"
	"github.com/clambin/ezone-monitor/pkg/pubsub"
	"github.com/clambin/go-common/set"
	"golang.org/x/sync/singleflight"
)

//go:generate mockery --name Client
type Client interface {
	GetAllData(ctx context.Context) (ezone.AllData, error)
	GetZoneTimer(ctx context.Context) (xmlnode.Node, error)
	SetSystemData(ctx context.Context, settings ezone.SystemSettings) (string, error)
	SetZoneData(ctx context.Context, zone int, settings ezone.ZoneSettings) (string, error)
	ChangeSystemName(ctx context.Context, name string) (string, error)
	SetZoneTimer(ctx context.Context, timer ezone.ZoneTimer) (string, error)
}

var _ Client = &ezone.Client{}

// State is the outcome of the last refresh.
type State int

const (
	StateUnknown State = iota
	StateFresh
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Poller keeps the latest Snapshot of the controller and publishes every new one to its subscribers.
//
// Refreshes are single-flight: callers that ask for a refresh while one is in progress share its result.
// Command methods always trigger a new refresh, so the returned state includes the effect of the command.
type Poller struct {
	*pubsub.Publisher[Snapshot]
	client   Client
	interval time.Duration
	aliases  map[int]string
	notifier Notifier
	logger   *slog.Logger
	refresh  chan struct{}
	group    singleflight.Group

	events        chan Event
	startNotifier sync.Once

	lock     sync.RWMutex
	snapshot Snapshot
	valid    bool
	state    State
	lastErr  error
	started  uint64
	stored   uint64
	missing  set.Set[string]
}

// Option configures a Poller.
type Option func(*Poller)

// WithAliases sets the display names of zones, by zone number.
func WithAliases(aliases map[int]string) Option {
	return func(p *Poller) {
		p.aliases = aliases
	}
}

// WithNotifier sets the Notifier that is told about failed refreshes and missing zones.
// Events are delivered in order, in the background: a slow Notifier does not hold up refreshes.
func WithNotifier(n Notifier) Option {
	return func(p *Poller) {
		p.notifier = n
	}
}

func New(client Client, interval time.Duration, logger *slog.Logger, options ...Option) *Poller {
	p := Poller{
		Publisher: pubsub.New[Snapshot](logger.With(slog.String("component", "pubsub"))),
		client:    client,
		interval:  interval,
		logger:    logger,
		refresh:   make(chan struct{}, 1),
		events:    make(chan Event, eventBacklog),
		missing:   set.New[string](),
	}
	for _, option := range options {
		option(&p)
	}
	return &p
}

// Run refreshes the snapshot at start-up, every interval and whenever RequestRefresh is called.
// Failed refreshes are logged. Run returns when ctx is canceled.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Debug("started", slog.Duration("interval", p.interval))
	defer p.logger.Debug("stopped")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if _, err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error("failed to get ezone data", slog.Any("err", err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-p.refresh:
		}
	}
}

// RequestRefresh asks Run to refresh the snapshot. It does not wait for the refresh to happen.
func (p *Poller) RequestRefresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

const refreshKey = "refresh"

// Refresh collects a new snapshot. If a refresh is already in progress, Refresh waits for it and returns its result.
//
// On failure, the previous snapshot is kept (and can be read with Snapshot) and the error is returned.
func (p *Poller) Refresh(ctx context.Context) (Snapshot, error) {
	v, err, _ := p.group.Do(refreshKey, func() (any, error) {
		return p.poll(ctx)
	})
	return v.(Snapshot), err
}

// forceRefresh performs a refresh that is guaranteed to start after the call.
func (p *Poller) forceRefresh(ctx context.Context) (Snapshot, error) {
	p.group.Forget(refreshKey)
	return p.Refresh(ctx)
}

// Snapshot returns the last successfully collected snapshot. It returns false if no refresh has succeeded yet.
func (p *Poller) Snapshot() (Snapshot, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.snapshot, p.valid
}

// State returns the outcome of the last refresh, and its error if it failed.
func (p *Poller) State() (State, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.state, p.lastErr
}

func (p *Poller) poll(ctx context.Context) (Snapshot, error) {
	p.lock.Lock()
	p.started++
	seq := p.started
	p.lock.Unlock()

	start := time.Now()
	data, err := p.client.GetAllData(ctx)
	if err != nil {
		return p.fail(ctx, seq, err)
	}

	snapshot := Snapshot{
		System:    data.System,
		Zones:     make(map[string]ezone.Zone, len(data.Zones)),
		Timestamp: time.Now(),
	}
	for key, zone := range data.Zones {
		zone.Alias = p.aliases[zone.ID]
		snapshot.Zones[key] = zone
	}
	p.logger.Debug("poll completed", slog.Duration("duration", time.Since(start)), slog.Any("snapshot", snapshot))
	return p.store(seq, snapshot), nil
}

func (p *Poller) store(seq uint64, snapshot Snapshot) Snapshot {
	p.lock.Lock()
	if seq < p.stored {
		// a later refresh completed first: don't go back in time
		current := p.snapshot
		p.lock.Unlock()
		return current
	}
	p.snapshot = snapshot
	p.valid = true
	p.stored = seq
	previous := p.state
	p.state = StateFresh
	p.lastErr = nil
	missing, recovered := p.updateMissing(snapshot)
	p.lock.Unlock()

	p.Publish(snapshot)

	if previous == StateFailed {
		p.notify(Event{Type: EventRecovered})
	}
	if len(missing) > 0 {
		p.notify(Event{Type: EventZonesMissing, Zones: missing})
	}
	if len(recovered) > 0 {
		p.notify(Event{Type: EventZonesRecovered, Zones: recovered})
	}
	return snapshot
}

func (p *Poller) fail(ctx context.Context, seq uint64, err error) (Snapshot, error) {
	p.lock.Lock()
	current := p.snapshot
	if seq < p.stored {
		p.lock.Unlock()
		return current, err
	}
	previous := p.state
	p.state = StateFailed
	p.lastErr = err
	p.lock.Unlock()

	if previous != StateFailed && ctx.Err() == nil {
		p.notify(Event{Type: EventRefreshFailed, Err: err})
	}
	return current, err
}

// updateMissing records which zones are missing from snapshot and returns the zones that went missing
// and those that came back since the previous snapshot. Must be called with the lock held.
func (p *Poller) updateMissing(snapshot Snapshot) ([]string, []string) {
	current := set.New(snapshot.missingZones()...)
	var missing, recovered []string
	for zone := range current {
		if !p.missing.Contains(zone) {
			missing = append(missing, zone)
		}
	}
	for zone := range p.missing {
		if !current.Contains(zone) {
			recovered = append(recovered, zone)
		}
	}
	p.missing = current
	return sortZones(missing), sortZones(recovered)
}

func sortZones(zones []string) []string {
	slices.SortFunc(zones, func(a, b string) int {
		x, _ := strconv.Atoi(a)
		y, _ := strconv.Atoi(b)
		return x - y
	})
	return zones
}

const (
	eventBacklog  = 16
	notifyTimeout = 30 * time.Second
)

// notify queues event for the Notifier. It never blocks: if the backlog is full, the event is dropped.
func (p *Poller) notify(event Event) {
	if p.notifier == nil {
		return
	}
	p.startNotifier.Do(func() { go p.deliver() })
	select {
	case p.events <- event:
	default:
		p.logger.Warn("notification backlog full. dropping event", slog.Any("event", event))
	}
}

func (p *Poller) deliver() {
	for event := range p.events {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		p.notifier.Notify(ctx, event)
		cancel()
	}
}
