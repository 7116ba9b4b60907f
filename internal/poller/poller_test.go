package poller_test

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clambin/ezone-monitor/internal/poller"
	"github.com/clambin/ezone-monitor/internal/poller/mocks"
	"github.com/clambin/ezone-monitor/pkg/ezone"
	"github.com/clambin/ezone-monitor/pkg/ezone/xmlnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func allData(on bool, zones ...int) ezone.AllData {
	data := ezone.AllData{
		System: ezone.System{Name: "Home", AirconOn: on, Mode: ezone.ModeCool, FanSpeed: ezone.FanSpeedLow, NumberOfZones: len(zones)},
		Zones:  make(map[string]ezone.Zone),
	}
	for _, zone := range zones {
		data.Zones[strconv.Itoa(zone)] = ezone.Zone{ID: zone, Name: "Zone " + strconv.Itoa(zone), Setting: true, UserPercentSetting: 100}
	}
	return data
}

type fakeNotifier struct {
	events []poller.Event
	lock   sync.Mutex
}

func (f *fakeNotifier) Notify(_ context.Context, event poller.Event) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeNotifier) Events() []poller.Event {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]poller.Event(nil), f.events...)
}

func TestPoller_Refresh(t *testing.T) {
	c := mocks.NewClient(t)
	c.EXPECT().GetAllData(mock.Anything).Return(allData(true, 1, 2), nil).Once()

	p := poller.New(c, time.Minute, slog.New(slog.DiscardHandler), poller.WithAliases(map[int]string{2: "Study"}))
	ch := p.Subscribe()

	_, ok := p.Snapshot()
	assert.False(t, ok)
	state, _ := p.State()
	assert.Equal(t, poller.StateUnknown, state)

	snapshot, err := p.Refresh(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, snapshot.ZoneIDs())
	zone, ok := snapshot.Zone(2)
	require.True(t, ok)
	assert.Equal(t, "Study", zone.Label())
	assert.False(t, snapshot.Timestamp.IsZero())

	assert.Equal(t, snapshot, <-ch)
	current, ok := p.Snapshot()
	assert.True(t, ok)
	assert.Equal(t, snapshot, current)
	state, _ = p.State()
	assert.Equal(t, poller.StateFresh, state)
}

func TestPoller_Refresh_FirstFailure(t *testing.T) {
	c := mocks.NewClient(t)
	errUnreachable := &ezone.ExhaustedRetriesError{Attempts: 5, LastErr: errors.New("connection refused")}
	c.EXPECT().GetAllData(mock.Anything).Return(ezone.AllData{}, errUnreachable).Once()

	p := poller.New(c, time.Minute, slog.New(slog.DiscardHandler))
	_, err := p.Refresh(t.Context())
	assert.ErrorIs(t, err, errUnreachable)

	_, ok := p.Snapshot()
	assert.False(t, ok)
	state, lastErr := p.State()
	assert.Equal(t, poller.StateFailed, state)
	assert.ErrorIs(t, lastErr, errUnreachable)
}

func TestPoller_Refresh_KeepsLastSnapshot(t *testing.T) {
	c := mocks.NewClient(t)
	errUnreachable := errors.New("controller unreachable")
	c.EXPECT().GetAllData(mock.Anything).Return(allData(true, 1), nil).Once()
	c.EXPECT().GetAllData(mock.Anything).Return(ezone.AllData{}, errUnreachable).Twice()
	c.EXPECT().GetAllData(mock.Anything).Return(allData(false, 1), nil).Once()

	n := fakeNotifier{}
	p := poller.New(c, time.Minute, slog.New(slog.DiscardHandler), poller.WithNotifier(&n))

	good, err := p.Refresh(t.Context())
	require.NoError(t, err)

	for range 2 {
		snapshot, err := p.Refresh(t.Context())
		assert.ErrorIs(t, err, errUnreachable)
		assert.Equal(t, good, snapshot)
		current, ok := p.Snapshot()
		assert.True(t, ok)
		assert.Equal(t, good, current)
	}

	recovered, err := p.Refresh(t.Context())
	require.NoError(t, err)
	assert.False(t, recovered.System.AirconOn)

	assert.Eventually(t, func() bool { return len(n.Events()) == 2 }, time.Second, time.Millisecond)
	events := n.Events()
	require.Len(t, events, 2)
	assert.Equal(t, poller.EventRefreshFailed, events[0].Type)
	assert.Equal(t, "controller not responding: controller unreachable", events[0].String())
	assert.Equal(t, poller.EventRecovered, events[1].Type)
}

func TestPoller_Refresh_MissingZones(t *testing.T) {
	c := mocks.NewClient(t)
	partial := allData(true, 1, 2, 3, 4, 5)
	delete(partial.Zones, "3")
	c.EXPECT().GetAllData(mock.Anything).Return(partial, nil).Twice()
	c.EXPECT().GetAllData(mock.Anything).Return(allData(true, 1, 2, 3, 4, 5), nil).Once()

	n := fakeNotifier{}
	p := poller.New(c, time.Minute, slog.New(slog.DiscardHandler), poller.WithNotifier(&n))

	snapshot, err := p.Refresh(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4, 5}, snapshot.ZoneIDs())

	_, err = p.Refresh(t.Context())
	require.NoError(t, err)
	_, err = p.Refresh(t.Context())
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(n.Events()) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []poller.Event{
		{Type: poller.EventZonesMissing, Zones: []string{"3"}},
		{Type: poller.EventZonesRecovered, Zones: []string{"3"}},
	}, n.Events())
}

type blockingNotifier struct {
	release chan struct{}
	calls   atomic.Int32
}

func (b *blockingNotifier) Notify(ctx context.Context, _ poller.Event) {
	b.calls.Add(1)
	select {
	case <-ctx.Done():
	case <-b.release:
	}
}

func TestPoller_Refresh_SlowNotifier(t *testing.T) {
	c := mocks.NewClient(t)
	c.EXPECT().GetAllData(mock.Anything).Return(ezone.AllData{}, errors.New("controller unreachable")).Once()
	c.EXPECT().GetAllData(mock.Anything).Return(allData(true, 1), nil).Once()

	n := blockingNotifier{release: make(chan struct{})}
	t.Cleanup(func() { close(n.release) })
	p := poller.New(c, time.Minute, slog.New(slog.DiscardHandler), poller.WithNotifier(&n))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := p.Refresh(t.Context())
		assert.Error(t, err)
		_, err = p.Refresh(t.Context())
		assert.NoError(t, err)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresh blocked by notifier")
	}
	assert.Eventually(t, func() bool { return n.calls.Load() == 1 }, time.Second, time.Millisecond)
}

func TestPoller_Refresh_SingleFlight(t *testing.T) {
	c := mocks.NewClient(t)
	release := make(chan struct{})
	var calls atomic.Int32
	c.EXPECT().GetAllData(mock.Anything).RunAndReturn(func(context.Context) (ezone.AllData, error) {
		calls.Add(1)
		<-release
		return allData(true, 1), nil
	}).Once()

	p := poller.New(c, time.Minute, slog.New(slog.DiscardHandler))

	const callers = 5
	var wg sync.WaitGroup
	wg.Add(callers)
	for range callers {
		go func() {
			defer wg.Done()
			snapshot, err := p.Refresh(t.Context())
			assert.NoError(t, err)
			assert.Len(t, snapshot.Zones, 1)
		}()
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	// give the other callers time to join the refresh in progress
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestPoller_Refresh_OlderRoundDoesNotOverwrite(t *testing.T) {
	c := mocks.NewClient(t)
	started := make(chan struct{})
	release := make(chan struct{})
	c.EXPECT().GetAllData(mock.Anything).RunAndReturn(func(context.Context) (ezone.AllData, error) {
		close(started)
		<-release
		return allData(true, 1), nil
	}).Once()
	c.EXPECT().SetSystemData(mock.Anything, ezone.SystemSettings{AirconOn: ezone.VarP(false)}).Return("", nil).Once()
	c.EXPECT().GetAllData(mock.Anything).Return(allData(false, 1), nil).Once()

	p := poller.New(c, time.Minute, slog.New(slog.DiscardHandler))

	done := make(chan poller.Snapshot)
	go func() {
		snapshot, _ := p.Refresh(t.Context())
		done <- snapshot
	}()
	<-started

	require.NoError(t, p.SetAirconOnOff(t.Context(), false))
	current, _ := p.Snapshot()
	assert.False(t, current.System.AirconOn)

	close(release)
	late := <-done
	assert.False(t, late.System.AirconOn)
	current, _ = p.Snapshot()
	assert.False(t, current.System.AirconOn)
}

func TestPoller_Commands(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(c *mocks.Client)
		command func(ctx context.Context, p *poller.Poller) error
	}{
		{
			name: "aircon on",
			setup: func(c *mocks.Client) {
				c.EXPECT().SetSystemData(mock.Anything, ezone.SystemSettings{AirconOn: ezone.VarP(true)}).Return("", nil).Once()
			},
			command: func(ctx context.Context, p *poller.Poller) error { return p.SetAirconOnOff(ctx, true) },
		},
		{
			name: "mode",
			setup: func(c *mocks.Client) {
				c.EXPECT().SetSystemData(mock.Anything, ezone.SystemSettings{Mode: ezone.VarP(ezone.ModeHeat)}).Return("", nil).Once()
			},
			command: func(ctx context.Context, p *poller.Poller) error { return p.SetMode(ctx, ezone.ModeHeat) },
		},
		{
			name: "fan speed",
			setup: func(c *mocks.Client) {
				c.EXPECT().SetSystemData(mock.Anything, ezone.SystemSettings{FanSpeed: ezone.VarP(ezone.FanSpeedHigh)}).Return("", nil).Once()
			},
			command: func(ctx context.Context, p *poller.Poller) error { return p.SetFanSpeed(ctx, ezone.FanSpeedHigh) },
		},
		{
			name: "target temperature",
			setup: func(c *mocks.Client) {
				c.EXPECT().SetSystemData(mock.Anything, ezone.SystemSettings{CentralDesiredTemp: ezone.VarP(21.5)}).Return("", nil).Once()
			},
			command: func(ctx context.Context, p *poller.Poller) error { return p.SetTargetTemperature(ctx, 21.5) },
		},
		{
			name: "hvac mode off",
			setup: func(c *mocks.Client) {
				c.EXPECT().SetSystemData(mock.Anything, ezone.SystemSettings{AirconOn: ezone.VarP(false)}).Return("", nil).Once()
			},
			command: func(ctx context.Context, p *poller.Poller) error { return p.SetHVACMode(ctx, "off") },
		},
		{
			name: "hvac mode heat",
			setup: func(c *mocks.Client) {
				c.EXPECT().SetSystemData(mock.Anything, ezone.SystemSettings{AirconOn: ezone.VarP(true), Mode: ezone.VarP(ezone.ModeHeat)}).Return("", nil).Once()
			},
			command: func(ctx context.Context, p *poller.Poller) error { return p.SetHVACMode(ctx, "heat") },
		},
		{
			name: "zone open",
			setup: func(c *mocks.Client) {
				c.EXPECT().SetZoneData(mock.Anything, 2, ezone.ZoneSettings{Open: ezone.VarP(true)}).Return("", nil).Once()
			},
			command: func(ctx context.Context, p *poller.Poller) error { return p.SetZoneOpen(ctx, 2, true) },
		},
		{
			name: "zone percent",
			setup: func(c *mocks.Client) {
				c.EXPECT().SetZoneData(mock.Anything, 2, ezone.ZoneSettings{Open: ezone.VarP(true), Percent: ezone.VarP(50)}).Return("", nil).Once()
			},
			command: func(ctx context.Context, p *poller.Poller) error { return p.SetZonePercent(ctx, 2, 50) },
		},
		{
			name: "zone position 0 closes",
			setup: func(c *mocks.Client) {
				c.EXPECT().SetZoneData(mock.Anything, 2, ezone.ZoneSettings{Open: ezone.VarP(false)}).Return("", nil).Once()
			},
			command: func(ctx context.Context, p *poller.Poller) error { return p.SetZonePosition(ctx, 2, 0) },
		},
		{
			name: "zone position",
			setup: func(c *mocks.Client) {
				c.EXPECT().SetZoneData(mock.Anything, 2, ezone.ZoneSettings{Open: ezone.VarP(true), Percent: ezone.VarP(30)}).Return("", nil).Once()
			},
			command: func(ctx context.Context, p *poller.Poller) error { return p.SetZonePosition(ctx, 2, 30) },
		},
		{
			name: "zone name",
			setup: func(c *mocks.Client) {
				c.EXPECT().SetZoneData(mock.Anything, 1, ezone.ZoneSettings{Name: ezone.VarP("Lounge")}).Return("", nil).Once()
			},
			command: func(ctx context.Context, p *poller.Poller) error { return p.SetZoneName(ctx, 1, "Lounge") },
		},
		{
			name: "system name",
			setup: func(c *mocks.Client) {
				c.EXPECT().ChangeSystemName(mock.Anything, "Beach House").Return("", nil).Once()
			},
			command: func(ctx context.Context, p *poller.Poller) error { return p.SetSystemName(ctx, "Beach House") },
		},
		{
			name: "zone timer",
			setup: func(c *mocks.Client) {
				c.EXPECT().SetZoneTimer(mock.Anything, ezone.ZoneTimer{ScheduleStatus: 1}).Return("", nil).Once()
			},
			command: func(ctx context.Context, p *poller.Poller) error {
				return p.SetZoneTimer(ctx, ezone.ZoneTimer{ScheduleStatus: 1})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := mocks.NewClient(t)
			tt.setup(c)
			// every command is followed by exactly one refresh
			c.EXPECT().GetAllData(mock.Anything).Return(allData(true, 1, 2), nil).Once()

			p := poller.New(c, time.Minute, slog.New(slog.DiscardHandler))
			require.NoError(t, tt.command(t.Context(), p))
			_, ok := p.Snapshot()
			assert.True(t, ok)
		})
	}
}

func TestPoller_Command_Failure(t *testing.T) {
	c := mocks.NewClient(t)
	errWrite := &ezone.TransportError{Path: "/setZoneData", StatusCode: 500}
	c.EXPECT().SetZoneData(mock.Anything, 1, ezone.ZoneSettings{Open: ezone.VarP(false)}).Return("", errWrite).Once()

	p := poller.New(c, time.Minute, slog.New(slog.DiscardHandler))
	err := p.SetZoneOpen(t.Context(), 1, false)
	assert.ErrorIs(t, err, errWrite)
	// no refresh after a failed command
	c.AssertNotCalled(t, "GetAllData", mock.Anything)
}

func TestPoller_Command_RefreshFails(t *testing.T) {
	c := mocks.NewClient(t)
	c.EXPECT().SetZoneData(mock.Anything, 1, ezone.ZoneSettings{Open: ezone.VarP(false)}).Return("", nil).Once()
	c.EXPECT().GetAllData(mock.Anything).Return(ezone.AllData{}, errors.New("timeout")).Once()

	p := poller.New(c, time.Minute, slog.New(slog.DiscardHandler))
	assert.NoError(t, p.SetZoneOpen(t.Context(), 1, false))
	state, _ := p.State()
	assert.Equal(t, poller.StateFailed, state)
}

func TestPoller_SetHVACMode_Invalid(t *testing.T) {
	p := poller.New(mocks.NewClient(t), time.Minute, slog.New(slog.DiscardHandler))
	assert.ErrorIs(t, p.SetHVACMode(t.Context(), "dry"), ezone.ErrInvalidArgument)
}

func TestPoller_ZoneTimer(t *testing.T) {
	c := mocks.NewClient(t)
	timer, err := xmlnode.Parse(`<iZS10.3><zoneTimer><scheduleStatus>1</scheduleStatus></zoneTimer></iZS10.3>`)
	require.NoError(t, err)
	c.EXPECT().GetZoneTimer(mock.Anything).Return(timer, nil).Once()

	p := poller.New(c, time.Minute, slog.New(slog.DiscardHandler))
	got, err := p.ZoneTimer(t.Context())
	require.NoError(t, err)
	status, _ := xmlnode.Text(got, "zoneTimer", "scheduleStatus")
	assert.Equal(t, "1", status)
}

func TestPoller_Run(t *testing.T) {
	c := mocks.NewClient(t)
	c.EXPECT().GetAllData(mock.Anything).Return(allData(true, 1), nil).Once()
	c.EXPECT().GetAllData(mock.Anything).Return(allData(false, 1), nil).Once()

	p := poller.New(c, time.Hour, slog.New(slog.DiscardHandler))
	ch := p.Subscribe()
	defer p.Unsubscribe(ch)

	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error)
	go func() { errCh <- p.Run(ctx) }()

	snapshot := <-ch
	assert.True(t, snapshot.System.AirconOn)

	p.RequestRefresh()
	snapshot = <-ch
	assert.False(t, snapshot.System.AirconOn)

	cancel()
	assert.NoError(t, <-errCh)
}

func TestSnapshot_LookupZone(t *testing.T) {
	snapshot := poller.Snapshot{Zones: map[string]ezone.Zone{
		"1": {ID: 1, Name: "Living"},
		"2": {ID: 2, Name: "Bed 1", Alias: "Master"},
	}}

	for _, name := range []string{"2", "master", "Bed 1"} {
		zone, ok := snapshot.LookupZone(name)
		assert.True(t, ok, name)
		assert.Equal(t, 2, zone.ID, name)
	}
	_, ok := snapshot.LookupZone("garage")
	assert.False(t, ok)
}
