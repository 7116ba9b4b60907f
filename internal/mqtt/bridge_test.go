package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/clambin/ezone-monitor/internal/poller"
	"github.com/clambin/ezone-monitor/pkg/ezone"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	err error
}

func (f fakeToken) Wait() bool                     { return true }
func (f fakeToken) WaitTimeout(time.Duration) bool { return true }
func (f fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (f fakeToken) Error() error { return f.err }

type fakeMessage struct {
	topic   string
	payload string
}

func (f fakeMessage) Duplicate() bool   { return false }
func (f fakeMessage) Qos() byte         { return 1 }
func (f fakeMessage) Retained() bool    { return false }
func (f fakeMessage) Topic() string     { return f.topic }
func (f fakeMessage) MessageID() uint16 { return 0 }
func (f fakeMessage) Payload() []byte   { return []byte(f.payload) }
func (f fakeMessage) Ack()              {}

type fakeClient struct {
	lock         sync.Mutex
	published    map[string][]byte
	handlers     map[string]paho.MessageHandler
	subscribeErr error
}

func (f *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) paho.Token {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.published == nil {
		f.published = make(map[string][]byte)
	}
	f.published[topic] = payload.([]byte)
	return fakeToken{}
}

func (f *fakeClient) Subscribe(topic string, _ byte, callback paho.MessageHandler) paho.Token {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.handlers == nil {
		f.handlers = make(map[string]paho.MessageHandler)
	}
	f.handlers[topic] = callback
	return fakeToken{err: f.subscribeErr}
}

func (f *fakeClient) get(topic string) ([]byte, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	payload, ok := f.published[topic]
	return payload, ok
}

func (f *fakeClient) handler(topic string) paho.MessageHandler {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.handlers[topic]
}

type fakePoller struct {
	ch        chan poller.Snapshot
	lock      sync.Mutex
	calls     []string
	refreshed int
	err       error
}

func (f *fakePoller) Subscribe() <-chan poller.Snapshot  { return f.ch }
func (f *fakePoller) Unsubscribe(<-chan poller.Snapshot) {}
func (f *fakePoller) RequestRefresh() {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.refreshed++
}

func (f *fakePoller) record(call string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakePoller) SetAirconOnOff(_ context.Context, on bool) error {
	return f.record("power:" + map[bool]string{true: "on", false: "off"}[on])
}
func (f *fakePoller) SetHVACMode(_ context.Context, mode string) error {
	return f.record("mode:" + mode)
}
func (f *fakePoller) SetFanSpeed(_ context.Context, speed ezone.FanSpeed) error {
	return f.record("fan:" + speed.String())
}
func (f *fakePoller) SetTargetTemperature(_ context.Context, temperature float64) error {
	return f.record("temperature:" + strconv.FormatFloat(temperature, 'f', -1, 64))
}
func (f *fakePoller) SetZoneOpen(_ context.Context, zone int, open bool) error {
	return f.record("open:" + strconv.Itoa(zone) + ":" + map[bool]string{true: "on", false: "off"}[open])
}
func (f *fakePoller) SetZonePosition(_ context.Context, zone int, position int) error {
	return f.record("position:" + strconv.Itoa(zone) + ":" + strconv.Itoa(position))
}
func (f *fakePoller) SetZoneName(_ context.Context, zone int, name string) error {
	return f.record("name:" + strconv.Itoa(zone) + ":" + name)
}

func TestBridge_Run(t *testing.T) {
	c := fakeClient{}
	p := fakePoller{ch: make(chan poller.Snapshot)}
	b := New(&c, &p, "ezone/", slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error)
	go func() { errCh <- b.Run(ctx) }()

	p.ch <- poller.Snapshot{
		System: ezone.System{Name: "Home", AirconOn: true, NumberOfZones: 2},
		Zones: map[string]ezone.Zone{
			"1": {ID: 1, Name: "Living", Setting: true, UserPercentSetting: 80},
			"2": {ID: 2, Name: "Bed 1"},
		},
	}

	assert.Eventually(t, func() bool {
		_, ok := c.get("ezone/zone/2/state")
		return ok
	}, time.Second, time.Millisecond)

	payload, ok := c.get("ezone/state")
	require.True(t, ok)
	var snapshot poller.Snapshot
	require.NoError(t, json.Unmarshal(payload, &snapshot))
	assert.Equal(t, "Home", snapshot.System.Name)
	assert.Len(t, snapshot.Zones, 2)

	payload, ok = c.get("ezone/zone/1/state")
	require.True(t, ok)
	var zone ezone.Zone
	require.NoError(t, json.Unmarshal(payload, &zone))
	assert.Equal(t, "Living", zone.Name)

	assert.NotNil(t, c.handler("ezone/set/#"))
	assert.NotNil(t, c.handler("ezone/refresh"))

	cancel()
	assert.NoError(t, <-errCh)
}

func TestBridge_Run_SubscribeFails(t *testing.T) {
	c := fakeClient{subscribeErr: errors.New("not authorized")}
	b := New(&c, &fakePoller{}, "ezone", slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, b.Run(t.Context()), "not authorized")
}

func TestBridge_onMessage(t *testing.T) {
	tests := []struct {
		topic   string
		payload string
		want    []string
	}{
		{topic: "ezone/set/power", payload: "ON", want: []string{"power:on"}},
		{topic: "ezone/set/power", payload: "off", want: []string{"power:off"}},
		{topic: "ezone/set/power", payload: "maybe"},
		{topic: "ezone/set/mode", payload: "heat", want: []string{"mode:heat"}},
		{topic: "ezone/set/fan", payload: "high", want: []string{"fan:high"}},
		{topic: "ezone/set/fan", payload: "turbo"},
		{topic: "ezone/set/temperature", payload: "21.5", want: []string{"temperature:21.5"}},
		{topic: "ezone/set/temperature", payload: "warm"},
		{topic: "ezone/set/zone/2/open", payload: "true", want: []string{"open:2:on"}},
		{topic: "ezone/set/zone/2/position", payload: " 40 ", want: []string{"position:2:40"}},
		{topic: "ezone/set/zone/2/position", payload: "half"},
		{topic: "ezone/set/zone/3/name", payload: "Guest room", want: []string{"name:3:Guest room"}},
		{topic: "ezone/set/zone/x/name", payload: "Guest room"},
		{topic: "ezone/set/zone/3/colour", payload: "red"},
		{topic: "ezone/set/swing", payload: "on"},
	}

	for _, tt := range tests {
		t.Run(tt.topic+"="+tt.payload, func(t *testing.T) {
			t.Parallel()
			p := fakePoller{}
			b := New(&fakeClient{}, &p, "ezone", slog.New(slog.DiscardHandler))
			b.onMessage(t.Context())(nil, fakeMessage{topic: tt.topic, payload: tt.payload})
			assert.Equal(t, tt.want, p.calls)
		})
	}
}

func TestBridge_onMessage_Refresh(t *testing.T) {
	p := fakePoller{}
	b := New(&fakeClient{}, &p, "ezone", slog.New(slog.DiscardHandler))
	b.onMessage(t.Context())(nil, fakeMessage{topic: "ezone/refresh"})
	assert.Equal(t, 1, p.refreshed)
}

func TestBridge_handle_CommandFails(t *testing.T) {
	p := fakePoller{err: errors.New("controller not responding")}
	b := New(&fakeClient{}, &p, "ezone", slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, b.handle(t.Context(), "set/power", "on"), "controller not responding")
}
