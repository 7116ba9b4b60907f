// Package ezone implements a client for the local HTTP/XML API of an eZone zoned aircon controller.
//
// Reads are retried on connection-level failures; writes are sent exactly once, since repeating a command
// whose outcome is unknown may move a damper twice.
package ezone

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/clambin/ezone-monitor/pkg/ezone/xmlnode"
)

// Values used by the controller for on/off flags.
const (
	On  = "1"
	Off = "0"
)

const (
	// DefaultRetries is the number of attempts for a read operation.
	DefaultRetries = 5
	// DefaultBackoff is the pause between two attempts of a read operation.
	DefaultBackoff = time.Second
)

// Client talks to a single eZone controller.
type Client struct {
	transport  Transport
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the http.Client used by the default transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(transport Transport) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithRetries sets the number of attempts for read operations.
func WithRetries(retries int) Option {
	return func(c *Client) {
		if retries > 0 {
			c.retries = retries
		}
	}
}

// WithBackoff sets the pause between two attempts of a read operation.
func WithBackoff(backoff time.Duration) Option {
	return func(c *Client) {
		c.backoff = backoff
	}
}

// WithLogger sets the logger. By default, the client does not log.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New returns a Client for the controller at host:port.
func New(host string, port int, options ...Option) *Client {
	c := Client{
		retries: DefaultRetries,
		backoff: DefaultBackoff,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(&c)
	}
	if c.transport == nil {
		if port == 0 {
			port = DefaultPort
		}
		c.transport = NewHTTPTransport(host, port, c.httpClient)
	}
	return &c
}

// GetSystemData returns the controller-wide state.
func (c *Client) GetSystemData(ctx context.Context) (System, error) {
	n, err := c.read(ctx, "/getSystemData", nil)
	if err != nil {
		return System{}, &APIError{Op: "getSystemData", Err: err}
	}
	system, err := ParseSystem(n)
	if err != nil {
		return System{}, &APIError{Op: "getSystemData", Err: &MalformedResponseError{Err: err}}
	}
	return system, nil
}

// GetZoneData returns the state of a zone. Zones are numbered from 1.
func (c *Client) GetZoneData(ctx context.Context, zone int) (Zone, error) {
	if zone < 1 {
		return Zone{}, &APIError{Op: "getZoneData", Zone: zone, Err: ErrInvalidArgument}
	}
	n, err := c.read(ctx, "/getZoneData", url.Values{"zone": {strconv.Itoa(zone)}})
	if err != nil {
		return Zone{}, &APIError{Op: "getZoneData", Zone: zone, Err: err}
	}
	z, err := ParseZone(n, zone)
	if err != nil {
		return Zone{}, &APIError{Op: "getZoneData", Zone: zone, Err: &MalformedResponseError{Err: err}}
	}
	return z, nil
}

// GetZoneTimer returns the raw timer schedule.
func (c *Client) GetZoneTimer(ctx context.Context) (xmlnode.Node, error) {
	n, err := c.read(ctx, "/getZoneTimer", nil)
	if err != nil {
		return nil, &APIError{Op: "getZoneTimer", Err: err}
	}
	return n, nil
}

// GetAllData returns the system state and the state of each zone the controller reports.
// Zones are fetched one at a time, in order. A zone that cannot be read is left out of the result:
// only a failure to read the system state fails the call.
func (c *Client) GetAllData(ctx context.Context) (AllData, error) {
	system, err := c.GetSystemData(ctx)
	if err != nil {
		return AllData{}, &APIError{Op: "getAllData", Err: err}
	}

	data := AllData{
		System: system,
		Zones:  make(map[string]Zone, system.NumberOfZones),
	}
	for zone := 1; zone <= system.NumberOfZones; zone++ {
		z, err := c.GetZoneData(ctx, zone)
		if err != nil {
			if ctx.Err() != nil {
				return AllData{}, &APIError{Op: "getAllData", Err: ctx.Err()}
			}
			c.logger.Warn("zone not responding. skipping", "zone", zone, "err", err)
			continue
		}
		data.Zones[strconv.Itoa(zone)] = z
	}
	return data, nil
}

func (c *Client) read(ctx context.Context, path string, params url.Values) (xmlnode.Node, error) {
	attempt := 0
	return runWithRetry(ctx, c.retries, c.backoff, func(ctx context.Context) result[xmlnode.Node] {
		attempt++
		body, err := c.transport.Get(ctx, path, params)
		if err != nil {
			c.logger.Debug("request failed", "path", path, "attempt", attempt, "err", err)
			return classify[xmlnode.Node](ctx, nil, err)
		}
		n, err := xmlnode.Parse(body)
		if err != nil {
			return fatal[xmlnode.Node](err)
		}
		return ok(n)
	})
}

func (c *Client) write(ctx context.Context, op string, zone int, path string, params url.Values) (string, error) {
	body, err := c.transport.Get(ctx, path, params)
	if err != nil {
		return "", &APIError{Op: op, Zone: zone, Err: err}
	}
	c.logger.Debug("command sent", "path", path, "params", params.Encode())
	return body, nil
}
